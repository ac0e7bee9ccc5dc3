package factory

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/tokenforge/internal/events"
	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	creator1 = common.HexToAddress("0x1111111111111111111111111111111111111111")
	creator2 = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newFactory(t *testing.T) (*Factory, *events.Memory) {
	t.Helper()
	sink := &events.Memory{}
	return New(NewState(owner), sink), sink
}

func config(symbol string) Config {
	c := validTestConfig()
	c.Symbol = symbol
	return c
}

// snapshotBookkeeping captures the fields a failed deployment must not touch.
func snapshotBookkeeping(f *Factory) (created uint64, symbols int, instances int, collected *uint256.Int) {
	return f.state.TokensCreated, len(f.state.Symbols), len(f.state.Instances), f.state.Fees.TotalCollected()
}

func TestCreateToken_Succeeds(t *testing.T) {
	f, sink := newFactory(t)

	rcpt, err := f.CreateToken(creator1, config("TEST"), DefaultServiceFee)
	require.NoError(t, err)

	assert.NotEqual(t, common.Address{}, rcpt.Address)
	assert.Equal(t, TemplateBasic, rcpt.TemplateID)
	assert.Equal(t, DefaultServiceFee, rcpt.FeePaid)
	assert.True(t, rcpt.Refund.IsZero())

	inst, ok := f.GetToken(rcpt.Address)
	require.True(t, ok)
	assert.Equal(t, "Test Token", inst.Name())
	assert.Equal(t, "TEST", inst.Symbol())
	assert.Equal(t, uint256.NewInt(1_000_000), inst.BalanceOf(inst.Owner()))

	assert.True(t, f.IsTokenDeployed("TEST"))
	assert.Equal(t, uint64(1), f.GetTotalTokensCreated())
	assert.Equal(t, []common.Address{rcpt.Address}, f.GetTokensByCreator(creator1))

	created := sink.ByKind(events.KindTokenCreated)
	require.Len(t, created, 1)
	assert.Equal(t, rcpt.Address.Hex(), created[0].Fields["address"])
	assert.Equal(t, "TEST", created[0].Fields["symbol"])
}

func TestCreateToken_AutoSelectsTemplate(t *testing.T) {
	f, _ := newFactory(t)

	mintable := config("MINT")
	mintable.Mintable = true
	rcpt, err := f.CreateToken(creator1, mintable, DefaultServiceFee)
	require.NoError(t, err)
	assert.Equal(t, TemplateMintable, rcpt.TemplateID)

	full := config("FULL")
	full.Burnable = true
	full.Pausable = true
	rcpt, err = f.CreateToken(creator1, full, DefaultServiceFee)
	require.NoError(t, err)
	assert.Equal(t, TemplateFull, rcpt.TemplateID)

	inst, ok := f.GetToken(rcpt.Address)
	require.True(t, ok)
	assert.True(t, inst.IsBurnable())
	assert.True(t, inst.IsPausable())
	assert.False(t, inst.IsMintable())
}

func TestCreateToken_InvalidConfigRejected(t *testing.T) {
	f, _ := newFactory(t)

	bad := config("test") // lowercase
	_, err := f.CreateToken(creator1, bad, DefaultServiceFee)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCreateToken_SymbolUniqueAcrossCreators(t *testing.T) {
	f, _ := newFactory(t)

	_, err := f.CreateToken(creator1, config("DUPE"), DefaultServiceFee)
	require.NoError(t, err)

	_, err = f.CreateToken(creator2, config("DUPE"), DefaultServiceFee)
	assert.ErrorIs(t, err, ErrSymbolExists)
	assert.Equal(t, uint64(1), f.GetTotalTokensCreated())
}

func TestCreateToken_SymbolStaysTakenAfterTemplateRemoval(t *testing.T) {
	f, _ := newFactory(t)
	_, err := f.CreateToken(creator1, config("KEEP"), DefaultServiceFee)
	require.NoError(t, err)

	require.NoError(t, f.RemoveTemplate(owner, TemplateBasic))
	_, err = f.CreateToken(creator2, config("KEEP"), DefaultServiceFee)
	assert.ErrorIs(t, err, ErrSymbolExists)
}

func TestCreateToken_InsufficientFee(t *testing.T) {
	f, _ := newFactory(t)

	under := new(uint256.Int).Sub(DefaultServiceFee, uint256.NewInt(1))
	_, err := f.CreateToken(creator1, config("TEST"), under)
	assert.ErrorIs(t, err, ErrInsufficientFee)

	_, err = f.CreateToken(creator1, config("TEST"), nil)
	assert.ErrorIs(t, err, ErrInsufficientFee)
}

func TestCreateToken_ExactFeeCollectedAndExcessRefunded(t *testing.T) {
	f, _ := newFactory(t)

	over := new(uint256.Int).Add(DefaultServiceFee, uint256.NewInt(777))
	rcpt, err := f.CreateToken(creator1, config("TEST"), over)
	require.NoError(t, err)

	assert.Equal(t, DefaultServiceFee, rcpt.FeePaid)
	assert.Equal(t, uint256.NewInt(777), rcpt.Refund)
	assert.Equal(t, DefaultServiceFee, f.GetTotalFeesCollected())
	assert.Equal(t, DefaultServiceFee, f.NativeBalance(owner))
	assert.Equal(t, uint256.NewInt(777), f.NativeBalance(creator1))
}

func TestCreateToken_FeeReadAtCallTime(t *testing.T) {
	f, _ := newFactory(t)

	lowered := uint256.NewInt(5)
	require.NoError(t, f.SetServiceFee(owner, lowered))

	rcpt, err := f.CreateToken(creator1, config("TEST"), uint256.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, lowered, rcpt.FeePaid)
}

func TestCreateToken_FailureLeavesStateUntouched(t *testing.T) {
	f, sink := newFactory(t)
	_, err := f.CreateToken(creator1, config("OK"), DefaultServiceFee)
	require.NoError(t, err)

	created, symbols, instances, collected := snapshotBookkeeping(f)
	emitted := len(sink.Events)

	attempts := []func() error{
		func() error { // invalid configuration
			_, err := f.CreateToken(creator2, config(""), DefaultServiceFee)
			return err
		},
		func() error { // duplicate symbol
			_, err := f.CreateToken(creator2, config("OK"), DefaultServiceFee)
			return err
		},
		func() error { // unknown template
			_, err := f.CreateTokenWithTemplate(creator2, config("NEW"), "missing", DefaultServiceFee)
			return err
		},
		func() error { // fee too low
			_, err := f.CreateToken(creator2, config("NEW"), uint256.NewInt(1))
			return err
		},
	}
	for _, attempt := range attempts {
		require.Error(t, attempt())
	}

	gotCreated, gotSymbols, gotInstances, gotCollected := snapshotBookkeeping(f)
	assert.Equal(t, created, gotCreated)
	assert.Equal(t, symbols, gotSymbols)
	assert.Equal(t, instances, gotInstances)
	assert.Equal(t, collected, gotCollected)
	assert.Empty(t, f.GetTokensByCreator(creator2))
	assert.Len(t, sink.Events, emitted)
}

func TestCreateTokenWithTemplate_SupersetRequired(t *testing.T) {
	f, _ := newFactory(t)

	// basic cannot host a mintable configuration; nothing is downgraded.
	cfg := config("MINT")
	cfg.Mintable = true
	_, err := f.CreateTokenWithTemplate(creator1, cfg, TemplateBasic, DefaultServiceFee)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	// full covers any subset.
	rcpt, err := f.CreateTokenWithTemplate(creator1, cfg, TemplateFull, DefaultServiceFee)
	require.NoError(t, err)
	assert.Equal(t, TemplateFull, rcpt.TemplateID)
}

func TestCreateTokenWithTemplate_UnknownTemplate(t *testing.T) {
	f, _ := newFactory(t)
	_, err := f.CreateTokenWithTemplate(creator1, config("TEST"), "missing", DefaultServiceFee)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestPredictAddress_MatchesDeployment(t *testing.T) {
	f, _ := newFactory(t)
	cfg := config("TEST")

	predicted, err := f.PredictAddress(creator1, cfg)
	require.NoError(t, err)

	// Unrelated deployments in between must not shift the prediction.
	_, err = f.CreateToken(creator2, config("NOISE"), DefaultServiceFee)
	require.NoError(t, err)

	again, err := f.PredictAddress(creator1, cfg)
	require.NoError(t, err)
	assert.Equal(t, predicted, again)

	rcpt, err := f.CreateToken(creator1, cfg, DefaultServiceFee)
	require.NoError(t, err)
	assert.Equal(t, predicted, rcpt.Address)
}

func TestPredictAddress_DiffersPerCreatorAndConfig(t *testing.T) {
	f, _ := newFactory(t)
	cfg := config("TEST")

	a, err := f.PredictAddress(creator1, cfg)
	require.NoError(t, err)
	b, err := f.PredictAddress(creator2, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	other := cfg
	other.Name = "Other Token"
	c, err := f.PredictAddress(creator1, other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestPredictAddress_ValidatesConfig(t *testing.T) {
	f, _ := newFactory(t)
	_, err := f.PredictAddress(creator1, config(""))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestTemplateAdministration(t *testing.T) {
	f, sink := newFactory(t)

	assert.ElementsMatch(t, []string{TemplateBasic, TemplateMintable, TemplateFull}, f.GetAllTemplates())

	// Non-owner is rejected everywhere.
	_, err := f.DeployImplementation(creator1, token.Features{Burnable: true})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, f.AddTemplate(creator1, "burn", common.HexToAddress("0x01")), ErrNotOwner)
	assert.ErrorIs(t, f.RemoveTemplate(creator1, TemplateBasic), ErrNotOwner)

	impl, err := f.DeployImplementation(owner, token.Features{Burnable: true})
	require.NoError(t, err)
	require.NoError(t, f.AddTemplate(owner, "burn", impl.Address))

	assert.Equal(t, impl.Address, f.GetTemplate("burn"))
	assert.True(t, f.IsTemplateActive("burn"))
	require.Len(t, sink.ByKind(events.KindTemplateUpdated), 1)

	// Bad registrations never land.
	assert.ErrorIs(t, f.AddTemplate(owner, "", impl.Address), ErrInvalidConfiguration)
	assert.ErrorIs(t, f.AddTemplate(owner, "ghost", common.HexToAddress("0x99")), ErrInvalidConfiguration)

	require.NoError(t, f.RemoveTemplate(owner, "burn"))
	assert.Equal(t, common.Address{}, f.GetTemplate("burn"))
	assert.False(t, f.IsTemplateActive("burn"))
	assert.ErrorIs(t, f.RemoveTemplate(owner, "burn"), ErrTemplateNotFound)
}

func TestRemoveTemplate_OnlyAffectsFutureDeployments(t *testing.T) {
	f, _ := newFactory(t)

	rcpt, err := f.CreateToken(creator1, config("TEST"), DefaultServiceFee)
	require.NoError(t, err)

	require.NoError(t, f.RemoveTemplate(owner, TemplateBasic))

	// Future deployments against the removed template fail...
	_, err = f.CreateToken(creator2, config("NEW"), DefaultServiceFee)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	// ...but the existing instance keeps working.
	inst, ok := f.GetToken(rcpt.Address)
	require.True(t, ok)
	assert.NoError(t, inst.Transfer(inst.Owner(), creator2, uint256.NewInt(1)))
}

func TestFeeAdministration(t *testing.T) {
	f, sink := newFactory(t)

	assert.ErrorIs(t, f.SetServiceFee(creator1, uint256.NewInt(1)), ErrNotOwner)
	assert.ErrorIs(t, f.SetFeeRecipient(creator1, creator1), ErrNotOwner)

	over := new(uint256.Int).Add(MaxServiceFee, uint256.NewInt(1))
	assert.ErrorIs(t, f.SetServiceFee(owner, over), ErrInvalidConfiguration)
	assert.ErrorIs(t, f.SetFeeRecipient(owner, common.Address{}), ErrInvalidConfiguration)

	require.NoError(t, f.SetServiceFee(owner, uint256.NewInt(42)))
	require.NoError(t, f.SetFeeRecipient(owner, creator2))
	assert.Equal(t, uint256.NewInt(42), f.GetServiceFee())
	assert.Equal(t, creator2, f.GetFeeRecipient())
	assert.Len(t, sink.ByKind(events.KindFeeUpdated), 2)

	// Fees now land on the new recipient.
	_, err := f.CreateToken(creator1, config("TEST"), uint256.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(42), f.NativeBalance(creator2))
}

func TestCalculateDeploymentCost_MonotoneInFeatures(t *testing.T) {
	f, _ := newFactory(t)

	base, fee := f.CalculateDeploymentCost(config("TEST"))
	assert.Equal(t, uint64(costBase), base)
	assert.Equal(t, DefaultServiceFee, fee)

	cfg := config("TEST")
	cfg.Mintable = true
	one, _ := f.CalculateDeploymentCost(cfg)
	assert.Equal(t, uint64(costBase+costPerFeature), one)

	cfg.Burnable = true
	cfg.Pausable = true
	cfg.Capped = true
	all, _ := f.CalculateDeploymentCost(cfg)
	assert.Equal(t, uint64(costBase+4*costPerFeature), all)
}

func TestCreateToken_CappedAtDeploymentCap(t *testing.T) {
	f, _ := newFactory(t)

	cfg := config("CAP")
	cfg.Mintable = true
	cfg.Capped = true
	cfg.MaxSupply = uint256.NewInt(1_000_000) // equals total supply

	rcpt, err := f.CreateToken(creator1, cfg, DefaultServiceFee)
	require.NoError(t, err)

	inst, ok := f.GetToken(rcpt.Address)
	require.True(t, ok)

	// Already at the cap: the amount check fires before the cap check.
	assert.ErrorIs(t, inst.Mint(inst.Owner(), creator1, uint256.NewInt(0)), token.ErrInvalidAmount)
	assert.ErrorIs(t, inst.Mint(inst.Owner(), creator1, uint256.NewInt(1)), token.ErrExceedsMaxSupply)
}

func TestNilSink_Discards(t *testing.T) {
	f := New(NewState(owner), nil)
	_, err := f.CreateToken(creator1, config("TEST"), DefaultServiceFee)
	assert.NoError(t, err)
}
