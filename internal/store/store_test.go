package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
)

var testOwner = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestDir_CreatesOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "state")
	got, err := Dir(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadState_MissingIsNotAnError(t *testing.T) {
	state, ok, err := LoadState(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, state)
}

func TestLoadState_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{nope"), 0o600))

	_, _, err := LoadState(dir)
	assert.Error(t, err)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	state := factory.NewState(testOwner)
	engine := factory.New(state, nil)
	creator := common.HexToAddress("0x1111111111111111111111111111111111111111")

	cfg := factory.Config{
		Name:         "Test Token",
		Symbol:       "TEST",
		TotalSupply:  uint256.NewInt(1_000_000),
		Decimals:     18,
		InitialOwner: creator,
		Mintable:     true,
	}
	rcpt, err := engine.CreateToken(creator, cfg, factory.DefaultServiceFee)
	require.NoError(t, err)
	require.NoError(t, engine.SetServiceFee(testOwner, uint256.NewInt(999)))

	require.NoError(t, SaveState(dir, state))

	restored, ok, err := LoadState(dir)
	require.NoError(t, err)
	require.True(t, ok)

	engine2 := factory.New(restored, nil)
	assert.Equal(t, state.Owner, restored.Owner)
	assert.Equal(t, state.Address, restored.Address)
	assert.Equal(t, uint256.NewInt(999), engine2.GetServiceFee())
	assert.Equal(t, factory.DefaultServiceFee, engine2.GetTotalFeesCollected())
	assert.Equal(t, uint64(1), engine2.GetTotalTokensCreated())
	assert.True(t, engine2.IsTokenDeployed("TEST"))
	assert.Equal(t, []common.Address{rcpt.Address}, engine2.GetTokensByCreator(creator))

	inst, found := engine2.GetToken(rcpt.Address)
	require.True(t, found)
	assert.Equal(t, "TEST", inst.Symbol())
	assert.True(t, inst.IsMintable())
	assert.Equal(t, uint256.NewInt(1_000_000), inst.BalanceOf(creator))

	// Determinism survives the roundtrip: the restored aggregate predicts the
	// same address the original deployed.
	predicted, err := engine2.PredictAddress(creator, cfg)
	require.NoError(t, err)
	assert.Equal(t, rcpt.Address, predicted)
}

func TestSaveLoad_SymbolGuardPersists(t *testing.T) {
	dir := t.TempDir()
	state := factory.NewState(testOwner)
	engine := factory.New(state, nil)
	creator := common.HexToAddress("0x1111111111111111111111111111111111111111")

	cfg := factory.Config{
		Name:         "Test Token",
		Symbol:       "DUPE",
		TotalSupply:  uint256.NewInt(100),
		Decimals:     18,
		InitialOwner: creator,
	}
	_, err := engine.CreateToken(creator, cfg, factory.DefaultServiceFee)
	require.NoError(t, err)
	require.NoError(t, SaveState(dir, state))

	restored, ok, err := LoadState(dir)
	require.NoError(t, err)
	require.True(t, ok)

	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	cfg.InitialOwner = other
	_, err = factory.New(restored, nil).CreateToken(other, cfg, factory.DefaultServiceFee)
	assert.ErrorIs(t, err, factory.ErrSymbolExists)
}
