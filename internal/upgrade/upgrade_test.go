package upgrade

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
)

var (
	owner   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	creator = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func newController(t *testing.T) (*Controller, *factory.State) {
	t.Helper()
	state := factory.NewState(owner)
	return NewController(state, nil), state
}

func deploy(t *testing.T, f *factory.Factory, symbol string) common.Address {
	t.Helper()
	rcpt, err := f.CreateToken(creator, factory.Config{
		Name:         "Test Token",
		Symbol:       symbol,
		TotalSupply:  uint256.NewInt(1000),
		Decimals:     18,
		InitialOwner: creator,
	}, factory.DefaultServiceFee)
	require.NoError(t, err)
	return rcpt.Address
}

func TestNewController_StartsAtVersionOne(t *testing.T) {
	c, state := newController(t)

	assert.Equal(t, uint64(1), c.CurrentVersion().Number)
	assert.NotEqual(t, common.Hash{}, c.CurrentVersion().CodeHash)
	assert.Same(t, state, c.Current().State())
	assert.Len(t, c.History(), 1)
}

func TestUpgrade_OwnerOnly(t *testing.T) {
	c, _ := newController(t)
	_, err := c.Upgrade(creator)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, uint64(1), c.CurrentVersion().Number)
}

func TestUpgrade_PreservesState(t *testing.T) {
	c, state := newController(t)

	addr := deploy(t, c.Current(), "KEEP")
	require.NoError(t, c.Current().SetServiceFee(owner, uint256.NewInt(123)))

	v2, err := c.Upgrade(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v2.Number)
	assert.NotEqual(t, c.History()[0].CodeHash, v2.CodeHash)

	// Everything persistent reads back identically through the new logic.
	next := c.Current()
	assert.Same(t, state, next.State())
	assert.Equal(t, uint256.NewInt(123), next.GetServiceFee())
	assert.Equal(t, uint64(1), next.GetTotalTokensCreated())
	assert.True(t, next.IsTokenDeployed("KEEP"))

	inst, ok := next.GetToken(addr)
	require.True(t, ok)
	assert.Equal(t, uint256.NewInt(1000), inst.BalanceOf(creator))

	// And the new logic keeps deploying against the same bookkeeping.
	deploy(t, next, "MORE")
	assert.Equal(t, uint64(2), next.GetTotalTokensCreated())
}

func TestUpgrade_InstancesUnaffected(t *testing.T) {
	c, _ := newController(t)
	addr := deploy(t, c.Current(), "LIVE")

	before, _ := c.Current().GetToken(addr)
	_, err := c.Upgrade(owner)
	require.NoError(t, err)

	after, ok := c.Current().GetToken(addr)
	require.True(t, ok)
	assert.Same(t, before, after)
}

func TestRollback_ReturnsToPriorRevision(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Upgrade(owner)
	require.NoError(t, err)
	_, err = c.Upgrade(owner)
	require.NoError(t, err)
	require.Equal(t, uint64(3), c.CurrentVersion().Number)

	v1, err := c.Rollback(owner, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1.Number)
	assert.Equal(t, uint64(1), c.CurrentVersion().Number)

	// Rolling back does not rewrite history.
	assert.Len(t, c.History(), 3)
}

func TestRollback_Guards(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Rollback(creator, 1)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = c.Rollback(owner, 9)
	assert.ErrorIs(t, err, ErrNoSuchVersion)
}

func TestHistory_RecordsEveryRevisionOnce(t *testing.T) {
	c, _ := newController(t)
	_, err := c.Upgrade(owner)
	require.NoError(t, err)
	_, err = c.Rollback(owner, 1)
	require.NoError(t, err)
	_, err = c.Upgrade(owner)
	require.NoError(t, err)

	var numbers []uint64
	for _, v := range c.History() {
		numbers = append(numbers, v.Number)
	}
	assert.Equal(t, []uint64{1, 2}, numbers)
	assert.Equal(t, uint64(2), c.CurrentVersion().Number)
}
