package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestCodeStore_DeployAssignsUniqueAddresses(t *testing.T) {
	s := NewCodeStore()

	a := s.Deploy(Features{})
	b := s.Deploy(Features{}) // same capabilities, new sequence number
	c := s.Deploy(AllFeatures)

	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.Address, c.Address)
	assert.Equal(t, a.CodeHash, b.CodeHash)
	assert.NotEqual(t, a.CodeHash, c.CodeHash)
	assert.Equal(t, uint64(3), s.Seq())

	for _, impl := range []Implementation{a, b, c} {
		assert.True(t, s.HasCode(impl.Address))
		got, ok := s.Get(impl.Address)
		assert.True(t, ok)
		assert.Equal(t, impl, got)
	}
	assert.False(t, s.HasCode(common.HexToAddress("0x99")))
	assert.Len(t, s.All(), 3)
}

func TestCodeStore_RestoreKeepsSequenceAhead(t *testing.T) {
	s := NewCodeStore()
	impl := s.Deploy(Features{Mintable: true})

	restored := NewCodeStore()
	restored.Restore(impl, s.Seq())

	assert.True(t, restored.HasCode(impl.Address))
	assert.Equal(t, s.Seq(), restored.Seq())

	// The next deployment must not collide with the restored entry.
	next := restored.Deploy(Features{Mintable: true})
	assert.NotEqual(t, impl.Address, next.Address)
}
