package token

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// CodeStore is the arena of deployed implementation code. Templates and the
// upgrade controller both check against it before trusting an address:
// an address without code here is not a valid delegate target.
type CodeStore struct {
	byAddr map[common.Address]Implementation
	seq    uint64
}

// NewCodeStore returns an empty store.
func NewCodeStore() *CodeStore {
	return &CodeStore{byAddr: make(map[common.Address]Implementation)}
}

// Deploy places new implementation code with the given capability set and
// returns its identity. The address is derived from the code hash and a
// deployment sequence number, like any contract creation.
func (s *CodeStore) Deploy(caps Features) Implementation {
	s.seq++
	codeHash := crypto.Keccak256Hash([]byte("tokenforge/delegate/v1"), []byte{caps.Byte()})

	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], s.seq)
	addr := common.BytesToAddress(crypto.Keccak256(codeHash.Bytes(), seq[:])[12:])

	impl := Implementation{Address: addr, CodeHash: codeHash, Capabilities: caps}
	s.byAddr[addr] = impl
	return impl
}

// Restore re-registers a previously deployed implementation, keeping the
// sequence counter ahead of every restored entry.
func (s *CodeStore) Restore(impl Implementation, seq uint64) {
	s.byAddr[impl.Address] = impl
	if seq > s.seq {
		s.seq = seq
	}
}

// HasCode reports whether executable code exists at addr.
func (s *CodeStore) HasCode(addr common.Address) bool {
	_, ok := s.byAddr[addr]
	return ok
}

// Get returns the implementation at addr.
func (s *CodeStore) Get(addr common.Address) (Implementation, bool) {
	impl, ok := s.byAddr[addr]
	return impl, ok
}

// Seq returns the current deployment sequence number.
func (s *CodeStore) Seq() uint64 { return s.seq }

// All returns every deployed implementation.
func (s *CodeStore) All() []Implementation {
	out := make([]Implementation, 0, len(s.byAddr))
	for _, impl := range s.byAddr {
		out = append(out, impl)
	}
	return out
}
