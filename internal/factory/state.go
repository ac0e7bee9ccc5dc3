package factory

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

// State is the factory's persistent aggregate: everything that must survive
// an upgrade of the orchestrator logic. It is mutated only through factory
// entry points, one call at a time.
type State struct {
	Owner   common.Address
	Address common.Address // the factory's own address, part of every derived address

	Fees      *FeeLedger
	Templates *Registry
	Codes     *token.CodeStore

	Symbols      map[string]bool // write-once, never cleared
	CreatorIndex map[common.Address][]common.Address
	Instances    map[common.Address]*token.Token

	TokensCreated uint64
}

// DefaultServiceFee is 0.01 native units.
var DefaultServiceFee = uint256.NewInt(10_000_000_000_000_000)

// NewState builds a fresh aggregate owned by owner, with the three built-in
// templates deployed and registered. The owner is also the initial fee
// recipient.
func NewState(owner common.Address) *State {
	s := &State{
		Owner:        owner,
		Address:      factoryAddress(owner),
		Fees:         NewFeeLedger(DefaultServiceFee, owner),
		Templates:    NewRegistry(),
		Codes:        token.NewCodeStore(),
		Symbols:      make(map[string]bool),
		CreatorIndex: make(map[common.Address][]common.Address),
		Instances:    make(map[common.Address]*token.Token),
	}

	basic := s.Codes.Deploy(token.Features{})
	mintable := s.Codes.Deploy(token.Features{Mintable: true})
	full := s.Codes.Deploy(token.AllFeatures)

	// Built-in template entries are always well-formed; Add cannot fail here.
	s.Templates.Add(TemplateBasic, basic.Address, s.Codes)
	s.Templates.Add(TemplateMintable, mintable.Address, s.Codes)
	s.Templates.Add(TemplateFull, full.Address, s.Codes)
	return s
}

// factoryAddress derives the factory's own deployment address from its owner.
func factoryAddress(owner common.Address) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("tokenforge/factory/v1"), owner.Bytes())[12:])
}
