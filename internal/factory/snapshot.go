package factory

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

// StateSnapshot is the JSON image of the persistent aggregate. It is what
// survives between invocations and across logic upgrades. Amounts are decimal
// strings.
type StateSnapshot struct {
	Owner   common.Address `json:"owner"`
	Address common.Address `json:"address"`

	ServiceFee    string            `json:"serviceFee"`
	FeeRecipient  common.Address    `json:"feeRecipient"`
	FeeBalances   map[string]string `json:"feeBalances,omitempty"`
	FeesCollected string            `json:"feesCollected"`

	Templates       []TemplateEntry        `json:"templates"`
	Implementations []token.Implementation `json:"implementations"`
	CodeSeq         uint64                 `json:"codeSeq"`

	Symbols      []string                    `json:"symbols,omitempty"`
	CreatorIndex map[string][]common.Address `json:"creatorIndex,omitempty"`
	Instances    map[string]token.Snapshot   `json:"instances,omitempty"`

	TokensCreated uint64 `json:"tokensCreated"`
}

// Snapshot captures the full aggregate.
func (s *State) Snapshot() StateSnapshot {
	snap := StateSnapshot{
		Owner:           s.Owner,
		Address:         s.Address,
		ServiceFee:      s.Fees.fee.Dec(),
		FeeRecipient:    s.Fees.recipient,
		FeesCollected:   s.Fees.collected.Dec(),
		Templates:       s.Templates.Entries(),
		Implementations: s.Codes.All(),
		CodeSeq:         s.Codes.Seq(),
		TokensCreated:   s.TokensCreated,
	}
	if len(s.Fees.balances) > 0 {
		snap.FeeBalances = make(map[string]string, len(s.Fees.balances))
		for addr, bal := range s.Fees.balances {
			snap.FeeBalances[addr.Hex()] = bal.Dec()
		}
	}
	for sym := range s.Symbols {
		snap.Symbols = append(snap.Symbols, sym)
	}
	sort.Strings(snap.Symbols)
	if len(s.CreatorIndex) > 0 {
		snap.CreatorIndex = make(map[string][]common.Address, len(s.CreatorIndex))
		for creator, addrs := range s.CreatorIndex {
			snap.CreatorIndex[creator.Hex()] = addrs
		}
	}
	if len(s.Instances) > 0 {
		snap.Instances = make(map[string]token.Snapshot, len(s.Instances))
		for addr, inst := range s.Instances {
			snap.Instances[addr.Hex()] = inst.Snapshot()
		}
	}
	return snap
}

// RestoreState rebuilds the aggregate from a snapshot.
func RestoreState(snap StateSnapshot) (*State, error) {
	fee, err := uint256.FromDecimal(snap.ServiceFee)
	if err != nil {
		return nil, fmt.Errorf("service fee: %w", err)
	}
	collected, err := uint256.FromDecimal(snap.FeesCollected)
	if err != nil {
		return nil, fmt.Errorf("fees collected: %w", err)
	}

	fees := NewFeeLedger(fee, snap.FeeRecipient)
	fees.collected = collected
	for addr, bal := range snap.FeeBalances {
		b, err := uint256.FromDecimal(bal)
		if err != nil {
			return nil, fmt.Errorf("fee balance of %s: %w", addr, err)
		}
		fees.balances[common.HexToAddress(addr)] = b
	}

	codes := token.NewCodeStore()
	for _, impl := range snap.Implementations {
		codes.Restore(impl, snap.CodeSeq)
	}

	templates := NewRegistry()
	for _, e := range snap.Templates {
		if err := templates.Add(e.ID, e.Implementation, codes); err != nil {
			return nil, fmt.Errorf("template %s: %w", e.ID, err)
		}
	}

	s := &State{
		Owner:         snap.Owner,
		Address:       snap.Address,
		Fees:          fees,
		Templates:     templates,
		Codes:         codes,
		Symbols:       make(map[string]bool, len(snap.Symbols)),
		CreatorIndex:  make(map[common.Address][]common.Address, len(snap.CreatorIndex)),
		Instances:     make(map[common.Address]*token.Token, len(snap.Instances)),
		TokensCreated: snap.TokensCreated,
	}
	for _, sym := range snap.Symbols {
		s.Symbols[sym] = true
	}
	for creator, addrs := range snap.CreatorIndex {
		s.CreatorIndex[common.HexToAddress(creator)] = addrs
	}
	for addr, instSnap := range snap.Instances {
		inst, err := token.FromSnapshot(instSnap)
		if err != nil {
			return nil, fmt.Errorf("instance %s: %w", addr, err)
		}
		s.Instances[common.HexToAddress(addr)] = inst
	}
	return s, nil
}
