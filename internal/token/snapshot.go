package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Snapshot is the JSON-serializable image of one instance. Amounts are
// decimal strings so they survive encoders that mangle big integers.
type Snapshot struct {
	Name        string                       `json:"name"`
	Symbol      string                       `json:"symbol"`
	Decimals    uint8                        `json:"decimals"`
	TotalSupply string                       `json:"totalSupply"`
	MaxSupply   string                       `json:"maxSupply"`
	Balances    map[string]string            `json:"balances"`
	Allowances  map[string]map[string]string `json:"allowances,omitempty"`
	Owner       common.Address               `json:"owner"`
	Paused      bool                         `json:"paused"`
	Features    Features                     `json:"features"`
	Impl        Implementation               `json:"implementation"`
}

// Snapshot captures the full instance state.
func (t *Token) Snapshot() Snapshot {
	s := Snapshot{
		Name:        t.name,
		Symbol:      t.symbol,
		Decimals:    t.decimals,
		TotalSupply: t.totalSupply.Dec(),
		MaxSupply:   t.maxSupply.Dec(),
		Balances:    make(map[string]string, len(t.balances)),
		Owner:       t.owner,
		Paused:      t.paused,
		Features:    t.features,
		Impl:        t.impl,
	}
	for addr, bal := range t.balances {
		s.Balances[addr.Hex()] = bal.Dec()
	}
	if len(t.allowances) > 0 {
		s.Allowances = make(map[string]map[string]string, len(t.allowances))
		for owner, m := range t.allowances {
			inner := make(map[string]string, len(m))
			for spender, a := range m {
				inner[spender.Hex()] = a.Dec()
			}
			s.Allowances[owner.Hex()] = inner
		}
	}
	return s
}

// FromSnapshot rebuilds an initialized instance from a snapshot.
func FromSnapshot(s Snapshot) (*Token, error) {
	supply, err := parseDec(s.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("total supply: %w", err)
	}
	maxSupply, err := parseDec(s.MaxSupply)
	if err != nil {
		return nil, fmt.Errorf("max supply: %w", err)
	}

	t := New(s.Impl)
	t.name = s.Name
	t.symbol = s.Symbol
	t.decimals = s.Decimals
	t.totalSupply = supply
	t.maxSupply = maxSupply
	t.owner = s.Owner
	t.paused = s.Paused
	t.features = s.Features
	t.initialized = true

	for addr, bal := range s.Balances {
		b, err := parseDec(bal)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", addr, err)
		}
		t.balances[common.HexToAddress(addr)] = b
	}
	for owner, m := range s.Allowances {
		inner := make(map[common.Address]*uint256.Int, len(m))
		for spender, a := range m {
			v, err := parseDec(a)
			if err != nil {
				return nil, fmt.Errorf("allowance %s->%s: %w", owner, spender, err)
			}
			inner[common.HexToAddress(spender)] = v
		}
		t.allowances[common.HexToAddress(owner)] = inner
	}
	return t, nil
}

func parseDec(s string) (*uint256.Int, error) {
	if s == "" {
		return uint256.NewInt(0), nil
	}
	return uint256.FromDecimal(s)
}
