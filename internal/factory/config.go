package factory

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/tokenforge/internal/derive"
	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

// Built-in template identifiers. Auto-selection resolves every feature-flag
// tuple to one of these; operator-added templates are reachable only by
// explicit selection.
const (
	TemplateBasic    = "basic"
	TemplateMintable = "mintable"
	TemplateFull     = "full"
)

const (
	maxNameLen   = 50
	maxSymbolLen = 10
	maxDecimals  = 18
)

// Config is the caller-supplied token configuration. It is never persisted
// as such — only its hash and derived effects are.
type Config struct {
	Name         string
	Symbol       string
	TotalSupply  *uint256.Int
	Decimals     uint8
	InitialOwner common.Address
	Mintable     bool
	Burnable     bool
	Pausable     bool
	Capped       bool
	MaxSupply    *uint256.Int
}

// Features returns the requested capability set.
func (c Config) Features() token.Features {
	return token.Features{
		Mintable: c.Mintable,
		Burnable: c.Burnable,
		Pausable: c.Pausable,
		Capped:   c.Capped,
	}
}

// Hash is the configuration's content hash, the uniqueness salt for address
// derivation.
func (c Config) Hash() common.Hash {
	maxSupply := c.MaxSupply
	if maxSupply == nil {
		maxSupply = uint256.NewInt(0)
	}
	return derive.ConfigHash(c.Name, c.Symbol, c.TotalSupply, c.Decimals,
		c.InitialOwner, c.Features().Byte(), maxSupply)
}

// ValidateConfig checks every configuration invariant except symbol
// uniqueness, which is a registry-state check done only at deployment time.
// Returns (false, reason) on the first violation found.
func ValidateConfig(c Config) (bool, string) {
	switch {
	case c.Name == "":
		return false, "name is empty"
	case len(c.Name) > maxNameLen:
		return false, fmt.Sprintf("name exceeds %d characters", maxNameLen)
	case c.Symbol == "":
		return false, "symbol is empty"
	case len(c.Symbol) > maxSymbolLen:
		return false, fmt.Sprintf("symbol exceeds %d characters", maxSymbolLen)
	case c.Symbol != strings.ToUpper(c.Symbol):
		return false, "symbol must be uppercase"
	case c.Decimals > maxDecimals:
		return false, fmt.Sprintf("decimals exceed %d", maxDecimals)
	case c.TotalSupply == nil || c.TotalSupply.IsZero():
		return false, "total supply must be positive"
	case c.InitialOwner == (common.Address{}):
		return false, "initial owner is the zero address"
	}
	if c.Capped {
		if c.MaxSupply == nil || c.MaxSupply.IsZero() {
			return false, "max supply must be positive when capped"
		}
		if c.MaxSupply.Lt(c.TotalSupply) {
			return false, "max supply below total supply"
		}
	}
	return true, ""
}

// SelectTemplate maps a feature-flag tuple to the smallest built-in template
// whose capability set covers it. Total: every tuple resolves.
func SelectTemplate(f token.Features) string {
	if f.None() {
		return TemplateBasic
	}
	if f.Mintable && !f.Burnable && !f.Pausable && !f.Capped {
		return TemplateMintable
	}
	return TemplateFull
}

func validateConfig(c Config) error {
	if ok, reason := ValidateConfig(c); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, reason)
	}
	return nil
}
