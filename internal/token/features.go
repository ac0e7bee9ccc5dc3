package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Features is the capability bit-set fixed at instance initialization.
// The single shared implementation reads these flags to behave like any of
// the specialized token variants (plain, mintable, pausable, capped, or
// combinations).
type Features struct {
	Mintable bool `json:"mintable"`
	Burnable bool `json:"burnable"`
	Pausable bool `json:"pausable"`
	Capped   bool `json:"capped"`
}

// None reports whether no feature is enabled.
func (f Features) None() bool {
	return !f.Mintable && !f.Burnable && !f.Pausable && !f.Capped
}

// Superset reports whether f covers every feature enabled in want.
func (f Features) Superset(want Features) bool {
	if want.Mintable && !f.Mintable {
		return false
	}
	if want.Burnable && !f.Burnable {
		return false
	}
	if want.Pausable && !f.Pausable {
		return false
	}
	if want.Capped && !f.Capped {
		return false
	}
	return true
}

// Byte packs the flags into a single byte for hashing.
func (f Features) Byte() byte {
	var b byte
	if f.Mintable {
		b |= 1
	}
	if f.Burnable {
		b |= 2
	}
	if f.Pausable {
		b |= 4
	}
	if f.Capped {
		b |= 8
	}
	return b
}

// String renders the enabled flags as "mintable+burnable", or "none".
func (f Features) String() string {
	var parts []string
	if f.Mintable {
		parts = append(parts, "mintable")
	}
	if f.Burnable {
		parts = append(parts, "burnable")
	}
	if f.Pausable {
		parts = append(parts, "pausable")
	}
	if f.Capped {
		parts = append(parts, "capped")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// AllFeatures has every capability enabled — the full-featured template.
var AllFeatures = Features{Mintable: true, Burnable: true, Pausable: true, Capped: true}

// Implementation is a registered piece of delegate logic. Instances capture
// it by value at creation, so later registry edits never reach them.
type Implementation struct {
	Address      common.Address `json:"address"`
	CodeHash     common.Hash    `json:"codeHash"`
	Capabilities Features       `json:"capabilities"`
}
