// Package token holds the delegate logic every deployed instance runs: the
// balance ledger, transfer/approval rules, and the four flag-gated behaviors
// (mint, burn, pause, supply cap). It has no dependency on the factory.
package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token is the state of one deployed instance. The logic is shared across
// every instance; behavior differences come solely from the Features set at
// initialization time.
type Token struct {
	name        string
	symbol      string
	decimals    uint8
	totalSupply *uint256.Int
	maxSupply   *uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[common.Address]map[common.Address]*uint256.Int
	owner       common.Address
	paused      bool
	features    Features
	impl        Implementation // captured by value at deployment
	initialized bool
}

// New returns an uninitialized instance bound permanently to impl.
func New(impl Implementation) *Token {
	return &Token{
		totalSupply: uint256.NewInt(0),
		maxSupply:   uint256.NewInt(0),
		balances:    make(map[common.Address]*uint256.Int),
		allowances:  make(map[common.Address]map[common.Address]*uint256.Int),
		impl:        impl,
	}
}

// Initialize sets up instance state exactly once. The guard holds per
// instance even though the logic is shared: it lives in instance state, not
// in the code. The full initial supply is credited to owner.
func (t *Token) Initialize(name, symbol string, decimals uint8, supply *uint256.Int,
	owner common.Address, features Features, maxSupply *uint256.Int) error {

	if t.initialized {
		return ErrAlreadyInitialized
	}
	if name == "" || symbol == "" {
		return ErrInvalidParameters
	}
	if supply == nil || supply.IsZero() {
		return ErrInvalidParameters
	}
	if owner == (common.Address{}) {
		return ErrInvalidParameters
	}
	if decimals > 18 {
		return ErrInvalidParameters
	}
	if features.Capped {
		if maxSupply == nil || maxSupply.IsZero() || maxSupply.Lt(supply) {
			return ErrInvalidParameters
		}
	}

	t.name = name
	t.symbol = symbol
	t.decimals = decimals
	t.totalSupply = supply.Clone()
	if features.Capped {
		t.maxSupply = maxSupply.Clone()
	} else {
		t.maxSupply = uint256.NewInt(0)
	}
	t.owner = owner
	t.features = features
	t.balances[owner] = supply.Clone()
	t.initialized = true
	return nil
}

// ── ledger reads ──────────────────────────────────────────────────────────────

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token symbol.
func (t *Token) Symbol() string { return t.symbol }

// Decimals returns the decimal places.
func (t *Token) Decimals() uint8 { return t.decimals }

// Owner returns the current owner (zero address once renounced).
func (t *Token) Owner() common.Address { return t.owner }

// Paused reports whether transfers are currently halted.
func (t *Token) Paused() bool { return t.paused }

// TotalSupply returns the current total supply.
func (t *Token) TotalSupply() *uint256.Int { return t.totalSupply.Clone() }

// BalanceOf returns the balance of account.
func (t *Token) BalanceOf(account common.Address) *uint256.Int {
	if b, ok := t.balances[account]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

// Allowance returns what spender may transfer on behalf of owner.
func (t *Token) Allowance(owner, spender common.Address) *uint256.Int {
	if m, ok := t.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return a.Clone()
		}
	}
	return uint256.NewInt(0)
}

// Feature queries.
func (t *Token) IsMintable() bool { return t.features.Mintable }
func (t *Token) IsBurnable() bool { return t.features.Burnable }
func (t *Token) IsPausable() bool { return t.features.Pausable }
func (t *Token) IsCapped() bool   { return t.features.Capped }

// GetMaxSupply returns the supply cap (zero when uncapped).
func (t *Token) GetMaxSupply() *uint256.Int { return t.maxSupply.Clone() }

// Features returns the capability set fixed at initialization.
func (t *Token) Features() Features { return t.features }

// Implementation returns the delegate logic this instance was bound to at
// deployment. Registry changes after deployment never alter it.
func (t *Token) Implementation() Implementation { return t.impl }

// ── ledger writes ─────────────────────────────────────────────────────────────

// Transfer moves amount from caller to recipient.
func (t *Token) Transfer(caller, to common.Address, amount *uint256.Int) error {
	if err := t.whenActive(); err != nil {
		return err
	}
	return t.move(caller, to, amount)
}

// Approve lets spender transfer up to amount on behalf of caller. Overwrites
// any previous allowance.
func (t *Token) Approve(caller, spender common.Address, amount *uint256.Int) error {
	if err := t.whenActive(); err != nil {
		return err
	}
	if spender == (common.Address{}) {
		return ErrInvalidAddress
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	if t.allowances[caller] == nil {
		t.allowances[caller] = make(map[common.Address]*uint256.Int)
	}
	t.allowances[caller][spender] = amount.Clone()
	return nil
}

// TransferFrom moves amount from owner to recipient, spending caller's
// allowance. The allowance is only debited once the move itself is known to
// succeed; a failed transfer consumes nothing.
func (t *Token) TransferFrom(caller, from, to common.Address, amount *uint256.Int) error {
	if err := t.whenActive(); err != nil {
		return err
	}
	if err := t.checkMove(from, to, amount); err != nil {
		return err
	}
	if err := t.spendAllowance(from, caller, amount); err != nil {
		return err
	}
	return t.move(from, to, amount)
}

// Mint creates amount new tokens for recipient. Owner only, mintable only.
// A zero amount is rejected before the cap is consulted.
func (t *Token) Mint(caller, to common.Address, amount *uint256.Int) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if !t.features.Mintable {
		return ErrFeatureNotEnabled
	}
	if caller != t.owner {
		return ErrNotOwner
	}
	if t.features.Pausable && t.paused {
		return ErrTokenPaused
	}
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	next := new(uint256.Int).Add(t.totalSupply, amount)
	if next.Lt(t.totalSupply) {
		return ErrInvalidAmount // overflow
	}
	if t.features.Capped && next.Gt(t.maxSupply) {
		return ErrExceedsMaxSupply
	}
	t.totalSupply = next
	t.credit(to, amount)
	return nil
}

// Burn destroys amount tokens from the caller's balance.
func (t *Token) Burn(caller common.Address, amount *uint256.Int) error {
	if err := t.burnChecks(amount); err != nil {
		return err
	}
	return t.burnFrom(caller, amount)
}

// BurnFrom destroys amount tokens from account, spending caller's allowance.
// The allowance is only debited once the burn itself is known to succeed.
func (t *Token) BurnFrom(caller, account common.Address, amount *uint256.Int) error {
	if err := t.burnChecks(amount); err != nil {
		return err
	}
	if bal := t.balances[account]; bal == nil || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := t.spendAllowance(account, caller, amount); err != nil {
		return err
	}
	return t.burnFrom(account, amount)
}

// Pause halts all transfers. Owner only, pausable only.
func (t *Token) Pause(caller common.Address) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if !t.features.Pausable {
		return ErrFeatureNotEnabled
	}
	if caller != t.owner {
		return ErrNotOwner
	}
	if t.paused {
		return ErrTokenPaused
	}
	t.paused = true
	return nil
}

// Unpause resumes transfers.
func (t *Token) Unpause(caller common.Address) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if !t.features.Pausable {
		return ErrFeatureNotEnabled
	}
	if caller != t.owner {
		return ErrNotOwner
	}
	if !t.paused {
		return ErrNotPaused
	}
	t.paused = false
	return nil
}

// TransferOwnership hands the owner role to newOwner.
func (t *Token) TransferOwnership(caller, newOwner common.Address) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if caller != t.owner {
		return ErrNotOwner
	}
	if newOwner == (common.Address{}) {
		return ErrInvalidAddress
	}
	t.owner = newOwner
	return nil
}

// RenounceOwnership sets the owner to the zero address. Every owner-gated
// operation becomes permanently unreachable afterwards.
func (t *Token) RenounceOwnership(caller common.Address) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if caller != t.owner {
		return ErrNotOwner
	}
	t.owner = common.Address{}
	return nil
}

// ── internals ─────────────────────────────────────────────────────────────────

func (t *Token) whenActive() error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if t.features.Pausable && t.paused {
		return ErrTokenPaused
	}
	return nil
}

func (t *Token) burnChecks(amount *uint256.Int) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if !t.features.Burnable {
		return ErrFeatureNotEnabled
	}
	if t.features.Pausable && t.paused {
		return ErrTokenPaused
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// checkMove validates a move without mutating anything.
func (t *Token) checkMove(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidAddress
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	if bal := t.balances[from]; bal == nil || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

func (t *Token) move(from, to common.Address, amount *uint256.Int) error {
	if err := t.checkMove(from, to, amount); err != nil {
		return err
	}
	bal := t.balances[from]
	bal.Sub(bal, amount)
	t.credit(to, amount)
	return nil
}

func (t *Token) credit(to common.Address, amount *uint256.Int) {
	if b, ok := t.balances[to]; ok {
		b.Add(b, amount)
		return
	}
	t.balances[to] = amount.Clone()
}

func (t *Token) spendAllowance(owner, spender common.Address, amount *uint256.Int) error {
	if amount == nil {
		return ErrInvalidAmount
	}
	m := t.allowances[owner]
	if m == nil {
		return ErrInsufficientAllowance
	}
	a := m[spender]
	if a == nil || a.Lt(amount) {
		return ErrInsufficientAllowance
	}
	a.Sub(a, amount)
	return nil
}

func (t *Token) burnFrom(account common.Address, amount *uint256.Int) error {
	bal := t.balances[account]
	if bal == nil || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	t.totalSupply = new(uint256.Int).Sub(t.totalSupply, amount)
	return nil
}
