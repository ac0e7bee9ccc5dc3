package factory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MaxServiceFee bounds setServiceFee: one native unit (10^18 wei).
var MaxServiceFee = uint256.NewInt(1_000_000_000_000_000_000)

// FeeLedger tracks the current service fee, its recipient, the native
// balances credited by fee collection and refunds, and the running total of
// fees ever collected.
type FeeLedger struct {
	fee       *uint256.Int
	recipient common.Address
	balances  map[common.Address]*uint256.Int
	collected *uint256.Int
}

// NewFeeLedger starts the ledger at fee, paid to recipient.
func NewFeeLedger(fee *uint256.Int, recipient common.Address) *FeeLedger {
	return &FeeLedger{
		fee:       fee.Clone(),
		recipient: recipient,
		balances:  make(map[common.Address]*uint256.Int),
		collected: uint256.NewInt(0),
	}
}

// Fee returns the current service fee.
func (l *FeeLedger) Fee() *uint256.Int { return l.fee.Clone() }

// Recipient returns the current fee recipient.
func (l *FeeLedger) Recipient() common.Address { return l.recipient }

// TotalCollected returns the sum of all fees ever collected.
func (l *FeeLedger) TotalCollected() *uint256.Int { return l.collected.Clone() }

// Balance returns the native balance credited to addr by this ledger.
func (l *FeeLedger) Balance(addr common.Address) *uint256.Int {
	if b, ok := l.balances[addr]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

// SetFee updates the service fee, bounded by MaxServiceFee.
func (l *FeeLedger) SetFee(fee *uint256.Int) error {
	if fee == nil {
		return fmt.Errorf("%w: fee is nil", ErrInvalidConfiguration)
	}
	if fee.Gt(MaxServiceFee) {
		return fmt.Errorf("%w: fee above maximum %s", ErrInvalidConfiguration, MaxServiceFee.Dec())
	}
	l.fee = fee.Clone()
	return nil
}

// SetRecipient updates the fee recipient.
func (l *FeeLedger) SetRecipient(addr common.Address) error {
	if addr == (common.Address{}) {
		return fmt.Errorf("%w: recipient is the zero address", ErrInvalidConfiguration)
	}
	l.recipient = addr
	return nil
}

// checkPayment verifies payment covers the current fee, without mutating
// anything.
func (l *FeeLedger) checkPayment(payment *uint256.Int) error {
	if payment == nil || payment.Lt(l.fee) {
		return fmt.Errorf("%w: need %s", ErrInsufficientFee, l.fee.Dec())
	}
	return nil
}

// collect credits exactly the current fee to the recipient and refunds the
// excess to payer. Must only be called after checkPayment succeeded.
func (l *FeeLedger) collect(payer common.Address, payment *uint256.Int) (fee, refund *uint256.Int) {
	fee = l.fee.Clone()
	refund = new(uint256.Int).Sub(payment, fee)
	l.credit(l.recipient, fee)
	if !refund.IsZero() {
		l.credit(payer, refund)
	}
	l.collected = new(uint256.Int).Add(l.collected, fee)
	return fee, refund
}

func (l *FeeLedger) credit(addr common.Address, amount *uint256.Int) {
	if b, ok := l.balances[addr]; ok {
		b.Add(b, amount)
		return
	}
	l.balances[addr] = amount.Clone()
}
