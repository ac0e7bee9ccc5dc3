package factory

import "errors"

// Factory-level failures. Each entry point returns exactly one of these; any
// failure leaves the fee ledger, symbol registry, and creator index untouched.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotOwner             = errors.New("caller is not the owner")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrSymbolExists         = errors.New("symbol already deployed")
	ErrInsufficientFee      = errors.New("insufficient service fee")
)
