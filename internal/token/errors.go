package token

import "errors"

// Instance-level failures. Every operation returns exactly one of these (or
// nil); nothing is retried and no partial state survives a failure.
var (
	ErrAlreadyInitialized    = errors.New("token already initialized")
	ErrNotInitialized        = errors.New("token not initialized")
	ErrNotOwner              = errors.New("caller is not the owner")
	ErrFeatureNotEnabled     = errors.New("feature not enabled")
	ErrTokenPaused           = errors.New("token is paused")
	ErrNotPaused             = errors.New("token is not paused")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrExceedsMaxSupply      = errors.New("mint exceeds max supply")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidParameters     = errors.New("invalid initialization parameters")
)
