package errors

import (
	stderrors "errors"

	"github.com/mezonai/snapledger/jsonx"
)

// LedgerErrorCode represents standardized error codes for ledger and distribution operations
type LedgerErrorCode string

const (
	// General errors
	ErrCodeInternal LedgerErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidAddress  LedgerErrorCode = "invalid_address"
	ErrCodeZeroAmount      LedgerErrorCode = "zero_amount"
	ErrCodeInvalidSnapshot LedgerErrorCode = "invalid_snapshot"

	// Business logic errors
	ErrCodeInsufficientBalance LedgerErrorCode = "insufficient_balance"
	ErrCodeUnauthorized        LedgerErrorCode = "unauthorized"
	ErrCodeAlreadyClaimed      LedgerErrorCode = "already_claimed"
	ErrCodeNoEntitlement       LedgerErrorCode = "no_entitlement"
	ErrCodeNoActiveRound       LedgerErrorCode = "no_active_round"

	// Arithmetic errors
	ErrCodeArithmeticOverflow LedgerErrorCode = "arithmetic_overflow"
)

// Error message constants
const (
	ErrMsgInternal            = "Internal ledger error"
	ErrMsgInvalidAddress      = "Account address is invalid"
	ErrMsgZeroAmount          = "Amount must be greater than zero"
	ErrMsgInvalidSnapshot     = "Snapshot id does not exist"
	ErrMsgInsufficientBalance = "Not enough balance in account"
	ErrMsgUnauthorized        = "Caller is not the owner"
	ErrMsgAlreadyClaimed      = "Reward already claimed for this round"
	ErrMsgNoEntitlement       = "No balance at snapshot"
	ErrMsgNoActiveRound       = "No distribution round has been funded"
	ErrMsgArithmeticOverflow  = "Arithmetic overflow"
)

// LedgerError represents a standardized, terminal ledger failure
type LedgerError struct {
	Code    LedgerErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	return e.Message
}

// JSON renders the error the way it is reported to CLI callers
func (e *LedgerError) JSON() string {
	b, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(b)
}

var (
	ErrInternal            = NewError(ErrCodeInternal, ErrMsgInternal)
	ErrInvalidAddress      = NewError(ErrCodeInvalidAddress, ErrMsgInvalidAddress)
	ErrZeroAmount          = NewError(ErrCodeZeroAmount, ErrMsgZeroAmount)
	ErrInvalidSnapshot     = NewError(ErrCodeInvalidSnapshot, ErrMsgInvalidSnapshot)
	ErrInsufficientBalance = NewError(ErrCodeInsufficientBalance, ErrMsgInsufficientBalance)
	ErrUnauthorized        = NewError(ErrCodeUnauthorized, ErrMsgUnauthorized)
	ErrAlreadyClaimed      = NewError(ErrCodeAlreadyClaimed, ErrMsgAlreadyClaimed)
	ErrNoEntitlement       = NewError(ErrCodeNoEntitlement, ErrMsgNoEntitlement)
	ErrNoActiveRound       = NewError(ErrCodeNoActiveRound, ErrMsgNoActiveRound)
	ErrArithmeticOverflow  = NewError(ErrCodeArithmeticOverflow, ErrMsgArithmeticOverflow)
)

// NewError creates a new LedgerError
func NewError(code LedgerErrorCode, message string) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the code of the first LedgerError in err's chain.
// Errors that carry no code map to ErrCodeInternal.
func CodeOf(err error) LedgerErrorCode {
	var le *LedgerError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}
