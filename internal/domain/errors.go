package domain

import "errors"

// ErrorCode is the stable, transport independent name of a ledger failure.
type ErrorCode string

const (
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeNotOwner         ErrorCode = "NOT_OWNER"
	CodeNotRenter        ErrorCode = "NOT_RENTER"
	CodeNotAdmin         ErrorCode = "NOT_ADMIN"
	CodeCycleUnavailable ErrorCode = "CYCLE_UNAVAILABLE"
	CodeInvalidDuration  ErrorCode = "INVALID_DURATION"
	CodePaymentMismatch  ErrorCode = "PAYMENT_MISMATCH"
	CodeSelfRental       ErrorCode = "SELF_RENTAL"
	CodeAlreadyReturned  ErrorCode = "ALREADY_RETURNED"
	CodeAlreadyReported  ErrorCode = "ALREADY_REPORTED"
	CodeAlreadyRefunded  ErrorCode = "ALREADY_REFUNDED"
	CodeDisputeOpen      ErrorCode = "DISPUTE_OPEN"
	CodeInternal         ErrorCode = "INTERNAL"
)

type ledgerError struct {
	code ErrorCode
	msg  string
}

func (e *ledgerError) Error() string   { return e.msg }
func (e *ledgerError) Code() ErrorCode { return e.code }

func newError(code ErrorCode, msg string) error {
	return &ledgerError{code: code, msg: msg}
}

var (
	ErrInvalidInput     = newError(CodeInvalidInput, "invalid input")
	ErrNotFound         = newError(CodeNotFound, "not found")
	ErrNotOwner         = newError(CodeNotOwner, "caller is not the cycle owner")
	ErrNotRenter        = newError(CodeNotRenter, "caller is not the renter")
	ErrNotAdmin         = newError(CodeNotAdmin, "caller is not the administrator")
	ErrCycleUnavailable = newError(CodeCycleUnavailable, "cycle is not available")
	ErrInvalidDuration  = newError(CodeInvalidDuration, "invalid rental duration")
	ErrPaymentMismatch  = newError(CodePaymentMismatch, "payment does not match rental cost")
	ErrSelfRental       = newError(CodeSelfRental, "owner cannot rent own cycle")
	ErrAlreadyReturned  = newError(CodeAlreadyReturned, "rental already closed")
	ErrAlreadyReported  = newError(CodeAlreadyReported, "issue already reported")
	ErrAlreadyRefunded  = newError(CodeAlreadyRefunded, "refund already processed")
	ErrDisputeOpen      = newError(CodeDisputeOpen, "rental has an unresolved issue report")
)

// CodeOf extracts the ledger error code from err. Errors that did not
// originate in the ledger report CodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var le interface{ Code() ErrorCode }
	if errors.As(err, &le) {
		return le.Code()
	}
	return CodeInternal
}
