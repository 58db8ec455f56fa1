package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies ledger errors so callers (and the HTTP layer) can map them
// to a transport status without parsing messages.
type Kind string

const (
	// KindNotFound means the referenced account id does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidState means the account exists but its status forbids
	// the operation (deposits and withdrawals on a closed account,
	// closing an already-closed account).
	KindInvalidState Kind = "INVALID_STATE"
	// KindInvalidArgument means a request field is malformed, such as a
	// non-positive amount.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindInsufficientFunds means a withdrawal or transfer exceeds the
	// source balance.
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	// KindCorruptEvent means replay encountered a structurally invalid
	// event; the whole replay is aborted.
	KindCorruptEvent Kind = "CORRUPT_EVENT"
)

// Error is the structured error type used throughout the ledger. All
// validation failures are values of this type; no event is ever appended
// once one is returned.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so sentinels like NewNotFound("") work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf extracts the Kind from an error chain, or "" if the error did not
// originate in the ledger.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// Convenience constructors for the five kinds.

func NewNotFound(accountID string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("account %s not found", accountID)}
}

func NewInvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func NewInvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func NewInsufficientFunds(accountID string, requested, balance int64) *Error {
	return &Error{
		Kind:    KindInsufficientFunds,
		Message: fmt.Sprintf("account %s has balance %d, requested %d", accountID, balance, requested),
	}
}

func NewCorruptEvent(eventID, message string) *Error {
	return &Error{Kind: KindCorruptEvent, Message: fmt.Sprintf("event %s: %s", eventID, message)}
}
