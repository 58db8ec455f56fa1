package domain

import "time"

// EventType identifies one of the four kinds of ledger events. The set is
// closed: the projector switches exhaustively over it and treats anything
// else as corruption.
type EventType string

const (
	EventAccountOpened  EventType = "account_opened"
	EventFundsDeposited EventType = "funds_deposited"
	EventFundsWithdrawn EventType = "funds_withdrawn"
	EventAccountClosed  EventType = "account_closed"
)

// Event is one immutable fact in the append-only ledger log. Once appended it
// is never edited or removed; all account state is derived by folding events
// in Timestamp order.
type Event struct {
	EventID    string
	Type       EventType
	AccountID  string
	Payload    Payload
	Timestamp  int64 // logical ordering key, assigned at append time
	TransferID string
	RecordedAt time.Time // wall clock for display only, excluded from hashing
}

// Payload is the closed, per-type field set an event carries.
type Payload interface {
	// EventType reports which event type the payload belongs to, so a
	// mismatch between Event.Type and its payload is detectable.
	EventType() EventType

	// Fields returns the payload as a flat map for audit export and
	// canonical hashing. Keys are the wire-format snake_case names.
	Fields() map[string]any
}

// AccountOpened is the payload of an account_opened event.
type AccountOpened struct {
	CustomerName   string
	InitialBalance int64
}

func (AccountOpened) EventType() EventType { return EventAccountOpened }

func (p AccountOpened) Fields() map[string]any {
	return map[string]any{
		"customer_name":   p.CustomerName,
		"initial_balance": p.InitialBalance,
	}
}

// FundsDeposited is the payload of a funds_deposited event.
type FundsDeposited struct {
	Amount      int64
	Description string
}

func (FundsDeposited) EventType() EventType { return EventFundsDeposited }

func (p FundsDeposited) Fields() map[string]any {
	return map[string]any{
		"amount":      p.Amount,
		"description": p.Description,
	}
}

// FundsWithdrawn is the payload of a funds_withdrawn event.
type FundsWithdrawn struct {
	Amount      int64
	Description string
}

func (FundsWithdrawn) EventType() EventType { return EventFundsWithdrawn }

func (p FundsWithdrawn) Fields() map[string]any {
	return map[string]any{
		"amount":      p.Amount,
		"description": p.Description,
	}
}

// AccountClosed is the payload of an account_closed event. FinalBalance is
// the balance at close time, recorded for the audit trail.
type AccountClosed struct {
	FinalBalance int64
	Reason       string
}

func (AccountClosed) EventType() EventType { return EventAccountClosed }

func (p AccountClosed) Fields() map[string]any {
	return map[string]any{
		"final_balance": p.FinalBalance,
		"reason":        p.Reason,
	}
}
