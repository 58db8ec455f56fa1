package domain

import "time"

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusClosed AccountStatus = "closed"
)

// Account is the derived, in-memory projection of one account. It is never
// written directly: every field change comes from folding an event, and the
// whole value is reconstructible by replaying the log from empty.
type Account struct {
	AccountID    string
	CustomerName string
	Balance      int64 // minor units
	Status       AccountStatus
	Transactions []Transaction
	CreatedAt    time.Time
	OpenedSeq    int64 // logical timestamp of the opening event, used for stable listing order
}

// Transaction is one applied movement in an account's history, recorded with
// the balance after the movement.
type Transaction struct {
	EventID      string
	Kind         EventType
	Amount       int64
	Description  string
	BalanceAfter int64
	Timestamp    int64
	TransferID   string
}

// Clone returns a deep copy so callers can hold a snapshot without aliasing
// the live projection.
func (a *Account) Clone() Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return cp
}
