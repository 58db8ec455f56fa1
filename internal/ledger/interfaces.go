package ledger

import (
	"github.com/tilakpeace/banking-system-audit/internal/domain"
)

// Service defines the interface for ledger operations exposed to transport
// layers.
type Service interface {
	OpenAccount(customerName string) (domain.Account, error)
	Deposit(accountID string, amount int64, description string) (int64, error)
	Withdraw(accountID string, amount int64, description string) (int64, error)
	Transfer(fromID, toID string, amount int64, description string) (TransferResult, error)
	CloseAccount(accountID, reason string) (int64, error)
	GetAccount(accountID string) (domain.Account, error)
	ListAccounts() []domain.Account
	Events() []domain.Event
	Replay() (ReplayResult, error)
}
