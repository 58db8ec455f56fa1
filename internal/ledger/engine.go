// Package ledger implements the event-sourced ledger core: the engine that
// validates operations and appends events, the projector that folds events
// into account snapshots, and the replay coordinator that proves the
// projection is reproducible from the log alone.
package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
	"github.com/tilakpeace/banking-system-audit/internal/eventlog"
)

// Engine owns the live snapshot set and the event log. Every balance change
// goes through the same sequence: validate against the live snapshots, append
// one or more events, fold each appended event into the snapshots. A single
// lock serializes each logical operation end to end, including both events of
// a transfer and the entirety of a replay; reads take the read lock and see
// either the pre- or post-operation state, never a partial one.
type Engine struct {
	mu       sync.RWMutex
	log      eventlog.Log
	logger   *zap.Logger
	accounts map[string]*domain.Account
}

// TransferResult carries both post-transfer balances and the correlation id
// shared by the two events the transfer appended.
type TransferResult struct {
	TransferID  string
	FromBalance int64
	ToBalance   int64
}

// NewEngine creates an engine with an empty snapshot set over the given log.
func NewEngine(log eventlog.Log, logger *zap.Logger) *Engine {
	return &Engine{
		log:      log,
		logger:   logger,
		accounts: make(map[string]*domain.Account),
	}
}

// OpenAccount creates a new account with a zero balance and returns its
// snapshot.
func (e *Engine) OpenAccount(customerName string) (domain.Account, error) {
	if customerName == "" {
		return domain.Account{}, NewInvalidArgument("customer_name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	accountID := uuid.NewString()
	e.appendAndApply(domain.Event{
		Type:      domain.EventAccountOpened,
		AccountID: accountID,
		Payload:   domain.AccountOpened{CustomerName: customerName, InitialBalance: 0},
	})

	e.logger.Info("Account opened",
		zap.String("account_id", accountID),
		zap.String("customer_name", customerName))

	return e.accounts[accountID].Clone(), nil
}

// Deposit increases the account balance by amount and returns the new
// balance.
func (e *Engine) Deposit(accountID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, NewInvalidArgument("amount must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	account, err := e.activeAccount(accountID)
	if err != nil {
		return 0, err
	}

	e.appendAndApply(domain.Event{
		Type:      domain.EventFundsDeposited,
		AccountID: accountID,
		Payload:   domain.FundsDeposited{Amount: amount, Description: description},
	})

	e.logger.Info("Funds deposited",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.Int64("new_balance", account.Balance))

	return account.Balance, nil
}

// Withdraw decreases the account balance by amount and returns the new
// balance. The balance can never go negative: the check happens here, before
// the event is appended, so the log only ever contains withdrawals that were
// covered at append time.
func (e *Engine) Withdraw(accountID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, NewInvalidArgument("amount must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	account, err := e.activeAccount(accountID)
	if err != nil {
		return 0, err
	}
	if amount > account.Balance {
		return 0, NewInsufficientFunds(accountID, amount, account.Balance)
	}

	e.appendAndApply(domain.Event{
		Type:      domain.EventFundsWithdrawn,
		AccountID: accountID,
		Payload:   domain.FundsWithdrawn{Amount: amount, Description: description},
	})

	e.logger.Info("Funds withdrawn",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.Int64("new_balance", account.Balance))

	return account.Balance, nil
}

// Transfer moves amount between two accounts as exactly two correlated
// events: the withdrawal on the source first, then the deposit on the
// destination. Both validations happen before either event is appended, and
// both appends happen under one lock acquisition, so a reader can never
// observe a deposit without its matching withdrawal already in the log.
func (e *Engine) Transfer(fromID, toID string, amount int64, description string) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, NewInvalidArgument("amount must be positive")
	}
	if fromID == toID {
		return TransferResult{}, NewInvalidArgument("cannot transfer to the same account")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	from, err := e.activeAccount(fromID)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := e.activeAccount(toID)
	if err != nil {
		return TransferResult{}, err
	}
	if amount > from.Balance {
		return TransferResult{}, NewInsufficientFunds(fromID, amount, from.Balance)
	}

	transferID := uuid.NewString()
	e.appendAndApply(domain.Event{
		Type:       domain.EventFundsWithdrawn,
		AccountID:  fromID,
		Payload:    domain.FundsWithdrawn{Amount: amount, Description: description},
		TransferID: transferID,
	})
	e.appendAndApply(domain.Event{
		Type:       domain.EventFundsDeposited,
		AccountID:  toID,
		Payload:    domain.FundsDeposited{Amount: amount, Description: description},
		TransferID: transferID,
	})

	e.logger.Info("Transfer completed",
		zap.String("transfer_id", transferID),
		zap.String("from_account_id", fromID),
		zap.String("to_account_id", toID),
		zap.Int64("amount", amount))

	return TransferResult{
		TransferID:  transferID,
		FromBalance: from.Balance,
		ToBalance:   to.Balance,
	}, nil
}

// CloseAccount transitions the account to closed and returns its final
// balance. A closed account is frozen: no later deposit or withdrawal can
// touch its balance, on the live path or during replay.
func (e *Engine) CloseAccount(accountID, reason string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	account, ok := e.accounts[accountID]
	if !ok {
		return 0, NewNotFound(accountID)
	}
	if account.Status == domain.StatusClosed {
		return 0, NewInvalidState("account " + accountID + " is already closed")
	}

	e.appendAndApply(domain.Event{
		Type:      domain.EventAccountClosed,
		AccountID: accountID,
		Payload:   domain.AccountClosed{FinalBalance: account.Balance, Reason: reason},
	})

	e.logger.Info("Account closed",
		zap.String("account_id", accountID),
		zap.Int64("final_balance", account.Balance),
		zap.String("reason", reason))

	return account.Balance, nil
}

// GetAccount returns a snapshot of one account.
func (e *Engine) GetAccount(accountID string) (domain.Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	account, ok := e.accounts[accountID]
	if !ok {
		return domain.Account{}, NewNotFound(accountID)
	}
	return account.Clone(), nil
}

// ListAccounts returns snapshots of all accounts in creation order.
func (e *Engine) ListAccounts() []domain.Account {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Account, 0, len(e.accounts))
	for _, account := range e.accounts {
		out = append(out, account.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedSeq < out[j].OpenedSeq
	})
	return out
}

// Events returns the full ordered event log for audit export.
func (e *Engine) Events() []domain.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.log.All()
}

// appendAndApply commits one event and folds it into the live snapshot set.
// Callers hold the write lock and have fully validated the event, so the
// fold cannot fail; a failure here would mean the engine itself produced a
// malformed event and is reported loudly.
func (e *Engine) appendAndApply(event domain.Event) {
	committed := e.log.Append(event)
	if err := apply(e.accounts, committed); err != nil {
		e.logger.Error("Appended event failed to fold",
			zap.String("event_id", committed.EventID),
			zap.String("event_type", string(committed.Type)),
			zap.Error(err))
	}
}

// activeAccount looks up an account that must exist and be active.
func (e *Engine) activeAccount(accountID string) (*domain.Account, error) {
	account, ok := e.accounts[accountID]
	if !ok {
		return nil, NewNotFound(accountID)
	}
	if account.Status != domain.StatusActive {
		return nil, NewInvalidState("account " + accountID + " is closed")
	}
	return account, nil
}
