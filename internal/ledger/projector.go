package ledger

import (
	"github.com/tilakpeace/banking-system-audit/internal/domain"
)

// apply folds one event into the snapshot set. It is the single state
// transition function: the live set after an append and a full replay both go
// through it, so initial execution and replay cannot diverge.
//
// Semantically valid events that no longer match the snapshot set (deposit to
// a missing or closed account) fold as no-ops. That policy,
// ignore-on-missing-or-inactive, keeps replay safe to run over any
// well-formed log; in a correctly ordered log the situation cannot arise
// because closure is itself an event in the same log. Structural invalidity
// is different: it means the log itself is damaged, and apply reports it as a
// CORRUPT_EVENT error so the caller can abort.
func apply(accounts map[string]*domain.Account, event domain.Event) error {
	if err := validateShape(event); err != nil {
		return err
	}

	switch event.Type {
	case domain.EventAccountOpened:
		// Account ids are generated uniquely at open time, so a
		// duplicate open can only appear in a damaged log; it folds as
		// a no-op to keep replay total.
		if _, exists := accounts[event.AccountID]; exists {
			return nil
		}
		p := event.Payload.(domain.AccountOpened)
		accounts[event.AccountID] = &domain.Account{
			AccountID:    event.AccountID,
			CustomerName: p.CustomerName,
			Balance:      p.InitialBalance,
			Status:       domain.StatusActive,
			CreatedAt:    event.RecordedAt,
			OpenedSeq:    event.Timestamp,
		}

	case domain.EventFundsDeposited:
		account, ok := accounts[event.AccountID]
		if !ok || account.Status != domain.StatusActive {
			return nil
		}
		p := event.Payload.(domain.FundsDeposited)
		account.Balance += p.Amount
		account.Transactions = append(account.Transactions, domain.Transaction{
			EventID:      event.EventID,
			Kind:         event.Type,
			Amount:       p.Amount,
			Description:  p.Description,
			BalanceAfter: account.Balance,
			Timestamp:    event.Timestamp,
			TransferID:   event.TransferID,
		})

	case domain.EventFundsWithdrawn:
		account, ok := accounts[event.AccountID]
		if !ok || account.Status != domain.StatusActive {
			return nil
		}
		// Sufficient funds were checked at append time; replay trusts
		// the log rather than re-validating business rules.
		p := event.Payload.(domain.FundsWithdrawn)
		account.Balance -= p.Amount
		account.Transactions = append(account.Transactions, domain.Transaction{
			EventID:      event.EventID,
			Kind:         event.Type,
			Amount:       p.Amount,
			Description:  p.Description,
			BalanceAfter: account.Balance,
			Timestamp:    event.Timestamp,
			TransferID:   event.TransferID,
		})

	case domain.EventAccountClosed:
		account, ok := accounts[event.AccountID]
		if !ok {
			return nil
		}
		account.Status = domain.StatusClosed
	}

	return nil
}

// validateShape rejects structurally invalid events before folding: unknown
// type, missing account id, absent or mismatched payload, or a non-positive
// amount on a movement event. A valid append path never produces these, so
// hitting one during replay means the log is corrupt.
func validateShape(event domain.Event) error {
	if event.AccountID == "" {
		return NewCorruptEvent(event.EventID, "missing account id")
	}
	if event.Payload == nil {
		return NewCorruptEvent(event.EventID, "missing payload")
	}

	switch event.Type {
	case domain.EventAccountOpened:
		p, ok := event.Payload.(domain.AccountOpened)
		if !ok {
			return NewCorruptEvent(event.EventID, "payload does not match event type "+string(event.Type))
		}
		if p.InitialBalance < 0 {
			return NewCorruptEvent(event.EventID, "negative initial balance")
		}
	case domain.EventFundsDeposited:
		p, ok := event.Payload.(domain.FundsDeposited)
		if !ok {
			return NewCorruptEvent(event.EventID, "payload does not match event type "+string(event.Type))
		}
		if p.Amount <= 0 {
			return NewCorruptEvent(event.EventID, "non-positive deposit amount")
		}
	case domain.EventFundsWithdrawn:
		p, ok := event.Payload.(domain.FundsWithdrawn)
		if !ok {
			return NewCorruptEvent(event.EventID, "payload does not match event type "+string(event.Type))
		}
		if p.Amount <= 0 {
			return NewCorruptEvent(event.EventID, "non-positive withdrawal amount")
		}
	case domain.EventAccountClosed:
		if _, ok := event.Payload.(domain.AccountClosed); !ok {
			return NewCorruptEvent(event.EventID, "payload does not match event type "+string(event.Type))
		}
	default:
		return NewCorruptEvent(event.EventID, "unknown event type "+string(event.Type))
	}

	return nil
}
