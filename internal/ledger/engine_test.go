package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
	"github.com/tilakpeace/banking-system-audit/internal/eventlog"
)

func newTestEngine() (*Engine, *eventlog.MemoryLog) {
	log := eventlog.NewMemoryLog()
	return NewEngine(log, zap.NewNop()), log
}

func TestEngine_OpenAccount(t *testing.T) {
	engine, log := newTestEngine()

	account, err := engine.OpenAccount("John Doe")

	assert.NoError(t, err)
	assert.NotEmpty(t, account.AccountID)
	assert.Equal(t, "John Doe", account.CustomerName)
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, domain.StatusActive, account.Status)

	events := log.All()
	assert.Len(t, events, 1)
	assert.Equal(t, domain.EventAccountOpened, events[0].Type)
	assert.Equal(t, account.AccountID, events[0].AccountID)
}

func TestEngine_OpenAccount_GeneratesUniqueIDs(t *testing.T) {
	engine, _ := newTestEngine()

	first, err := engine.OpenAccount("John Doe")
	assert.NoError(t, err)
	second, err := engine.OpenAccount("Jane Smith")
	assert.NoError(t, err)

	assert.NotEqual(t, first.AccountID, second.AccountID)
}

func TestEngine_OpenAccount_MissingName(t *testing.T) {
	engine, log := newTestEngine()

	_, err := engine.OpenAccount("")

	assert.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Equal(t, 0, log.Len())
}

func TestEngine_Deposit(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")

	balance, err := engine.Deposit(account.AccountID, 800, "payroll")

	assert.NoError(t, err)
	assert.Equal(t, int64(800), balance)
	assert.Equal(t, 2, log.Len())

	snapshot, err := engine.GetAccount(account.AccountID)
	assert.NoError(t, err)
	assert.Equal(t, int64(800), snapshot.Balance)
	assert.Len(t, snapshot.Transactions, 1)
	assert.Equal(t, "payroll", snapshot.Transactions[0].Description)
}

func TestEngine_Deposit_UnknownAccount(t *testing.T) {
	engine, log := newTestEngine()

	_, err := engine.Deposit("no-such-account", 100, "")

	assert.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 0, log.Len())
}

func TestEngine_Deposit_NonPositiveAmount(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")

	for _, amount := range []int64{0, -100} {
		_, err := engine.Deposit(account.AccountID, amount, "")
		assert.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	}
	assert.Equal(t, 1, log.Len())
}

func TestEngine_Deposit_ClosedAccount(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")
	_, err := engine.CloseAccount(account.AccountID, "done")
	assert.NoError(t, err)

	before := log.Len()
	_, err = engine.Deposit(account.AccountID, 100, "")

	assert.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, before, log.Len())
}

func TestEngine_Withdraw(t *testing.T) {
	engine, _ := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")
	_, err := engine.Deposit(account.AccountID, 800, "")
	assert.NoError(t, err)

	balance, err := engine.Withdraw(account.AccountID, 200, "rent")

	assert.NoError(t, err)
	assert.Equal(t, int64(600), balance)
}

func TestEngine_Withdraw_InsufficientFunds(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")
	_, err := engine.Deposit(account.AccountID, 50, "")
	assert.NoError(t, err)

	before := log.Len()
	_, err = engine.Withdraw(account.AccountID, 100, "")

	assert.Error(t, err)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	// The log is untouched by a rejected operation.
	assert.Equal(t, before, log.Len())

	snapshot, _ := engine.GetAccount(account.AccountID)
	assert.Equal(t, int64(50), snapshot.Balance)
}

func TestEngine_Transfer(t *testing.T) {
	engine, log := newTestEngine()
	from, _ := engine.OpenAccount("John Doe")
	to, _ := engine.OpenAccount("Jane Smith")
	_, err := engine.Deposit(from.AccountID, 600, "")
	assert.NoError(t, err)

	result, err := engine.Transfer(from.AccountID, to.AccountID, 150, "rent split")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.TransferID)
	assert.Equal(t, int64(450), result.FromBalance)
	assert.Equal(t, int64(150), result.ToBalance)

	// Exactly two correlated events, withdrawal first.
	events := log.All()
	assert.Len(t, events, 5)
	withdrawal, deposit := events[3], events[4]
	assert.Equal(t, domain.EventFundsWithdrawn, withdrawal.Type)
	assert.Equal(t, from.AccountID, withdrawal.AccountID)
	assert.Equal(t, domain.EventFundsDeposited, deposit.Type)
	assert.Equal(t, to.AccountID, deposit.AccountID)
	assert.Equal(t, result.TransferID, withdrawal.TransferID)
	assert.Equal(t, result.TransferID, deposit.TransferID)
	assert.Less(t, withdrawal.Timestamp, deposit.Timestamp)
}

func TestEngine_Transfer_ConservesTotalBalance(t *testing.T) {
	engine, _ := newTestEngine()
	from, _ := engine.OpenAccount("John Doe")
	to, _ := engine.OpenAccount("Jane Smith")
	_, err := engine.Deposit(from.AccountID, 1000, "")
	assert.NoError(t, err)
	_, err = engine.Deposit(to.AccountID, 250, "")
	assert.NoError(t, err)

	result, err := engine.Transfer(from.AccountID, to.AccountID, 400, "")

	assert.NoError(t, err)
	assert.Equal(t, int64(1250), result.FromBalance+result.ToBalance)
}

func TestEngine_Transfer_Failures(t *testing.T) {
	engine, _ := newTestEngine()
	from, _ := engine.OpenAccount("John Doe")
	to, _ := engine.OpenAccount("Jane Smith")
	closed, _ := engine.OpenAccount("Closed Corp")
	_, err := engine.Deposit(from.AccountID, 100, "")
	assert.NoError(t, err)
	_, err = engine.CloseAccount(closed.AccountID, "done")
	assert.NoError(t, err)

	tests := []struct {
		name   string
		fromID string
		toID   string
		amount int64
		kind   Kind
	}{
		{"unknown source", "no-such", to.AccountID, 10, KindNotFound},
		{"unknown destination", from.AccountID, "no-such", 10, KindNotFound},
		{"closed destination", from.AccountID, closed.AccountID, 10, KindInvalidState},
		{"insufficient funds", from.AccountID, to.AccountID, 500, KindInsufficientFunds},
		{"non-positive amount", from.AccountID, to.AccountID, 0, KindInvalidArgument},
		{"self transfer", from.AccountID, from.AccountID, 10, KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := engine.Events()

			_, err := engine.Transfer(tt.fromID, tt.toID, tt.amount, "")

			assert.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			// A failed transfer appends neither event.
			assert.Len(t, engine.Events(), len(before))
		})
	}
}

func TestEngine_CloseAccount(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")
	_, err := engine.Deposit(account.AccountID, 300, "")
	assert.NoError(t, err)

	finalBalance, err := engine.CloseAccount(account.AccountID, "customer request")

	assert.NoError(t, err)
	assert.Equal(t, int64(300), finalBalance)

	snapshot, _ := engine.GetAccount(account.AccountID)
	assert.Equal(t, domain.StatusClosed, snapshot.Status)
	assert.Equal(t, int64(300), snapshot.Balance)

	events := log.All()
	closeEvent := events[len(events)-1]
	assert.Equal(t, domain.EventAccountClosed, closeEvent.Type)
	payload := closeEvent.Payload.(domain.AccountClosed)
	assert.Equal(t, int64(300), payload.FinalBalance)
	assert.Equal(t, "customer request", payload.Reason)
}

func TestEngine_CloseAccount_AlreadyClosed(t *testing.T) {
	engine, log := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")
	_, err := engine.CloseAccount(account.AccountID, "first")
	assert.NoError(t, err)

	before := log.Len()
	_, err = engine.CloseAccount(account.AccountID, "second")

	assert.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, before, log.Len())
}

func TestEngine_CloseAccount_Unknown(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.CloseAccount("no-such", "")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, NewNotFound("no-such")))
}

func TestEngine_GetAccount_ReturnsSnapshot(t *testing.T) {
	engine, _ := newTestEngine()
	account, _ := engine.OpenAccount("John Doe")

	snapshot, err := engine.GetAccount(account.AccountID)
	assert.NoError(t, err)

	// Mutating the snapshot must not leak into the live projection.
	snapshot.Balance = 999999
	again, _ := engine.GetAccount(account.AccountID)
	assert.Equal(t, int64(0), again.Balance)
}

func TestEngine_ListAccounts_CreationOrder(t *testing.T) {
	engine, _ := newTestEngine()
	first, _ := engine.OpenAccount("John Doe")
	second, _ := engine.OpenAccount("Jane Smith")
	third, _ := engine.OpenAccount("Acme Inc")

	accounts := engine.ListAccounts()

	assert.Len(t, accounts, 3)
	assert.Equal(t, first.AccountID, accounts[0].AccountID)
	assert.Equal(t, second.AccountID, accounts[1].AccountID)
	assert.Equal(t, third.AccountID, accounts[2].AccountID)
}

// TestEngine_AuditScenario walks the full audit flow: open, deposit 800,
// withdraw 200, transfer 150 to a second account, close the second account,
// then prove replay rebuilds the same balances with stable checksums.
func TestEngine_AuditScenario(t *testing.T) {
	engine, _ := newTestEngine()

	a, err := engine.OpenAccount("John Doe")
	assert.NoError(t, err)

	balance, err := engine.Deposit(a.AccountID, 800, "initial funding")
	assert.NoError(t, err)
	assert.Equal(t, int64(800), balance)

	balance, err = engine.Withdraw(a.AccountID, 200, "rent")
	assert.NoError(t, err)
	assert.Equal(t, int64(600), balance)

	b, err := engine.OpenAccount("Jane Smith")
	assert.NoError(t, err)

	transfer, err := engine.Transfer(a.AccountID, b.AccountID, 150, "split")
	assert.NoError(t, err)
	assert.Equal(t, int64(450), transfer.FromBalance)
	assert.Equal(t, int64(150), transfer.ToBalance)

	finalBalance, err := engine.CloseAccount(b.AccountID, "test")
	assert.NoError(t, err)
	assert.Equal(t, int64(150), finalBalance)

	bSnapshot, _ := engine.GetAccount(b.AccountID)
	assert.Equal(t, domain.StatusClosed, bSnapshot.Status)

	// Three replays in a row: identical checksums every time, and the
	// rebuilt balances match the live ones.
	first, err := engine.Replay()
	assert.NoError(t, err)
	second, err := engine.Replay()
	assert.NoError(t, err)
	third, err := engine.Replay()
	assert.NoError(t, err)

	assert.Equal(t, first.EventsChecksum, second.EventsChecksum)
	assert.Equal(t, second.EventsChecksum, third.EventsChecksum)
	assert.Equal(t, first.StateChecksum, second.StateChecksum)
	assert.Equal(t, second.StateChecksum, third.StateChecksum)
	assert.Equal(t, 2, first.AccountsRebuilt)

	aRebuilt, err := engine.GetAccount(a.AccountID)
	assert.NoError(t, err)
	assert.Equal(t, int64(450), aRebuilt.Balance)

	bRebuilt, err := engine.GetAccount(b.AccountID)
	assert.NoError(t, err)
	assert.Equal(t, int64(150), bRebuilt.Balance)
	assert.Equal(t, domain.StatusClosed, bRebuilt.Status)
}
