package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
)

func TestMemoryLog_AppendAssignsIDAndTimestamp(t *testing.T) {
	log := NewMemoryLog()

	committed := log.Append(domain.Event{
		Type:      domain.EventAccountOpened,
		AccountID: "acc-1",
		Payload:   domain.AccountOpened{CustomerName: "John Doe"},
	})

	assert.NotEmpty(t, committed.EventID)
	assert.Equal(t, int64(1), committed.Timestamp)
	assert.False(t, committed.RecordedAt.IsZero())
}

func TestMemoryLog_AppendKeepsProvidedEventID(t *testing.T) {
	log := NewMemoryLog()

	committed := log.Append(domain.Event{
		EventID:   "evt-fixed",
		Type:      domain.EventAccountOpened,
		AccountID: "acc-1",
		Payload:   domain.AccountOpened{CustomerName: "John Doe"},
	})

	assert.Equal(t, "evt-fixed", committed.EventID)
}

func TestMemoryLog_TimestampsAreStrictlyMonotonic(t *testing.T) {
	log := NewMemoryLog()

	for i := 0; i < 100; i++ {
		log.Append(domain.Event{
			Type:      domain.EventFundsDeposited,
			AccountID: "acc-1",
			Payload:   domain.FundsDeposited{Amount: 1},
		})
	}

	events := log.All()
	assert.Len(t, events, 100)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Timestamp, events[i-1].Timestamp)
	}
}

func TestMemoryLog_AllReturnsStableCopy(t *testing.T) {
	log := NewMemoryLog()
	log.Append(domain.Event{
		Type:      domain.EventAccountOpened,
		AccountID: "acc-1",
		Payload:   domain.AccountOpened{CustomerName: "John Doe"},
	})
	log.Append(domain.Event{
		Type:      domain.EventFundsDeposited,
		AccountID: "acc-1",
		Payload:   domain.FundsDeposited{Amount: 800},
	})

	first := log.All()
	second := log.All()
	assert.Equal(t, first, second)

	// Mutating the returned slice must not leak into the log.
	first[0].AccountID = "tampered"
	assert.Equal(t, "acc-1", log.All()[0].AccountID)
}

func TestMemoryLog_Len(t *testing.T) {
	log := NewMemoryLog()
	assert.Equal(t, 0, log.Len())

	log.Append(domain.Event{
		Type:      domain.EventAccountOpened,
		AccountID: "acc-1",
		Payload:   domain.AccountOpened{CustomerName: "John Doe"},
	})
	assert.Equal(t, 1, log.Len())
}
