// Package eventlog holds the append-only event log, the single source of
// truth for all account state. The log is totally ordered by the logical
// timestamp assigned at append time; it exposes no update or delete.
package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
)

// Log is the append-only store of ledger events. Business validation happens
// upstream in the ledger engine; Append never rejects a well-formed event.
type Log interface {
	// Append assigns an event id (when empty) and the next logical
	// timestamp, stores the event at the end of the sequence, and returns
	// the stored copy.
	Append(event domain.Event) domain.Event

	// All returns the full ordered sequence as a copy. Repeated calls with
	// no append in between return equal sequences.
	All() []domain.Event

	// Len reports the number of appended events.
	Len() int
}

// MemoryLog is the in-memory Log implementation. Events live for the process
// lifetime.
type MemoryLog struct {
	mu      sync.Mutex
	events  []domain.Event
	lastSeq int64
}

// NewMemoryLog creates an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(event domain.Event) domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	l.lastSeq++
	event.Timestamp = l.lastSeq
	event.RecordedAt = time.Now().UTC()

	l.events = append(l.events, event)
	return event
}

func (l *MemoryLog) All() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *MemoryLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
