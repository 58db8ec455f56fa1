// Package checksum provides deterministic digests over the event log and the
// projected account state. Both checksums use the same scheme: a canonical,
// key-order-independent JSON serialization of each record, concatenated in a
// defined order and hashed with SHA-256.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/tilakpeace/banking-system-audit/internal/domain"
)

// Events digests the ordered event log. Events are sorted by logical
// timestamp before hashing, and only replay-relevant fields participate:
// type, account id, payload, and timestamp. Wall-clock times and event ids
// are excluded so the digest depends on history alone.
func Events(events []domain.Event) (string, error) {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	h := sha256.New()
	for _, e := range sorted {
		var payload map[string]any
		if e.Payload != nil {
			payload = e.Payload.Fields()
		}
		record := map[string]any{
			"account_id": e.AccountID,
			"payload":    payload,
			"timestamp":  e.Timestamp,
			"type":       string(e.Type),
		}
		if err := writeCanonical(h, record); err != nil {
			return "", fmt.Errorf("failed to serialize event %s: %w", e.EventID, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// State digests a set of projected accounts, sorted by account id.
func State(accounts []domain.Account) (string, error) {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AccountID < sorted[j].AccountID
	})

	h := sha256.New()
	for _, a := range sorted {
		record := map[string]any{
			"account_id":        a.AccountID,
			"balance":           a.Balance,
			"customer_name":     a.CustomerName,
			"status":            string(a.Status),
			"transaction_count": len(a.Transactions),
		}
		if err := writeCanonical(h, record); err != nil {
			return "", fmt.Errorf("failed to serialize account %s: %w", a.AccountID, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeCanonical writes one record to the hash in canonical form. Go's JSON
// encoder emits map keys in sorted order, which makes the serialization
// independent of insertion order. A newline terminates each record so
// adjacent records cannot collide.
func writeCanonical(h io.Writer, record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := h.Write(data); err != nil {
		return err
	}
	_, err = h.Write([]byte("\n"))
	return err
}
