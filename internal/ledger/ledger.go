// Package ledger owns the panel's interview-slot inventory. It is the one
// piece of state shared across candidates, so every booking goes through a
// single mutex-guarded check-and-book: a slot moves free -> booked exactly
// once and never reverts.
package ledger

import (
	"fmt"
	"sync"
)

// BookingStatus is the outcome of a booking attempt.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingFailed    BookingStatus = "failed"
)

// Booking reports the result of one Book call.
type Booking struct {
	Status BookingStatus
	SlotID string
}

type slot struct {
	id       string
	bookedBy string
	booked   bool
}

// Ledger tracks slot availability per role. Slot order within a role is the
// canonical (chronological) order handed to the constructor.
type Ledger struct {
	mu    sync.Mutex
	roles map[string][]*slot
	index map[string]*slot
}

// New builds a ledger from a role -> ordered slot list table. Duplicate slot
// identifiers are rejected because bookings are keyed by slot ID alone.
func New(panel map[string][]string) (*Ledger, error) {
	l := &Ledger{
		roles: make(map[string][]*slot, len(panel)),
		index: make(map[string]*slot),
	}
	for role, ids := range panel {
		entries := make([]*slot, 0, len(ids))
		for _, id := range ids {
			if _, exists := l.index[id]; exists {
				return nil, fmt.Errorf("ledger: duplicate slot %q", id)
			}
			entry := &slot{id: id}
			l.index[id] = entry
			entries = append(entries, entry)
		}
		l.roles[role] = entries
	}
	return l, nil
}

// Available returns a snapshot of the currently-free slot IDs for a role, in
// canonical order. The snapshot may be stale by the time a booking is
// attempted; Book remains the source of truth.
func (l *Ledger) Available(role string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var free []string
	for _, entry := range l.roles[role] {
		if !entry.booked {
			free = append(free, entry.id)
		}
	}
	return free
}

// Book atomically claims a slot for a candidate. Booking an unknown or
// already-booked slot always returns a failed booking, never an error, so
// racing callers can treat a loss as a deferral.
func (l *Ledger) Book(candidateID, slotID string) Booking {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.index[slotID]
	if !ok || entry.booked {
		return Booking{Status: BookingFailed, SlotID: slotID}
	}
	entry.booked = true
	entry.bookedBy = candidateID
	return Booking{Status: BookingConfirmed, SlotID: slotID}
}

// BookedBy reports which candidate holds a slot, if anyone.
func (l *Ledger) BookedBy(slotID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.index[slotID]
	if !ok || !entry.booked {
		return "", false
	}
	return entry.bookedBy, true
}
