// Package reconcile holds the state transitions of the item registry.
//
// Every function here takes a registry and returns a new one; the input is
// never modified. Callers own the registry and decide when to persist it.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/mestredagrelha/grelha/internal/models"
)

var (
	// ErrItemNotFound is returned when an event references an unknown item.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidDelta is returned when an event would drive its counter below zero.
	ErrInvalidDelta = errors.New("delta would make counter negative")

	// ErrUnknownField is returned for a field outside the closed set of counters.
	ErrUnknownField = errors.New("unknown field")
)

// Event is a single (item, field, delta) update.
type Event struct {
	ItemID string
	Field  models.Field
	Delta  int
}

// Apply applies one delta to one counter of one item.
//
// Sales and consumption draw from stock; cancelling them (negative delta)
// gives it back. Entries adjust stock directly. On any error the returned
// registry is the input, unchanged.
func Apply(reg models.Registry, itemID string, field models.Field, delta int) (models.Registry, error) {
	if !field.Valid() {
		return reg, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	idx, ok := reg.Find(itemID)
	if !ok {
		return reg, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	item := reg[idx]
	current := item.Get(field)
	next := current + delta
	if next < 0 {
		return reg, fmt.Errorf("%w: %s %s %d%+d", ErrInvalidDelta, itemID, field, current, delta)
	}

	stock := item.Stock
	switch field {
	case models.FieldSold, models.FieldConsumed:
		stock -= delta
	case models.FieldStock:
		stock = next
	}

	item.Set(field, next)
	item.Stock = max(stock, 0)

	out := reg.Clone()
	out[idx] = item
	return out, nil
}

// ApplyEvent is Apply for a pre-built event.
func ApplyEvent(reg models.Registry, ev Event) (models.Registry, error) {
	return Apply(reg, ev.ItemID, ev.Field, ev.Delta)
}

// ApplyAll applies events in order. A rejected event does not undo the
// ones before it. errs has one entry per event, nil where it applied.
func ApplyAll(reg models.Registry, events []Event) (models.Registry, []error) {
	errs := make([]error, len(events))
	for i, ev := range events {
		next, err := ApplyEvent(reg, ev)
		if err != nil {
			errs[i] = err
			continue
		}
		reg = next
	}
	return reg, errs
}
