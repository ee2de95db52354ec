package models

import (
	"fmt"
	"strings"
)

// Field identifies one of the three mutable counters of an item.
type Field int

const (
	FieldStock Field = iota + 1
	FieldSold
	FieldConsumed
)

// Fields lists the mutable counters in display order.
var Fields = []Field{FieldStock, FieldSold, FieldConsumed}

func (f Field) String() string {
	switch f {
	case FieldStock:
		return "stock"
	case FieldSold:
		return "sold"
	case FieldConsumed:
		return "consumed"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Valid returns true if the field is one of the known counters.
func (f Field) Valid() bool {
	switch f {
	case FieldStock, FieldSold, FieldConsumed:
		return true
	default:
		return false
	}
}

// ParseField converts a counter name into a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock":
		return FieldStock, nil
	case "sold":
		return FieldSold, nil
	case "consumed":
		return FieldConsumed, nil
	default:
		return 0, fmt.Errorf("invalid field: %q", s)
	}
}

// Channel is the input section an event originates from.
type Channel string

const (
	ChannelSales       Channel = "SALES"
	ChannelEntry       Channel = "ENTRY"
	ChannelConsumption Channel = "CONSUMPTION"
)

// Channels lists the input sections in display order.
var Channels = []Channel{ChannelSales, ChannelEntry, ChannelConsumption}

// Valid returns true if the channel is valid.
func (c Channel) Valid() bool {
	switch c {
	case ChannelSales, ChannelEntry, ChannelConsumption:
		return true
	default:
		return false
	}
}

// Field returns the counter a channel writes to.
func (c Channel) Field() Field {
	switch c {
	case ChannelSales:
		return FieldSold
	case ChannelEntry:
		return FieldStock
	case ChannelConsumption:
		return FieldConsumed
	default:
		return 0
	}
}

// Label returns the operator-facing section title.
func (c Channel) Label() string {
	switch c {
	case ChannelSales:
		return "Vendas"
	case ChannelEntry:
		return "Entrada"
	case ChannelConsumption:
		return "Consumo"
	default:
		return string(c)
	}
}

// ParseChannel accepts the channel name in any case.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid channel: %q", s)
	}
	return c, nil
}

// Item is one tracked product.
type Item struct {
	ID       string
	Name     string
	Stock    int
	Sold     int
	Consumed int
}

// Get returns the value of the given counter.
func (i Item) Get(f Field) int {
	switch f {
	case FieldStock:
		return i.Stock
	case FieldSold:
		return i.Sold
	case FieldConsumed:
		return i.Consumed
	default:
		return 0
	}
}

// Set writes the value of the given counter.
func (i *Item) Set(f Field, v int) {
	switch f {
	case FieldStock:
		i.Stock = v
	case FieldSold:
		i.Sold = v
	case FieldConsumed:
		i.Consumed = v
	}
}

// Validate checks if the item data is valid.
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	for _, f := range Fields {
		if i.Get(f) < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f, i.Get(f))
		}
	}
	return nil
}

// Registry is the ordered list of tracked items.
// Order is insertion order and only matters for display.
type Registry []Item

// Find returns the index of the item with the given ID.
func (r Registry) Find(id string) (int, bool) {
	for i := range r {
		if r[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Get returns a copy of the item with the given ID.
func (r Registry) Get(id string) (Item, bool) {
	idx, ok := r.Find(id)
	if !ok {
		return Item{}, false
	}
	return r[idx], true
}

// Clone returns an independent copy of the registry.
func (r Registry) Clone() Registry {
	if r == nil {
		return nil
	}
	out := make(Registry, len(r))
	copy(out, r)
	return out
}

// Validate checks every item and the uniqueness of identifiers.
func (r Registry) Validate() error {
	seen := make(map[string]bool, len(r))
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if seen[r[i].ID] {
			return fmt.Errorf("duplicate item id: %s", r[i].ID)
		}
		seen[r[i].ID] = true
	}
	return nil
}

// Totals sums each counter across the registry.
func (r Registry) Totals() Item {
	var t Item
	for _, it := range r {
		t.Stock += it.Stock
		t.Sold += it.Sold
		t.Consumed += it.Consumed
	}
	return t
}
