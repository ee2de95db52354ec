// Package snapshot reads and writes the registry as a JSON array.
package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/mestredagrelha/grelha/internal/models"
)

// ErrInvalidSnapshot is returned when a snapshot decodes but does not
// describe a valid registry.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

type record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Sold     int    `json:"sold"`
	Consumed *int   `json:"consumed,omitempty"`
}

// Decode reads a snapshot. Entries without a consumed count load as zero.
func Decode(r io.Reader) (models.Registry, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	reg := make(models.Registry, 0, len(records))
	for _, rec := range records {
		it := models.Item{
			ID:    rec.ID,
			Name:  rec.Name,
			Stock: rec.Stock,
			Sold:  rec.Sold,
		}
		if rec.Consumed != nil {
			it.Consumed = *rec.Consumed
		}
		reg = append(reg, it)
	}

	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return reg, nil
}

// Encode writes reg as an indented JSON array.
func Encode(w io.Writer, reg models.Registry) error {
	records := make([]record, 0, len(reg))
	for _, it := range reg {
		consumed := it.Consumed
		records = append(records, record{
			ID:       it.ID,
			Name:     it.Name,
			Stock:    it.Stock,
			Sold:     it.Sold,
			Consumed: &consumed,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
