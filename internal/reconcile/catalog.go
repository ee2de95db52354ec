package reconcile

import (
	"fmt"

	"github.com/mestredagrelha/grelha/internal/models"
)

// defaultCatalog is the menu loaded at first run and restored by a hard reset.
var defaultCatalog = models.Registry{
	{ID: "contra_file", Name: "Contra Filé"},
	{ID: "misto", Name: "Misto"},
	{ID: "frango_bacon", Name: "Frango c/ Bacon"},
	{ID: "frango", Name: "Frango"},
	{ID: "cupim", Name: "Cupim"},
	{ID: "queijo", Name: "Queijo"},
	{ID: "queijo_mel", Name: "Queijo c/ Mel"},
	{ID: "carne_bacon", Name: "Carne c/ Bacon"},
	{ID: "lingua", Name: "Língua"},
	{ID: "coracao", Name: "Coração"},
}

// DefaultCatalog returns a fresh copy of the built-in catalog.
func DefaultCatalog() models.Registry {
	return HardReset(defaultCatalog)
}

// CatalogEntry is a configured catalog line. ID may be left empty and is
// then derived from the name.
type CatalogEntry struct {
	ID   string
	Name string
}

// NewCatalog builds a zeroed catalog from configured entries, generating
// identifiers where missing. An empty list yields the default catalog.
func NewCatalog(entries []CatalogEntry) (models.Registry, error) {
	if len(entries) == 0 {
		return DefaultCatalog(), nil
	}

	reg := make(models.Registry, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			next, _, err := AddItem(reg, e.Name, 0)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %d: %w", i, err)
			}
			reg = next
			continue
		}
		reg = append(reg, models.Item{ID: e.ID, Name: e.Name})
	}

	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return reg, nil
}
