package freetext

import (
	"strings"

	"github.com/mestredagrelha/grelha/internal/models"
)

// Resolve finds the item a name phrase refers to. An item matches when its
// normalized name contains the normalized phrase, or when its ID equals the
// phrase with spaces turned into underscores. The first match in registry
// order wins; an empty phrase matches nothing.
func Resolve(phrase string, reg models.Registry) (models.Item, bool) {
	cleaned := Normalize(phrase)
	if cleaned == "" {
		return models.Item{}, false
	}
	asID := strings.ReplaceAll(cleaned, " ", "_")

	for _, it := range reg {
		if strings.Contains(Normalize(it.Name), cleaned) || strings.ToLower(it.ID) == asID {
			return it, true
		}
	}
	return models.Item{}, false
}
