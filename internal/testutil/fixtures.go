package testutil

import (
	"github.com/mestredagrelha/grelha/internal/models"
)

// FixtureItem creates a test item with sensible defaults.
func FixtureItem(overrides ...func(*models.Item)) models.Item {
	item := models.Item{
		ID:    "queijo",
		Name:  "Queijo",
		Stock: 20,
	}

	for _, override := range overrides {
		override(&item)
	}

	return item
}

// FixtureRegistry creates a small registry with stock and period activity.
func FixtureRegistry() models.Registry {
	return models.Registry{
		FixtureItem(func(i *models.Item) {
			i.ID, i.Name = "contra_file", "Contra Filé"
			i.Stock, i.Sold, i.Consumed = 12, 8, 1
		}),
		FixtureItem(func(i *models.Item) {
			i.ID, i.Name = "frango_bacon", "Frango c/ Bacon"
			i.Stock, i.Sold = 5, 15
		}),
		FixtureItem(),
		FixtureItem(func(i *models.Item) {
			i.ID, i.Name = "coracao", "Coração"
			i.Stock = 0
		}),
	}
}
