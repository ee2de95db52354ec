package repository

import (
	"context"
	"database/sql"

	"github.com/mestredagrelha/grelha/internal/models"
)

// Store bundles the repositories the inventory service persists through.
type Store struct {
	Items    *ItemRepository
	Settings *SettingsRepository
}

// NewStore creates a store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		Items:    NewItemRepository(db),
		Settings: NewSettingsRepository(db),
	}
}

// LoadRegistry returns the stored registry, nil when nothing is stored.
func (s *Store) LoadRegistry(ctx context.Context) (models.Registry, error) {
	return s.Items.List(ctx)
}

// SaveRegistry replaces the stored registry.
func (s *Store) SaveRegistry(ctx context.Context, reg models.Registry) error {
	return s.Items.Replace(ctx, nil, reg)
}

// SaveItem updates the counters of one stored item.
func (s *Store) SaveItem(ctx context.Context, item models.Item) error {
	return s.Items.Update(ctx, nil, item)
}

// LoadContact returns the stored contact.
func (s *Store) LoadContact(ctx context.Context) (models.Contact, error) {
	return s.Settings.Contact(ctx)
}

// SaveContact stores the contact.
func (s *Store) SaveContact(ctx context.Context, c models.Contact) error {
	return s.Settings.SetContact(ctx, nil, c)
}
