package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mestredagrelha/grelha/internal/models"
)

// Setting keys.
const (
	KeyContactPhone = "contact_phone"
)

// SettingsRepository stores key/value settings.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting setting: %w", err)
	}
	return value, nil
}

// Set stores value under key.
func (r *SettingsRepository) Set(ctx context.Context, tx *sql.Tx, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := getExecer(r.db, tx).ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Contact returns the stored contact. A missing row is an empty contact.
func (r *SettingsRepository) Contact(ctx context.Context) (models.Contact, error) {
	phone, err := r.Get(ctx, KeyContactPhone)
	if errors.Is(err, ErrNotFound) {
		return models.Contact{}, nil
	}
	if err != nil {
		return models.Contact{}, err
	}
	return models.Contact{Phone: phone}, nil
}

// SetContact stores the contact phone.
func (r *SettingsRepository) SetContact(ctx context.Context, tx *sql.Tx, c models.Contact) error {
	return r.Set(ctx, tx, KeyContactPhone, c.Phone)
}
