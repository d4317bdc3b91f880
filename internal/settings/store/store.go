package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetivoire/budgetivoire/internal/settings"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) LoadSettings(ctx context.Context) (settings.Settings, error) {
	query := `
		SELECT name, currency, pin, onboarded, guest, city, phone, confirmation_gate,
		       notifications_enabled, dark_mode, language, linked_accounts
		FROM settings
		WHERE id = 1
	`

	var (
		st       settings.Settings
		language string
		linked   string
	)

	err := s.db.QueryRowContext(ctx, query).Scan(
		&st.Name,
		&st.Currency,
		&st.PINHash,
		&st.Onboarded,
		&st.Guest,
		&st.City,
		&st.Phone,
		&st.ConfirmationGate,
		&st.NotificationsEnabled,
		&st.DarkMode,
		&language,
		&linked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, settings.ErrNotFound
	}

	if err != nil {
		return settings.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	st.Language = settings.Language(language)
	if linked != "" {
		st.LinkedAccounts = strings.Split(linked, ",")
	}

	return st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st settings.Settings) error {
	query := `
		INSERT INTO settings (id, name, currency, pin, onboarded, guest, city, phone, confirmation_gate,
		                      notifications_enabled, dark_mode, language, linked_accounts)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			currency = EXCLUDED.currency,
			pin = EXCLUDED.pin,
			onboarded = EXCLUDED.onboarded,
			guest = EXCLUDED.guest,
			city = EXCLUDED.city,
			phone = EXCLUDED.phone,
			confirmation_gate = EXCLUDED.confirmation_gate,
			notifications_enabled = EXCLUDED.notifications_enabled,
			dark_mode = EXCLUDED.dark_mode,
			language = EXCLUDED.language,
			linked_accounts = EXCLUDED.linked_accounts
	`

	_, err := s.db.ExecContext(ctx, query,
		st.Name,
		st.Currency,
		st.PINHash,
		st.Onboarded,
		st.Guest,
		st.City,
		st.Phone,
		st.ConfirmationGate,
		st.NotificationsEnabled,
		st.DarkMode,
		string(st.Language),
		strings.Join(st.LinkedAccounts, ","),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
