package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// PaginationLimitKey holds the preview page size setting.
const PaginationLimitKey = "order_intake.pagination_limit"

// DefaultPaginationLimit is used when no setting is stored.
const DefaultPaginationLimit = 25

// GetSetting reads one settings row. Missing keys return ("", nil).
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts one settings row.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// PaginationLimit returns the stored preview page size, falling back to
// the default on missing or malformed values.
func (s *Store) PaginationLimit() (int, error) {
	raw, err := s.GetSetting(PaginationLimitKey)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return DefaultPaginationLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultPaginationLimit, nil
	}
	return limit, nil
}

// SetPaginationLimit stores the preview page size.
func (s *Store) SetPaginationLimit(limit int) error {
	if limit <= 0 {
		return errors.New("pagination limit must be positive")
	}
	return s.SetSetting(PaginationLimitKey, strconv.Itoa(limit))
}
