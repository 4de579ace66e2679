package store

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/peterkacmarik/dockify/internal/model"
)

var (
	// ErrFieldNotFound signals an unknown field id.
	ErrFieldNotFound = errors.New("intake field not found")
	// ErrFieldProtected signals an attempt to deactivate or delete a
	// required field (sku, quantity).
	ErrFieldProtected = errors.New("intake field is required and cannot be changed")
	// ErrDuplicateKey signals a key collision on insert.
	ErrDuplicateKey = errors.New("intake field key already exists")
)

var (
	nonWordRe     = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
	edgeHyphensRe = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives a field key from a human label:
// "My Color 2" -> "my-color-2".
func Slugify(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = nonWordRe.ReplaceAllString(key, "")
	key = spaceRunRe.ReplaceAllString(key, "-")
	key = edgeHyphensRe.ReplaceAllString(key, "")
	return key
}

// seedRequiredFields inserts the default registry entries. sku and
// quantity are permanent; description and price start active but remain
// user-manageable.
func (s *Store) seedRequiredFields() error {
	seeds := []struct {
		key      string
		label    string
		required bool
	}{
		{model.FieldSKU, "SKU", true},
		{model.FieldQuantity, "Množstvo", true},
		{model.FieldDescription, "Popis", false},
		{model.FieldPrice, "Cena", false},
	}
	for _, seed := range seeds {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO intake_fields (id, key, label, is_active, is_required)
			VALUES (?, ?, ?, 1, ?)
		`, uuid.NewString(), seed.key, seed.label, seed.required)
		if err != nil {
			return fmt.Errorf("failed to seed field %s: %w", seed.key, err)
		}
	}
	return nil
}

// ListFields returns every field ordered by creation.
func (s *Store) ListFields() ([]model.IntakeField, error) {
	rows, err := s.db.Query(`
		SELECT id, key, label, is_active, is_required, created_at
		FROM intake_fields
		ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []model.IntakeField
	for rows.Next() {
		var f model.IntakeField
		if err := rows.Scan(&f.ID, &f.Key, &f.Label, &f.IsActive, &f.IsRequired, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// GetField returns one field by id.
func (s *Store) GetField(id string) (model.IntakeField, error) {
	var f model.IntakeField
	err := s.db.QueryRow(`
		SELECT id, key, label, is_active, is_required, created_at
		FROM intake_fields WHERE id = ?
	`, id).Scan(&f.ID, &f.Key, &f.Label, &f.IsActive, &f.IsRequired, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.IntakeField{}, ErrFieldNotFound
	}
	if err != nil {
		return model.IntakeField{}, fmt.Errorf("failed to get field: %w", err)
	}
	return f, nil
}

// InsertField creates a user-defined field. An empty key is derived from
// the label.
func (s *Store) InsertField(label, key string, isRequired bool) (model.IntakeField, error) {
	if key == "" {
		key = Slugify(label)
	}
	if key == "" {
		return model.IntakeField{}, errors.New("invalid label or key")
	}

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO intake_fields (id, key, label, is_active, is_required)
		VALUES (?, ?, ?, 1, ?)
	`, id, key, label, isRequired)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return model.IntakeField{}, ErrDuplicateKey
		}
		return model.IntakeField{}, fmt.Errorf("failed to insert field: %w", err)
	}
	return s.GetField(id)
}

// SetFieldActive toggles a field. Required fields cannot be deactivated.
func (s *Store) SetFieldActive(id string, isActive bool) error {
	field, err := s.GetField(id)
	if err != nil {
		return err
	}
	if field.IsRequired {
		return ErrFieldProtected
	}

	if _, err := s.db.Exec(`UPDATE intake_fields SET is_active = ? WHERE id = ?`, isActive, id); err != nil {
		return fmt.Errorf("failed to toggle field: %w", err)
	}
	return nil
}

// DeleteField removes a user-defined field. Required fields cannot be
// deleted.
func (s *Store) DeleteField(id string) error {
	field, err := s.GetField(id)
	if err != nil {
		return err
	}
	if field.IsRequired {
		return ErrFieldProtected
	}

	if _, err := s.db.Exec(`DELETE FROM intake_fields WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	return nil
}
