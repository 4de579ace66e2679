package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/peterkacmarik/dockify/internal/model"
)

// templateKeepCount is how many saved mappings are kept per customer.
const templateKeepCount = 5

// SaveTemplate stores a confirmed column mapping for a customer and
// prunes everything beyond the newest five.
func (s *Store) SaveTemplate(customerID, name string, mapping map[string]int) (model.MappingTemplate, error) {
	encoded, err := json.Marshal(mapping)
	if err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to encode mapping: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.Exec(`
		INSERT INTO mapping_templates (id, customer_id, name, mapping)
		VALUES (?, ?, ?, ?)
	`, id, customerID, name, string(encoded)); err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to insert template: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM mapping_templates
		WHERE customer_id = ? AND id NOT IN (
			SELECT id FROM mapping_templates
			WHERE customer_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
	`, customerID, customerID, templateKeepCount); err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to prune templates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to commit template: %w", err)
	}

	var saved model.MappingTemplate
	err = s.db.QueryRow(`
		SELECT id, customer_id, name, mapping, created_at
		FROM mapping_templates WHERE id = ?
	`, id).Scan(&saved.ID, &saved.CustomerID, &saved.Name, &rawMapping{&saved.Mapping}, &saved.CreatedAt)
	if err != nil {
		return model.MappingTemplate{}, fmt.Errorf("failed to reload template: %w", err)
	}
	return saved, nil
}

// ListTemplates returns a customer's saved mappings, newest first.
func (s *Store) ListTemplates(customerID string) ([]model.MappingTemplate, error) {
	rows, err := s.db.Query(`
		SELECT id, customer_id, name, mapping, created_at
		FROM mapping_templates
		WHERE customer_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.MappingTemplate
	for rows.Next() {
		var t model.MappingTemplate
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Name, &rawMapping{&t.Mapping}, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// rawMapping scans the JSON mapping column into a map.
type rawMapping struct {
	dst *map[string]int
}

func (r *rawMapping) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*r.dst = nil
		return nil
	default:
		return fmt.Errorf("unexpected mapping column type %T", src)
	}
	return json.Unmarshal(data, r.dst)
}
