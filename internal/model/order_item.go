package model

import "time"

// OrderItem is one cleaned order row ready for validation and export.
type OrderItem struct {
	PartNumber        string            `json:"partNumber"`
	Quantity          int               `json:"quantity"`
	Description       string            `json:"description"`
	Price             *float64          `json:"price,omitempty"`
	CustomFieldValues map[string]string `json:"customFieldValues,omitempty"`
	IsValid           bool              `json:"isValid"`
	Errors            []string          `json:"errors,omitempty"`
}

// IntakeField is one entry of the configurable field registry. sku and
// quantity are seeded as required and can be neither deactivated nor
// deleted.
type IntakeField struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	IsActive   bool      `json:"is_active"`
	IsRequired bool      `json:"is_required"`
	CreatedAt  time.Time `json:"created_at"`
}

// MappingTemplate is a confirmed column mapping saved for reuse.
type MappingTemplate struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customerId"`
	Name       string         `json:"name"`
	Mapping    map[string]int `json:"mapping"` // field key -> column index
	CreatedAt  time.Time      `json:"createdAt"`
}
