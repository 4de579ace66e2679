package classifier

import (
	"regexp"

	"github.com/peterkacmarik/dockify/internal/model"
)

// ValueKind selects the value-shape check used when sampling a column.
type ValueKind int

const (
	ValueNumeric ValueKind = iota // non-negative number after symbol stripping
	ValueSKU                     // restrictive alphanumeric + separators
	ValueText                    // length > 5 and not numeric
)

// FieldRule describes one canonical field's detection heuristics.
type FieldRule struct {
	Key      string
	Keywords []string
	Kind     ValueKind
	Pattern  *regexp.Regexp // only consulted for ValueSKU
}

var skuPattern = regexp.MustCompile(`(?i)^[A-Z0-9\-/.]{3,}$`)

// DefaultRegistry is the ordered field registry. The order is the tie-break:
// when two fields score identically for a column, the earlier entry wins.
func DefaultRegistry() []FieldRule {
	return []FieldRule{
		{
			Key:      model.FieldSKU,
			Keywords: []string{"sku", "item", "item code", "part", "part no", "part number", "code", "product_id"},
			Kind:     ValueSKU,
			Pattern:  skuPattern,
		},
		{
			Key:      model.FieldQuantity,
			Keywords: []string{"qty", "quantity", "amount", "q", "count"},
			Kind:     ValueNumeric,
		},
		{
			Key:      model.FieldDescription,
			Keywords: []string{"desc", "description", "name", "job", "product name"},
			Kind:     ValueText,
		},
		{
			Key:      model.FieldPrice,
			Keywords: []string{"price", "unit price", "amount", "cost", "unit cost"},
			Kind:     ValueNumeric,
		},
	}
}
