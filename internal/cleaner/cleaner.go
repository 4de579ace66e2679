package cleaner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/peterkacmarik/dockify/internal/model"
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	leadingDigitsRe = regexp.MustCompile(`^(\d+)`)
)

// CleanSKU trims, upper-cases and removes all internal whitespace.
func CleanSKU(sku string) string {
	return whitespaceRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(sku)), "")
}

// ParseQuantity extracts the leading digits of values like "10", "10ks",
// "10 ks". Unparsable input degrades to 0 rather than erroring.
func ParseQuantity(raw string) int {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	match := leadingDigitsRe.FindStringSubmatch(cleaned)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		// Leading digits longer than an int; treat as unparsable.
		return 0
	}
	return n
}

// ParsePrice coerces a cell to a number, accepting a comma decimal
// separator. Returns nil when the cell is empty or not a number.
func ParsePrice(raw string) *float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// BuildItem transforms one raw data row into a cleaned order item using
// the confirmed column→field mapping. Fields outside the canonical four
// are carried opaquely in CustomFieldValues.
func BuildItem(row []string, mapping map[int]string) model.OrderItem {
	item := model.OrderItem{}
	for col, field := range mapping {
		raw := strings.TrimSpace(model.Cell(row, col))
		switch field {
		case model.FieldSKU:
			item.PartNumber = CleanSKU(raw)
		case model.FieldQuantity:
			item.Quantity = ParseQuantity(raw)
		case model.FieldDescription:
			item.Description = raw
		case model.FieldPrice:
			item.Price = ParsePrice(raw)
		default:
			if item.CustomFieldValues == nil {
				item.CustomFieldValues = make(map[string]string)
			}
			item.CustomFieldValues[field] = raw
		}
	}
	return item
}

// Clean re-normalizes an existing item. Idempotent: cleaning a cleaned
// item yields the same item.
func Clean(item model.OrderItem) model.OrderItem {
	item.PartNumber = CleanSKU(item.PartNumber)
	item.Description = strings.TrimSpace(item.Description)
	return item
}
