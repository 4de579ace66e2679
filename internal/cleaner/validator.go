package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/peterkacmarik/dockify/internal/model"
)

// DefaultMaxQuantity caps a single line item's quantity.
const DefaultMaxQuantity = 10000

var skuRe = regexp.MustCompile(`^[A-Z0-9-]+$`)

// Validator checks cleaned order items against the field constraints.
type Validator struct {
	MaxQuantity int
}

// NewValidator creates a validator; maxQuantity <= 0 selects the default.
func NewValidator(maxQuantity int) *Validator {
	if maxQuantity <= 0 {
		maxQuantity = DefaultMaxQuantity
	}
	return &Validator{MaxQuantity: maxQuantity}
}

// ValidateItem returns every violated constraint, not just the first.
func (v *Validator) ValidateItem(item model.OrderItem) []string {
	var errs []string

	if item.PartNumber == "" {
		errs = append(errs, "SKU je povinné pole")
	} else if !skuRe.MatchString(item.PartNumber) {
		errs = append(errs, "SKU môže obsahovať len písmená, čísla a pomlčky")
	}

	if item.Quantity <= 0 {
		errs = append(errs, "Množstvo musí byť väčšie ako 0")
	} else if item.Quantity > v.MaxQuantity {
		errs = append(errs, fmt.Sprintf("Množstvo je príliš vysoké (max %d)", v.MaxQuantity))
	}

	if item.Price != nil && *item.Price < 0 {
		errs = append(errs, "Cena nemôže byť záporná")
	}

	return errs
}

// InvalidItem pairs a rejected item with its position and violations.
type InvalidItem struct {
	Item   model.OrderItem `json:"item"`
	Index  int             `json:"index"`
	Errors []string        `json:"errors"`
}

// BatchResult is the outcome of validating a whole item set.
type BatchResult struct {
	ValidItems   []model.OrderItem `json:"validItems"`
	InvalidItems []InvalidItem     `json:"invalidItems"`
	Duplicates   []string          `json:"duplicates"`
}

// ValidateBatch validates every item and detects duplicate SKUs across the
// set. Duplicates are advisory: they never mark an item invalid on their
// own.
func (v *Validator) ValidateBatch(items []model.OrderItem) BatchResult {
	result := BatchResult{}
	skuCounts := make(map[string]int)
	skuOrder := []string{}

	for index, item := range items {
		sku := strings.ToUpper(strings.TrimSpace(item.PartNumber))
		if sku != "" {
			if skuCounts[sku] == 0 {
				skuOrder = append(skuOrder, sku)
			}
			skuCounts[sku]++
		}

		errs := v.ValidateItem(item)
		item.IsValid = len(errs) == 0
		item.Errors = errs
		if item.IsValid {
			result.ValidItems = append(result.ValidItems, item)
		} else {
			result.InvalidItems = append(result.InvalidItems, InvalidItem{Item: item, Index: index, Errors: errs})
		}
	}

	for _, sku := range skuOrder {
		if skuCounts[sku] > 1 {
			result.Duplicates = append(result.Duplicates, sku)
		}
	}
	return result
}
