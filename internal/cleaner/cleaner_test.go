package cleaner

import (
	"reflect"
	"testing"

	"github.com/peterkacmarik/dockify/internal/model"
)

func TestCleanSKU(t *testing.T) {
	t.Parallel()

	if got := CleanSKU("  ab 12-x  "); got != "AB12-X" {
		t.Fatalf("got %q", got)
	}
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"10":    10,
		"10ks":  10,
		"10 ks": 10,
		"0":     0,
		"ks10":  0,
		"":      0,
	}
	for input, want := range cases {
		if got := ParseQuantity(input); got != want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	if p := ParsePrice("5,50"); p == nil || *p != 5.5 {
		t.Fatalf("comma decimal: got %v", p)
	}
	if p := ParsePrice(""); p != nil {
		t.Fatalf("empty must stay absent, got %v", p)
	}
	if p := ParsePrice("n/a"); p != nil {
		t.Fatalf("junk must stay absent, got %v", p)
	}
}

func TestBuildItem(t *testing.T) {
	t.Parallel()

	mapping := map[int]string{
		0: model.FieldSKU,
		1: model.FieldQuantity,
		2: model.FieldDescription,
		3: model.FieldPrice,
		4: "color",
	}
	item := BuildItem([]string{" sku-001 ", "10ks", " Widget ", "5.50", "red"}, mapping)

	if item.PartNumber != "SKU-001" {
		t.Fatalf("sku: %q", item.PartNumber)
	}
	if item.Quantity != 10 {
		t.Fatalf("quantity: %d", item.Quantity)
	}
	if item.Description != "Widget" {
		t.Fatalf("description: %q", item.Description)
	}
	if item.Price == nil || *item.Price != 5.5 {
		t.Fatalf("price: %v", item.Price)
	}
	if item.CustomFieldValues["color"] != "red" {
		t.Fatalf("custom field: %v", item.CustomFieldValues)
	}
}

func TestBuildItem_ShortRow(t *testing.T) {
	t.Parallel()

	mapping := map[int]string{0: model.FieldSKU, 5: model.FieldQuantity}
	item := BuildItem([]string{"A-1"}, mapping)
	if item.PartNumber != "A-1" || item.Quantity != 0 {
		t.Fatalf("short row must yield empty cells: %+v", item)
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	once := Clean(model.OrderItem{PartNumber: " sku 1 ", Quantity: 3, Description: " desc "})
	twice := Clean(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("cleaning must be idempotent:\n%+v\n%+v", once, twice)
	}
}
