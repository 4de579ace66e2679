package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "dockify.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedRequiredFields(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	fields, err := s.ListFields()
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(fields) != 4 {
		t.Fatalf("expected 4 seeded fields, got %d", len(fields))
	}
	for i, want := range []string{"sku", "quantity", "description", "price"} {
		if fields[i].Key != want {
			t.Errorf("field %d: key = %q, want %q", i, fields[i].Key, want)
		}
		if !fields[i].IsActive {
			t.Errorf("field %s must start active", want)
		}
		wantRequired := i < 2
		if fields[i].IsRequired != wantRequired {
			t.Errorf("field %s: required = %v, want %v", want, fields[i].IsRequired, wantRequired)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "dockify.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	fields, err := s.ListFields()
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields after reopen, got %d", len(fields))
	}
}

func TestInsertAndDeleteField(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	field, err := s.InsertField("My Color 2", "", false)
	if err != nil {
		t.Fatalf("InsertField: %v", err)
	}
	if field.Key != "my-color-2" {
		t.Errorf("derived key = %q, want my-color-2", field.Key)
	}
	if field.IsRequired {
		t.Error("user field must not be required")
	}

	if _, err := s.InsertField("Other label", "my-color-2", false); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate key error = %v, want ErrDuplicateKey", err)
	}

	if err := s.DeleteField(field.ID); err != nil {
		t.Fatalf("DeleteField: %v", err)
	}
	if _, err := s.GetField(field.ID); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("GetField after delete = %v, want ErrFieldNotFound", err)
	}
}

func TestRequiredFieldsProtected(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	fields, err := s.ListFields()
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	sku := fields[0]

	if err := s.SetFieldActive(sku.ID, false); !errors.Is(err, ErrFieldProtected) {
		t.Errorf("SetFieldActive on sku = %v, want ErrFieldProtected", err)
	}
	if err := s.DeleteField(sku.ID); !errors.Is(err, ErrFieldProtected) {
		t.Errorf("DeleteField on sku = %v, want ErrFieldProtected", err)
	}
}

func TestToggleUserField(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	field, err := s.InsertField("Farba", "", false)
	if err != nil {
		t.Fatalf("InsertField: %v", err)
	}
	if err := s.SetFieldActive(field.ID, false); err != nil {
		t.Fatalf("SetFieldActive: %v", err)
	}
	got, err := s.GetField(field.ID)
	if err != nil {
		t.Fatalf("GetField: %v", err)
	}
	if got.IsActive {
		t.Error("field still active after deactivation")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		label string
		want  string
	}{
		{"My Color 2", "my-color-2"},
		{"  Poznámka  ", "poznámka"},
		{"Price (EUR)", "price-eur"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.label); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestPaginationLimitDefaultAndOverride(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	limit, err := s.PaginationLimit()
	if err != nil {
		t.Fatalf("PaginationLimit: %v", err)
	}
	if limit != DefaultPaginationLimit {
		t.Errorf("default limit = %d, want %d", limit, DefaultPaginationLimit)
	}

	if err := s.SetPaginationLimit(50); err != nil {
		t.Fatalf("SetPaginationLimit: %v", err)
	}
	limit, err = s.PaginationLimit()
	if err != nil {
		t.Fatalf("PaginationLimit: %v", err)
	}
	if limit != 50 {
		t.Errorf("limit = %d, want 50", limit)
	}

	if err := s.SetPaginationLimit(0); err == nil {
		t.Error("SetPaginationLimit(0) must fail")
	}

	// Malformed stored values fall back to the default.
	if err := s.SetSetting(PaginationLimitKey, "abc"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	limit, err = s.PaginationLimit()
	if err != nil {
		t.Fatalf("PaginationLimit: %v", err)
	}
	if limit != DefaultPaginationLimit {
		t.Errorf("fallback limit = %d, want %d", limit, DefaultPaginationLimit)
	}
}

func TestTemplateKeepLatestFive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	mapping := map[string]int{"sku": 0, "quantity": 1}
	for i := 0; i < 7; i++ {
		if _, err := s.SaveTemplate("cust-1", "t", mapping); err != nil {
			t.Fatalf("SaveTemplate %d: %v", i, err)
		}
	}
	if _, err := s.SaveTemplate("cust-2", "other", mapping); err != nil {
		t.Fatalf("SaveTemplate cust-2: %v", err)
	}

	templates, err := s.ListTemplates("cust-1")
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 5 {
		t.Fatalf("kept %d templates, want 5", len(templates))
	}
	for _, tmpl := range templates {
		if tmpl.Mapping["sku"] != 0 || tmpl.Mapping["quantity"] != 1 {
			t.Errorf("mapping roundtrip lost data: %v", tmpl.Mapping)
		}
	}

	other, err := s.ListTemplates("cust-2")
	if err != nil {
		t.Fatalf("ListTemplates cust-2: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("cust-2 has %d templates, want 1", len(other))
	}
}
