package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if cfg.Intake.AnalysisRowLimit != 200 || cfg.Intake.SampleRowCount != 5 {
		t.Errorf("intake sampling defaults = %+v", cfg.Intake)
	}
	if cfg.Intake.MaxQuantity != 10000 || cfg.Intake.DefaultPagination != 25 {
		t.Errorf("intake limit defaults = %+v", cfg.Intake)
	}
	if cfg.LLM.Enabled {
		t.Error("llm must default to disabled")
	}
	if cfg.LLM.EscalationThreshold != 0.75 {
		t.Errorf("escalation threshold = %v, want 0.75", cfg.LLM.EscalationThreshold)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		toml string
		want bool
	}{
		{"explicit port", "[server]\nport = 9000\n", true},
		{"server without port", "[server]\ndev_mode = true\n", false},
		{"no server section", "[data]\ndata_dir = \"data\"\n", false},
		{"broken toml", "[server\nport", false},
	}
	for _, tc := range cases {
		if got := isPortSpecifiedInToml([]byte(tc.toml)); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGetDataPath(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	p := GetDataPath(cfg, "exports", "objednavka.xlsx")
	if !strings.HasSuffix(p, filepath.Join("data", "exports", "objednavka.xlsx")) {
		t.Errorf("path = %q", p)
	}

	// Empty segments collapse instead of leaving stray separators.
	p = GetDataPath(cfg, "", "dockify.db")
	if !strings.HasSuffix(p, filepath.Join("data", "dockify.db")) {
		t.Errorf("path = %q", p)
	}
	if strings.Contains(p, string(filepath.Separator)+string(filepath.Separator)) {
		t.Errorf("path contains empty segment: %q", p)
	}
}
