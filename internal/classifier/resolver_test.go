package classifier

import (
	"testing"

	"github.com/peterkacmarik/dockify/internal/model"
)

func TestResolve_UniqueAssignment(t *testing.T) {
	t.Parallel()

	// Two columns both suggesting sku: the higher confidence one wins and
	// the other stays unassigned.
	result := &model.AnalysisResult{
		DetectedColumns: []model.DetectedColumn{
			{ColumnIndex: 0, SuggestedField: model.FieldSKU, Confidence: 0.6},
			{ColumnIndex: 1, SuggestedField: model.FieldSKU, Confidence: 0.9},
			{ColumnIndex: 2, SuggestedField: model.FieldQuantity, Confidence: 0.9},
		},
	}
	testAnalyzer().resolve(result, nil)

	if len(result.Actions) != 1 {
		t.Fatalf("expected apply action, got %v", result.Actions)
	}
	mapping := result.Actions[0].Mapping
	if mapping[model.FieldSKU] != 1 {
		t.Fatalf("sku must go to the higher-confidence column, got %d", mapping[model.FieldSKU])
	}
	seen := make(map[int]bool)
	for _, col := range mapping {
		if seen[col] {
			t.Fatalf("column %d assigned twice", col)
		}
		seen[col] = true
	}
}

func TestResolve_AggregateZeroWithoutCriticalFields(t *testing.T) {
	t.Parallel()

	result := &model.AnalysisResult{
		DetectedColumns: []model.DetectedColumn{
			{ColumnIndex: 0, SuggestedField: model.FieldDescription, Confidence: 0.95},
			{ColumnIndex: 1, SuggestedField: model.FieldPrice, Confidence: 0.95},
		},
	}
	testAnalyzer().resolve(result, nil)

	if result.OverallConfidence != 0 {
		t.Fatalf("confidence must collapse to 0 without sku and quantity, got %v", result.OverallConfidence)
	}
	if len(result.Actions) != 0 {
		t.Fatalf("no apply action without critical fields, got %v", result.Actions)
	}
}

func TestResolve_HalvedWithOneCriticalField(t *testing.T) {
	t.Parallel()

	result := &model.AnalysisResult{
		DetectedColumns: []model.DetectedColumn{
			{ColumnIndex: 0, SuggestedField: model.FieldSKU, Confidence: 0.8},
		},
	}
	testAnalyzer().resolve(result, nil)

	if result.OverallConfidence != 0.4 {
		t.Fatalf("want 0.8 * 1/2 = 0.4, got %v", result.OverallConfidence)
	}
}

func TestResolve_GateExcludesLowConfidence(t *testing.T) {
	t.Parallel()

	result := &model.AnalysisResult{
		DetectedColumns: []model.DetectedColumn{
			{ColumnIndex: 0, SuggestedField: model.FieldSKU, Confidence: 0.4}, // not strictly above the gate
			{ColumnIndex: 1, SuggestedField: model.FieldQuantity, Confidence: 0.9},
		},
	}
	testAnalyzer().resolve(result, nil)

	if result.OverallConfidence != 0.45 {
		t.Fatalf("want 0.9 * 1/2 = 0.45, got %v", result.OverallConfidence)
	}
}

func TestResolve_QuantityRowWarningsCapped(t *testing.T) {
	t.Parallel()

	result := &model.AnalysisResult{
		DetectedColumns: []model.DetectedColumn{
			{ColumnIndex: 0, SuggestedField: model.FieldSKU, Confidence: 0.9},
			{ColumnIndex: 1, SuggestedField: model.FieldQuantity, Confidence: 0.9},
		},
	}
	rows := make([][]string, 80)
	for i := range rows {
		rows[i] = []string{"AA-1", "not a number"}
	}
	testAnalyzer().resolve(result, rows)

	if len(result.Warnings) != 50 {
		t.Fatalf("warnings must be capped at 50, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Issue != "quantity_invalid" {
		t.Fatalf("unexpected issue: %q", result.Warnings[0].Issue)
	}
	// Advisory only: the apply action is still emitted.
	if len(result.Actions) != 1 {
		t.Fatalf("warnings must not block the apply action")
	}
}

func TestRegenerateActions_AppliesGate(t *testing.T) {
	t.Parallel()

	actions := RegenerateActions([]model.DetectedColumn{
		{ColumnIndex: 0, SuggestedField: model.FieldSKU, Confidence: 0.95},
		{ColumnIndex: 1, SuggestedField: model.FieldQuantity, Confidence: 0.2},
	})
	if len(actions) != 1 {
		t.Fatalf("expected one action")
	}
	if _, ok := actions[0].Mapping[model.FieldQuantity]; ok {
		t.Fatalf("low-confidence column must not be mapped")
	}
	if actions[0].Mapping[model.FieldSKU] != 0 {
		t.Fatalf("sku mapping missing")
	}
}
