package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/peterkacmarik/dockify/internal/model"
)

// Per-column confidence a suggestion needs before the resolver claims its
// field, and the aggregate confidence an automatic apply action needs.
const (
	assignmentGate  = 0.4
	applyActionGate = 0.5
)

// resolve performs the greedy conflict-free field assignment and fills in
// overall confidence, actions and row warnings on the result.
func (a *Analyzer) resolve(result *model.AnalysisResult, dataRows [][]string) {
	sorted := append([]model.DetectedColumn(nil), result.DetectedColumns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	mapping := make(map[string]int)
	totalConfidence := 0.0
	criticalFound := 0

	for _, col := range sorted {
		if col.SuggestedField == "" || col.Confidence <= assignmentGate {
			continue
		}
		if _, taken := mapping[col.SuggestedField]; taken {
			continue
		}
		mapping[col.SuggestedField] = col.ColumnIndex
		totalConfidence += col.Confidence
		if model.IsCriticalField(col.SuggestedField) {
			criticalFound++
		}
	}

	overall := 0.0
	if len(mapping) > 0 {
		penalty := float64(criticalFound) / float64(len(model.CriticalFields))
		overall = totalConfidence / float64(len(mapping)) * penalty
	}
	result.OverallConfidence = math.Min(overall, 1.0)

	if result.OverallConfidence > applyActionGate {
		result.Actions = []model.MappingAction{{Type: "apply_mapping", Mapping: mapping}}
	}

	if qtyCol, ok := mapping[model.FieldQuantity]; ok {
		result.Warnings = a.quantityWarnings(dataRows, qtyCol)
	}
}

// quantityWarnings flags data rows whose quantity cell fails numeric
// parsing. Advisory only; capped so a broken column does not flood the
// client.
func (a *Analyzer) quantityWarnings(dataRows [][]string, qtyCol int) []model.RowWarning {
	var warnings []model.RowWarning
	for idx, row := range dataRows {
		if len(warnings) >= a.opts.WarningCap {
			break
		}
		val := strings.TrimSpace(model.Cell(row, qtyCol))
		if _, ok := coerceNumeric(val); val != "" && ok {
			continue
		}
		warnings = append(warnings, model.RowWarning{
			Row:     idx,
			Issue:   "quantity_invalid",
			Details: fmt.Sprintf("Row %d: invalid quantity '%s'", idx+2, val),
		})
	}
	return warnings
}

// RegenerateActions rebuilds the apply action from a replacement column
// set, using the same per-column confidence gate as the resolver. Used
// after the escalation adapter swaps in its own detected columns.
func RegenerateActions(columns []model.DetectedColumn) []model.MappingAction {
	mapping := make(map[string]int)
	for _, col := range columns {
		if col.SuggestedField == "" || col.Confidence <= assignmentGate {
			continue
		}
		if _, taken := mapping[col.SuggestedField]; taken {
			continue
		}
		mapping[col.SuggestedField] = col.ColumnIndex
	}
	return []model.MappingAction{{Type: "apply_mapping", Mapping: mapping}}
}
