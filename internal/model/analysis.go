package model

// Canonical field keys understood by the classifier and validator.
const (
	FieldSKU         = "sku"
	FieldQuantity    = "quantity"
	FieldDescription = "description"
	FieldPrice       = "price"
)

// CriticalFields are mandatory for the pipeline to proceed; the mapping
// cannot be applied and aggregate confidence collapses to 0 without them.
var CriticalFields = []string{FieldSKU, FieldQuantity}

// IsCriticalField reports whether key belongs to CriticalFields.
func IsCriticalField(key string) bool {
	for _, f := range CriticalFields {
		if f == key {
			return true
		}
	}
	return false
}

// DetectedColumn is the classifier's verdict for a single column.
type DetectedColumn struct {
	ColumnIndex    int      `json:"column_index"`
	Header         string   `json:"header"`
	SuggestedField string   `json:"suggested_field,omitempty"` // "" when no field cleared the gate
	Confidence     float64  `json:"confidence"`
	Reasons        []string `json:"reason,omitempty"`
}

// GlobalInferences holds file-level guesses made during decoding.
type GlobalInferences struct {
	Delimiter        string `json:"delimiter,omitempty"`
	DecimalSeparator string `json:"decimal_separator,omitempty"`
	Currency         string `json:"currency,omitempty"`
}

// MappingAction suggests applying a field→column mapping without user edits.
type MappingAction struct {
	Type    string         `json:"type"` // "apply_mapping"
	Mapping map[string]int `json:"mapping"`
}

// RowWarning is an advisory note about a single data row. Row is 0-indexed
// relative to the data rows.
type RowWarning struct {
	Row     int    `json:"row"`
	Issue   string `json:"issue"`
	Details string `json:"details"`
}

// AnalysisResult is the full outcome of analyzing an uploaded grid.
type AnalysisResult struct {
	FileSummary       FileSummary      `json:"file_summary"`
	DetectedColumns   []DetectedColumn `json:"detected_columns"`
	GlobalInferences  GlobalInferences `json:"global_inferences"`
	OverallConfidence float64          `json:"overall_confidence"`
	Actions           []MappingAction  `json:"actions"`
	Warnings          []RowWarning     `json:"warnings"`
	AIEnhanced        bool             `json:"ai_enhanced,omitempty"`
}

// SuggestedMapping returns the mapping of the first apply_mapping action,
// inverted to column index → field key, or nil when no action was emitted.
func (r *AnalysisResult) SuggestedMapping() map[int]string {
	for _, action := range r.Actions {
		if action.Type != "apply_mapping" {
			continue
		}
		mapping := make(map[int]string, len(action.Mapping))
		for field, col := range action.Mapping {
			mapping[col] = field
		}
		return mapping
	}
	return nil
}
