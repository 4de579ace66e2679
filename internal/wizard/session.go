package wizard

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/peterkacmarik/dockify/internal/cleaner"
	"github.com/peterkacmarik/dockify/internal/exporter"
	"github.com/peterkacmarik/dockify/internal/model"
)

// Step is the intake wizard position: Upload -> Mapping -> Preview.
type Step string

const (
	StepUpload  Step = "upload"
	StepMapping Step = "mapping"
	StepPreview Step = "preview"
)

var (
	// ErrMappingIncomplete rejects a mapping apply without both critical
	// fields assigned.
	ErrMappingIncomplete = errors.New("mapping must assign both sku and quantity")
	// ErrBusy rejects a second apply or export while one is in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrWrongStep rejects an operation outside its wizard step.
	ErrWrongStep = errors.New("operation not allowed in current step")
	// ErrNotConfirmed rejects export before a fully valid confirmation.
	ErrNotConfirmed = errors.New("items must pass confirmation before export")
)

// Session is one intake run. All transitions are serialized by the
// session mutex; apply and export additionally hold the processing flag
// so a second trigger fails fast instead of queueing.
type Session struct {
	ID        string
	CreatedAt time.Time

	validator *cleaner.Validator
	exporter  *exporter.Exporter

	mu           sync.Mutex
	step         Step
	grid         model.Grid
	analysis     *model.AnalysisResult
	mapping      map[int]string // column index -> field key
	items        []model.OrderItem
	rowErrors    map[int][]string
	duplicates   []string
	page         int
	exportReady  bool
	optionsShown bool
	processing   bool
}

// Step reports the current wizard position.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// State is a JSON-friendly snapshot of a session.
type State struct {
	ID          string                `json:"id"`
	Step        Step                  `json:"step"`
	Analysis    *model.AnalysisResult `json:"analysis,omitempty"`
	Mapping     map[string]int        `json:"mapping,omitempty"` // field key -> column index
	ItemCount   int                   `json:"itemCount"`
	Page        int                   `json:"page"`
	ExportReady bool                  `json:"exportReady"`
	// ExportOptionsShown tells clients to present the export targets;
	// set by a fully valid confirmation, cleared by back navigation.
	ExportOptionsShown bool     `json:"exportOptionsShown"`
	Duplicates         []string `json:"duplicates,omitempty"`
}

// Snapshot returns the current state for the API layer.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:                 s.ID,
		Step:               s.step,
		Analysis:           s.analysis,
		Mapping:            invertMapping(s.mapping),
		ItemCount:          len(s.items),
		Page:               s.page,
		ExportReady:        s.exportReady,
		ExportOptionsShown: s.optionsShown,
		Duplicates:         append([]string(nil), s.duplicates...),
	}
}

// SetField assigns a field key to a column (one chip selection). The
// field is released from any other column first so keys stay unique; an
// empty key clears the column.
func (s *Session) SetField(column int, fieldKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepMapping {
		return ErrWrongStep
	}
	if fieldKey == "" {
		delete(s.mapping, column)
		return nil
	}
	for col, key := range s.mapping {
		if key == fieldKey {
			delete(s.mapping, col)
		}
	}
	s.mapping[column] = fieldKey
	return nil
}

// Mapping returns a copy of the current column -> field assignment.
func (s *Session) Mapping() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.mapping))
	for col, key := range s.mapping {
		out[col] = key
	}
	return out
}

// Apply transforms every data row into an order item and advances to
// Preview. Requires both critical fields in the mapping.
func (s *Session) Apply() error {
	s.mu.Lock()
	if s.step != StepMapping {
		s.mu.Unlock()
		return ErrWrongStep
	}
	if s.processing {
		s.mu.Unlock()
		return ErrBusy
	}
	if !hasCriticalFields(s.mapping) {
		s.mu.Unlock()
		return ErrMappingIncomplete
	}
	s.processing = true
	rows := s.grid.DataRows()
	mapping := make(map[int]string, len(s.mapping))
	for col, key := range s.mapping {
		mapping[col] = key
	}
	s.mu.Unlock()

	items := make([]model.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, cleaner.BuildItem(row, mapping))
	}

	return s.commitApply(items)
}

// commitApply installs the transformed items. A reset or cancel that
// landed while the rows were transforming has moved the session out of
// Mapping; the built items are discarded then so the reset sticks.
func (s *Session) commitApply(items []model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	if s.step != StepMapping {
		return ErrWrongStep
	}
	s.items = items
	s.rowErrors = nil
	s.duplicates = nil
	s.exportReady = false
	s.optionsShown = false
	s.page = 1
	s.step = StepPreview
	return nil
}

// Cancel discards the parse result and returns to Upload.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepMapping {
		return ErrWrongStep
	}
	s.resetLocked()
	return nil
}

// Back returns from Preview to Mapping, keeping the parse result and
// mapping for further editing. The export options flag is cleared.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPreview {
		return ErrWrongStep
	}
	s.optionsShown = false
	s.exportReady = false
	s.step = StepMapping
	return nil
}

// Confirm runs batch validation. Invalid items populate per-row errors
// and keep export disabled; a fully valid set enables export. Duplicate
// SKUs are advisory either way.
func (s *Session) Confirm() (cleaner.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPreview {
		return cleaner.BatchResult{}, ErrWrongStep
	}

	result := s.validator.ValidateBatch(s.items)
	s.rowErrors = make(map[int][]string, len(result.InvalidItems))
	for _, invalid := range result.InvalidItems {
		s.rowErrors[invalid.Index] = invalid.Errors
	}
	for i := range s.items {
		s.items[i].Errors = s.rowErrors[i]
		s.items[i].IsValid = len(s.rowErrors[i]) == 0
	}
	s.duplicates = result.Duplicates
	s.exportReady = len(result.InvalidItems) == 0
	s.optionsShown = s.exportReady
	return result, nil
}

// Export writes the confirmed items into the sink directory and stays
// in Preview so further exports remain possible.
func (s *Session) Export(now time.Time) (string, error) {
	items, err := s.beginExport()
	if err != nil {
		return "", err
	}
	path, err := s.exporter.Export(items, now)
	s.endExport()
	return path, err
}

// WriteWorkbook streams the confirmed items as an XLSX download.
func (s *Session) WriteWorkbook(w io.Writer) error {
	items, err := s.beginExport()
	if err != nil {
		return err
	}
	err = exporter.WriteTo(w, items)
	s.endExport()
	return err
}

func (s *Session) beginExport() ([]model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPreview {
		return nil, ErrWrongStep
	}
	if !s.exportReady {
		return nil, ErrNotConfirmed
	}
	if s.processing {
		return nil, ErrBusy
	}
	s.processing = true
	return append([]model.OrderItem(nil), s.items...), nil
}

func (s *Session) endExport() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

// Reset returns to Upload from any step, discarding everything.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.step = StepUpload
	s.grid = nil
	s.analysis = nil
	s.mapping = nil
	s.items = nil
	s.rowErrors = nil
	s.duplicates = nil
	s.page = 1
	s.exportReady = false
	s.optionsShown = false
}

func hasCriticalFields(mapping map[int]string) bool {
	found := make(map[string]bool, len(model.CriticalFields))
	for _, key := range mapping {
		if model.IsCriticalField(key) {
			found[key] = true
		}
	}
	return len(found) == len(model.CriticalFields)
}

func invertMapping(mapping map[int]string) map[string]int {
	if mapping == nil {
		return nil
	}
	out := make(map[string]int, len(mapping))
	for col, key := range mapping {
		out[key] = col
	}
	return out
}
