package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/peterkacmarik/dockify/internal/model"
)

// Options bounds the analysis pass.
type Options struct {
	AnalysisRowLimit int // data rows sampled for value-pattern scoring
	SampleRowCount   int // rows included in the file summary for escalation
	WarningCap       int // max row warnings emitted
}

// DefaultOptions mirrors the production limits.
func DefaultOptions() Options {
	return Options{
		AnalysisRowLimit: 200,
		SampleRowCount:   5,
		WarningCap:       50,
	}
}

// Analyzer scores columns against the field registry and resolves a
// mapping suggestion. Pure and deterministic for a given grid.
type Analyzer struct {
	registry []FieldRule
	opts     Options
}

// NewAnalyzer creates an analyzer over the given registry.
func NewAnalyzer(registry []FieldRule, opts Options) *Analyzer {
	if opts.AnalysisRowLimit <= 0 {
		opts.AnalysisRowLimit = DefaultOptions().AnalysisRowLimit
	}
	if opts.SampleRowCount <= 0 {
		opts.SampleRowCount = DefaultOptions().SampleRowCount
	}
	if opts.WarningCap <= 0 {
		opts.WarningCap = DefaultOptions().WarningCap
	}
	return &Analyzer{registry: registry, opts: opts}
}

// Analyze classifies every column of the grid and resolves the suggested
// mapping, aggregate confidence, apply action and row warnings.
func (a *Analyzer) Analyze(grid model.Grid, inferences model.GlobalInferences) *model.AnalysisResult {
	headers := make([]string, len(grid.Header()))
	for i, h := range grid.Header() {
		headers[i] = strings.TrimSpace(h)
	}
	dataRows := grid.DataRows()

	analysisRows := dataRows
	if len(analysisRows) > a.opts.AnalysisRowLimit {
		analysisRows = analysisRows[:a.opts.AnalysisRowLimit]
	}

	columns := make([]model.DetectedColumn, len(headers))
	for i, header := range headers {
		columns[i] = a.classifyColumn(header, i, analysisRows)
	}

	result := &model.AnalysisResult{
		FileSummary:      buildSummary(dataRows, len(headers), a.opts.SampleRowCount),
		DetectedColumns:  columns,
		GlobalInferences: inferences,
	}
	a.resolve(result, dataRows)
	return result
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// classifyColumn scores one column against every registry entry and keeps
// the strictly best field; ties keep the earliest-registered entry.
func (a *Analyzer) classifyColumn(header string, index int, rows [][]string) model.DetectedColumn {
	normHeader := nonAlnumRe.ReplaceAllString(strings.ToLower(header), "")

	bestField := ""
	maxScore := 0.0
	var reasons []string

	for _, rule := range a.registry {
		score := 0.0
		var fieldReasons []string

		// Header keyword match carries the most weight.
		if matchKeyword(normHeader, rule.Keywords) {
			score += 0.6
			fieldReasons = append(fieldReasons, "header_match: "+header)
		} else if len(normHeader) > 2 && reverseMatchKeyword(normHeader, rule.Keywords) {
			score += 0.3
			fieldReasons = append(fieldReasons, "header_partial: "+header)
		}

		// Value-pattern sampling over non-empty cells.
		matchCount, validCount := 0, 0
		for _, row := range rows {
			val := strings.TrimSpace(model.Cell(row, index))
			if val == "" {
				continue
			}
			validCount++
			if valueMatches(rule, val) {
				matchCount++
			}
		}

		ratio := 0.0
		if validCount > 0 {
			ratio = float64(matchCount) / float64(validCount)
		}
		if ratio > 0.8 {
			score += 0.3
			fieldReasons = append(fieldReasons, fmt.Sprintf("value_pattern_%s: %.0f%%", rule.Key, ratio*100))
		} else if ratio > 0.4 {
			score += 0.1
		}

		if score > maxScore {
			maxScore = score
			bestField = rule.Key
			reasons = fieldReasons
		}
	}

	col := model.DetectedColumn{
		ColumnIndex: index,
		Header:      header,
		Confidence:  math.Min(maxScore, 1.0),
		Reasons:     reasons,
	}
	if maxScore > 0.3 {
		col.SuggestedField = bestField
	}
	return col
}

func matchKeyword(normHeader string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(normHeader, strings.ReplaceAll(k, " ", "")) {
			return true
		}
	}
	return false
}

func reverseMatchKeyword(normHeader string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(strings.ReplaceAll(k, " ", ""), normHeader) {
			return true
		}
	}
	return false
}

func valueMatches(rule FieldRule, val string) bool {
	switch rule.Kind {
	case ValueNumeric:
		f, ok := coerceNumeric(val)
		return ok && f >= 0
	case ValueSKU:
		return rule.Pattern.MatchString(val)
	default:
		return len(val) > 5 && !looksNumeric(val)
	}
}

var nonNumericSymbolRe = regexp.MustCompile(`[^0-9.]`)

// coerceNumeric strips thousands separators and currency symbols, turning
// the first comma into a decimal point first.
func coerceNumeric(val string) (float64, bool) {
	cleaned := strings.Replace(val, ",", ".", 1)
	cleaned = nonNumericSymbolRe.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var leadingNumberRe = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// looksNumeric reports whether the value starts with a parseable number.
func looksNumeric(val string) bool {
	return leadingNumberRe.MatchString(strings.TrimSpace(val))
}

func buildSummary(dataRows [][]string, cols, sampleCount int) model.FileSummary {
	sample := dataRows
	if len(sample) > sampleCount {
		sample = sample[:sampleCount]
	}
	sampleCopy := make([][]string, len(sample))
	for i, row := range sample {
		sampleCopy[i] = append([]string(nil), row...)
	}
	return model.FileSummary{
		Rows:       len(dataRows),
		Cols:       cols,
		SampleRows: sampleCopy,
	}
}
