package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/peterkacmarik/dockify/internal/model"
)

// Kind declares how uploaded bytes should be decoded.
type Kind int

const (
	KindCSV Kind = iota
	KindSpreadsheet
)

// ErrEmptyFile signals that decoding produced zero rows.
var ErrEmptyFile = errors.New("empty file: no rows decoded")

// UnreadableFileError wraps the underlying decode failure so callers can
// surface the cause instead of swallowing it.
type UnreadableFileError struct {
	Cause error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable file: %v", e.Cause)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Cause
}

// DetectKind guesses the decode kind from the file name and MIME type.
func DetectKind(filename, mimeType string) Kind {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") || strings.Contains(mimeType, "csv") {
		return KindCSV
	}
	return KindSpreadsheet
}

// Read decodes raw file bytes into a grid plus file-level inferences.
func Read(data []byte, kind Kind) (model.Grid, model.GlobalInferences, error) {
	inferences := model.GlobalInferences{DecimalSeparator: "."}

	var grid model.Grid
	switch kind {
	case KindCSV:
		parsed, delimiter := parseCSV(string(data))
		grid = parsed
		inferences.Delimiter = string(delimiter)
	default:
		parsed, err := parseSpreadsheet(data)
		if err != nil {
			return nil, inferences, &UnreadableFileError{Cause: err}
		}
		grid = parsed
	}

	if len(grid) == 0 {
		return nil, inferences, ErrEmptyFile
	}
	return grid, inferences, nil
}

// csvDelimiters are tried in order; a later candidate must strictly beat
// the current best, so comma wins ties.
var csvDelimiters = []byte{',', ';', '\t', '|'}

// DetectDelimiter picks the candidate producing the most splits of the
// first line.
func DetectDelimiter(firstLine string) byte {
	best := byte(',')
	maxCount := 0
	for _, d := range csvDelimiters {
		count := strings.Count(firstLine, string(d))
		if count > maxCount {
			maxCount = count
			best = d
		}
	}
	return best
}

func parseCSV(content string) (model.Grid, byte) {
	lines := strings.Split(content, "\n")
	firstLine := ""
	if len(lines) > 0 {
		firstLine = lines[0]
	}
	delimiter := DetectDelimiter(firstLine)

	var grid model.Grid
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, splitCSVLine(line, delimiter))
	}
	return grid, delimiter
}

// splitCSVLine scans one line in a single pass, honoring double-quoted
// fields that contain the delimiter. A doubled quote inside a quoted field
// decodes to one literal quote.
func splitCSVLine(line string, delimiter byte) []string {
	var fields []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case ch == delimiter && !inQuote:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// parseSpreadsheet extracts the first sheet of a workbook. Cells excelize
// reports as missing stay empty strings.
func parseSpreadsheet(data []byte) (model.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return model.Grid(rows), nil
}
