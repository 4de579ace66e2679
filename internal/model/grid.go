package model

// Grid is a rectangular block of text cells decoded from an uploaded file.
// Row 0 is the header row; data rows are not re-padded, short rows simply
// yield empty cells when indexed past their end.
type Grid [][]string

// Header returns the header row (row 0).
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// DataRows returns every row after the header.
func (g Grid) DataRows() [][]string {
	if len(g) <= 1 {
		return nil
	}
	return g[1:]
}

// Cell returns the cell at (row, col) of a raw row slice, or "" when the
// row is shorter than col.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// FileSummary is the compact description of an uploaded file that is safe
// to hand to the escalation service: dimensions plus a bounded sample.
type FileSummary struct {
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	SampleRows [][]string `json:"sample_rows"`
}
