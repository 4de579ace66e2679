package reader

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDetectDelimiter_Semicolon(t *testing.T) {
	t.Parallel()

	if got := DetectDelimiter("a;b;c"); got != ';' {
		t.Fatalf("want ';' got %q", got)
	}
}

func TestDetectDelimiter_Comma(t *testing.T) {
	t.Parallel()

	if got := DetectDelimiter("a,b,c"); got != ',' {
		t.Fatalf("want ',' got %q", got)
	}
}

func TestDetectDelimiter_TieKeepsComma(t *testing.T) {
	t.Parallel()

	// One comma and one semicolon: semicolon must strictly exceed to win.
	if got := DetectDelimiter("a,b;c"); got != ',' {
		t.Fatalf("want ',' got %q", got)
	}
}

func TestSplitCSVLine_QuotedDelimiter(t *testing.T) {
	t.Parallel()

	fields := splitCSVLine(`"Smith, John",42`, ',')
	if len(fields) != 2 {
		t.Fatalf("want 2 fields got %d: %v", len(fields), fields)
	}
	if fields[0] != "Smith, John" || fields[1] != "42" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestSplitCSVLine_DoubledQuote(t *testing.T) {
	t.Parallel()

	fields := splitCSVLine(`"say ""hi""",x`, ',')
	if fields[0] != `say "hi"` {
		t.Fatalf("unexpected field: %q", fields[0])
	}
}

func TestRead_CSVGrid(t *testing.T) {
	t.Parallel()

	grid, inferences, err := Read([]byte("sku;qty\nA-1;10\n\n"), KindCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inferences.Delimiter != ";" {
		t.Fatalf("want delimiter ';' got %q", inferences.Delimiter)
	}
	if len(grid) != 2 {
		t.Fatalf("want 2 rows got %d", len(grid))
	}
	if grid[1][0] != "A-1" || grid[1][1] != "10" {
		t.Fatalf("unexpected data row: %v", grid[1])
	}
}

func TestRead_EmptyCSV(t *testing.T) {
	t.Parallel()

	_, _, err := Read([]byte("\n\n"), KindCSV)
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("want ErrEmptyFile got %v", err)
	}
}

func TestRead_UnreadableSpreadsheet(t *testing.T) {
	t.Parallel()

	_, _, err := Read([]byte("definitely not a zip"), KindSpreadsheet)
	var unreadable *UnreadableFileError
	if !errors.As(err, &unreadable) {
		t.Fatalf("want UnreadableFileError got %v", err)
	}
	if unreadable.Unwrap() == nil {
		t.Fatalf("cause must be attached")
	}
}

func TestRead_SpreadsheetFirstSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Item Code")
	f.SetCellValue("Sheet1", "B1", "Qty")
	f.SetCellValue("Sheet1", "A2", "SKU-001")
	f.SetCellValue("Sheet1", "B2", 10)
	f.NewSheet("Sheet2")
	f.SetCellValue("Sheet2", "A1", "ignored")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	grid, _, err := Read(buf.Bytes(), KindSpreadsheet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := grid.Header()[0]; got != "Item Code" {
		t.Fatalf("want first-sheet header got %q", got)
	}
	if grid[1][1] != "10" {
		t.Fatalf("unexpected cell: %q", grid[1][1])
	}
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	if DetectKind("orders.CSV", "") != KindCSV {
		t.Fatalf("extension must win")
	}
	if DetectKind("orders.bin", "text/csv") != KindCSV {
		t.Fatalf("mime must win")
	}
	if DetectKind("orders.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet") != KindSpreadsheet {
		t.Fatalf("xlsx must map to spreadsheet")
	}
}
