package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/peterkacmarik/dockify/internal/model"
)

// SheetName is the single worksheet of the generated order file.
const SheetName = "Objednávka"

// ContentType is the MIME type used when the file is handed to a
// download or share surface.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"SKU", "Množstvo", "Popis", "Cena"}

var columnWidths = []float64{15, 10, 40, 10}

// Exporter writes validated order items into XLSX workbooks under a
// sink directory.
type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Filename builds the fixed output name pattern, e.g.
// objednavka_2026-08-30T14-05-09.xlsx. Colons are not filename-safe on
// every target, so the time portion uses hyphens.
func Filename(now time.Time) string {
	return fmt.Sprintf("objednavka_%s.xlsx", now.Format("2006-01-02T15-04-05"))
}

// Build creates the workbook in memory. The caller owns the returned
// file and must Close it.
func Build(items []model.OrderItem) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write header %s: %w", h, err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to set width of %s: %w", col, err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", headerStyle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		values := []any{item.PartNumber, item.Quantity, item.Description}
		if item.Price != nil {
			values = append(values, *item.Price)
		} else {
			values = append(values, "")
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	return f, nil
}

// WriteTo streams the workbook for the given items into w. Used by the
// HTTP download surface.
func WriteTo(w io.Writer, items []model.OrderItem) error {
	f, err := Build(items)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Export writes the workbook into the sink directory and returns the
// absolute path of the created file.
func (e *Exporter) Export(items []model.OrderItem, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.dir, Filename(now))
	f, err := Build(items)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}
	return path, nil
}
