// Package testutil provides shared fixtures for orderreg tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// TemplateHeaders are the column captions written into row 1 of the
// template's default sheet. Only captioned columns get a cell; the reserved
// columns stay empty, matching the production template shape.
var TemplateHeaders = map[int]string{
	1:  "Order",
	2:  "Date",
	3:  "Warehouse",
	6:  "Description",
	9:  "Closed at",
	10: "Closed",
}

// WriteOrdersBookTemplate writes an orders_book workbook template into dir
// and returns its path. The template holds a single "default" sheet with a
// header row, so the first appended data row in any cloned month sheet is
// row 2.
func WriteOrdersBookTemplate(t *testing.T, dir string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "default"); err != nil {
		t.Fatalf("rename template sheet: %v", err)
	}
	for col, caption := range TemplateHeaders {
		cell, err := excelize.CoordinatesToCellName(col, 1)
		if err != nil {
			t.Fatalf("cell name for column %d: %v", col, err)
		}
		if err := f.SetCellValue("default", cell, caption); err != nil {
			t.Fatalf("write header cell %s: %v", cell, err)
		}
	}

	path := filepath.Join(dir, "orders_book_template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save template: %v", err)
	}
	return path
}
