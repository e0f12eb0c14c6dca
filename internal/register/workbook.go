package register

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/orderreg/internal/model"
)

// monthSheet returns the sheet name for an order's calendar month ("1".."12").
func monthSheet(order *model.Order) string {
	return strconv.Itoa(int(order.Date.Month()))
}

// openPartition opens the partition workbook for the order's year, creating
// it from the named template if it does not exist yet. Creation is
// idempotent: a retry after a failed append simply reopens the file.
func (s *Store) openPartition(order *model.Order) (*excelize.File, string, error) {
	path := s.partitionPath(order.Date.Year())

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.createPartition(path); err != nil {
			return nil, "", err
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open partition %s: %w", path, err)
	}
	return f, path, nil
}

// createPartition seeds a new partition file by copying the workbook
// template verbatim.
func (s *Store) createPartition(path string) error {
	template, err := s.templates.ResolveTemplate(TemplateName)
	if err != nil {
		return fmt.Errorf("create partition %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create partition dir: %w", err)
	}
	if err := copyFile(template, path); err != nil {
		return fmt.Errorf("create partition %s: %w", path, err)
	}

	slog.Info("partition created", "path", path, "template", template)
	return nil
}

// ensureMonthSheet returns the order's month sheet, cloning it from the
// "default" template sheet on first use.
func (s *Store) ensureMonthSheet(f *excelize.File, order *model.Order) (string, error) {
	name := monthSheet(order)

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", fmt.Errorf("resolve sheet %q: %w", name, err)
	}
	if idx >= 0 {
		return name, nil
	}

	tmplIdx, err := f.GetSheetIndex(templateSheet)
	if err != nil || tmplIdx < 0 {
		return "", fmt.Errorf("partition has no %q template sheet", templateSheet)
	}

	newIdx, err := f.NewSheet(name)
	if err != nil {
		return "", fmt.Errorf("create sheet %q: %w", name, err)
	}
	if err := f.CopySheet(tmplIdx, newIdx); err != nil {
		return "", fmt.Errorf("clone template sheet into %q: %w", name, err)
	}

	slog.Info("month sheet created", "sheet", name)
	return name, nil
}

// AddOrder appends the order as a new row in its year/month partition and
// records the resulting location in the index.
//
// The partition file is fully rewritten on disk before the index entry is
// written, so an index hit always resolves to a durably present row. If the
// append fails, no index entry is written; the partition file may already
// have been created empty, which is harmless since creation is idempotent.
func (s *Store) AddOrder(order *model.Order) (model.Location, error) {
	f, path, err := s.openPartition(order)
	if err != nil {
		return model.Location{}, err
	}
	defer f.Close()

	sheet, err := s.ensureMonthSheet(f, order)
	if err != nil {
		return model.Location{}, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Location{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	row := len(rows) + 1

	cells := map[int]interface{}{
		colID:          order.ID,
		colDate:        order.CellDate(),
		colWarehouse:   order.WarehouseID,
		colDescription: order.Description,
	}
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return model.Location{}, fmt.Errorf("cell name (%d,%d): %w", col, row, err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return model.Location{}, fmt.Errorf("write cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return model.Location{}, fmt.Errorf("save partition %s: %w", path, err)
	}

	loc := model.Location{Path: path, Sheet: sheet, Row: row}
	if err := s.index.Put(order.ID, loc); err != nil {
		return model.Location{}, err
	}

	slog.Info("order added", "order", order.ID, "location", loc.String())
	return loc, nil
}
