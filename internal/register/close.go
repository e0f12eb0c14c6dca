package register

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/orderreg/internal/model"
)

// CloseOrder marks an order closed by writing the closure date and the
// closed flag into the two reserved columns of the order's existing row.
// The row keeps its location: no row is appended and the index entry is
// untouched. Returns index.ErrNotFound (wrapped) if the act references an
// order that was never ingested.
func (s *Store) CloseOrder(act *model.ClosureAct) error {
	loc, err := s.index.Get(act.OrderID)
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(loc.Path)
	if err != nil {
		return fmt.Errorf("open partition %s: %w", loc.Path, err)
	}
	defer f.Close()

	for col, value := range map[int]string{
		colClosureDate: act.CellDate(),
		colClosedFlag:  closedFlag,
	} {
		cell, err := excelize.CoordinatesToCellName(col, loc.Row)
		if err != nil {
			return fmt.Errorf("cell name (%d,%d): %w", col, loc.Row, err)
		}
		if err := f.SetCellValue(loc.Sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(loc.Path); err != nil {
		return fmt.Errorf("save partition %s: %w", loc.Path, err)
	}

	slog.Info("order closed", "order", act.OrderID, "date", act.CellDate())
	return nil
}
