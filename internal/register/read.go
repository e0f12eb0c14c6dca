package register

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/orderreg/internal/model"
)

// ConsistencyError reports that the row a location resolves to does not hold
// the expected order id. It signals drift between the index and partition
// contents and must never be silently swallowed; rebuilding the index is the
// recovery path.
type ConsistencyError struct {
	OrderID  int
	Location model.Location
	CellID   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("index drift: order %d resolved to %s but row holds id %q",
		e.OrderID, e.Location, e.CellID)
}

// cellValue reads one cell by 1-based coordinates.
func cellValue(f *excelize.File, sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("cell name (%d,%d): %w", col, row, err)
	}
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("read cell %s!%s: %w", sheet, cell, err)
	}
	return v, nil
}

// GetOrderByID resolves an order's location through the index, reads the row
// at the stored coordinates and reconstructs the order from the fixed column
// positions. Returns index.ErrNotFound (wrapped) for ids never ingested and
// a ConsistencyError if the stored id column does not match the request.
func (s *Store) GetOrderByID(orderID int) (*model.Order, error) {
	loc, err := s.index.Get(orderID)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("open partition %s: %w", loc.Path, err)
	}
	defer f.Close()

	return s.orderAt(f, loc, orderID)
}

// orderAt rebuilds an order from the row at loc, asserting the id column.
func (s *Store) orderAt(f *excelize.File, loc model.Location, orderID int) (*model.Order, error) {
	rawID, err := cellValue(f, loc.Sheet, colID, loc.Row)
	if err != nil {
		return nil, err
	}
	if id, convErr := strconv.Atoi(rawID); convErr != nil || id != orderID {
		return nil, &ConsistencyError{OrderID: orderID, Location: loc, CellID: rawID}
	}

	rawDate, err := cellValue(f, loc.Sheet, colDate, loc.Row)
	if err != nil {
		return nil, err
	}
	date, err := model.ParseCellDate(rawDate)
	if err != nil {
		return nil, fmt.Errorf("order %d at %s: %w", orderID, loc, err)
	}

	rawWarehouse, err := cellValue(f, loc.Sheet, colWarehouse, loc.Row)
	if err != nil {
		return nil, err
	}
	warehouse, err := strconv.Atoi(rawWarehouse)
	if err != nil {
		return nil, fmt.Errorf("order %d at %s: bad warehouse id %q", orderID, loc, rawWarehouse)
	}

	description, err := cellValue(f, loc.Sheet, colDescription, loc.Row)
	if err != nil {
		return nil, err
	}

	// Status is not stored per se; the closed flag in column 10 is the only
	// recorded transition.
	status := model.StatusNew
	if flag, err := cellValue(f, loc.Sheet, colClosedFlag, loc.Row); err == nil && flag == closedFlag {
		status = model.StatusClosed
	}

	return &model.Order{
		ID:          orderID,
		WarehouseID: warehouse,
		Description: description,
		Status:      status,
		Date:        date,
	}, nil
}
