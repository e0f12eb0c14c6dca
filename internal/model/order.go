package model

import (
	"fmt"
	"time"
)

// CellDateLayout is the textual date form used in workbook cells.
const CellDateLayout = "02.01.2006"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusNew             OrderStatus = "new"
	StatusAccepted        OrderStatus = "accepted"
	StatusInProgress      OrderStatus = "in_progress"
	StatusAwaitingClosure OrderStatus = "awaiting_closure"
	StatusClosed          OrderStatus = "closed"
)

// Order is one purchase order extracted from an inbound document.
//
// ID uniquely determines at most one stored row across the system's
// lifetime. An Order is immutable once constructed; closing an order is
// expressed as a separate ClosureAct, never as mutation of an Order.
type Order struct {
	ID          int
	WarehouseID int
	Description string
	Status      OrderStatus
	Date        time.Time
}

// CellDate returns the order date in the workbook cell form (dd.mm.yyyy).
func (o Order) CellDate() string {
	return o.Date.Format(CellDateLayout)
}

// ClosureAct certifies that a previously stored order is complete.
type ClosureAct struct {
	OrderID int
	Date    time.Time
}

// CellDate returns the closure date in the workbook cell form (dd.mm.yyyy).
func (a ClosureAct) CellDate() string {
	return a.Date.Format(CellDateLayout)
}

// ParseCellDate parses the dd.mm.yyyy textual form used in workbook cells.
func ParseCellDate(s string) (time.Time, error) {
	t, err := time.Parse(CellDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cell date %q: %w", s, err)
	}
	return t, nil
}
