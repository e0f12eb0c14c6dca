package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/roach88/orderreg/internal/index"
	"github.com/roach88/orderreg/internal/model"
	"github.com/roach88/orderreg/internal/parser"
)

// CloseStorage is the store surface the closure processor needs.
// *register.Store satisfies it.
type CloseStorage interface {
	GetOrderByID(orderID int) (*model.Order, error)
	CloseOrder(act *model.ClosureAct) error
	AddAttachment(order *model.Order, sourcePath string) error
}

// Closer applies closure acts to previously ingested orders.
//
// Closure volume is nowhere near bulk ingestion volume, so documents are
// processed one at a time; there is no concurrent phase.
type Closer struct {
	storage CloseStorage
	parser  parser.ActParser
}

// NewCloser creates a closure processor.
func NewCloser(storage CloseStorage, p parser.ActParser) *Closer {
	return &Closer{storage: storage, parser: p}
}

// CloseBatch processes each closure document in turn: parse the act, resolve
// the target order, mark its row closed, then copy the document and any
// co-located sibling files naming the same order id into the order's
// attachment directory.
//
// An act referencing an order that was never ingested is skipped with a
// warning, not an error. Any other per-document failure is recorded and the
// batch continues.
func (c *Closer) CloseBatch(ctx context.Context, docs []string) (Summary, error) {
	summary := Summary{Documents: len(docs)}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		act, err := c.parser.Parse(doc)
		if err != nil {
			summary.ParseFailures++
			slog.Warn("parse failed", "document", doc, "error", err)
			continue
		}
		summary.Parsed++

		order, err := c.storage.GetOrderByID(act.OrderID)
		if errors.Is(err, index.ErrNotFound) {
			summary.NotFound++
			slog.Warn("closure act for unknown order", "order", act.OrderID, "document", doc)
			continue
		}
		if err != nil {
			summary.CommitFailures++
			slog.Error("resolve order failed", "order", act.OrderID, "error", err)
			continue
		}

		if err := c.storage.CloseOrder(act); err != nil {
			summary.CommitFailures++
			slog.Error("close order failed", "order", act.OrderID, "error", err)
			continue
		}

		if err := c.attachSiblings(order, doc); err != nil {
			summary.CommitFailures++
			slog.Error("attach closure documents failed", "order", order.ID, "error", err)
			continue
		}
		summary.Closed++
	}

	return summary, nil
}

// attachSiblings copies the closure document plus any file in the same
// directory whose name contains the order id.
func (c *Closer) attachSiblings(order *model.Order, doc string) error {
	sources := map[string]struct{}{doc: {}}

	siblings, err := filepath.Glob(filepath.Join(filepath.Dir(doc), "*"+strconv.Itoa(order.ID)+"*"))
	if err == nil {
		for _, s := range siblings {
			sources[s] = struct{}{}
		}
	}

	for src := range sources {
		if err := c.storage.AddAttachment(order, src); err != nil {
			return err
		}
	}
	return nil
}
