// Package pipeline orchestrates bulk ingestion of order documents and the
// application of closure acts.
//
// Bulk ingestion is a two-phase flow: a concurrent parse phase (one task per
// document, failures isolated per document) joined at a barrier, followed by
// a strictly serial commit phase. Parsing is pure, so unbounded fan-out is
// safe; every store mutation rewrites shared partition files, so exactly one
// goroutine performs commits. Serialization is the correctness mechanism
// here, not an optimization: two concurrent writers to the same partition
// would silently drop one writer's row.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/orderreg/internal/model"
	"github.com/roach88/orderreg/internal/parser"
)

// Storage is the mutation surface the pipeline serializes over.
// *register.Store satisfies it.
type Storage interface {
	Exists(order *model.Order) bool
	AddOrder(order *model.Order) (model.Location, error)
	AddAttachment(order *model.Order, sourcePath string) error
}

// TokenGenerator produces run tokens used to correlate a batch's log records.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run tokens, for deterministic tests.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order and
// panics when exhausted.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("pipeline: fixed generator exhausted")
	}
	t := g.tokens[g.idx]
	g.idx++
	return t
}

// Summary reports the outcome of a batch. Skips are counted, never raised:
// a duplicate or an unparseable document is a warning, not an error.
type Summary struct {
	Documents      int // documents submitted
	Parsed         int // documents that produced a record
	Added          int // new rows appended
	Closed         int // orders marked closed
	Duplicates     int // already-processed orders skipped
	NotFound       int // closure acts referencing unknown orders
	ParseFailures  int // documents the parser rejected
	CommitFailures int // per-record store failures
}

// String renders the summary as aligned text for CLI output.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Documents:       %d\n", s.Documents)
	fmt.Fprintf(&b, "Parsed:          %d\n", s.Parsed)
	fmt.Fprintf(&b, "Added:           %d\n", s.Added)
	fmt.Fprintf(&b, "Closed:          %d\n", s.Closed)
	fmt.Fprintf(&b, "Duplicates:      %d\n", s.Duplicates)
	fmt.Fprintf(&b, "Not found:       %d\n", s.NotFound)
	fmt.Fprintf(&b, "Parse failures:  %d\n", s.ParseFailures)
	fmt.Fprintf(&b, "Commit failures: %d\n", s.CommitFailures)
	return b.String()
}

// Pipeline ingests order documents into a Storage.
type Pipeline struct {
	storage Storage
	parser  parser.Parser
	tokens  TokenGenerator
}

// New creates a pipeline. A nil tokens falls back to UUIDv7 run tokens.
func New(storage Storage, p parser.Parser, tokens TokenGenerator) *Pipeline {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Pipeline{storage: storage, parser: p, tokens: tokens}
}

// parseResult is one settled parse task, tagged with its source document.
type parseResult struct {
	doc   string
	order *model.Order
	err   error
}

// Ingest parses and commits a single document. Returns the parsed order and
// whether a row was appended (false means the order already existed).
// Unlike batch ingestion, failures surface to the caller.
func (p *Pipeline) Ingest(doc string) (*model.Order, bool, error) {
	order, err := p.parser.Parse(doc)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", doc, err)
	}

	if p.storage.Exists(order) {
		slog.Warn("order already exists", "order", order.ID, "document", doc)
		return order, false, nil
	}

	if _, err := p.storage.AddOrder(order); err != nil {
		return nil, false, err
	}
	if err := p.storage.AddAttachment(order, doc); err != nil {
		return nil, false, err
	}
	return order, true, nil
}

// IngestBatch runs the two-phase bulk flow over docs.
//
// Parse phase: one goroutine per document; a parse failure neither aborts
// nor blocks sibling tasks; the phase completes only when all tasks have
// settled. Commit phase: settled results are consumed strictly in submission
// order (never completion order), so row numbers are deterministic for a
// fixed input ordering. Per-order commit failures are recorded in the
// summary and never abort the remaining batch.
func (p *Pipeline) IngestBatch(ctx context.Context, docs []string) (Summary, error) {
	summary := Summary{Documents: len(docs)}
	run := p.tokens.Generate()
	slog.Info("batch starting", "run", run, "documents", len(docs))

	results := make([]parseResult, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc string) {
			defer wg.Done()
			order, err := p.parser.Parse(doc)
			results[i] = parseResult{doc: doc, order: order, err: err}
		}(i, doc)
	}
	wg.Wait()

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if r.err != nil {
			summary.ParseFailures++
			slog.Warn("parse failed", "run", run, "document", r.doc, "error", r.err)
			continue
		}
		summary.Parsed++

		if p.storage.Exists(r.order) {
			summary.Duplicates++
			slog.Warn("order already exists", "run", run, "order", r.order.ID)
			continue
		}

		if err := p.commit(r); err != nil {
			summary.CommitFailures++
			slog.Error("commit failed", "run", run, "order", r.order.ID, "error", err)
			continue
		}
		summary.Added++
	}

	slog.Info("batch finished",
		"run", run,
		"added", summary.Added,
		"duplicates", summary.Duplicates,
		"parse_failures", summary.ParseFailures,
		"commit_failures", summary.CommitFailures)
	return summary, nil
}

func (p *Pipeline) commit(r parseResult) error {
	if _, err := p.storage.AddOrder(r.order); err != nil {
		return err
	}
	return p.storage.AddAttachment(r.order, r.doc)
}

// FindDocuments recursively collects *.eml files under dir, sorted by path
// so batch submission order is deterministic.
func FindDocuments(dir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".eml") {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents in %s: %w", dir, err)
	}
	sort.Strings(docs)
	return docs, nil
}
