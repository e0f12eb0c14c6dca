package register

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/orderreg/internal/index"
	"github.com/roach88/orderreg/internal/model"
)

// Workbook layout constants. Column numbers are 1-based.
const (
	// TemplateName is the workbook template resolved when a new partition
	// file must be created.
	TemplateName = "orders_book"

	// templateSheet is the sheet cloned when a month sheet is first needed.
	templateSheet = "default"

	// partitionSuffix follows the year in every partition file name.
	partitionSuffix = "_orders_register.xlsx"

	colID          = 1
	colDate        = 2
	colWarehouse   = 3
	colDescription = 6
	colClosureDate = 9
	colClosedFlag  = 10

	closedFlag = "Yes"
)

// TemplateResolver supplies workbook template files by name.
type TemplateResolver interface {
	ResolveTemplate(name string) (string, error)
}

// Store is the partitioned workbook store rooted at a storage directory.
//
// Store methods that mutate partition files (AddOrder, CloseOrder) must be
// called from a single goroutine: each mutation rewrites a whole partition
// file, so concurrent writers would silently drop each other's rows.
type Store struct {
	root      string
	templates TemplateResolver
	index     *index.Index
}

// New creates a store over the given storage root. The index database is
// co-located at {root}/index.
func New(root string, templates TemplateResolver) *Store {
	return &Store{
		root:      root,
		templates: templates,
		index:     index.New(root),
	}
}

// Index returns the store's location index.
func (s *Store) Index() *index.Index {
	return s.index
}

// partitionPath returns the workbook file for a calendar year.
func (s *Store) partitionPath(year int) string {
	return filepath.Join(s.root, strconv.Itoa(year), fmt.Sprintf("%d%s", year, partitionSuffix))
}

// attachmentDir returns the per-order attachment directory
// ({root}/{year}/{month:02d}/{orderID}).
func (s *Store) attachmentDir(order *model.Order) string {
	return filepath.Join(
		s.root,
		strconv.Itoa(order.Date.Year()),
		fmt.Sprintf("%02d", int(order.Date.Month())),
		strconv.Itoa(order.ID),
	)
}

// Exists reports whether the order was already fully processed.
//
// The signal is the presence of the order's attachment directory, not an
// index entry: the directory is only created after the order's row has been
// written, so it marks "fully processed", while the index only tracks row
// location. The two signals are intentionally decoupled and never
// reconciled; see the package pipeline tests for the crash-gap semantics.
func (s *Store) Exists(order *model.Order) bool {
	info, err := os.Stat(s.attachmentDir(order))
	return err == nil && info.IsDir()
}

// AddAttachment copies a source document into the order's attachment
// directory, creating it if needed. The directory's existence is the dedup
// signal used by Exists.
func (s *Store) AddAttachment(order *model.Order, sourcePath string) error {
	dir := s.attachmentDir(order)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create attachment dir: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(sourcePath))
	if err := copyFile(sourcePath, dst); err != nil {
		return fmt.Errorf("copy attachment for order %d: %w", order.ID, err)
	}

	slog.Debug("attachment stored", "order", order.ID, "file", filepath.Base(sourcePath))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
