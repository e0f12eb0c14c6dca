package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/orderreg/internal/model"
)

type actParserFunc func(string) (*model.ClosureAct, error)

func (f actParserFunc) Parse(path string) (*model.ClosureAct, error) { return f(path) }

// actForDoc derives a closure act from the document file name, mirroring
// orderForDoc: "100.eml" closes order 100 five days after ingestion.
func actForDoc(path string) (*model.ClosureAct, error) {
	order, err := orderForDoc(path)
	if err != nil {
		return nil, err
	}
	return &model.ClosureAct{
		OrderID: order.ID,
		Date:    order.Date.AddDate(0, 0, 5),
	}, nil
}

func TestCloseBatch(t *testing.T) {
	store, root := newTestStore(t)
	_, docs := writeDocs(t, "100.eml")

	p := New(store, parserFunc(orderForDoc), NewFixedGenerator("run-1"))
	_, err := p.IngestBatch(context.Background(), docs)
	require.NoError(t, err)

	// The closure act arrives in its own directory, next to a scan that
	// names the same order.
	actDir := t.TempDir()
	actDoc := filepath.Join(actDir, "resolution 100.eml")
	sibling := filepath.Join(actDir, "scan-100.pdf")
	unrelated := filepath.Join(actDir, "other.pdf")
	for _, p := range []string{actDoc, sibling, unrelated} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	closer := NewCloser(store, actParserFunc(actForDoc))
	summary, err := closer.CloseBatch(context.Background(), []string{actDoc})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Closed)
	assert.Zero(t, summary.NotFound)

	// Row is marked closed.
	got, err := store.GetOrderByID(100)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, got.Status)

	// Act document and the id-matching sibling landed in the attachment
	// directory; the unrelated file did not.
	attachDir := filepath.Join(root, "2021", "09", strconv.Itoa(100))
	for _, name := range []string{"resolution 100.eml", "scan-100.pdf"} {
		_, err := os.Stat(filepath.Join(attachDir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(attachDir, "other.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestCloseBatch_UnknownOrderSkipped(t *testing.T) {
	store, root := newTestStore(t)
	_, docs := writeDocs(t, "999.eml")

	closer := NewCloser(store, actParserFunc(actForDoc))
	summary, err := closer.CloseBatch(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.NotFound)
	assert.Zero(t, summary.Closed)
	assert.Zero(t, summary.CommitFailures)

	// Zero writes: no partition, no attachment directory. Only the index
	// database (created by the lookup itself) may exist at the root.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "unexpected directory %s", e.Name())
		assert.Contains(t, e.Name(), "index")
	}
}

func TestCloseBatch_ParseFailureIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	_, docs := writeDocs(t, "100.eml")

	p := New(store, parserFunc(orderForDoc), NewFixedGenerator("run-1"))
	_, err := p.IngestBatch(context.Background(), docs)
	require.NoError(t, err)

	actDir := t.TempDir()
	broken := filepath.Join(actDir, "broken.eml")
	good := filepath.Join(actDir, "act 100.eml")
	for _, p := range []string{broken, good} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	closer := NewCloser(store, actParserFunc(actForDoc))
	summary, err := closer.CloseBatch(context.Background(), []string{broken, good})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ParseFailures)
	assert.Equal(t, 1, summary.Closed)
}

func TestCloseBatch_TouchesOnlyClosureColumns(t *testing.T) {
	store, root := newTestStore(t)
	_, docs := writeDocs(t, "100.eml")

	p := New(store, parserFunc(orderForDoc), NewFixedGenerator("run-1"))
	_, err := p.IngestBatch(context.Background(), docs)
	require.NoError(t, err)

	path := filepath.Join(root, "2021", "2021_orders_register.xlsx")
	before := readRow(t, path, "9", 2)

	closer := NewCloser(store, actParserFunc(actForDoc))
	_, err = closer.CloseBatch(context.Background(), docs)
	require.NoError(t, err)

	after := readRow(t, path, "9", 2)
	assert.Equal(t, before["A2"], after["A2"])
	assert.Equal(t, before["B2"], after["B2"])
	assert.Equal(t, before["C2"], after["C2"])
	assert.Equal(t, before["F2"], after["F2"])
	assert.Equal(t, "13.09.2021", after["I2"])
	assert.Equal(t, "Yes", after["J2"])
}

func readRow(t *testing.T, path, sheet string, row int) map[string]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cells := make(map[string]string)
	for _, col := range []string{"A", "B", "C", "F", "I", "J"} {
		cell := col + strconv.Itoa(row)
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		cells[cell] = v
	}
	return cells
}

func TestCloseBatch_ContextCancelled(t *testing.T) {
	store, _ := newTestStore(t)
	_, docs := writeDocs(t, "100.eml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	closer := NewCloser(store, actParserFunc(actForDoc))
	_, err := closer.CloseBatch(ctx, docs)
	assert.ErrorIs(t, err, context.Canceled)
}
