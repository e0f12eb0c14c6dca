package register

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/orderreg/internal/model"
)

// RebuildIndex rescans every partition's month sheets and repopulates the
// index from row contents. It is the recovery path when the index file is
// lost or corrupted, and the source of the ConsistencyError fix when index
// and partitions have drifted.
//
// Data rows start at row 2; row 1 is the header inherited from the template
// sheet. Rows whose id column is empty or non-numeric are skipped with a
// warning. Returns the number of index entries written.
func (s *Store) RebuildIndex() (int, error) {
	partitions, err := filepath.Glob(filepath.Join(s.root, "*", "*"+partitionSuffix))
	if err != nil {
		return 0, fmt.Errorf("scan partitions: %w", err)
	}

	entries := make(map[int]model.Location)
	for _, path := range partitions {
		if err := s.scanPartition(path, entries); err != nil {
			return 0, err
		}
	}

	if err := s.index.PutAll(entries); err != nil {
		return 0, err
	}

	slog.Info("index rebuilt", "partitions", len(partitions), "entries", len(entries))
	return len(entries), nil
}

// scanPartition collects id -> location for every data row of every month
// sheet in one partition file.
func (s *Store) scanPartition(path string, entries map[int]model.Location) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open partition %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		if sheet == templateSheet {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %s!%s: %w", path, sheet, err)
		}

		for i, row := range rows {
			num := i + 1 // rows are 1-based
			if num < 2 {
				continue
			}
			if len(row) == 0 || row[0] == "" {
				continue
			}

			id, err := strconv.Atoi(row[0])
			if err != nil {
				slog.Warn("skipping row with non-numeric id",
					"partition", path, "sheet", sheet, "row", num, "cell", row[0])
				continue
			}

			entries[id] = model.Location{Path: path, Sheet: sheet, Row: num}
		}
	}

	return nil
}
