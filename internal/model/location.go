package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Location identifies the physical cell range holding one order's row:
// the partition file, the month sheet within it, and the 1-based row.
//
// Rows are appended monotonically within a sheet and never reused, so a
// Location, once recorded, stays valid for the life of the partition.
type Location struct {
	Path  string
	Sheet string
	Row   int
}

// String encodes the location in the serialized index form "path:sheet:row".
func (l Location) String() string {
	return fmt.Sprintf("%s:%s:%d", l.Path, l.Sheet, l.Row)
}

// ParseLocation decodes the "path:sheet:row" index form.
//
// The partition path may itself contain colons, so the sheet and row are
// taken from the right.
func ParseLocation(s string) (Location, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Location{}, fmt.Errorf("malformed location %q", s)
	}
	row, err := strconv.Atoi(s[i+1:])
	if err != nil || row < 1 {
		return Location{}, fmt.Errorf("malformed location row in %q", s)
	}

	rest := s[:i]
	j := strings.LastIndex(rest, ":")
	if j < 0 || j == 0 || j == len(rest)-1 {
		return Location{}, fmt.Errorf("malformed location %q", s)
	}

	return Location{Path: rest[:j], Sheet: rest[j+1:], Row: row}, nil
}
