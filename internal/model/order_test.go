package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellDate(t *testing.T) {
	order := Order{
		ID:   12747295,
		Date: time.Date(2021, time.September, 8, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "08.09.2021", order.CellDate())

	act := ClosureAct{OrderID: 12747295, Date: order.Date}
	assert.Equal(t, "08.09.2021", act.CellDate())
}

func TestParseCellDate(t *testing.T) {
	got, err := ParseCellDate("08.09.2021")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.September, 8, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseCellDate("2021-09-08")
	assert.Error(t, err)
}
