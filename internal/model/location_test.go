package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationRoundTrip(t *testing.T) {
	loc := Location{
		Path:  "/data/2021/2021_orders_register.xlsx",
		Sheet: "9",
		Row:   2,
	}

	encoded := loc.String()
	assert.Equal(t, "/data/2021/2021_orders_register.xlsx:9:2", encoded)

	decoded, err := ParseLocation(encoded)
	require.NoError(t, err)
	assert.Equal(t, loc, decoded)
}

func TestParseLocation_PathWithColons(t *testing.T) {
	loc, err := ParseLocation(`C:\orders\2021\2021_orders_register.xlsx:12:41`)
	require.NoError(t, err)
	assert.Equal(t, `C:\orders\2021\2021_orders_register.xlsx`, loc.Path)
	assert.Equal(t, "12", loc.Sheet)
	assert.Equal(t, 41, loc.Row)
}

func TestParseLocation_Malformed(t *testing.T) {
	cases := []string{
		"",
		"no-separators",
		"path:sheet",
		"path:sheet:zero-row",
		"path:sheet:0",
		"path:sheet:-3",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseLocation(c)
			assert.Error(t, err)
		})
	}
}
