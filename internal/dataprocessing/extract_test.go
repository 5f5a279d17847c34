package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValue(t *testing.T) {
	row := []string{"a", "  b  ", "", "   "}

	assert.Equal(t, "a", CellValue(row, 0, "def"))
	assert.Equal(t, "b", CellValue(row, 1, "def"))
	assert.Equal(t, "def", CellValue(row, 2, "def"))
	assert.Equal(t, "def", CellValue(row, 3, "def"))
	assert.Equal(t, "def", CellValue(row, 9, "def"))
	assert.Equal(t, "def", CellValue(row, -1, "def"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  time.Time
		valid bool
	}{
		{"iso", "2024-03-17", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"us slash", "03/17/2024", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"german dot", "17.03.2024", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"compact", "20240317", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"serial", "45368", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"blank", "   ", time.Time{}, false},
		{"negative serial", "-5", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want.Year(), got.Year())
				assert.Equal(t, tt.want.Month(), got.Month())
				assert.Equal(t, tt.want.Day(), got.Day())
			}
		})
	}

	t.Run("pattern order resolves ambiguity as month first", func(t *testing.T) {
		got, ok := ParseDate("03/04/2024")
		require.True(t, ok)
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 4, got.Day())
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1200", 1200},
		{"1,200.50", 1200.50},
		{"  42 PC ", 42},
		{"-15", -15},
		{"", 0},
		{"n/a", 0},
		{"...", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, IsEmptyRow(nil))
	assert.True(t, IsEmptyRow([]string{"", "  ", "\t"}))
	assert.False(t, IsEmptyRow([]string{"", "x"}))
}
