package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Notification No.", "notification no"},
		{"  PLANT  ", "plant"},
		{"Created   On", "created on"},
		{"Defective (Internal)", "defective internal"},
		{"Qty.-Unit", "qtyunit"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.in))
		})
	}
}

func TestResolveHeaders(t *testing.T) {
	mapping := ColumnMapping{
		"notification": {"notification no", "notification"},
		"plant":        {"plant"},
		"created":      {"created on", "creation date"},
	}

	t.Run("exact match beats containment", func(t *testing.T) {
		headers := []string{"Notification Text", "Notification No.", "Plant"}
		resolved := ResolveHeaders(headers, mapping)
		assert.Equal(t, 1, resolved["notification"])
		assert.Equal(t, 2, resolved["plant"])
	})

	t.Run("earlier alias wins", func(t *testing.T) {
		headers := []string{"Creation Date", "Created On"}
		resolved := ResolveHeaders(headers, mapping)
		// "created on" is listed first, so it wins even though "creation
		// date" appears earlier in the sheet.
		assert.Equal(t, 1, resolved["created"])
	})

	t.Run("containment either direction", func(t *testing.T) {
		headers := []string{"QM Notification No. (long)"}
		resolved := ResolveHeaders(headers, mapping)
		assert.Equal(t, 0, resolved["notification"])
	})

	t.Run("case and punctuation insensitive", func(t *testing.T) {
		for _, headers := range [][]string{
			{"NOTIFICATION NO", "PLANT", "CREATED ON"},
			{"notification-no.", "plant:", "created on"},
			{"Created On", "Plant", "Notification No."},
		} {
			resolved := ResolveHeaders(headers, mapping)
			assert.NotEqual(t, unresolved, resolved["notification"], "headers %v", headers)
			assert.NotEqual(t, unresolved, resolved["plant"], "headers %v", headers)
			assert.NotEqual(t, unresolved, resolved["created"], "headers %v", headers)
		}
	})

	t.Run("unmatched field resolves to -1", func(t *testing.T) {
		resolved := ResolveHeaders([]string{"Something Else"}, mapping)
		assert.Equal(t, unresolved, resolved["plant"])
	})
}

func TestMissingFields(t *testing.T) {
	resolved := map[string]int{"a": 0, "b": unresolved}
	assert.Equal(t, []string{"b", "c"}, MissingFields(resolved, []string{"a", "b", "c"}))
	assert.Nil(t, MissingFields(resolved, []string{"a"}))
}
