package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := NotificationID("300012345", "106")
		b := NotificationID("300012345", "106")
		assert.Equal(t, a, b)
	})

	t.Run("key sensitivity", func(t *testing.T) {
		a := NotificationID("300012345", "106")
		b := NotificationID("300012345", "107")
		c := NotificationID("300012346", "106")
		assert.NotEqual(t, a, b)
		assert.NotEqual(t, a, c)
	})

	t.Run("whitespace in key is trimmed", func(t *testing.T) {
		assert.Equal(t,
			NotificationID("300012345", "106"),
			NotificationID(" 300012345 ", " 106 "))
	})
}

func TestCategoryForType(t *testing.T) {
	tests := []struct {
		typ      NotificationType
		category Category
	}{
		{TypeQ1, CategoryCustomer},
		{TypeQ2, CategorySupplier},
		{TypeQ3, CategoryInternal},
		{TypeD1, CategoryDeviation},
		{TypeD2, CategoryDeviation},
		{TypeD3, CategoryDeviation},
		{TypeP1, CategoryPPAP},
		{TypeP2, CategoryPPAP},
		{TypeP3, CategoryPPAP},
		{NotificationType("X9"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.category, CategoryForType(tt.typ))
		})
	}
}

func TestNotificationMonth(t *testing.T) {
	n := Notification{CreatedAt: time.Date(2024, 3, 17, 11, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03", n.Month())
}

func TestDeriveLocation(t *testing.T) {
	assert.Equal(t, "Hamburg, Germany", DeriveLocation("Hamburg", "Germany"))
	assert.Equal(t, "Hamburg", DeriveLocation("Hamburg", ""))
	assert.Equal(t, "Germany", DeriveLocation("", "Germany"))
	assert.Equal(t, "", DeriveLocation("", ""))
}
