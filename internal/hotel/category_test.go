package hotel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/hotelier/internal/hotel"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want hotel.Category
		ok   bool
	}{
		{"STANDARD", hotel.CategoryStandard, true},
		{"deluxe", hotel.CategoryDeluxe, true},
		{" Suite ", hotel.CategorySuite, true},
		{"PENTHOUSE", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := hotel.ParseCategory(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategoryInfo(t *testing.T) {
	info, ok := hotel.CategoryStandard.Info()
	require.True(t, ok)
	assert.Equal(t, "Standard Room", info.DisplayName)
	assert.InDelta(t, 100.00, info.BasePrice, 0)
	assert.Equal(t, 2, info.Capacity)

	info, ok = hotel.CategorySuite.Info()
	require.True(t, ok)
	assert.Equal(t, "Suite", info.DisplayName)
	assert.InDelta(t, 250.00, info.BasePrice, 0)
	assert.Equal(t, 4, info.Capacity)

	_, ok = hotel.Category("PENTHOUSE").Info()
	assert.False(t, ok)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []hotel.Category{
		hotel.CategoryStandard,
		hotel.CategoryDeluxe,
		hotel.CategorySuite,
	}, hotel.Categories())
}
