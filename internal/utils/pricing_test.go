package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRentalCost(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cost, err := CalculateRentalCost(10, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(20), cost)
	})

	t.Run("Non-positive price", func(t *testing.T) {
		_, err := CalculateRentalCost(0, 2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "price per hour must be positive")
	})

	t.Run("Non-positive hours", func(t *testing.T) {
		_, err := CalculateRentalCost(10, 0)
		assert.Error(t, err)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := CalculateRentalCost(math.MaxInt64/2, 3)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "overflows")
	})
}

func TestSplitSettlement(t *testing.T) {
	tests := []struct {
		total    int64
		feeBps   int64
		owner    int64
		platform int64
	}{
		{20, 500, 19, 1},
		{100, 500, 95, 5},
		{19, 500, 19, 0}, // fee floors to zero
		{21, 500, 20, 1},
		{0, 500, 0, 0},
		{1000, 0, 1000, 0},
		{1000, 10000, 0, 1000},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			split, err := SplitSettlement(tt.total, tt.feeBps)
			assert.NoError(t, err)
			assert.Equal(t, tt.owner, split.OwnerShare)
			assert.Equal(t, tt.platform, split.PlatformShare)
			assert.Equal(t, tt.total, split.OwnerShare+split.PlatformShare)
		})
	}

	t.Run("Large totals conserve", func(t *testing.T) {
		total := int64(math.MaxInt64 - 7)
		split, err := SplitSettlement(total, 500)
		assert.NoError(t, err)
		assert.Equal(t, total, split.OwnerShare+split.PlatformShare)
		assert.True(t, split.PlatformShare > 0)
	})

	t.Run("Invalid fee", func(t *testing.T) {
		_, err := SplitSettlement(100, 10001)
		assert.Error(t, err)
	})
}

func TestRentalEndTime(t *testing.T) {
	start := time.Unix(1_700_000_000, 0).UTC()
	assert.Equal(t, start.Add(2*time.Hour), RentalEndTime(start, 2))
	assert.Equal(t, int64(7200), RentalEndTime(start, 2).Unix()-start.Unix())
}
