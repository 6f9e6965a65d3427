package service

import (
	"context"
	"testing"

	"cyclerent-ledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleService_ListCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, err := f.cycles.ListCycle(ctx, alice, "Bike", "Road bike", "https://img/1.png", 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.True(t, c.IsAvailable)
		assert.True(t, c.IsActive)
		assert.Equal(t, f.clock.Now(), c.CreatedAt)

		c2 := f.listCycle(t, alice, 12)
		assert.Equal(t, int64(2), c2.ID)

		owned, err := f.cycles.GetOwnerCycles(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, owned)
		avail, _ := f.cycles.GetAllAvailableCycles(ctx)
		assert.Equal(t, []int64{1, 2}, avail)
		total, _ := f.cycles.GetTotalCycles(ctx)
		assert.Equal(t, int64(2), total)
	})

	t.Run("Invalid input", func(t *testing.T) {
		cases := []struct {
			name, owner, cname, desc string
			price                    int64
		}{
			{"Zero price", alice, "Bike", "Desc", 0},
			{"Negative price", alice, "Bike", "Desc", -1},
			{"Blank name", alice, "  ", "Desc", 5},
			{"Blank description", alice, "Bike", "", 5},
			{"Blank owner", "", "Bike", "Desc", 5},
		}
		for _, tc := range cases {
			_, err := f.cycles.ListCycle(ctx, tc.owner, tc.cname, tc.desc, "", tc.price)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, tc.name)
		}
		total, _ := f.cycles.GetTotalCycles(ctx)
		assert.Equal(t, int64(2), total)
	})
}

func TestCycleService_UpdateCyclePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.listCycle(t, alice, 10)

	_, err := f.cycles.UpdateCyclePrice(ctx, bob, c.ID, 20)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = f.cycles.UpdateCyclePrice(ctx, alice, c.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.cycles.UpdateCyclePrice(ctx, alice, 99, 20)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Allowed while rented; the open rental keeps its escrowed cost.
	rt := f.rent(t, bob, c.ID, 2, 20)
	updated, err := f.cycles.UpdateCyclePrice(ctx, alice, c.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.PricePerHour)
	assert.False(t, updated.IsAvailable)

	got, _ := f.rentals.GetRental(ctx, rt.ID)
	assert.Equal(t, int64(20), got.TotalCost)
}

func TestCycleService_RemoveCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.listCycle(t, alice, 10)

	_, err := f.cycles.RemoveCycle(ctx, bob, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	_, err = f.cycles.RemoveCycle(ctx, alice, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t.Run("Blocked by open rental", func(t *testing.T) {
		rt := f.rent(t, bob, c.ID, 1, 10)
		_, err := f.cycles.RemoveCycle(ctx, alice, c.ID)
		assert.ErrorIs(t, err, domain.ErrCycleUnavailable)

		_, err = f.rentals.ReturnCycle(ctx, bob, rt.ID)
		require.NoError(t, err)
	})

	removed, err := f.cycles.RemoveCycle(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.False(t, removed.IsActive)
	assert.False(t, removed.IsAvailable)

	avail, _ := f.cycles.GetAllAvailableCycles(ctx)
	assert.NotContains(t, avail, c.ID)

	// Still queryable for rental history.
	got, err := f.cycles.GetCycle(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	owned, _ := f.cycles.GetOwnerCycles(ctx, alice)
	assert.Equal(t, []int64{c.ID}, owned)

	_, err = f.rentals.RentCycle(ctx, bob, c.ID, 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.cycles.RemoveCycle(ctx, alice, c.ID)
	assert.ErrorIs(t, err, domain.ErrCycleUnavailable)
}

func TestCycleService_OwnerIdentityIsCanonical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lower := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	upper := "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"

	c := f.listCycle(t, lower, 10)
	assert.NotEqual(t, lower, c.Owner)

	_, err := f.cycles.UpdateCyclePrice(ctx, upper, c.ID, 11)
	assert.NoError(t, err)

	owned, _ := f.cycles.GetOwnerCycles(ctx, upper)
	assert.Equal(t, []int64{c.ID}, owned)

	_, err = f.rentals.RentCycle(ctx, upper, c.ID, 1, 11)
	assert.ErrorIs(t, err, domain.ErrSelfRental)
}
