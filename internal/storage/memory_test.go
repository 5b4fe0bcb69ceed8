package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emeralddgc/disc-tracker/internal/query"
)

func day(d int) time.Time {
	return time.Date(2024, 7, d, 12, 0, 0, 0, time.UTC)
}

func seedMemory(t *testing.T) *MemoryStorage {
	t.Helper()

	m, err := CreateMemoryStorage()
	require.NoError(t, err)

	records := []DiscRecord{
		{OwnerName: "Alice", PhoneNumber: "+16025551234", DiscType: "Driver", DiscColor: "Red", DateFound: day(3)},
		{OwnerName: "Bob", PhoneNumber: "+14805559876", DiscType: "Putter", DiscColor: "Blue", DateFound: day(1)},
		{OwnerName: "Carol", PhoneNumber: "", DiscType: "Midrange", DiscColor: "Red", DateFound: day(2), IsReturned: true},
	}
	for _, r := range records {
		_, err := m.Create(context.Background(), r)
		require.NoError(t, err)
	}
	return m
}

func TestMemoryCreateAssignsMonotonicIDs(t *testing.T) {
	m, err := CreateMemoryStorage()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Create(ctx, DiscRecord{DiscType: "Driver", DiscColor: "Red", DateFound: day(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	require.NoError(t, m.Delete(ctx, first.ID))

	second, err := m.Create(ctx, DiscRecord{DiscType: "Putter", DiscColor: "Blue", DateFound: day(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryFindByID(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	record, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", record.OwnerName)

	_, err = m.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListSorting(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	records, err := m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterAll, Sort: query.SortDateDesc})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int64{1, 3, 2}, []int64{records[0].ID, records[1].ID, records[2].ID})

	records, err = m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterAll, Sort: query.SortDateAsc})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, []int64{records[0].ID, records[1].ID, records[2].ID})
}

func TestMemoryListTiesBreakByID(t *testing.T) {
	m, err := CreateMemoryStorage()
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Create(ctx, DiscRecord{DiscType: "Driver", DiscColor: "Red", DateFound: day(1)})
		require.NoError(t, err)
	}

	records, err := m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterAll, Sort: query.SortDateDesc})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, []int64{records[0].ID, records[1].ID, records[2].ID})
}

func TestMemoryListFilterAndSearch(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	records, err := m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterActive})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterReturned})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Carol", records[0].OwnerName)

	records, err = m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterAll, Search: "red"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = m.List(ctx, query.Options{Limit: query.DefaultLimit, Filter: query.FilterAll, Search: "5559876"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0].OwnerName)
}

func TestMemoryListLimit(t *testing.T) {
	m := seedMemory(t)

	records, err := m.List(context.Background(), query.Options{Limit: 2, Filter: query.FilterAll})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryUpdate(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	record, err := m.FindByID(ctx, 1)
	require.NoError(t, err)

	record.OwnerName = "Alicia"
	require.NoError(t, m.Update(ctx, *record))

	stored, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.OwnerName)

	assert.ErrorIs(t, m.Update(ctx, DiscRecord{ID: 42}), ErrNotFound)
}

func TestMemoryUpdateKeepsReturnStatusAndDate(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	// A copy fetched before a concurrent MarkReturned still carries
	// IsReturned=false; writing it back must not undo the return.
	stale, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, m.MarkReturned(ctx, 1))

	stale.OwnerName = "Alicia"
	stale.DateFound = day(9)
	require.NoError(t, m.Update(ctx, *stale))

	stored, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.OwnerName)
	assert.True(t, stored.IsReturned)
	assert.True(t, stored.DateFound.Equal(day(3)))
}

func TestMemoryMarkReturnedAndDelete(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	require.NoError(t, m.MarkReturned(ctx, 1))
	record, err := m.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, record.IsReturned)

	assert.ErrorIs(t, m.MarkReturned(ctx, 42), ErrNotFound)

	require.NoError(t, m.Delete(ctx, 1))
	_, err = m.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, 1), ErrNotFound)
}

func TestMemoryStats(t *testing.T) {
	m := seedMemory(t)

	cutoff := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
	stats, err := m.Stats(context.Background(), cutoff)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Returned)
	// Bob is the only unreturned disc found before the cutoff.
	assert.Equal(t, int64(1), stats.Stale)
}

func TestMemoryExpireBefore(t *testing.T) {
	cutoff := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("soft marks returned", func(t *testing.T) {
		m := seedMemory(t)

		affected, err := m.ExpireBefore(ctx, cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		record, err := m.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.True(t, record.IsReturned)
	})

	t.Run("hard deletes", func(t *testing.T) {
		m := seedMemory(t)

		affected, err := m.ExpireBefore(ctx, cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		_, err = m.FindByID(ctx, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryDistinctValues(t *testing.T) {
	m := seedMemory(t)
	ctx := context.Background()

	types, err := m.DiscTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Driver", "Midrange", "Putter"}, types)

	colors, err := m.DiscColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue", "Red"}, colors)
}

func TestMemoryPing(t *testing.T) {
	m, err := CreateMemoryStorage()
	require.NoError(t, err)

	assert.NoError(t, m.PingContext(context.Background()))
	assert.NoError(t, m.Close())
}
