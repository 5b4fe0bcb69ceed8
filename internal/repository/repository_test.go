package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/query"
	"github.com/emeralddgc/disc-tracker/internal/storage"
)

func newRepo(t *testing.T) (*DiscRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return CreateDiscRepository(db, zap.NewNop()), mock
}

func discRow(id int64, owner string, found time.Time, returned bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_name", "phone_number", "disc_type", "disc_color",
		"bin_number", "date_found", "is_returned", "sms_delivered",
	}).AddRow(id, owner, "+16025551234", "Driver", "Red", nil, found, returned, false)
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newRepo(t)
	found := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO discs")).
		WithArgs("Alice", "+16025551234", "Driver", "Red", nil, found, false, false).
		WillReturnRows(discRow(1, "Alice", found, false))

	record, err := repo.Create(context.Background(), storage.DiscRecord{
		OwnerName:   "Alice",
		PhoneNumber: "+16025551234",
		DiscType:    "Driver",
		DiscColor:   "Red",
		DateFound:   found,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, "Alice", record.OwnerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindByID(t *testing.T) {
	repo, mock := newRepo(t)
	found := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discs WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(discRow(1, "Alice", found, false))

	record, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discs WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_name", "phone_number", "disc_type", "disc_color",
			"bin_number", "date_found", "is_returned", "sms_delivered",
		}))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListWithSearch(t *testing.T) {
	repo, mock := newRepo(t)
	found := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("owner_name ILIKE $1")).
		WithArgs("%driver%", query.DefaultLimit).
		WillReturnRows(discRow(1, "Alice", found, false))

	records, err := repo.List(context.Background(), query.Options{
		Search: "driver",
		Filter: query.FilterAll,
		Sort:   query.SortDateDesc,
		Limit:  query.DefaultLimit,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].OwnerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListEscapesWildcards(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("owner_name ILIKE $1")).
		WithArgs(`%50\% off\_deal%`, query.DefaultLimit).
		WillReturnRows(discRow(1, "Alice", time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), false))

	_, err := repo.List(context.Background(), query.Options{
		Search: "50% off_deal",
		Filter: query.FilterAll,
		Sort:   query.SortDateDesc,
		Limit:  query.DefaultLimit,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListActiveOrdersDescending(t *testing.T) {
	repo, mock := newRepo(t)
	found := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT is_returned ORDER BY date_found DESC, id ASC LIMIT $1")).
		WithArgs(query.DefaultLimit).
		WillReturnRows(discRow(1, "Alice", found, false))

	records, err := repo.List(context.Background(), query.Options{
		Filter: query.FilterActive,
		Sort:   query.SortDateDesc,
		Limit:  query.DefaultLimit,
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE discs SET owner_name = $1")).
		WithArgs("Alice", "+16025551234", "Driver", "Red", nil, false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), storage.DiscRecord{
		ID:          1,
		OwnerName:   "Alice",
		PhoneNumber: "+16025551234",
		DiscType:    "Driver",
		DiscColor:   "Red",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE discs SET owner_name = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), storage.DiscRecord{ID: 42, DiscType: "Driver", DiscColor: "Red"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryMarkReturned(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE discs SET is_returned = TRUE WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkReturned(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM discs WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 42), storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryStats(t *testing.T) {
	repo, mock := newRepo(t)
	cutoff := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE is_returned)")).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count", "returned", "stale"}).AddRow(10, 4, 2))

	stats, err := repo.Stats(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(4), stats.Returned)
	assert.Equal(t, int64(2), stats.Stale)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryExpireBefore(t *testing.T) {
	cutoff := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)

	t.Run("soft", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE discs SET is_returned = TRUE WHERE NOT is_returned AND date_found < $1")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		affected, err := repo.ExpireBefore(context.Background(), cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hard", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM discs WHERE NOT is_returned AND date_found < $1")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		affected, err := repo.ExpireBefore(context.Background(), cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryDistinctValues(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT disc_type FROM discs ORDER BY disc_type")).
		WillReturnRows(sqlmock.NewRows([]string{"disc_type"}).AddRow("Driver").AddRow("Putter"))

	types, err := repo.DiscTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Driver", "Putter"}, types)
	assert.NoError(t, mock.ExpectationsWereMet())
}
