// Package repository implements the disc store on top of PostgreSQL,
// used when the service is started with a database DSN.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/query"
	"github.com/emeralddgc/disc-tracker/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const discColumns = "id, owner_name, phone_number, disc_type, disc_color, bin_number, date_found, is_returned, sms_delivered"

func InitDB(dsn string, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	// Identity column: ids are drawn from a sequence and never reused.
	createTable := `
		CREATE TABLE IF NOT EXISTS discs (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		owner_name TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		disc_type TEXT NOT NULL,
		disc_color TEXT NOT NULL,
		bin_number BIGINT,
		date_found TIMESTAMPTZ NOT NULL,
		is_returned BOOLEAN NOT NULL DEFAULT FALSE,
		sms_delivered BOOLEAN NOT NULL DEFAULT FALSE
	);`

	if _, err := db.Exec(createTable); err != nil {
		logger.Fatal("cannot create discs table", zap.Error(err))
	}

	return db
}

type DiscRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateDiscRepository(db *sql.DB, logger *zap.Logger) *DiscRepository {
	return &DiscRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DiscRepository) Create(ctx context.Context, record storage.DiscRecord) (*storage.DiscRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO discs (owner_name, phone_number, disc_type, disc_color, bin_number, date_found, is_returned, sms_delivered)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+discColumns+`;`,
		record.OwnerName, record.PhoneNumber, record.DiscType, record.DiscColor,
		record.BinNumber, record.DateFound, record.IsReturned, record.SMSDelivered,
	)
	return scanDisc(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDisc(row rowScanner) (*storage.DiscRecord, error) {
	var r storage.DiscRecord
	err := row.Scan(&r.ID, &r.OwnerName, &r.PhoneNumber, &r.DiscType, &r.DiscColor,
		&r.BinNumber, &r.DateFound, &r.IsReturned, &r.SMSDelivered)
	if err != nil {
		return nil, err
	}
	r.DateFound = r.DateFound.UTC()
	return &r, nil
}

func (r *DiscRepository) FindByID(ctx context.Context, id int64) (*storage.DiscRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+discColumns+" FROM discs WHERE id = $1;", id)

	record, err := scanDisc(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *DiscRepository) List(ctx context.Context, o query.Options) ([]storage.DiscRecord, error) {
	var (
		clauses []string
		args    []any
	)

	if o.Search != "" {
		// Backslash is the default LIKE escape character in PostgreSQL.
		pattern := "%" + query.EscapeLike(o.Search) + "%"
		args = append(args, pattern)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(owner_name ILIKE $%d OR phone_number LIKE $%d OR disc_type ILIKE $%d OR disc_color ILIKE $%d)", n, n, n, n))
	}
	switch o.Filter {
	case query.FilterActive:
		clauses = append(clauses, "NOT is_returned")
	case query.FilterReturned:
		clauses = append(clauses, "is_returned")
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	order := "ORDER BY date_found DESC, id ASC"
	if o.Sort == query.SortDateAsc {
		order = "ORDER BY date_found ASC, id ASC"
	}

	args = append(args, o.Limit)
	stmt := fmt.Sprintf("SELECT %s FROM discs %s %s LIMIT $%d;", discColumns, where, order, len(args))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]storage.DiscRecord, 0)
	for rows.Next() {
		record, err := scanDisc(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *DiscRepository) Update(ctx context.Context, record storage.DiscRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE discs SET owner_name = $1, phone_number = $2, disc_type = $3, disc_color = $4, bin_number = $5, sms_delivered = $6
		 WHERE id = $7;`,
		record.OwnerName, record.PhoneNumber, record.DiscType, record.DiscColor,
		record.BinNumber, record.SMSDelivered, record.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DiscRepository) MarkReturned(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE discs SET is_returned = TRUE WHERE id = $1;", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DiscRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM discs WHERE id = $1;", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *DiscRepository) Stats(ctx context.Context, cutoff time.Time) (*storage.Stats, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_returned),
		        COUNT(*) FILTER (WHERE NOT is_returned AND date_found < $1)
		 FROM discs;`, cutoff)

	var stats storage.Stats
	if err := row.Scan(&stats.Total, &stats.Returned, &stats.Stale); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *DiscRepository) ExpireBefore(ctx context.Context, cutoff time.Time, hard bool) (int64, error) {
	stmt := "UPDATE discs SET is_returned = TRUE WHERE NOT is_returned AND date_found < $1;"
	if hard {
		stmt = "DELETE FROM discs WHERE NOT is_returned AND date_found < $1;"
	}

	res, err := r.db.ExecContext(ctx, stmt, cutoff)
	if err != nil {
		r.logger.Error("retention sweep failed", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

func (r *DiscRepository) DiscTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT disc_type FROM discs ORDER BY disc_type;")
}

func (r *DiscRepository) DiscColors(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT disc_color FROM discs ORDER BY disc_color;")
}

func (r *DiscRepository) distinct(ctx context.Context, stmt string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *DiscRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *DiscRepository) Close() error {
	return r.db.Close()
}
