package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/emeralddgc/disc-tracker/internal/query"
)

// Timestamps are stored as fixed-width RFC3339 UTC strings so that string
// comparison in SQL matches chronological order.
const timeLayout = time.RFC3339

// SQLiteStorage is the embedded file backend. Use ":memory:" for tests.
type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteStorage(path string, logger *zap.Logger) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Single writer at a time; readers share the same connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	// AUTOINCREMENT keeps ids monotonic and never reused after deletion.
	createTable := `
		CREATE TABLE IF NOT EXISTS discs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_name TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		disc_type TEXT NOT NULL,
		disc_color TEXT NOT NULL,
		bin_number INTEGER,
		date_found TEXT NOT NULL,
		is_returned INTEGER NOT NULL DEFAULT 0,
		sms_delivered INTEGER NOT NULL DEFAULT 0
	);`

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create discs table: %w", err)
	}

	return &SQLiteStorage{db: db, logger: logger}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func (s *SQLiteStorage) Create(ctx context.Context, record DiscRecord) (*DiscRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO discs (owner_name, phone_number, disc_type, disc_color, bin_number, date_found, is_returned, sms_delivered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		record.OwnerName, record.PhoneNumber, record.DiscType, record.DiscColor,
		record.BinNumber, formatTime(record.DateFound), record.IsReturned, record.SMSDelivered,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, id)
}

func (s *SQLiteStorage) FindByID(ctx context.Context, id int64) (*DiscRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_name, phone_number, disc_type, disc_color, bin_number, date_found, is_returned, sms_delivered
		 FROM discs WHERE id = ?;`, id)

	record, err := scanDisc(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDisc(row rowScanner) (*DiscRecord, error) {
	var (
		r     DiscRecord
		found string
	)
	err := row.Scan(&r.ID, &r.OwnerName, &r.PhoneNumber, &r.DiscType, &r.DiscColor,
		&r.BinNumber, &found, &r.IsReturned, &r.SMSDelivered)
	if err != nil {
		return nil, err
	}

	r.DateFound, err = parseTime(found)
	if err != nil {
		return nil, fmt.Errorf("parse date_found: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStorage) List(ctx context.Context, o query.Options) ([]DiscRecord, error) {
	var (
		clauses []string
		args    []any
	)

	if o.Search != "" {
		clauses = append(clauses,
			`(lower(owner_name) LIKE ? ESCAPE '\' OR phone_number LIKE ? ESCAPE '\' OR lower(disc_type) LIKE ? ESCAPE '\' OR lower(disc_color) LIKE ? ESCAPE '\')`)
		escaped := query.EscapeLike(o.Search)
		folded := "%" + strings.ToLower(escaped) + "%"
		raw := "%" + escaped + "%"
		args = append(args, folded, raw, folded, folded)
	}
	switch o.Filter {
	case query.FilterActive:
		clauses = append(clauses, "is_returned = 0")
	case query.FilterReturned:
		clauses = append(clauses, "is_returned = 1")
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
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, owner_name, phone_number, disc_type, disc_color, bin_number, date_found, is_returned, sms_delivered
		 FROM discs %s %s LIMIT ?;`, where, order), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]DiscRecord, 0)
	for rows.Next() {
		record, err := scanDisc(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) Update(ctx context.Context, record DiscRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE discs SET owner_name = ?, phone_number = ?, disc_type = ?, disc_color = ?, bin_number = ?, sms_delivered = ?
		 WHERE id = ?;`,
		record.OwnerName, record.PhoneNumber, record.DiscType, record.DiscColor,
		record.BinNumber, record.SMSDelivered, record.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) MarkReturned(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE discs SET is_returned = 1 WHERE id = ?;", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStorage) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM discs WHERE id = ?;", id)
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
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) Stats(ctx context.Context, cutoff time.Time) (*Stats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(is_returned), 0),
		        COALESCE(SUM(CASE WHEN is_returned = 0 AND date_found < ? THEN 1 ELSE 0 END), 0)
		 FROM discs;`, formatTime(cutoff))

	var stats Stats
	if err := row.Scan(&stats.Total, &stats.Returned, &stats.Stale); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *SQLiteStorage) ExpireBefore(ctx context.Context, cutoff time.Time, hard bool) (int64, error) {
	stmt := "UPDATE discs SET is_returned = 1 WHERE is_returned = 0 AND date_found < ?;"
	if hard {
		stmt = "DELETE FROM discs WHERE is_returned = 0 AND date_found < ?;"
	}

	res, err := s.db.ExecContext(ctx, stmt, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) DiscTypes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "SELECT DISTINCT disc_type FROM discs ORDER BY disc_type;")
}

func (s *SQLiteStorage) DiscColors(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "SELECT DISTINCT disc_color FROM discs ORDER BY disc_color;")
}

func (s *SQLiteStorage) distinct(ctx context.Context, stmt string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
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

func (s *SQLiteStorage) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
