package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emeralddgc/disc-tracker/internal/query"
	"github.com/emeralddgc/disc-tracker/internal/retention"
)

// MemoryStorage keeps all records in a mutex-guarded map. It is the
// default backend when neither a database DSN nor a sqlite file is
// configured, and the workhorse of the service tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	discs  map[int64]DiscRecord
	nextID int64
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		discs:  make(map[int64]DiscRecord),
		nextID: 1,
	}, nil
}

func (m *MemoryStorage) Create(ctx context.Context, record DiscRecord) (*DiscRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record.ID = m.nextID
	// IDs are monotonic and never reused, even after deletion.
	m.nextID++
	m.discs[record.ID] = record

	return &record, nil
}

func (m *MemoryStorage) FindByID(ctx context.Context, id int64) (*DiscRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.discs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (m *MemoryStorage) List(ctx context.Context, o query.Options) ([]DiscRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]DiscRecord, 0)
	for _, r := range m.discs {
		if !query.MatchesFilter(o.Filter, r.IsReturned) {
			continue
		}
		if !query.MatchesSearch(o.Search, r.OwnerName, r.PhoneNumber, r.DiscType, r.DiscColor) {
			continue
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DateFound.Equal(b.DateFound) {
			// Ties break by insertion order for determinism.
			return a.ID < b.ID
		}
		if o.Sort == query.SortDateAsc {
			return a.DateFound.Before(b.DateFound)
		}
		return a.DateFound.After(b.DateFound)
	})

	if len(records) > o.Limit {
		records = records[:o.Limit]
	}
	return records, nil
}

func (m *MemoryStorage) Update(ctx context.Context, record DiscRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.discs[record.ID]
	if !ok {
		return ErrNotFound
	}
	// Return status and found date belong to MarkReturned and the
	// retention sweep; an update never touches them.
	record.IsReturned = stored.IsReturned
	record.DateFound = stored.DateFound
	m.discs[record.ID] = record
	return nil
}

func (m *MemoryStorage) MarkReturned(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.discs[id]
	if !ok {
		return ErrNotFound
	}
	record.IsReturned = true
	m.discs[id] = record
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.discs[id]; !ok {
		return ErrNotFound
	}
	delete(m.discs, id)
	return nil
}

func (m *MemoryStorage) Stats(ctx context.Context, cutoff time.Time) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{}
	for _, r := range m.discs {
		stats.Total++
		if r.IsReturned {
			stats.Returned++
		}
		if retention.Expired(r.DateFound, cutoff, r.IsReturned) {
			stats.Stale++
		}
	}
	return &stats, nil
}

func (m *MemoryStorage) ExpireBefore(ctx context.Context, cutoff time.Time, hard bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var affected int64
	for id, r := range m.discs {
		if !retention.Expired(r.DateFound, cutoff, r.IsReturned) {
			continue
		}
		if hard {
			delete(m.discs, id)
		} else {
			r.IsReturned = true
			m.discs[id] = r
		}
		affected++
	}
	return affected, nil
}

func (m *MemoryStorage) DiscTypes(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.distinct(func(r DiscRecord) string { return r.DiscType }), nil
}

func (m *MemoryStorage) DiscColors(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.distinct(func(r DiscRecord) string { return r.DiscColor }), nil
}

func (m *MemoryStorage) distinct(field func(DiscRecord) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range m.discs {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// PingContext reports success unconditionally; an in-process map has no
// connection to lose.
func (m *MemoryStorage) PingContext(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
