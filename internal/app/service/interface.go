package service

import (
	"context"
	"time"

	"github.com/emeralddgc/disc-tracker/internal/models"
	"github.com/emeralddgc/disc-tracker/internal/query"
	"github.com/emeralddgc/disc-tracker/internal/storage"
)

// Storage is the record store contract every backend implements.
type Storage interface {
	Create(context.Context, storage.DiscRecord) (*storage.DiscRecord, error)
	FindByID(context.Context, int64) (*storage.DiscRecord, error)
	List(context.Context, query.Options) ([]storage.DiscRecord, error)
	Update(context.Context, storage.DiscRecord) error
	MarkReturned(context.Context, int64) error
	Delete(context.Context, int64) error
	Stats(context.Context, time.Time) (*storage.Stats, error)
	ExpireBefore(ctx context.Context, cutoff time.Time, hard bool) (int64, error)
	DiscTypes(context.Context) ([]string, error)
	DiscColors(context.Context) ([]string, error)
	PingContext(context.Context) error
	Close() error
}

// DiscServiceIface is the handler-facing surface of the disc service.
type DiscServiceIface interface {
	Create(context.Context, models.CreateDiscRequest) (*storage.DiscRecord, error)
	GetByID(context.Context, int64) (*storage.DiscRecord, error)
	List(context.Context, query.Options) ([]storage.DiscRecord, error)
	Update(context.Context, int64, models.UpdateDiscRequest) (*storage.DiscRecord, error)
	MarkReturned(context.Context, int64) error
	Delete(context.Context, int64) error
	Stats(context.Context) (*storage.Stats, error)
	Cleanup(context.Context) (int64, error)
	DiscTypes(context.Context) ([]string, error)
	DiscColors(context.Context) ([]string, error)
	PingContext(context.Context) error
}
