// Package service implements the core operations of the lost-and-found
// tracker on top of a pluggable record store, plus the admin session gate.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/models"
	"github.com/emeralddgc/disc-tracker/internal/query"
	"github.com/emeralddgc/disc-tracker/internal/retention"
	"github.com/emeralddgc/disc-tracker/internal/storage"
)

// ErrValidation marks client errors caused by missing or empty required fields.
var ErrValidation = errors.New("validation failed")

// Seed values merged into the distinct type/color listings so the intake
// form has sensible choices before any disc is recorded.
var (
	seedDiscTypes  = []string{"Driver", "Fairway", "Midrange", "Putter"}
	seedDiscColors = []string{"Red", "Blue", "Green", "Yellow", "Orange", "Purple", "White", "Black"}
)

type DiscService struct {
	store  Storage
	policy retention.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewDisc(store Storage, policy retention.Policy, logger *zap.Logger) *DiscService {
	return &DiscService{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (s *DiscService) Create(ctx context.Context, req models.CreateDiscRequest) (*storage.DiscRecord, error) {
	if req.DiscType == "" {
		return nil, fmt.Errorf("%w: discType is required", ErrValidation)
	}
	if req.DiscColor == "" {
		return nil, fmt.Errorf("%w: discColor is required", ErrValidation)
	}

	dateFound := s.now().UTC()
	if req.DateFound != nil {
		dateFound = req.DateFound.UTC()
	}

	record, err := s.store.Create(ctx, storage.DiscRecord{
		OwnerName:   req.OwnerName,
		PhoneNumber: normalizePhone(req.PhoneNumber),
		DiscType:    req.DiscType,
		DiscColor:   req.DiscColor,
		BinNumber:   req.BinNumber,
		DateFound:   dateFound,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("disc recorded",
		zap.Int64("id", record.ID),
		zap.String("discType", record.DiscType),
		zap.String("discColor", record.DiscColor),
	)
	return record, nil
}

func (s *DiscService) GetByID(ctx context.Context, id int64) (*storage.DiscRecord, error) {
	return s.store.FindByID(ctx, id)
}

func (s *DiscService) List(ctx context.Context, o query.Options) ([]storage.DiscRecord, error) {
	return s.store.List(ctx, o.Normalize())
}

// Update merges the supplied fields over the stored record. The phone
// number is re-normalized when present; required fields may not be
// blanked out.
func (s *DiscService) Update(ctx context.Context, id int64, req models.UpdateDiscRequest) (*storage.DiscRecord, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.OwnerName != nil {
		record.OwnerName = *req.OwnerName
	}
	if req.PhoneNumber != nil {
		record.PhoneNumber = normalizePhone(*req.PhoneNumber)
	}
	if req.DiscType != nil {
		if *req.DiscType == "" {
			return nil, fmt.Errorf("%w: discType must not be empty", ErrValidation)
		}
		record.DiscType = *req.DiscType
	}
	if req.DiscColor != nil {
		if *req.DiscColor == "" {
			return nil, fmt.Errorf("%w: discColor must not be empty", ErrValidation)
		}
		record.DiscColor = *req.DiscColor
	}
	if req.BinNumber != nil {
		record.BinNumber = req.BinNumber
	}

	if err := s.store.Update(ctx, *record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *DiscService) MarkReturned(ctx context.Context, id int64) error {
	return s.store.MarkReturned(ctx, id)
}

func (s *DiscService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *DiscService) Stats(ctx context.Context) (*storage.Stats, error) {
	return s.store.Stats(ctx, s.policy.Cutoff(s.now()))
}

// Cleanup runs the retention policy once. The sweep worker and the admin
// cleanup endpoint both land here, so the eligibility predicate and the
// configured variant cannot diverge.
func (s *DiscService) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.policy.Cutoff(s.now())

	affected, err := s.store.ExpireBefore(ctx, cutoff, s.policy.Hard())
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		s.logger.Info("retention cleanup",
			zap.Int64("affected", affected),
			zap.String("mode", string(s.policy.Mode)),
			zap.Time("cutoff", cutoff),
		)
	}
	return affected, nil
}

func (s *DiscService) DiscTypes(ctx context.Context) ([]string, error) {
	stored, err := s.store.DiscTypes(ctx)
	if err != nil {
		return nil, err
	}
	return mergeSeed(seedDiscTypes, stored), nil
}

func (s *DiscService) DiscColors(ctx context.Context) ([]string, error) {
	stored, err := s.store.DiscColors(ctx)
	if err != nil {
		return nil, err
	}
	return mergeSeed(seedDiscColors, stored), nil
}

// mergeSeed keeps the seed ordering first and appends stored values not
// already present, sorted.
func mergeSeed(seed, stored []string) []string {
	seen := make(map[string]bool, len(seed))
	merged := make([]string, 0, len(seed)+len(stored))
	for _, v := range seed {
		seen[v] = true
		merged = append(merged, v)
	}

	extra := make([]string, 0)
	for _, v := range stored {
		if !seen[v] {
			seen[v] = true
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	return append(merged, extra...)
}

func (s *DiscService) PingContext(ctx context.Context) error {
	return s.store.PingContext(ctx)
}
