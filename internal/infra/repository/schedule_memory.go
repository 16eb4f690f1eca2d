package repository

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"stock-notifier/internal/domain/schedule"
	"stock-notifier/internal/infra"
	"stock-notifier/internal/usecase/shared"

	"github.com/google/uuid"
)

// MemoryScheduleStore keeps schedules for the life of the process only.
type MemoryScheduleStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]shared.ScheduleRecord
	repoErr infra.ErrorReporter
}

var _ shared.ScheduleStore = (*MemoryScheduleStore)(nil)

func NewMemoryScheduleStore(logger *slog.Logger) *MemoryScheduleStore {
	return &MemoryScheduleStore{
		records: make(map[uuid.UUID]shared.ScheduleRecord),
		repoErr: infra.NewErrorReporter("memory", logger),
	}
}

func (s *MemoryScheduleStore) Save(_ context.Context, rec shared.ScheduleRecord) error {
	s.mu.Lock()
	s.records[rec.ID] = cloneRecord(rec)
	s.mu.Unlock()
	return nil
}

func (s *MemoryScheduleStore) SaveRun(_ context.Context, id uuid.UUID, run schedule.Run, fireCount, failureCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return s.repoErr.Wrap(infra.KindNotFound, "schedule not found", nil)
	}
	r := run
	rec.LastRun = &r
	rec.FireCount = fireCount
	rec.FailureCount = failureCount
	s.records[id] = rec
	return nil
}

func (s *MemoryScheduleStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return s.repoErr.Wrap(infra.KindNotFound, "schedule not found", nil)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryScheduleStore) List(_ context.Context) ([]shared.ScheduleRecord, error) {
	s.mu.RLock()
	out := make([]shared.ScheduleRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(rec))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRecord(rec shared.ScheduleRecord) shared.ScheduleRecord {
	products := make([]shared.ProductRecord, len(rec.Products))
	copy(products, rec.Products)
	rec.Products = products
	if rec.LastRun != nil {
		r := *rec.LastRun
		rec.LastRun = &r
	}
	return rec
}
