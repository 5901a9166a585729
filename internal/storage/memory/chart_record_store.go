package memory

import (
	"context"
	"sort"
	"sync"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

// ChartRecordStore is an in-memory implementation of storage.ChartRecordStore.
type ChartRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ChartRecord // keyed by chart_id
}

// NewChartRecordStore creates a new in-memory chart record store.
func NewChartRecordStore() *ChartRecordStore {
	return &ChartRecordStore{
		data: make(map[string]*domain.ChartRecord),
	}
}

// Compile-time interface check.
var _ storage.ChartRecordStore = (*ChartRecordStore)(nil)

// Insert adds a computed chart. Returns ErrDuplicateKey if chart_id exists.
func (s *ChartRecordStore) Insert(_ context.Context, r *domain.ChartRecord) error {
	if r == nil || r.ChartID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ChartID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := copyRecord(r)
	s.data[r.ChartID] = recordCopy
	return nil
}

// GetByID retrieves a chart by its ID. Returns ErrNotFound if not exists.
func (s *ChartRecordStore) GetByID(_ context.Context, chartID string) (*domain.ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[chartID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyRecord(r), nil
}

// GetByBirthDate retrieves all charts for a birth date, ordered by computed_at ASC.
func (s *ChartRecordStore) GetByBirthDate(_ context.Context, birthDate string) ([]*domain.ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ChartRecord
	for _, r := range s.data {
		if r.BirthDate == birthDate {
			result = append(result, copyRecord(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ComputedAt < result[j].ComputedAt
	})

	return result, nil
}

// GetByTimeRange retrieves charts computed within [start, end] (inclusive).
func (s *ChartRecordStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ChartRecord
	for _, r := range s.data {
		if r.ComputedAt >= start && r.ComputedAt <= end {
			result = append(result, copyRecord(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ComputedAt < result[j].ComputedAt
	})

	return result, nil
}

func copyRecord(r *domain.ChartRecord) *domain.ChartRecord {
	recordCopy := *r
	if r.Payload != nil {
		recordCopy.Payload = append([]byte(nil), r.Payload...)
	}
	return &recordCopy
}
