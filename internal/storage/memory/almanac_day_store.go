package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/storage"
)

// AlmanacDayStore is an in-memory implementation of storage.AlmanacDayStore.
type AlmanacDayStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AlmanacDay // keyed by date
}

// NewAlmanacDayStore creates a new in-memory almanac day store.
func NewAlmanacDayStore() *AlmanacDayStore {
	return &AlmanacDayStore{
		data: make(map[string]*domain.AlmanacDay),
	}
}

// Compile-time interface check.
var _ storage.AlmanacDayStore = (*AlmanacDayStore)(nil)

// Insert adds one almanac day. Returns ErrDuplicateKey if the date exists.
func (s *AlmanacDayStore) Insert(_ context.Context, d *domain.AlmanacDay) error {
	if d == nil || d.Date == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[d.Date]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[d.Date] = copyDay(d)
	return nil
}

// InsertBulk adds multiple days atomically. Fails entire batch on any duplicate.
func (s *AlmanacDayStore) InsertBulk(_ context.Context, days []*domain.AlmanacDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if d == nil || d.Date == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[d.Date]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[d.Date]; exists {
			return storage.ErrDuplicateKey
		}
		seen[d.Date] = struct{}{}
	}

	for _, d := range days {
		s.data[d.Date] = copyDay(d)
	}
	return nil
}

// GetByDate retrieves one day. Returns ErrNotFound if not exists.
func (s *AlmanacDayStore) GetByDate(_ context.Context, date string) (*domain.AlmanacDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.data[date]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyDay(d), nil
}

// GetByDateRange retrieves days within [from, to] (inclusive), ordered by date ASC.
func (s *AlmanacDayStore) GetByDateRange(_ context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AlmanacDay
	for _, d := range s.data {
		if d.Date >= from && d.Date <= to {
			result = append(result, copyDay(d))
		}
	}
	sortByDate(result)
	return result, nil
}

// GetLucky retrieves the lucky days within [from, to], ordered by date ASC.
func (s *AlmanacDayStore) GetLucky(_ context.Context, from, to string) ([]*domain.AlmanacDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AlmanacDay
	for _, d := range s.data {
		if d.Lucky && d.Date >= from && d.Date <= to {
			result = append(result, copyDay(d))
		}
	}
	sortByDate(result)
	return result, nil
}

// GetBySolarTerm retrieves the days of a year carrying a solar term,
// ordered by date ASC.
func (s *AlmanacDayStore) GetBySolarTerm(_ context.Context, year int) ([]*domain.AlmanacDay, error) {
	prefix := strconv.Itoa(year) + "-"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AlmanacDay
	for _, d := range s.data {
		if d.SolarTerm != nil && strings.HasPrefix(d.Date, prefix) {
			result = append(result, copyDay(d))
		}
	}
	sortByDate(result)
	return result, nil
}

func sortByDate(days []*domain.AlmanacDay) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
}

func copyDay(d *domain.AlmanacDay) *domain.AlmanacDay {
	dayCopy := *d
	if d.SolarTerm != nil {
		term := *d.SolarTerm
		dayCopy.SolarTerm = &term
	}
	dayCopy.Suitable = append([]string(nil), d.Suitable...)
	dayCopy.Avoid = append([]string(nil), d.Avoid...)
	return &dayCopy
}
