package entitlement

import (
	"context"
	"sync"
)

// MemoryOnceStore is an in-memory OnceStore.
type MemoryOnceStore struct {
	mu   sync.Mutex
	used map[int64]bool
}

func NewMemoryOnceStore() *MemoryOnceStore {
	return &MemoryOnceStore{used: make(map[int64]bool)}
}

func (s *MemoryOnceStore) Used(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used[userID], nil
}

func (s *MemoryOnceStore) MarkUsed(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[userID] = true
	return nil
}

type quotaRow struct {
	used int
	day  string
}

// MemoryQuotaStore is an in-memory QuotaStore.
type MemoryQuotaStore struct {
	mu   sync.Mutex
	rows map[int64]quotaRow
}

func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{rows: make(map[int64]quotaRow)}
}

func (s *MemoryQuotaStore) UsedOn(ctx context.Context, userID int64, day string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[userID]
	if !ok || row.day != day {
		return 0, nil
	}
	return row.used, nil
}

func (s *MemoryQuotaStore) IncrementOn(ctx context.Context, userID int64, day string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[userID]
	if !ok || row.day != day {
		row = quotaRow{day: day}
	}
	row.used++
	s.rows[userID] = row
	return nil
}
