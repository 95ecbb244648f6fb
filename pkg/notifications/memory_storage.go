package notifications

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemoryStorage is an in-memory RecordStore.
// Suitable for development and testing.
type MemoryStorage struct {
	records map[string]*Record  // idempotency key -> record
	byUser  map[string][]string // userID -> keys in creation order
	now     func() time.Time
	mu      sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*Record),
		byUser:  make(map[string][]string),
		now:     time.Now,
	}
}

func (s *MemoryStorage) Create(_ context.Context, rec Record) error {
	if rec.IdempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidRequest)
	}
	if rec.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.IdempotencyKey]; exists {
		return ErrRecordExists
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	rec.Metadata = rec.Metadata.Clone()

	s.records[rec.IdempotencyKey] = &rec
	s.byUser[rec.UserID] = append(s.byUser[rec.UserID], rec.IdempotencyKey)
	return nil
}

func (s *MemoryStorage) UpdateStatus(_ context.Context, key string, status Status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return ErrRecordNotFound
	}
	if err := ValidateTransition(rec.Status, status); err != nil {
		return err
	}

	rec.Status = status
	rec.Reason = reason
	rec.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	out := *rec
	out.Metadata = rec.Metadata.Clone()
	return &out, nil
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Record
	for _, key := range s.byUser[userID] {
		rec := s.records[key]
		if !opts.Matches(*rec) {
			continue
		}
		out := *rec
		out.Metadata = rec.Metadata.Clone()
		filtered = append(filtered, out)
	}

	// Newest first; insertion order breaks ties.
	slices.SortStableFunc(filtered, func(a, b Record) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	start := min(max(opts.Offset, 0), len(filtered))
	end := len(filtered)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return filtered[start:end], nil
}

// Len returns the number of stored records.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
