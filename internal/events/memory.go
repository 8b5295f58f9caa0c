package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is an outbox for tests and single-process development.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []*memoryEntry
}

type memoryEntry struct {
	OutboxEntry
	delivered   bool
	nextAttempt time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Insert(_ context.Context, eventType string, payload any) (uuid.UUID, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("events: marshal payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{
		OutboxEntry: OutboxEntry{
			ID:        uuid.New(),
			Type:      eventType,
			Payload:   data,
			CreatedAt: time.Now().UTC(),
		},
	}
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

func (s *InMemoryStore) FetchPending(_ context.Context, limit int32, maxAttempts int) ([]OutboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var out []OutboxEntry
	for _, e := range s.entries {
		if e.delivered || e.Attempts >= maxAttempts || e.nextAttempt.After(now) {
			continue
		}
		out = append(out, e.OutboxEntry)
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkDelivered(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id && !e.delivered {
			e.delivered = true
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) MarkFailed(_ context.Context, id uuid.UUID, retryAfter time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id && !e.delivered {
			e.Attempts++
			e.nextAttempt = time.Now().UTC().Add(retryAfter)
		}
	}
	return nil
}

// Pending returns how many entries still await delivery. Test helper.
func (s *InMemoryStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.entries {
		if !e.delivered {
			count++
		}
	}
	return count
}

// Ensure interface compliance
var _ Store = (*InMemoryStore)(nil)
