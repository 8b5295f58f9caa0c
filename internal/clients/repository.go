package clients

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for client storage.
type Repository interface {
	Create(ctx context.Context, c *Client) (*Client, error)
	Update(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByPhone(ctx context.Context, phone string) (*Client, error)
	SetStatus(ctx context.Context, id string, status Status) error
	// MarkEscalated records the escalation at most once per client and
	// reports whether this call was the one that recorded it.
	MarkEscalated(ctx context.Context, id string, reason string) (bool, error)
}

// InMemoryRepository backs tests and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{clients: make(map[string]*Client)}
}

func (r *InMemoryRepository) Create(_ context.Context, c *Client) (*Client, error) {
	if c.Phone == "" {
		return nil, ErrMissingPhone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *c
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = StatusNew
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.clients[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) Update(_ context.Context, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.clients[c.ID]
	if !ok {
		return ErrClientNotFound
	}
	stored := *c
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.clients[c.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	out := *c
	return &out, nil
}

func (r *InMemoryRepository) GetByPhone(_ context.Context, phone string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Phone == phone {
			out := *c
			return &out, nil
		}
	}
	return nil, ErrClientNotFound
}

func (r *InMemoryRepository) SetStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	if !ok {
		return ErrClientNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) MarkEscalated(_ context.Context, id string, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	if !ok {
		return false, ErrClientNotFound
	}
	if c.Escalated {
		return false, nil
	}
	c.Escalated = true
	c.EscalationReason = reason
	c.UpdatedAt = time.Now().UTC()
	return true, nil
}
