package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sydevents/internal/model"
)

// MemoryStore is a map-backed EventStore/EmailStore with the same upsert
// semantics as the Mongo implementation. Used by tests and -dry-run.
type MemoryStore struct {
	mu       sync.RWMutex
	events   map[string]model.Event        // keyed by ID
	captures map[string]model.EmailCapture // keyed by email+eventID
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string]model.Event),
		captures: make(map[string]model.EmailCapture),
		now:      time.Now,
	}
}

func (m *MemoryStore) FindByExternalID(_ context.Context, externalID string) (model.Event, error) {
	if externalID == "" {
		return model.Event{}, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ev := range m.events {
		if ev.ExternalID == externalID {
			return ev, nil
		}
	}
	return model.Event{}, ErrNotFound
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[id]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	return ev, nil
}

func (m *MemoryStore) Insert(_ context.Context, ev model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ExternalID != "" {
		for _, existing := range m.events {
			if existing.ExternalID == ev.ExternalID {
				return model.Event{}, ErrDuplicate
			}
		}
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	now := m.now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *MemoryStore) UpdateByID(_ context.Context, id string, ev model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.events[id]
	if !ok {
		return model.Event{}, ErrNotFound
	}

	ev.ID = id
	ev.CreatedAt = existing.CreatedAt
	ev.UpdatedAt = m.now().UTC()
	m.events[id] = ev
	return ev, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *MemoryStore) List(_ context.Context, opts ListOptions) ([]model.Event, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	m.mu.RLock()
	now := m.now()
	out := make([]model.Event, 0, len(m.events))
	for _, ev := range m.events {
		if !ev.IsActive {
			continue
		}
		if opts.UpcomingOnly && !ev.IsUpcoming(now) {
			continue
		}
		out = append(out, ev)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CountActive(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, ev := range m.events {
		if ev.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) InsertCapture(_ context.Context, c model.EmailCapture) (model.EmailCapture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(c.Email)) + "|" + c.EventID
	if _, ok := m.captures[key]; ok {
		return model.EmailCapture{}, ErrDuplicate
	}

	c.ID = uuid.NewString()
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.CreatedAt = m.now().UTC()
	m.captures[key] = c
	return c, nil
}
