// Package store defines the persistence collaborators of the harvester and
// API, with a MongoDB implementation and an in-memory one for tests and
// dry runs.
package store

import (
	"context"
	"errors"

	"sydevents/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("store: duplicate record")

// ListOptions narrows an event listing.
type ListOptions struct {
	// UpcomingOnly restricts to events dated in the future.
	UpcomingOnly bool
	// Limit caps the number of results; zero means the store default (50).
	Limit int64
}

// EventStore is the persistence collaborator of the upsert persister and
// the events API. Upserts are keyed on ExternalID and idempotent; the
// harvester tolerates read-then-write races between overlapping runs as
// last-writer-wins.
type EventStore interface {
	FindByExternalID(ctx context.Context, externalID string) (model.Event, error)
	FindByID(ctx context.Context, id string) (model.Event, error)
	Insert(ctx context.Context, ev model.Event) (model.Event, error)
	// UpdateByID overwrites all harvested fields on the record with the
	// given id. CreatedAt is preserved; UpdatedAt is bumped.
	UpdateByID(ctx context.Context, id string, ev model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
	// List returns active events sorted by date ascending.
	List(ctx context.Context, opts ListOptions) ([]model.Event, error)
	CountActive(ctx context.Context) (int64, error)
}

// EmailStore persists email-capture submissions.
type EmailStore interface {
	// InsertCapture stores a submission; a repeat of the same email for
	// the same event returns ErrDuplicate.
	InsertCapture(ctx context.Context, c model.EmailCapture) (model.EmailCapture, error)
}
