package domain

import (
	"context"
	"time"
)

// TerminalUpdate carries the single status transition written for a job.
// Itinerary is set for completed jobs, Error for failed ones.
type TerminalUpdate struct {
	Status      JobStatus
	CompletedAt time.Time
	Itinerary   []DayPlan
	Error       string
}

// JobStore defines persistence for itinerary jobs. Implementations must
// be safe for concurrent use; each job only ever touches its own record.
type JobStore interface {
	// Create inserts a new record. An existing id yields ErrDuplicateJob.
	Create(ctx context.Context, job *Job) error
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)
	// UpdateTerminal applies the one terminal transition for id.
	// An absent id yields ErrNotFound; callers decide whether that is fatal.
	UpdateTerminal(ctx context.Context, id string, update TerminalUpdate) error
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Job, error)
	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}
