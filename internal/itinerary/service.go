package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// Generator produces a candidate itinerary for one job.
type Generator interface {
	Generate(ctx context.Context, destination string, durationDays int) ([]domain.DayPlan, error)
}

// Options configures the orchestration service.
type Options struct {
	Store     domain.JobStore
	Generator Generator
	Logger    *infra.Logger
	// Workers bounds concurrent background generations. Defaults to 4.
	Workers int
	// QueueSize buffers accepted jobs awaiting a worker. Defaults to 64.
	QueueSize int
	// Now and NewID exist for tests; production uses time.Now and uuid.
	Now   func() time.Time
	NewID func() string
}

type task struct {
	jobID        string
	destination  string
	durationDays int
}

// Service orchestrates itinerary jobs: it persists the initial record,
// hands the job to a background worker, and writes exactly one terminal
// transition per job. Once accepted a job always runs to a terminal
// state; there is no cancellation.
type Service struct {
	store  domain.JobStore
	gen    Generator
	logger infra.Logger
	now    func() time.Time
	newID  func() string

	tasks chan task
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewService constructs the service and starts its worker pool.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("generator is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Service{
		store:  opts.Store,
		gen:    opts.Generator,
		logger: logger,
		now:    now,
		newID:  newID,
		tasks:  make(chan task, queueSize),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s, nil
}

// Create validates the request, persists the initial Processing record,
// and schedules background generation. The returned job id signals
// acceptance, not completion.
func (s *Service) Create(ctx context.Context, destination string, durationDays int) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", fmt.Errorf("%w: destination is required", domain.ErrInvalidRequest)
	}
	if durationDays < domain.MinDurationDays || durationDays > domain.MaxDurationDays {
		return "", fmt.Errorf("%w: durationDays must be between %d and %d, got %d",
			domain.ErrInvalidRequest, domain.MinDurationDays, domain.MaxDurationDays, durationDays)
	}

	job := &domain.Job{
		ID:           s.newID(),
		Status:       domain.JobStatusProcessing,
		Destination:  destination,
		DurationDays: durationDays,
		CreatedAt:    s.now().UTC(),
		Itinerary:    []domain.DayPlan{},
	}
	if err := s.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("persist job: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errors.New("service is shutting down")
	}
	s.tasks <- task{jobID: job.ID, destination: destination, durationDays: durationDays}

	s.logger.Info().Str("job_id", job.ID).Str("destination", destination).Int("duration_days", durationDays).Msg("itinerary: job accepted")
	return job.ID, nil
}

// Status returns a read-only snapshot of the job record.
func (s *Service) Status(ctx context.Context, id string) (*domain.Job, error) {
	return s.store.Get(ctx, id)
}

// ListRecent returns up to limit jobs, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.Job, error) {
	return s.store.ListRecent(ctx, limit)
}

// Close stops accepting jobs and waits for in-flight generations to
// reach their terminal state.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.tasks)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for t := range s.tasks {
		s.run(t)
	}
}

// run drives one job to its terminal state. Failures are converted into
// a failed record; they never propagate. The background context is
// deliberate: the job must outlive the request that created it.
func (s *Service) run(t task) {
	ctx := context.Background()
	logger := s.logger.With().Str("job_id", t.jobID).Logger()
	logger.Info().Msg("itinerary: generation started")

	candidate, err := s.gen.Generate(ctx, t.destination, t.durationDays)
	if err == nil {
		err = Validate(candidate, t.durationDays)
	}

	update := domain.TerminalUpdate{CompletedAt: s.now().UTC()}
	if err != nil {
		update.Status = domain.JobStatusFailed
		update.Error = "Failed to generate itinerary: " + err.Error()
		logger.Error().Err(err).Msg("itinerary: generation failed")
	} else {
		update.Status = domain.JobStatusCompleted
		update.Itinerary = candidate
		logger.Info().Int("days", len(candidate)).Msg("itinerary: generation completed")
	}

	// The terminal write is fire-and-forget: if the store is unreachable
	// the job stays observably in processing. Logged, not retried.
	if uerr := s.store.UpdateTerminal(ctx, t.jobID, update); uerr != nil {
		logger.Error().Err(uerr).Msg("itinerary: terminal write failed; job remains in processing")
	}
}
