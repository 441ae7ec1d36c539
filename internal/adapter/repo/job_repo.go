package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"server/internal/domain"
)

const jobCollection = "itineraries"

// MongoStore implements domain.JobStore on a MongoDB collection. One
// document per job, keyed by the job id.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a job store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(jobCollection)}
}

// jobDocument is the store-facing shape of a job. Timestamps cross the
// boundary as RFC 3339 strings so the wire format stays readable and
// independent of BSON date quirks.
type jobDocument struct {
	ID           string           `bson:"_id"`
	JobID        string           `bson:"jobId"`
	Status       string           `bson:"status"`
	Destination  string           `bson:"destination"`
	DurationDays int              `bson:"durationDays"`
	CreatedAt    string           `bson:"createdAt"`
	CompletedAt  *string          `bson:"completedAt"`
	Itinerary    []domain.DayPlan `bson:"itinerary"`
	Error        *string          `bson:"error"`
}

func encodeJob(job *domain.Job) jobDocument {
	doc := jobDocument{
		ID:           job.ID,
		JobID:        job.ID,
		Status:       string(job.Status),
		Destination:  job.Destination,
		DurationDays: job.DurationDays,
		CreatedAt:    encodeTime(job.CreatedAt),
		Itinerary:    job.Itinerary,
	}
	if doc.Itinerary == nil {
		doc.Itinerary = []domain.DayPlan{}
	}
	if job.CompletedAt != nil {
		s := encodeTime(*job.CompletedAt)
		doc.CompletedAt = &s
	}
	if job.Error != "" {
		e := job.Error
		doc.Error = &e
	}
	return doc
}

func decodeJob(doc jobDocument) (*domain.Job, error) {
	createdAt, err := decodeTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode createdAt for job %s: %w", doc.ID, err)
	}
	job := &domain.Job{
		ID:           doc.ID,
		Status:       domain.JobStatus(doc.Status),
		Destination:  doc.Destination,
		DurationDays: doc.DurationDays,
		CreatedAt:    createdAt,
		Itinerary:    doc.Itinerary,
	}
	if job.Itinerary == nil {
		job.Itinerary = []domain.DayPlan{}
	}
	if doc.CompletedAt != nil {
		completedAt, err := decodeTime(*doc.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("decode completedAt for job %s: %w", doc.ID, err)
		}
		job.CompletedAt = &completedAt
	}
	if doc.Error != nil {
		job.Error = *doc.Error
	}
	return job, nil
}

// timeLayout is RFC 3339 with fixed-width microseconds. ListRecent sorts
// on the encoded string, so the width must not vary with the value:
// RFC3339Nano trims trailing zeros and breaks lexicographic ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Create inserts the initial record for a job.
func (s *MongoStore) Create(ctx context.Context, job *domain.Job) error {
	if _, err := s.coll.InsertOne(ctx, encodeJob(job)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateJob, job.ID)
		}
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return nil
}

// Get returns the record for id, or domain.ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	var doc jobDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find job %s: %w", id, err)
	}
	return decodeJob(doc)
}

// UpdateTerminal writes the one terminal transition for a job.
func (s *MongoStore) UpdateTerminal(ctx context.Context, id string, update domain.TerminalUpdate) error {
	fields := bson.M{
		"status":      string(update.Status),
		"completedAt": encodeTime(update.CompletedAt),
	}
	if update.Status == domain.JobStatusCompleted {
		itinerary := update.Itinerary
		if itinerary == nil {
			itinerary = []domain.DayPlan{}
		}
		fields["itinerary"] = itinerary
		fields["error"] = nil
	} else {
		fields["error"] = update.Error
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

// ListRecent returns up to limit jobs, newest first.
func (s *MongoStore) ListRecent(ctx context.Context, limit int) ([]domain.Job, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var jobs []domain.Job
	for cursor.Next(ctx) {
		var doc jobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		job, err := decodeJob(doc)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Ping reports whether the store is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

var _ domain.JobStore = (*MongoStore)(nil)
