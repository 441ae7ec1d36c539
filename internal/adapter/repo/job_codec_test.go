package repo

import (
	"testing"
	"time"

	"server/internal/domain"
)

func TestJobCodecRoundTripProcessing(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	job := &domain.Job{
		ID:           "job-1",
		Status:       domain.JobStatusProcessing,
		Destination:  "Tokyo, Japan",
		DurationDays: 5,
		CreatedAt:    created,
		Itinerary:    []domain.DayPlan{},
	}

	doc := encodeJob(job)
	if doc.ID != "job-1" || doc.JobID != "job-1" {
		t.Fatalf("ids = %q/%q, want job-1", doc.ID, doc.JobID)
	}
	if doc.CreatedAt != "2024-05-01T10:30:00.000000Z" {
		t.Fatalf("CreatedAt = %q, want fixed-width RFC 3339 string", doc.CreatedAt)
	}
	if doc.CompletedAt != nil {
		t.Fatalf("CompletedAt = %v, want nil while processing", *doc.CompletedAt)
	}
	if doc.Error != nil {
		t.Fatalf("Error = %v, want nil", *doc.Error)
	}

	back, err := decodeJob(doc)
	if err != nil {
		t.Fatalf("decodeJob returned error: %v", err)
	}
	if !back.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want %v", back.CreatedAt, created)
	}
	if back.CompletedAt != nil || back.Error != "" {
		t.Fatal("terminal fields populated on processing job")
	}
	if back.Itinerary == nil || len(back.Itinerary) != 0 {
		t.Fatalf("Itinerary = %v, want empty slice", back.Itinerary)
	}
}

func TestJobCodecRoundTripCompleted(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	completed := created.Add(45 * time.Second)
	job := &domain.Job{
		ID:           "job-2",
		Status:       domain.JobStatusCompleted,
		Destination:  "Paris, France",
		DurationDays: 1,
		CreatedAt:    created,
		CompletedAt:  &completed,
		Itinerary: []domain.DayPlan{
			{
				Day:   1,
				Theme: "Historic Paris",
				Activities: []domain.Activity{
					{Time: domain.SlotMorning, Description: "Visit the Louvre", Location: "Louvre Museum"},
					{Time: domain.SlotAfternoon, Description: "Walk the Seine", Location: "Quai de la Tournelle"},
					{Time: domain.SlotEvening, Description: "Dinner in the Marais", Location: "Le Marais"},
				},
			},
		},
	}

	back, err := decodeJob(encodeJob(job))
	if err != nil {
		t.Fatalf("decodeJob returned error: %v", err)
	}
	if back.Status != domain.JobStatusCompleted {
		t.Fatalf("Status = %q, want completed", back.Status)
	}
	if back.CompletedAt == nil || !back.CompletedAt.Equal(completed) {
		t.Fatalf("CompletedAt = %v, want %v", back.CompletedAt, completed)
	}
	if len(back.Itinerary) != 1 || len(back.Itinerary[0].Activities) != 3 {
		t.Fatalf("itinerary shape lost in round trip: %+v", back.Itinerary)
	}
}

func TestEncodedTimestampsSortChronologically(t *testing.T) {
	// ListRecent sorts on the encoded createdAt string, so string order
	// must agree with time order even across sub-second boundaries.
	base := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + 123456*time.Microsecond),
		base.Add(2 * time.Second),
	}

	prev := encodeTime(times[0])
	for _, ts := range times[1:] {
		cur := encodeTime(ts)
		if !(prev < cur) {
			t.Fatalf("encoded order broken: %q !< %q", prev, cur)
		}
		prev = cur
	}
}

func TestJobCodecRejectsBadTimestamp(t *testing.T) {
	doc := jobDocument{ID: "job-3", Status: "processing", CreatedAt: "yesterday"}
	if _, err := decodeJob(doc); err == nil {
		t.Fatal("expected error for malformed createdAt")
	}
}

func TestJobCodecFailedJobKeepsError(t *testing.T) {
	completed := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	job := &domain.Job{
		ID:           "job-4",
		Status:       domain.JobStatusFailed,
		Destination:  "Oslo, Norway",
		DurationDays: 3,
		CreatedAt:    completed.Add(-time.Minute),
		CompletedAt:  &completed,
		Error:        "rate limit exceeded after 3 attempts",
	}

	back, err := decodeJob(encodeJob(job))
	if err != nil {
		t.Fatalf("decodeJob returned error: %v", err)
	}
	if back.Error != job.Error {
		t.Fatalf("Error = %q, want %q", back.Error, job.Error)
	}
	if len(back.Itinerary) != 0 {
		t.Fatalf("Itinerary = %v, want empty on failure", back.Itinerary)
	}
}
