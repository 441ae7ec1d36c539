package domain

import "time"

// JobStatus enumerates the itinerary job lifecycle states. A job starts
// in JobStatusProcessing and transitions exactly once to a terminal state.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Canonical time-of-day slots. Every generated day must cover all three;
// extra slots are permitted.
const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
)

// CanonicalSlots returns the required slots in display order.
func CanonicalSlots() []string {
	return []string{SlotMorning, SlotAfternoon, SlotEvening}
}

// Trip duration bounds accepted at job creation.
const (
	MinDurationDays = 1
	MaxDurationDays = 30
)

// Activity is a single entry within a day plan.
type Activity struct {
	Time        string `json:"time" bson:"time"`
	Description string `json:"description" bson:"description"`
	Location    string `json:"location" bson:"location"`
}

// DayPlan covers one trip day. Day is 1-based and matches the plan's
// position in the itinerary.
type DayPlan struct {
	Day        int        `json:"day" bson:"day"`
	Theme      string     `json:"theme" bson:"theme"`
	Activities []Activity `json:"activities" bson:"activities"`
}

// Job is the persisted record of one itinerary generation request.
// Itinerary is empty until the job completes; Error is set only on failure.
type Job struct {
	ID           string     `json:"jobId"`
	Status       JobStatus  `json:"status"`
	Destination  string     `json:"destination"`
	DurationDays int        `json:"durationDays"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Itinerary    []DayPlan  `json:"itinerary"`
	Error        string     `json:"error,omitempty"`
}
