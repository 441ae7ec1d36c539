// Command jobstatus fetches one itinerary job over the HTTP API and
// prints a human-readable summary.
//
//	jobstatus [-base http://localhost:8080] <job-id>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"server/internal/domain"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "API base URL")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jobstatus [-base URL] <job-id>")
		os.Exit(2)
	}
	jobID := flag.Arg(0)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(strings.TrimRight(*base, "/") + "/job-status/" + jobID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		fmt.Printf("Job ID %q not found.\n", jobID)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "API error: status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	var job domain.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		fmt.Fprintf(os.Stderr, "decode response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status: %s\n", strings.ToUpper(string(job.Status)))
	fmt.Printf("Destination: %s\n", job.Destination)
	fmt.Printf("Duration: %d days\n", job.DurationDays)
	fmt.Printf("Created: %s\n", job.CreatedAt.Format(time.RFC3339))

	switch job.Status {
	case domain.JobStatusProcessing:
		fmt.Println("\nYour itinerary is still being generated. Please check back later.")
	case domain.JobStatusCompleted:
		fmt.Printf("Completed: %s\n", formatCompleted(job.CompletedAt))
		fmt.Printf("\nItinerary generated successfully with %d days!\n", len(job.Itinerary))
		fmt.Println("\nItinerary Summary:")
		for _, day := range job.Itinerary {
			fmt.Printf("  Day %d: %s (%d activities)\n", day.Day, day.Theme, len(day.Activities))
		}
	case domain.JobStatusFailed:
		fmt.Printf("Completed: %s\n", formatCompleted(job.CompletedAt))
		fmt.Printf("\nGeneration failed: %s\n", job.Error)
	}
}

// formatCompleted tolerates terminal records served without a
// completedAt field rather than panicking on a nil pointer.
func formatCompleted(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Format(time.RFC3339)
}
