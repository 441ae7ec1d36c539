package openai

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

const systemMessage = "You are a professional travel planner. Generate detailed, practical travel itineraries in the exact JSON format requested."

// BuildPrompt renders the user instruction for one itinerary request. The
// model is told to answer with the fixed JSON schema and nothing else.
func BuildPrompt(destination string, durationDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed travel itinerary for a %d-day trip to %s.\n\n", durationDays, destination)
	b.WriteString("Return the response as a valid JSON object with the following structure:\n")
	b.WriteString(`{
  "itinerary": [
    {
      "day": 1,
      "theme": "Theme of the day",
      "activities": [
        {"time": "Morning", "description": "Detailed activity description with practical tips", "location": "Specific location name"},
        {"time": "Afternoon", "description": "Detailed activity description with practical tips", "location": "Specific location name"},
        {"time": "Evening", "description": "Detailed activity description with practical tips", "location": "Specific location name"}
      ]
    }
  ]
}`)
	b.WriteString("\n\nGuidelines:\n")
	b.WriteString("- Each day should have a clear theme (e.g., \"Historical Sites\", \"Cultural Immersion\", \"Nature & Adventure\")\n")
	fmt.Fprintf(&b, "- Include 3 activities per day: %s\n", strings.Join(domain.CanonicalSlots(), ", "))
	b.WriteString("- Provide specific location names, not just general areas\n")
	b.WriteString("- Include practical tips in descriptions (e.g., \"Pre-book tickets\", \"Best visited early morning\")\n")
	b.WriteString("- Make activities realistic and achievable within the time slots\n")
	b.WriteString("- Consider travel time between locations\n")
	b.WriteString("- Include a mix of must-see attractions, cultural experiences, and local cuisine\n")
	b.WriteString("- Ensure the itinerary flows logically from day to day\n")
	b.WriteString("\nIMPORTANT: Return ONLY the JSON object, no additional text or formatting.")
	return b.String()
}
