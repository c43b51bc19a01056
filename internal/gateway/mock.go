package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Domenick1991/travelquote/internal/domain"
)

// 1x1 transparent PNG.
const placeholderPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

const maxMockTitleRunes = 60

// MockGateway is an offline stand-in for local runs; it never calls a model.
type MockGateway struct{}

var _ Gateway = MockGateway{}

func (MockGateway) CompleteText(_ context.Context, prompt Prompt, _ bool) (string, error) {
	body, err := json.Marshal(sampleQuotation(mockTitle(prompt.Text)))
	if err != nil {
		return "", err
	}
	return "```json\n" + string(body) + "\n```", nil
}

func (MockGateway) SynthesizeImage(_ context.Context, _ string) (string, error) {
	return placeholderPNG, nil
}

// mockTitle takes the first non-heading line of the prompt, cut on a rune
// boundary.
func mockTitle(text string) string {
	title := "Sample Getaway"
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasSuffix(line, ":") {
			title = line
			break
		}
	}
	if runes := []rune(title); len(runes) > maxMockTitleRunes {
		title = string(runes[:maxMockTitleRunes])
	}
	return title
}

func sampleQuotation(title string) domain.Quotation {
	return domain.Quotation{
		CustomerName: "Guest",
		TripTitle:    title,
		Destination:  "Lisbon, Portugal",
		StartDate:    "12 May 2025",
		EndDate:      "15 May 2025",
		TotalPrice:   "1,850",
		Currency:     "EUR",
		Summary:      "Three relaxed days between miradouros, tiled facades and pastel de nata.",
		Flights: []domain.Flight{{
			Airline:          "TAP Air Portugal",
			FlightNumber:     "TP 663",
			DepartureTime:    "09:40",
			DepartureAirport: "AMS",
			ArrivalTime:      "11:25",
			ArrivalAirport:   "LIS",
			Date:             "12 May 2025",
			Duration:         "2h 45m",
			Stops:            "Non-stop",
		}},
		Hotels: []domain.Hotel{{
			Name:          "Memmo Alfama",
			Location:      "Alfama, Lisbon",
			CheckIn:       "12 May 2025",
			CheckOut:      "15 May 2025",
			Amenities:     []string{"Rooftop pool", "Breakfast"},
			RoomType:      "Deluxe River View",
			Rating:        4.6,
			ReviewCount:   1840,
			ReviewSnippet: "Unbeatable terrace views.",
			Image:         "https://example.com/memmo",
		}},
		Itinerary: []domain.ItineraryDay{
			{Day: 1, Date: "12 May", Title: "Arrival and Alfama", Activities: []domain.Activity{
				{Time: "Afternoon", Description: "Walk the lanes of Alfama", Location: "Alfama"},
			}},
			{Day: 2, Date: "13 May", Title: "Belem", Activities: []domain.Activity{
				{Time: "10:00", Description: "Jeronimos Monastery", Location: "Belem"},
			}},
		},
		Restaurants: []domain.Restaurant{
			{Name: "Cervejaria Ramiro", Cuisine: "Seafood", Description: "Lisbon's classic for garlic prawns."},
		},
		Inclusions: []string{"Return flights", "3 nights with breakfast"},
		Exclusions: []string{"City tax"},
		TravelTips: []string{"Wear comfortable shoes"},
	}
}
