package enrichment

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/travelquote/internal/domain"
)

const (
	heroStyle       = "Breathtaking high-resolution travel photograph, cinematic lighting, vibrant colors, no text or watermarks."
	hotelStyle      = "Professional architectural photography, golden hour, wide angle, photorealistic, no text."
	restaurantStyle = "Professional food photography, appetizing plating, shallow depth of field, natural light, no text."
	dayStyle        = "Scenic travel photography, vivid natural colors, photorealistic, no text."
)

func heroPrompt(q *domain.Quotation) string {
	subject := joinNonEmpty(", ", q.Destination, q.TripTitle)
	if subject == "" {
		subject = "a dream holiday destination"
	}
	return fmt.Sprintf("%s. %s", subject, heroStyle)
}

func hotelPrompt(h domain.Hotel) string {
	subject := "Exterior of the " + h.Name + " hotel"
	if h.Location != "" {
		subject += " in " + h.Location
	}
	return fmt.Sprintf("%s. %s", subject, hotelStyle)
}

func restaurantPrompt(r domain.Restaurant) string {
	dish := "signature dish"
	if r.Cuisine != "" {
		dish = "signature " + r.Cuisine + " dish"
	}
	return fmt.Sprintf("A %s served at %s. %s", dish, r.Name, restaurantStyle)
}

func dayPrompt(d domain.ItineraryDay, destination string) string {
	subject := joinNonEmpty(" in ", d.Title, destination)
	if subject == "" {
		subject = fmt.Sprintf("Day %d of a holiday", d.Day)
	}
	return fmt.Sprintf("%s. %s", subject, dayStyle)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
