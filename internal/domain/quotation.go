package domain

import "time"

// Quotation is the root of one generated travel plan. Dates and prices are
// display strings exactly as the model produced them.
type Quotation struct {
	CustomerName string         `json:"customerName"`
	TripTitle    string         `json:"tripTitle" validate:"required"`
	Destination  string         `json:"destination"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
	TotalPrice   string         `json:"totalPrice"`
	Currency     string         `json:"currency"`
	Summary      string         `json:"summary"`
	HeroImage    string         `json:"heroImage,omitempty"`
	Flights      []Flight       `json:"flights" validate:"dive"`
	Hotels       []Hotel        `json:"hotels" validate:"dive"`
	Itinerary    []ItineraryDay `json:"itinerary" validate:"dive"`
	Restaurants  []Restaurant   `json:"restaurants" validate:"dive"`
	Inclusions   []string       `json:"inclusions"`
	Exclusions   []string       `json:"exclusions"`
	TravelTips   []string       `json:"travelTips"`
}

type Flight struct {
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flightNumber"`
	DepartureTime    string `json:"departureTime"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalTime      string `json:"arrivalTime"`
	ArrivalAirport   string `json:"arrivalAirport"`
	Date             string `json:"date"`
	Duration         string `json:"duration,omitempty"`
	Stops            string `json:"stops,omitempty"`
}

type Hotel struct {
	Name          string   `json:"name" validate:"required"`
	Location      string   `json:"location"`
	CheckIn       string   `json:"checkIn"`
	CheckOut      string   `json:"checkOut"`
	Amenities     []string `json:"amenities"`
	RoomType      string   `json:"roomType"`
	Rating        float64  `json:"rating,omitempty" validate:"gte=0"`
	ReviewCount   int      `json:"reviewCount,omitempty" validate:"gte=0"`
	ReviewSnippet string   `json:"reviewSnippet,omitempty"`
	Image         string   `json:"image,omitempty"`
}

type Restaurant struct {
	Name        string `json:"name" validate:"required"`
	Cuisine     string `json:"cuisine"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

type ItineraryDay struct {
	Day        int        `json:"day" validate:"gte=1"`
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities" validate:"dive"`
	Image      string     `json:"image,omitempty"`
}

// Activity time is a free label such as "Morning" or "14:30".
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location,omitempty"`
}

// Kind selects the presentation template. It is derived from list emptiness
// only and is never stored.
type Kind string

const (
	KindFlightOnly Kind = "FLIGHT_ONLY"
	KindHotelOnly  Kind = "HOTEL_ONLY"
	KindPackage    Kind = "PACKAGE"
)

func (q *Quotation) Kind() Kind {
	hasFlights := len(q.Flights) > 0
	hasHotels := len(q.Hotels) > 0
	hasItinerary := len(q.Itinerary) > 0

	switch {
	case hasFlights && !hasHotels && !hasItinerary:
		return KindFlightOnly
	case hasHotels && !hasFlights && !hasItinerary:
		return KindHotelOnly
	default:
		return KindPackage
	}
}

// StoredQuotation is an archived generation result.
type StoredQuotation struct {
	ID        string     `json:"id"`
	Quotation *Quotation `json:"quotation"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuotationSummary is the listing view of an archived quotation.
type QuotationSummary struct {
	ID          string    `json:"id"`
	TripTitle   string    `json:"tripTitle"`
	Destination string    `json:"destination"`
	Kind        Kind      `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
}
