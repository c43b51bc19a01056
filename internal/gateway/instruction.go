package gateway

import (
	"fmt"
	"strings"
)

// QuotationInstruction fixes the JSON contract of the text completion.
//
// The response normalizer's truncation repair relies on the object ending with
// the inclusions, exclusions and travelTips arrays, in that order. Adding a
// scalar field after travelTips breaks that assumption.
const QuotationInstruction = `You are a senior travel consultant. Turn the user's notes and attached documents
(tickets, vouchers, screenshots, PDFs) into one travel quotation.

Respond with a single JSON object and nothing else. No prose, no markdown.
Use exactly these keys, in this order:
{
  "customerName": string,
  "tripTitle": string,
  "destination": string,
  "startDate": string,
  "endDate": string,
  "totalPrice": string,
  "currency": string (ISO 4217 code),
  "summary": string (2-4 inviting sentences),
  "heroImage": "",
  "flights": [{"airline", "flightNumber", "departureTime", "departureAirport", "arrivalTime", "arrivalAirport", "date", "duration", "stops"}],
  "hotels": [{"name", "location", "checkIn", "checkOut", "amenities": [string], "roomType", "rating": number, "reviewCount": number, "reviewSnippet", "image"}],
  "itinerary": [{"day": number starting at 1, "date", "title", "activities": [{"time", "description", "location"}], "image": ""}],
  "restaurants": [{"name", "cuisine", "description", "image"}],
  "inclusions": [string],
  "exclusions": [string],
  "travelTips": [string]
}

Rules:
- Keep dates, times and prices as display strings exactly as the customer should read them.
- If the notes only describe flights, leave hotels and itinerary empty. If they only describe
  hotels, leave flights and itinerary empty.
- Itinerary days are numbered 1, 2, 3 ... without gaps.
- When you can look up a hotel or restaurant, fill rating, reviewCount and a short reviewSnippet
  from real reviews, and set "image" only to a direct image file URL (.jpg, .jpeg, .png, .gif,
  .webp). Never use a web page URL as an image. Leave "image" empty if unsure.
- Always close every array and the object. travelTips must be the last key.`

// BuildQuotationPrompt assembles the user part of the request.
func BuildQuotationPrompt(notes string, attachments []string) string {
	var sb strings.Builder
	notes = strings.TrimSpace(notes)
	if notes != "" {
		sb.WriteString("Trip notes:\n")
		sb.WriteString(notes)
		sb.WriteString("\n\n")
	}
	if len(attachments) > 0 {
		sb.WriteString("Attached documents:\n")
		for i, name := range attachments {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Produce the quotation JSON now.")
	return sb.String()
}
