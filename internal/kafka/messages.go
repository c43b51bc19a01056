package kafka

import (
	"time"

	"github.com/Domenick1991/travelquote/internal/domain"
)

const (
	EventQuotationGenerated = "quotation_generated"
	EventQuotationFailed    = "quotation_failed"
)

// GenerationRequest is published to the requests topic for every async job.
// Attachments travel inline; Data is base64 in the JSON payload.
type GenerationRequest struct {
	JobID       string              `json:"job_id"`
	Notes       string              `json:"notes"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
	NotifyEmail string              `json:"notify_email,omitempty"`
	RequestedAt time.Time           `json:"requested_at"`
}

// QuotationEvent reports the outcome of a job on the events topic.
type QuotationEvent struct {
	Type        string    `json:"type"`
	JobID       string    `json:"job_id"`
	QuotationID string    `json:"quotation_id,omitempty"`
	TripTitle   string    `json:"trip_title,omitempty"`
	Error       string    `json:"error,omitempty"`
	NotifyEmail string    `json:"notify_email,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
