package domain

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// GenerationJob tracks one asynchronous quotation request.
type GenerationJob struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	QuotationID string    `json:"quotationId,omitempty"`
	Error       string    `json:"error,omitempty"`
	NotifyEmail string    `json:"notifyEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (j *GenerationJob) Finished() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}
