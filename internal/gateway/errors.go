package gateway

import "fmt"

// BackendError carries what the resilience layer needs to classify a failed
// call: the HTTP status code, the backend's status string and its message.
type BackendError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: status %d %s: %s", e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
