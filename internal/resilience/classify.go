package resilience

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/travelquote/internal/gateway"
)

// Class is the retry category of a failed completion call.
type Class int

const (
	// ClassOther is terminal: bad request, auth and anything unrecognised.
	ClassOther Class = iota
	// ClassQuota is terminal and surfaced as domain.ErrQuotaExceeded.
	ClassQuota
	// ClassTransient is retried while attempts remain.
	ClassTransient
)

func (c Class) String() string {
	switch c {
	case ClassQuota:
		return "quota"
	case ClassTransient:
		return "transient"
	default:
		return "other"
	}
}

// Classify inspects a gateway error. Structured status codes win; bare status
// numbers in the message are only trusted when the provider gave no code.
func Classify(err error) Class {
	if err == nil {
		return ClassOther
	}

	var be *gateway.BackendError
	structured := errors.As(err, &be) && be.StatusCode != 0
	if structured {
		switch be.StatusCode {
		case http.StatusTooManyRequests:
			return ClassQuota
		case http.StatusInternalServerError, http.StatusServiceUnavailable:
			return ClassTransient
		}
	}

	// A per-call timeout counts as the backend being unavailable.
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	msg := err.Error()
	upper := strings.ToUpper(msg)
	switch {
	case strings.Contains(upper, "RESOURCE_EXHAUSTED"), strings.Contains(upper, "QUOTA"):
		return ClassQuota
	case strings.Contains(upper, "INTERNAL"), strings.Contains(upper, "UNAVAILABLE"):
		return ClassTransient
	}
	if !structured {
		switch {
		case strings.Contains(msg, "429"):
			return ClassQuota
		case strings.Contains(msg, "500"), strings.Contains(msg, "503"):
			return ClassTransient
		}
	}
	return ClassOther
}
