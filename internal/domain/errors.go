package domain

import "errors"

// Messages are shown to the end user verbatim.
var (
	// ErrEmptyInput is returned when neither notes nor attachments are supplied.
	ErrEmptyInput = errors.New("please provide trip notes or at least one attachment")
	// ErrInvalidAttachment indicates an attachment that cannot be forwarded to the model.
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrQuotaExceeded means the backend reported rate limiting or quota exhaustion.
	ErrQuotaExceeded = errors.New("AI quota exceeded, please try again later")
	// ErrBackendUnavailable marks internal/unavailable backend failures.
	ErrBackendUnavailable = errors.New("AI service is temporarily unavailable")
	// ErrInvalidOutput means the model response could not be turned into a quotation.
	ErrInvalidOutput = errors.New("AI generated an invalid format, please try again")
	// ErrGenerationFailed wraps the last cause once every attempt is spent.
	ErrGenerationFailed = errors.New("failed to generate quotation after multiple attempts")

	ErrQuotationNotFound = errors.New("quotation not found")
	ErrJobNotFound       = errors.New("generation job not found")
)

// ErrAsyncUnavailable is returned when job submission is requested but no
// job store or broker is configured.
var ErrAsyncUnavailable = errors.New("asynchronous generation is not configured")

// ErrInvalidRequest covers malformed request bodies.
var ErrInvalidRequest = errors.New("invalid request")

var userFacing = []error{
	ErrEmptyInput,
	ErrInvalidRequest,
	ErrInvalidAttachment,
	ErrQuotaExceeded,
	ErrInvalidOutput,
	ErrGenerationFailed,
	ErrQuotationNotFound,
	ErrJobNotFound,
	ErrAsyncUnavailable,
}

// UserMessage maps err to the first known sentinel message, hiding backend
// details. Unknown errors get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "failed to generate quotation"
}
