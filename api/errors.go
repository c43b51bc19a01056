package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelquote/internal/domain"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidAttachment):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotationNotFound), errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrAsyncUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": domain.UserMessage(err)})
}
