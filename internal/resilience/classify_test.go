package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Domenick1991/travelquote/internal/gateway"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Class
	}{
		{name: "nil", err: nil, expected: ClassOther},
		{name: "429 status code", err: &gateway.BackendError{StatusCode: 429}, expected: ClassQuota},
		{name: "resource exhausted status", err: &gateway.BackendError{StatusCode: 400, Status: "RESOURCE_EXHAUSTED"}, expected: ClassQuota},
		{name: "quota in message", err: errors.New("You exceeded your current quota"), expected: ClassQuota},
		{name: "429 in unstructured message", err: errors.New("Error 429, Message: slow down"), expected: ClassQuota},
		{name: "500 status code", err: &gateway.BackendError{StatusCode: 500}, expected: ClassTransient},
		{name: "503 status code", err: &gateway.BackendError{StatusCode: 503}, expected: ClassTransient},
		{name: "internal status", err: &gateway.BackendError{StatusCode: 400, Status: "INTERNAL"}, expected: ClassTransient},
		{name: "internal in message", err: errors.New("An INTERNAL error has occurred"), expected: ClassTransient},
		{name: "503 in unstructured message", err: errors.New("got 503 from upstream"), expected: ClassTransient},
		{name: "timeout", err: fmt.Errorf("post: %w", context.DeadlineExceeded), expected: ClassTransient},
		{name: "bad request", err: &gateway.BackendError{StatusCode: 400, Status: "INVALID_ARGUMENT", Message: "max tokens 5000"}, expected: ClassOther},
		{name: "auth", err: &gateway.BackendError{StatusCode: 401, Message: "API key not valid"}, expected: ClassOther},
		{name: "wrapped backend error", err: fmt.Errorf("call: %w", &gateway.BackendError{StatusCode: 429}), expected: ClassQuota},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.err))
		})
	}
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "quota", ClassQuota.String())
	assert.Equal(t, "transient", ClassTransient.String())
	assert.Equal(t, "other", ClassOther.String())
}
