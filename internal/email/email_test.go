package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/travelquote/internal/kafka"
)

func TestSender_Compose(t *testing.T) {
	s := NewSender(nil, "http://localhost:8080")

	testCases := []struct {
		name        string
		event       kafka.QuotationEvent
		wantSubject string
		wantBody    string
		wantErr     bool
	}{
		{
			name:        "generated",
			event:       kafka.QuotationEvent{Type: kafka.EventQuotationGenerated, QuotationID: "q-1", TripTitle: "Rome Weekend", NotifyEmail: "a@b.c"},
			wantSubject: "Your quotation for Rome Weekend is ready",
			wantBody:    "http://localhost:8080/api/v1/quotations/q-1",
		},
		{
			name:        "failed",
			event:       kafka.QuotationEvent{Type: kafka.EventQuotationFailed, JobID: "j-1", Error: "AI quota exceeded", NotifyEmail: "a@b.c"},
			wantSubject: "We could not prepare your quotation",
			wantBody:    "AI quota exceeded",
		},
		{
			name:    "unknown",
			event:   kafka.QuotationEvent{Type: "booking_created", NotifyEmail: "a@b.c"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := s.Compose(tc.event)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.c", m.To)
			assert.Equal(t, tc.wantSubject, m.Subject)
			assert.Contains(t, m.Body, tc.wantBody)
		})
	}
}

func TestSender_Send(t *testing.T) {
	var sent []Message
	s := NewSender(nil, "")
	s.deliver = func(_ context.Context, m Message) error {
		sent = append(sent, m)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), kafka.QuotationEvent{Type: kafka.EventQuotationGenerated, QuotationID: "q"}))
	assert.Empty(t, sent)

	require.NoError(t, s.Send(context.Background(), kafka.QuotationEvent{Type: kafka.EventQuotationGenerated, QuotationID: "q", NotifyEmail: "x@y.z"}))
	require.Len(t, sent, 1)
	assert.Equal(t, "Your quotation for your trip is ready", sent[0].Subject)
}
