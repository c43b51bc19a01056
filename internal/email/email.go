package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/internal/kafka"
)

// Message is a rendered notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers job notifications. Delivery is a structured log line; a
// real mail relay can replace deliver without touching the worker.
type Sender struct {
	logger  *zap.Logger
	baseURL string
	deliver func(ctx context.Context, m Message) error
}

func NewSender(logger *zap.Logger, baseURL string) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sender{logger: logger, baseURL: baseURL}
	s.deliver = s.logDelivery
	return s
}

// Send notifies the requester. Events without a notify address are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.QuotationEvent) error {
	if event.NotifyEmail == "" {
		return nil
	}
	m, err := s.Compose(event)
	if err != nil {
		return err
	}
	return s.deliver(ctx, m)
}

func (s *Sender) Compose(event kafka.QuotationEvent) (Message, error) {
	switch event.Type {
	case kafka.EventQuotationGenerated:
		title := event.TripTitle
		if title == "" {
			title = "your trip"
		}
		return Message{
			To:      event.NotifyEmail,
			Subject: fmt.Sprintf("Your quotation for %s is ready", title),
			Body:    fmt.Sprintf("Your travel quotation is ready: %s/api/v1/quotations/%s", s.baseURL, event.QuotationID),
		}, nil
	case kafka.EventQuotationFailed:
		return Message{
			To:      event.NotifyEmail,
			Subject: "We could not prepare your quotation",
			Body:    fmt.Sprintf("Generation of job %s failed: %s", event.JobID, event.Error),
		}, nil
	default:
		return Message{}, fmt.Errorf("unknown event type %q", event.Type)
	}
}

func (s *Sender) logDelivery(_ context.Context, m Message) error {
	s.logger.Info("send email", zap.String("to", m.To), zap.String("subject", m.Subject), zap.String("body", m.Body))
	return nil
}
