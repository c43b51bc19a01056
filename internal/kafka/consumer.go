package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Domenick1991/travelquote/internal/observability"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MaxBytes:          maxBatchBytes,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
			ErrorLogger:       kafka.LoggerFunc(observability.PrintfFunc(logger.Named("kafka-reader"), zapcore.ErrorLevel)),
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is done or handler fails. A cancelled context is
// a clean shutdown and returns nil.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// DecodeRequest unmarshals a requests-topic message.
func DecodeRequest(msg kafka.Message) (GenerationRequest, error) {
	var req GenerationRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return req, fmt.Errorf("decode generation request: %w", err)
	}
	if req.JobID == "" {
		return req, fmt.Errorf("decode generation request: missing job id")
	}
	return req, nil
}

// DecodeEvent unmarshals an events-topic message.
func DecodeEvent(msg kafka.Message) (QuotationEvent, error) {
	var ev QuotationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return ev, fmt.Errorf("decode quotation event: %w", err)
	}
	return ev, nil
}
