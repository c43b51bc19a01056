package main

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Domenick1991/travelquote/internal/kafka"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

type processFunc func(ctx context.Context, req kafka.GenerationRequest) error

// stubUseCase implements only ProcessJob; other methods are never reached.
type stubUseCase struct {
	quotation.QuotationUseCase
	process processFunc
	calls   int
}

func (s *stubUseCase) ProcessJob(ctx context.Context, req kafka.GenerationRequest) error {
	s.calls++
	return s.process(ctx, req)
}

func TestHandleRequest(t *testing.T) {
	testCases := []struct {
		name      string
		value     string
		err       error
		wantCalls int
		wantLog   string
	}{
		{name: "processed", value: `{"job_id":"j-1","notes":"Rome"}`, wantCalls: 1},
		{name: "store error is logged", value: `{"job_id":"j-1","notes":"Rome"}`, err: errors.New("redis blip"), wantCalls: 1, wantLog: "process generation request failed"},
		{name: "malformed is skipped", value: `{not json`, wantLog: "skip malformed generation request"},
		{name: "missing job id is skipped", value: `{"notes":"Rome"}`, wantLog: "skip malformed generation request"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			svc := &stubUseCase{process: func(context.Context, kafka.GenerationRequest) error { return tc.err }}

			err := handleRequest(context.Background(), svc, zap.New(core), kafkaGo.Message{Value: []byte(tc.value)})

			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, svc.calls)
			if tc.wantLog == "" {
				assert.Zero(t, logs.Len())
			} else {
				assert.Equal(t, 1, logs.FilterMessage(tc.wantLog).Len())
			}
		})
	}
}

func TestHandleRequest_ShutdownIsQuiet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	core, logs := observer.New(zapcore.InfoLevel)
	svc := &stubUseCase{process: func(ctx context.Context, _ kafka.GenerationRequest) error { return ctx.Err() }}

	err := handleRequest(ctx, svc, zap.New(core), kafkaGo.Message{Value: []byte(`{"job_id":"j-1"}`)})

	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
