// Package resilience wraps the text completion call with bounded retries and
// a final ungrounded fallback.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/gateway"
)

var errEmptyResponse = errors.New("model returned no text")

type Completer interface {
	CompleteText(ctx context.Context, prompt gateway.Prompt, useTools bool) (string, error)
}

// Policy runs attempts strictly one after another. Every attempt but the last
// is grounded; the last one drops grounding, which trades lookup quality for a
// better chance of well-formed output when tool use trips internal errors.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	callTimeout time.Duration
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

type Option func(*Policy)

func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the linear backoff unit: attempt N waits N*d before N+1.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.baseDelay = d
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(p *Policy) {
		p.callTimeout = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Policy) {
		p.sleep = fn
	}
}

func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
		callTimeout: 60 * time.Second,
		logger:      zap.NewNop(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Complete returns the raw text of the first successful attempt.
func (p *Policy) Complete(ctx context.Context, c Completer, prompt gateway.Prompt) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		grounded := attempt < p.maxAttempts || p.maxAttempts == 1
		log := p.logger.With(zap.Int("attempt", attempt), zap.Int("max_attempts", p.maxAttempts), zap.Bool("grounded", grounded))

		text, err := p.call(ctx, c, prompt, grounded)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				log.Warn("completion returned no text")
				return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, errEmptyResponse)
			}
			if attempt > 1 {
				log.Info("completion succeeded after retry")
			}
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		class := Classify(err)
		log.Warn("completion attempt failed", zap.Stringer("class", class), zap.Error(err))

		switch class {
		case ClassQuota:
			return "", fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
		case ClassTransient:
			lastErr = err
		default:
			return "", fmt.Errorf("generate quotation: %w", err)
		}

		if attempt < p.maxAttempts {
			delay := time.Duration(attempt) * p.baseDelay
			log.Debug("backing off", zap.Duration("delay", delay))
			if err := p.sleep(ctx, delay); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("%w: %w: %w", domain.ErrGenerationFailed, domain.ErrBackendUnavailable, lastErr)
}

func (p *Policy) call(ctx context.Context, c Completer, prompt gateway.Prompt, grounded bool) (string, error) {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}
	return c.CompleteText(ctx, prompt, grounded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
