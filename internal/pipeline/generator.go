// Package pipeline turns free-form trip notes into an enriched quotation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/enrichment"
	"github.com/Domenick1991/travelquote/internal/gateway"
	"github.com/Domenick1991/travelquote/internal/normalizer"
	"github.com/Domenick1991/travelquote/internal/resilience"
)

// QuotationGenerator is the single entry point used by the HTTP API, the
// worker and the CLI.
type QuotationGenerator interface {
	Generate(ctx context.Context, notes string, attachments []domain.Attachment) (*domain.Quotation, error)
}

type Enricher interface {
	Enrich(ctx context.Context, q *domain.Quotation) enrichment.Report
}

type Generator struct {
	gateway  gateway.Gateway
	policy   *resilience.Policy
	enricher Enricher
	logger   *zap.Logger
}

var _ QuotationGenerator = (*Generator)(nil)

type Option func(*Generator)

func WithPolicy(p *resilience.Policy) Option {
	return func(g *Generator) {
		g.policy = p
	}
}

func WithEnricher(e Enricher) Option {
	return func(g *Generator) {
		g.enricher = e
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGenerator(gw gateway.Gateway, opts ...Option) *Generator {
	g := &Generator{
		gateway: gw,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.policy == nil {
		g.policy = resilience.NewPolicy(resilience.WithLogger(g.logger))
	}
	if g.enricher == nil {
		g.enricher = enrichment.NewOrchestrator(gw, enrichment.WithLogger(g.logger))
	}
	return g
}

// Generate runs completion, normalization and image enrichment in that order.
// Enrichment problems never surface as errors.
func (g *Generator) Generate(ctx context.Context, notes string, attachments []domain.Attachment) (*domain.Quotation, error) {
	if strings.TrimSpace(notes) == "" && len(attachments) == 0 {
		return nil, domain.ErrEmptyInput
	}

	names := make([]string, 0, len(attachments))
	for i, a := range attachments {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d (%s)", i+1, a.MIMEType)
		}
		names = append(names, name)
	}
	prompt := gateway.Prompt{
		Text:        gateway.BuildQuotationPrompt(notes, names),
		Attachments: attachments,
	}

	start := time.Now()
	raw, err := g.policy.Complete(ctx, g.gateway, prompt)
	if err != nil {
		return nil, err
	}

	q, err := normalizer.Parse(raw)
	if err != nil {
		g.logger.Warn("model output rejected", zap.Error(err), zap.Int("raw_len", len(raw)))
		return nil, err
	}

	report := g.enricher.Enrich(ctx, q)
	g.logger.Info("quotation generated",
		zap.String("trip_title", q.TripTitle),
		zap.String("kind", string(q.Kind())),
		zap.Int("images", report.Succeeded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return q, nil
}
