package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/enrichment"
	"github.com/Domenick1991/travelquote/internal/gateway"
	"github.com/Domenick1991/travelquote/internal/resilience"
)

// FromConfig wires the configured gateway, retry policy and enricher.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	gw, err := gateway.New(ctx, gateway.Settings{
		Provider:   cfg.Model.Provider,
		APIKey:     cfg.Model.APIKey,
		BaseURL:    cfg.Model.BaseURL,
		TextModel:  cfg.Model.TextModel,
		ImageModel: cfg.Model.ImageModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create model gateway: %w", err)
	}

	policy := resilience.NewPolicy(
		resilience.WithMaxAttempts(cfg.Pipeline.MaxAttempts),
		resilience.WithBaseDelay(cfg.Pipeline.BaseDelay()),
		resilience.WithCallTimeout(cfg.Model.CallTimeout()),
		resilience.WithLogger(logger.Named("resilience")),
	)
	enricher := enrichment.NewOrchestrator(gw,
		enrichment.WithConcurrency(cfg.Pipeline.ImageConcurrency),
		enrichment.WithCallTimeout(cfg.Model.CallTimeout()),
		enrichment.WithLogger(logger.Named("enrichment")),
	)

	return NewGenerator(gw,
		WithPolicy(policy),
		WithEnricher(enricher),
		WithLogger(logger.Named("pipeline")),
	), nil
}
