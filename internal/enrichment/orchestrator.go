// Package enrichment fills the image slots of a parsed quotation.
package enrichment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Domenick1991/travelquote/internal/domain"
)

type ImageSynthesizer interface {
	SynthesizeImage(ctx context.Context, prompt string) (string, error)
}

// Orchestrator runs one synthesis call per image slot that needs it. A failed
// or empty call leaves its slot empty and never fails the quotation.
type Orchestrator struct {
	images      ImageSynthesizer
	concurrency int
	callTimeout time.Duration
	logger      *zap.Logger
}

type Option func(*Orchestrator)

// WithConcurrency caps in-flight synthesis calls; n <= 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.callTimeout = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewOrchestrator(images ImageSynthesizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		images:      images,
		concurrency: 4,
		callTimeout: 60 * time.Second,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Report summarises one enrichment pass.
type Report struct {
	Requested int
	Succeeded int
	Failed    int
	Empty     int
}

// slot is one image field plus the prompt that should fill it. Each target
// points at a distinct field, so concurrent writes never overlap.
type slot struct {
	kind   string
	label  string
	prompt string
	target *string
}

// plan clears every slot that will be synthesized. The hero image is always
// regenerated; other slots keep model-supplied references that are direct
// images.
func plan(q *domain.Quotation) []slot {
	slots := make([]slot, 0, 1+len(q.Hotels)+len(q.Restaurants)+len(q.Itinerary))

	q.HeroImage = ""
	slots = append(slots, slot{kind: "hero", label: q.TripTitle, prompt: heroPrompt(q), target: &q.HeroImage})

	for i := range q.Hotels {
		h := &q.Hotels[i]
		if IsDirectImage(h.Image) {
			continue
		}
		h.Image = ""
		slots = append(slots, slot{kind: "hotel", label: h.Name, prompt: hotelPrompt(*h), target: &h.Image})
	}
	for i := range q.Restaurants {
		r := &q.Restaurants[i]
		if IsDirectImage(r.Image) {
			continue
		}
		r.Image = ""
		slots = append(slots, slot{kind: "restaurant", label: r.Name, prompt: restaurantPrompt(*r), target: &r.Image})
	}
	for i := range q.Itinerary {
		d := &q.Itinerary[i]
		if IsDirectImage(d.Image) {
			continue
		}
		d.Image = ""
		slots = append(slots, slot{kind: "day", label: fmt.Sprintf("day %d", d.Day), prompt: dayPrompt(*d, q.Destination), target: &d.Image})
	}
	return slots
}

// Enrich mutates q in place. It returns once every subtask has settled.
func (o *Orchestrator) Enrich(ctx context.Context, q *domain.Quotation) Report {
	slots := plan(q)

	var succeeded, failed, empty atomic.Int32
	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for _, s := range slots {
		g.Go(func() error {
			img, err := o.synthesize(ctx, s.prompt)
			switch {
			case err != nil:
				failed.Add(1)
				o.logger.Warn("image synthesis failed", zap.String("kind", s.kind), zap.String("label", s.label), zap.Error(err))
			case img == "":
				empty.Add(1)
				o.logger.Info("image synthesis returned no image", zap.String("kind", s.kind), zap.String("label", s.label))
			default:
				*s.target = img
				succeeded.Add(1)
			}
			// Never propagate: one slot failing must not affect the others.
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Requested: len(slots),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Empty:     int(empty.Load()),
	}
	o.logger.Info("enrichment finished",
		zap.Int("requested", report.Requested),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("empty", report.Empty),
	)
	return report
}

func (o *Orchestrator) synthesize(ctx context.Context, prompt string) (string, error) {
	if o.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
	}
	return o.images.SynthesizeImage(ctx, prompt)
}
