package quotation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/kafka"
	"github.com/Domenick1991/travelquote/internal/pipeline"
	"github.com/Domenick1991/travelquote/internal/repository"
)

type QuotationUseCase interface {
	Generate(ctx context.Context, input GenerateInput) (*domain.StoredQuotation, error)
	Get(ctx context.Context, id string) (*domain.StoredQuotation, error)
	ListRecent(ctx context.Context, limit int) ([]domain.QuotationSummary, error)
	SubmitJob(ctx context.Context, input GenerateInput) (*domain.GenerationJob, error)
	GetJob(ctx context.Context, id string) (*domain.GenerationJob, error)
	ProcessJob(ctx context.Context, req kafka.GenerationRequest) error
}

type JobStore interface {
	SaveJob(ctx context.Context, job *domain.GenerationJob) error
	GetJob(ctx context.Context, id string) (*domain.GenerationJob, error)
}

// RecentCache holds the default recent-quotations listing.
type RecentCache interface {
	GetRecent(ctx context.Context) ([]domain.QuotationSummary, error)
	SetRecent(ctx context.Context, summaries []domain.QuotationSummary) error
	InvalidateRecent(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type GenerateInput struct {
	Notes       string
	Attachments []domain.Attachment
	NotifyEmail string
}

type QuotationService struct {
	generator     pipeline.QuotationGenerator
	quotations    repository.QuotationRepository
	recent        RecentCache
	jobs          JobStore
	producer      Producer
	requestsTopic string
	eventsTopic   string
	logger        *zap.Logger
	now           func() time.Time
	settleDelay   time.Duration
}

const (
	settleAttempts = 3
	settleTimeout  = 10 * time.Second
)

type QuotationServiceOption func(*QuotationService)

// WithRepository enables archiving; without it quotations are returned but
// not stored.
func WithRepository(repo repository.QuotationRepository) QuotationServiceOption {
	return func(s *QuotationService) {
		s.quotations = repo
	}
}

func WithRecentCache(c RecentCache) QuotationServiceOption {
	return func(s *QuotationService) {
		s.recent = c
	}
}

// WithJobs enables asynchronous generation through the requests topic.
func WithJobs(jobs JobStore, producer Producer, requestsTopic, eventsTopic string) QuotationServiceOption {
	return func(s *QuotationService) {
		s.jobs = jobs
		s.producer = producer
		s.requestsTopic = requestsTopic
		s.eventsTopic = eventsTopic
	}
}

func WithLogger(logger *zap.Logger) QuotationServiceOption {
	return func(s *QuotationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func withClock(now func() time.Time) QuotationServiceOption {
	return func(s *QuotationService) {
		s.now = now
	}
}

func withSettleDelay(d time.Duration) QuotationServiceOption {
	return func(s *QuotationService) {
		s.settleDelay = d
	}
}

func NewQuotationService(generator pipeline.QuotationGenerator, opts ...QuotationServiceOption) *QuotationService {
	service := &QuotationService{
		generator:   generator,
		logger:      zap.NewNop(),
		now:         time.Now,
		settleDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func validateInput(input GenerateInput) error {
	if strings.TrimSpace(input.Notes) == "" && len(input.Attachments) == 0 {
		return domain.ErrEmptyInput
	}
	return nil
}

// Generate runs the pipeline and archives the result. An archive failure is
// logged and the quotation is still returned, without an id.
func (s *QuotationService) Generate(ctx context.Context, input GenerateInput) (*domain.StoredQuotation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	q, err := s.generator.Generate(ctx, input.Notes, input.Attachments)
	if err != nil {
		return nil, err
	}

	if s.quotations == nil {
		return &domain.StoredQuotation{Quotation: q, CreatedAt: s.now().UTC()}, nil
	}
	stored, err := s.quotations.Save(ctx, q)
	if err != nil {
		s.logger.Error("archive quotation failed", zap.String("trip_title", q.TripTitle), zap.Error(err))
		return &domain.StoredQuotation{Quotation: q, CreatedAt: s.now().UTC()}, nil
	}
	if s.recent != nil {
		if err := s.recent.InvalidateRecent(ctx); err != nil {
			s.logger.Warn("invalidate recent cache failed", zap.Error(err))
		}
	}
	return stored, nil
}

func (s *QuotationService) Get(ctx context.Context, id string) (*domain.StoredQuotation, error) {
	if s.quotations == nil {
		return nil, domain.ErrQuotationNotFound
	}
	return s.quotations.GetByID(ctx, id)
}

func (s *QuotationService) ListRecent(ctx context.Context, limit int) ([]domain.QuotationSummary, error) {
	if s.quotations == nil {
		return []domain.QuotationSummary{}, nil
	}
	// Кэшируем только список по умолчанию.
	useCache := s.recent != nil && limit == 0
	if useCache {
		if cached, err := s.recent.GetRecent(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	summaries, err := s.quotations.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := s.recent.SetRecent(ctx, summaries); err != nil {
			s.logger.Warn("fill recent cache failed", zap.Error(err))
		}
	}
	return summaries, nil
}

func (s *QuotationService) asyncEnabled() bool {
	return s.jobs != nil && s.producer != nil && s.requestsTopic != ""
}

// SubmitJob stores a PENDING job and hands the request to the worker.
func (s *QuotationService) SubmitJob(ctx context.Context, input GenerateInput) (*domain.GenerationJob, error) {
	if !s.asyncEnabled() {
		return nil, domain.ErrAsyncUnavailable
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &domain.GenerationJob{
		ID:          uuid.NewString(),
		Status:      domain.JobStatusPending,
		NotifyEmail: input.NotifyEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	req := kafka.GenerationRequest{
		JobID:       job.ID,
		Notes:       input.Notes,
		Attachments: input.Attachments,
		NotifyEmail: input.NotifyEmail,
		RequestedAt: now,
	}
	if err := s.producer.Publish(ctx, s.requestsTopic, job.ID, req); err != nil {
		s.logger.Error("publish generation request failed", zap.String("job_id", job.ID), zap.Error(err))
		job.Status = domain.JobStatusFailed
		job.Error = domain.ErrAsyncUnavailable.Error()
		job.UpdatedAt = s.now().UTC()
		if saveErr := s.jobs.SaveJob(ctx, job); saveErr != nil {
			s.logger.Warn("mark job failed", zap.String("job_id", job.ID), zap.Error(saveErr))
		}
		return nil, err
	}
	return job, nil
}

func (s *QuotationService) GetJob(ctx context.Context, id string) (*domain.GenerationJob, error) {
	if s.jobs == nil {
		return nil, domain.ErrJobNotFound
	}
	return s.jobs.GetJob(ctx, id)
}

// ProcessJob is the worker side of SubmitJob. Generation failures are recorded
// on the job and reported as events; only infrastructure errors and context
// cancellation are returned. Once the job is RUNNING it is always moved to
// SUCCEEDED or FAILED, even when ctx is cancelled mid-generation.
func (s *QuotationService) ProcessJob(ctx context.Context, req kafka.GenerationRequest) error {
	if s.jobs == nil {
		return domain.ErrAsyncUnavailable
	}
	log := s.logger.With(zap.String("job_id", req.JobID))

	job, err := s.jobs.GetJob(ctx, req.JobID)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		// Статус мог истечь по TTL, восстанавливаем запись из запроса.
		job = &domain.GenerationJob{ID: req.JobID, NotifyEmail: req.NotifyEmail, CreatedAt: req.RequestedAt}
	case err != nil:
		return err
	}
	if job.Finished() {
		log.Info("job already finished, skipping redelivery", zap.String("status", string(job.Status)))
		return nil
	}

	job.Status = domain.JobStatusRunning
	job.UpdatedAt = s.now().UTC()
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return err
	}

	stored, genErr := s.Generate(ctx, GenerateInput{Notes: req.Notes, Attachments: req.Attachments})
	interrupted := genErr != nil && ctx.Err() != nil

	// Оффсет уже закоммичен, повторной доставки не будет: статус пишем
	// вне отменённого контекста.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	event := kafka.QuotationEvent{
		JobID:       job.ID,
		NotifyEmail: job.NotifyEmail,
	}
	if genErr != nil {
		log.Warn("job failed", zap.Bool("interrupted", interrupted), zap.Error(genErr))
		job.Status = domain.JobStatusFailed
		job.Error = domain.UserMessage(genErr)
		event.Type = kafka.EventQuotationFailed
		event.Error = job.Error
	} else {
		job.Status = domain.JobStatusSucceeded
		job.QuotationID = stored.ID
		event.Type = kafka.EventQuotationGenerated
		event.QuotationID = stored.ID
		event.TripTitle = stored.Quotation.TripTitle
	}
	job.UpdatedAt = s.now().UTC()
	event.OccurredAt = job.UpdatedAt

	if err := s.settleJob(settleCtx, job); err != nil {
		log.Error("store final job status failed", zap.String("status", string(job.Status)), zap.Error(err))
		return err
	}
	if err := s.publish(settleCtx, event); err != nil {
		log.Warn("publish quotation event failed", zap.String("type", event.Type), zap.Error(err))
	}
	if interrupted {
		return ctx.Err()
	}
	return nil
}

// settleJob retries the terminal status write; a short store outage must not
// leave the job RUNNING.
func (s *QuotationService) settleJob(ctx context.Context, job *domain.GenerationJob) error {
	var err error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		if err = s.jobs.SaveJob(ctx, job); err == nil {
			return nil
		}
		if attempt == settleAttempts {
			break
		}
		s.logger.Warn("save job status failed, retrying",
			zap.String("job_id", job.ID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * s.settleDelay):
		}
	}
	return err
}

func (s *QuotationService) publish(ctx context.Context, event kafka.QuotationEvent) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	return s.producer.Publish(ctx, s.eventsTopic, event.JobID, event)
}

var _ QuotationUseCase = (*QuotationService)(nil)
