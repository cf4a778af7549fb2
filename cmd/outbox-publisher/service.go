package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/carlosmendieta/modique-backend/pkg/config"
	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/metrics"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultMaxAttempts    = 10
	defaultPublishTimeout = 15 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	CountUnpublished() (int64, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type gcpPublisher struct {
	inner *gcppubsub.Publisher
}

func (p gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.inner.Publish(ctx, msg)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Publisher  publisher
	Metrics    *metrics.OutboxMetrics
}

// Service drains the outbox table into the orders Pub/Sub topic.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	repo         outboxRepository
	publisher    publisher
	metrics      *metrics.OutboxMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Publisher == nil {
		return nil, errors.New("publisher is required")
	}

	batchSize := params.Config.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		repo:         params.Repository,
		publisher:    params.Publisher,
		metrics:      params.Metrics,
		batchSize:    batchSize,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.publishBatch(ctx); err != nil {
				s.logg.Error(ctx, "outbox batch failed", err)
			}
		}
	}
}

func (s *Service) publishBatch(ctx context.Context) error {
	start := time.Now()
	topic := s.cfg.PubSub.OrdersTopic

	events, err := s.repo.FetchUnpublished(s.batchSize)
	if err != nil {
		return fmt.Errorf("fetching unpublished events: %w", err)
	}

	for _, event := range events {
		if event.AttemptCount >= s.maxAttempts {
			evCtx := s.logg.WithFields(ctx, map[string]any{
				"event_id": event.ID.String(),
				"attempts": event.AttemptCount,
			})
			s.logg.Warn(evCtx, "outbox event exhausted publish attempts")
			continue
		}
		if err := s.publishOne(ctx, event); err != nil {
			s.metrics.IncFailed(topic)
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				s.logg.Error(ctx, "failed to record publish failure", markErr)
			}
			continue
		}
		s.metrics.IncPublished(topic)
		if err := s.repo.MarkPublished(event.ID); err != nil {
			s.logg.Error(ctx, "failed to mark event published", err)
		}
	}

	if pending, err := s.repo.CountUnpublished(); err == nil {
		s.metrics.SetPending(int(pending))
	}
	s.metrics.ObserveBatch(topic, time.Since(start))
	return nil
}

func (s *Service) publishOne(ctx context.Context, event models.OutboxEvent) error {
	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := s.publisher.Publish(publishCtx, &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_id":       event.ID.String(),
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
		},
	})

	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing event %s: %w", event.ID, err)
	}
	return nil
}
