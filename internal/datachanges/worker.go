package datachanges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/spendwise-backend/pkg/enums"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Event is published by importers after invoice lines, PAX or locations of an organization change.
type Event struct {
	OrganizationID string           `json:"organization_id"`
	Source         enums.DataSource `json:"source"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

type invalidator interface {
	Invalidate(ctx context.Context, organizationID string) (int64, error)
}

// Service drops cached efficiency results whenever the underlying data changes.
type Service struct {
	subscription *gcppubsub.Subscriber
	cache        invalidator
	metrics      *metrics.EfficiencyMetrics
	logg         *logger.Logger
}

// NewService creates a data change consumer.
func NewService(subscription *gcppubsub.Subscriber, cache invalidator, m *metrics.EfficiencyMetrics, logg *logger.Logger) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("data changed subscription is required")
	}
	if cache == nil {
		return nil, errors.New("result cache is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		subscription: subscription,
		cache:        cache,
		metrics:      m,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes data change messages until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := s.logg.WithFields(ctx, fields)

	event, err := decodeEvent(msg)
	if err != nil {
		fields["error"] = err.Error()
		s.logg.Warn(s.logg.WithFields(ctx, fields), "invalid data changed event")
		return processResult{}
	}
	fields["source"] = string(event.Source)
	fields["occurred_at"] = event.OccurredAt.Format(time.RFC3339Nano)
	logCtx = s.logg.WithScope(s.logg.WithFields(ctx, fields), logger.Scope{OrganizationID: event.OrganizationID})

	generation, err := s.cache.Invalidate(logCtx, event.OrganizationID)
	if err != nil {
		s.logg.Error(logCtx, "efficiency cache invalidation failed", err)
		return processResult{nack: true}
	}
	s.metrics.IncInvalidation(string(event.Source))
	s.logg.Info(s.logg.WithField(logCtx, "generation", generation), "efficiency cache invalidated")
	return processResult{}
}

func decodeEvent(msg *gcppubsub.Message) (*Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	event.OrganizationID = strings.TrimSpace(event.OrganizationID)
	if event.OrganizationID == "" {
		event.OrganizationID = strings.TrimSpace(msg.Attributes["organization_id"])
	}
	if _, err := uuid.Parse(event.OrganizationID); err != nil {
		return nil, fmt.Errorf("organization_id: %w", err)
	}

	if event.Source == "" {
		event.Source = enums.DataSource(strings.TrimSpace(msg.Attributes["source"]))
	}
	if !event.Source.IsValid() {
		return nil, fmt.Errorf("unknown source %q", event.Source)
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = msg.PublishTime
	}
	event.OccurredAt = event.OccurredAt.UTC()
	return &event, nil
}
