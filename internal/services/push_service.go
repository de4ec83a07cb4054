package services

import (
	"context"
	"log/slog"
	"push-service/internal/metrics"
	"push-service/internal/models"

	"github.com/google/uuid"
)

// PushService runs one change event through resolve, build, dispatch and
// report. It holds no per-invocation state, so concurrent calls to Handle are
// independent.
type PushService struct {
	resolver   *RecipientResolver
	dispatcher *DeliveryDispatcher
	logger     *slog.Logger
}

func NewPushService(resolver *RecipientResolver, dispatcher *DeliveryDispatcher, logger *slog.Logger) *PushService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PushService{
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger.With("component", "PushService"),
	}
}

// Handle returns nil when the event resolved to no recipients. It never
// panics or fails on collaborator errors, so the trigger can always be
// acknowledged.
func (s *PushService) Handle(ctx context.Context, event models.ChangeEvent) *models.DeliveryReport {
	event = models.Value(event)
	if event == nil {
		s.logger.Warn("Nil change event ignored")
		return nil
	}
	kind := event.Kind()
	log := s.logger.With(
		"invocation_id", uuid.NewString(),
		"pipeline", string(kind),
	)

	recipients := s.resolver.Resolve(ctx, log, event)
	if recipients.IsNone() {
		log.Info("No recipients resolved, nothing to send")
		metrics.PipelineInvocations.WithLabelValues(string(kind), metrics.ResultNoTarget).Inc()
		return nil
	}

	payload, err := BuildPayload(event)
	if err != nil {
		log.Error("Failed to build notification payload", "error", err)
		metrics.PipelineInvocations.WithLabelValues(string(kind), metrics.ResultNoTarget).Inc()
		return nil
	}

	report := s.dispatcher.Deliver(ctx, log.With("recipients", recipients.Kind.String()), payload, recipients)
	ReportOutcome(log, kind, report)
	metrics.PipelineInvocations.WithLabelValues(string(kind), metrics.ResultDispatched).Inc()

	return &report
}
