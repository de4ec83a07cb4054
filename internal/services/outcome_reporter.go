package services

import (
	"log/slog"
	"push-service/internal/metrics"
	"push-service/internal/models"
)

// ReportOutcome is the terminal sink of a pipeline: it logs and counts, and
// nothing else.
func ReportOutcome(log *slog.Logger, kind models.EventKind, report models.DeliveryReport) {
	log.Info("Notifications dispatched",
		"success_count", report.SuccessCount,
		"failure_count", report.FailureCount,
	)

	metrics.Deliveries.WithLabelValues(string(kind), metrics.ResultSuccess).Add(float64(report.SuccessCount))
	metrics.Deliveries.WithLabelValues(string(kind), metrics.ResultFailure).Add(float64(report.FailureCount))

	if report.FailureCount == 0 {
		return
	}

	for _, outcome := range report.Outcomes {
		if outcome.Success {
			continue
		}
		log.Error("Failed to deliver notification to token",
			"token", outcome.Token,
			"error", outcome.ErrorMessage,
		)
	}
	for _, message := range report.Errors {
		log.Error("Multicast batch rejected", "error", message)
	}
}
