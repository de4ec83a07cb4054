package services

import (
	"context"
	"log/slog"
	"push-service/internal/models"
)

// PushGateway is the remote push transport.
//
// SendMulticast must return exactly one outcome per token, in token order,
// unless the whole request is rejected, in which case it returns an error.
type PushGateway interface {
	SendOne(ctx context.Context, token string, payload models.NotificationPayload) (string, error)
	SendMulticast(ctx context.Context, tokens []string, payload models.NotificationPayload) ([]models.DeliveryOutcome, error)
}

type DeliveryDispatcher struct {
	gateway   PushGateway
	batchSize int
}

func NewDeliveryDispatcher(gateway PushGateway, batchSize int) *DeliveryDispatcher {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &DeliveryDispatcher{
		gateway:   gateway,
		batchSize: batchSize,
	}
}

// Deliver sends payload to recipients. It never fails: gateway errors are
// logged and folded into the returned report.
func (d *DeliveryDispatcher) Deliver(ctx context.Context, log *slog.Logger, payload models.NotificationPayload, recipients models.Recipients) models.DeliveryReport {
	switch recipients.Kind {
	case models.RecipientDirect:
		return d.deliverDirect(ctx, log, payload, recipients.Tokens[0])
	case models.RecipientBroadcast:
		return d.deliverBroadcast(ctx, log, payload, recipients.Tokens)
	default:
		return models.DeliveryReport{}
	}
}

func (d *DeliveryDispatcher) deliverDirect(ctx context.Context, log *slog.Logger, payload models.NotificationPayload, token string) models.DeliveryReport {
	var report models.DeliveryReport

	messageID, err := d.gateway.SendOne(ctx, token, payload)
	if err != nil {
		log.Error("Failed to send notification", "error", err)
		report.Add(models.DeliveryOutcome{
			Token:        token,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return report
	}

	log.Info("Notification sent", "message_id", messageID)
	report.Add(models.DeliveryOutcome{
		Token:     token,
		Success:   true,
		MessageID: messageID,
	})
	return report
}

func (d *DeliveryDispatcher) deliverBroadcast(ctx context.Context, log *slog.Logger, payload models.NotificationPayload, tokens []string) models.DeliveryReport {
	report := models.DeliveryReport{}
	if len(tokens) == 0 {
		log.Info("No tokens available, notifications not sent")
		return report
	}

	for start := 0; start < len(tokens); start += d.batchSize {
		end := min(start+d.batchSize, len(tokens))
		batch := tokens[start:end]

		outcomes, err := d.gateway.SendMulticast(ctx, batch, payload)
		if err != nil {
			log.Error("Failed to send multicast batch",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err,
			)
			report.AddBatchFailure(len(batch), err.Error())
			continue
		}

		for _, outcome := range outcomes {
			report.Add(outcome)
		}
	}

	return report
}
