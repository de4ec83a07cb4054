package services

import (
	"context"
	"fmt"
	"log/slog"
	"push-service/internal/metrics"
	"push-service/internal/models"
	"push-service/internal/repository"
)

// RecipientResolver turns a change event into the device tokens that should
// hear about it. Store failures never escape: they degrade to no recipients.
type RecipientResolver struct {
	profiles repository.IProfileRepository
}

func NewRecipientResolver(profiles repository.IProfileRepository) *RecipientResolver {
	return &RecipientResolver{profiles: profiles}
}

func (r *RecipientResolver) Resolve(ctx context.Context, log *slog.Logger, event models.ChangeEvent) models.Recipients {
	switch e := models.Value(event).(type) {
	case models.EventCreated:
		if e.IsPrivate {
			log.Info("Event is private, notification skipped", "event_id", e.EventID)
			return models.NoRecipients()
		}
		return r.resolveBroadcast(ctx, log, e.Kind())
	case models.MessageCreated:
		return r.resolveDirect(ctx, log, e.Kind(), "receiver", e.ReceiverID)
	case models.MessageStatusChanged:
		if !e.StatusChanged() {
			log.Info("Message status unchanged, notification skipped",
				"message_id", e.MessageID,
				"status", e.NewStatus,
			)
			return models.NoRecipients()
		}
		// status updates go back to whoever sent the message
		return r.resolveDirect(ctx, log, e.Kind(), "sender", e.SenderID)
	default:
		log.Error("Unsupported change event", "event_type", fmt.Sprintf("%T", event))
		return models.NoRecipients()
	}
}

func (r *RecipientResolver) resolveBroadcast(ctx context.Context, log *slog.Logger, kind models.EventKind) models.Recipients {
	profiles, err := r.profiles.GetAll(ctx)
	if err != nil {
		log.Error("Failed to fetch FCM tokens", "error", err)
		metrics.ProfileLookupFailures.WithLabelValues(string(kind)).Inc()
		return models.NoRecipients()
	}

	seen := make(map[string]struct{}, len(profiles))
	tokens := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.FCMToken == "" {
			continue
		}
		if _, dup := seen[p.FCMToken]; dup {
			continue
		}
		seen[p.FCMToken] = struct{}{}
		tokens = append(tokens, p.FCMToken)
	}

	log.Info("Broadcast tokens collected", "profiles", len(profiles), "tokens", len(tokens))
	return models.BroadcastTo(tokens)
}

func (r *RecipientResolver) resolveDirect(ctx context.Context, log *slog.Logger, kind models.EventKind, role, userID string) models.Recipients {
	if userID == "" {
		log.Warn("No user id on change event, notification skipped", "role", role)
		return models.NoRecipients()
	}

	profile, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		log.Error("Failed to fetch user profile", "role", role, "user_id", userID, "error", err)
		metrics.ProfileLookupFailures.WithLabelValues(string(kind)).Inc()
		return models.NoRecipients()
	}
	if profile == nil || profile.FCMToken == "" {
		log.Info("FCM token not found", "role", role, "user_id", userID)
		return models.NoRecipients()
	}

	return models.DirectTo(profile.FCMToken)
}
