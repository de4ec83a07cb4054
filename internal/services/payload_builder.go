package services

import (
	"fmt"
	"push-service/internal/models"
)

const newEventTitle = "New event!"

// BuildPayload renders the fixed template of each change kind. It only reads
// the event's own fields.
func BuildPayload(event models.ChangeEvent) (models.NotificationPayload, error) {
	switch e := models.Value(event).(type) {
	case models.EventCreated:
		return models.NotificationPayload{
			Notification: &models.Notification{
				Title: newEventTitle,
				Body:  fmt.Sprintf("Event: %s", e.Title),
			},
			Data: map[string]string{
				models.DataKeyEventID: e.EventID,
				models.DataKeyType:    models.DataTypeEvent,
			},
		}, nil
	case models.MessageCreated:
		return models.NotificationPayload{
			Notification: &models.Notification{
				Title: e.SenderName,
				Body:  e.Body,
			},
			Data: map[string]string{
				models.DataKeyConversationID: e.DialogID,
				models.DataKeyMessageID:      e.MessageID,
				models.DataKeyType:           models.DataTypeMessage,
				models.DataKeySender:         e.SenderName,
				models.DataKeySenderID:       e.SenderID,
			},
		}, nil
	case models.MessageStatusChanged:
		return models.NotificationPayload{
			Data: map[string]string{
				models.DataKeyDialogID:      e.DialogID,
				models.DataKeyMessageID:     e.MessageID,
				models.DataKeyType:          models.DataTypeMessageStatus,
				models.DataKeySender:        e.SenderName,
				models.DataKeySenderID:      e.SenderID,
				models.DataKeyReceiverID:    e.ReceiverID,
				models.DataKeyMessageStatus: e.NewStatus,
				models.DataKeyStatus:        e.NewStatus,
			},
		}, nil
	default:
		return models.NotificationPayload{}, fmt.Errorf("no payload template for %T", event)
	}
}
