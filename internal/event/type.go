package event

import (
	"errors"
	"fmt"
	"push-service/internal/models"

	"github.com/spf13/cast"
)

var (
	ErrUnknownKind     = errors.New("unknown change kind")
	ErrMissingParam    = errors.New("missing path parameter")
	ErrMissingDocument = errors.New("missing document snapshot")
	ErrMalformedField  = errors.New("malformed document field")
)

// Path parameters of the watched documents:
// events/{eventId} and conversations/{dialogId}/messagesList/{messageId}.
const (
	ParamEventID   = "eventId"
	ParamDialogID  = "dialogId"
	ParamMessageID = "messageId"
)

// ChangeMessage is a document change as delivered by the store's trigger
// mechanism. Creations carry Data; updates carry Before and After.
type ChangeMessage struct {
	ID     string            `json:"id"`
	Kind   models.EventKind  `json:"kind"`
	Params map[string]string `json:"params"`
	Data   map[string]any    `json:"data,omitempty"`
	Before map[string]any    `json:"before,omitempty"`
	After  map[string]any    `json:"after,omitempty"`
}

// ToChangeEvent validates the message and converts it into a typed event.
// Absent document fields become empty strings.
func (m ChangeMessage) ToChangeEvent() (models.ChangeEvent, error) {
	switch m.Kind {
	case models.KindEventCreated:
		eventID, err := m.param(ParamEventID)
		if err != nil {
			return nil, err
		}
		if m.Data == nil {
			return nil, fmt.Errorf("%w: %s needs data", ErrMissingDocument, m.Kind)
		}
		isPrivate, err := flag(m.Data, "isPrivate")
		if err != nil {
			return nil, err
		}
		return models.EventCreated{
			EventID:   eventID,
			Title:     field(m.Data, "title"),
			IsPrivate: isPrivate,
		}, nil

	case models.KindMessageCreated:
		dialogID, messageID, err := m.messagePath()
		if err != nil {
			return nil, err
		}
		if m.Data == nil {
			return nil, fmt.Errorf("%w: %s needs data", ErrMissingDocument, m.Kind)
		}
		return models.MessageCreated{
			DialogID:   dialogID,
			MessageID:  messageID,
			SenderID:   field(m.Data, "senderId"),
			SenderName: field(m.Data, "senderName"),
			ReceiverID: field(m.Data, "receiverId"),
			Body:       field(m.Data, "body"),
		}, nil

	case models.KindMessageStatusChanged:
		dialogID, messageID, err := m.messagePath()
		if err != nil {
			return nil, err
		}
		if m.After == nil {
			return nil, fmt.Errorf("%w: %s needs after", ErrMissingDocument, m.Kind)
		}
		return models.MessageStatusChanged{
			DialogID:       dialogID,
			MessageID:      messageID,
			SenderID:       field(m.After, "senderId"),
			SenderName:     field(m.After, "senderName"),
			ReceiverID:     field(m.After, "receiverId"),
			PreviousStatus: field(m.Before, "status"),
			NewStatus:      field(m.After, "status"),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
}

func (m ChangeMessage) messagePath() (string, string, error) {
	dialogID, err := m.param(ParamDialogID)
	if err != nil {
		return "", "", err
	}
	messageID, err := m.param(ParamMessageID)
	if err != nil {
		return "", "", err
	}
	return dialogID, messageID, nil
}

func (m ChangeMessage) param(name string) (string, error) {
	value := m.Params[name]
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return value, nil
}

func field(doc map[string]any, key string) string {
	return cast.ToString(doc[key])
}

// flag reads an optional boolean. An absent key is false; a value that does
// not parse as a boolean is rejected rather than read as false.
func flag(doc map[string]any, key string) (bool, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return false, nil
	}
	value, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrMalformedField, key, err)
	}
	return value, nil
}
