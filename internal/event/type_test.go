package event

import (
	"push-service/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// EVENT CREATED
// ============================================================================

func TestToChangeEvent_EventCreated(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindEventCreated,
		Params: map[string]string{ParamEventID: "e1"},
		Data:   map[string]any{"title": "Meetup", "isPrivate": false},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.Equal(t, models.EventCreated{EventID: "e1", Title: "Meetup"}, change)
}

func TestToChangeEvent_EventCreatedPrivate(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindEventCreated,
		Params: map[string]string{ParamEventID: "e2"},
		Data:   map[string]any{"title": "Secret", "isPrivate": true},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.True(t, change.(models.EventCreated).IsPrivate)
}

func TestToChangeEvent_EventCreatedMissingFieldsFallBackToEmpty(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindEventCreated,
		Params: map[string]string{ParamEventID: "e3"},
		Data:   map[string]any{},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.Equal(t, models.EventCreated{EventID: "e3"}, change)
}

func TestToChangeEvent_EventCreatedPrivacyFromString(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindEventCreated,
		Params: map[string]string{ParamEventID: "e4"},
		Data:   map[string]any{"title": "Secret", "isPrivate": "true"},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.True(t, change.(models.EventCreated).IsPrivate)
}

// ============================================================================
// MESSAGES
// ============================================================================

func TestToChangeEvent_MessageCreated(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindMessageCreated,
		Params: map[string]string{ParamDialogID: "d1", ParamMessageID: "m1"},
		Data: map[string]any{
			"senderId":   "u1",
			"senderName": "Ann",
			"receiverId": "u2",
			"body":       "hi",
		},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.Equal(t, models.MessageCreated{
		DialogID:   "d1",
		MessageID:  "m1",
		SenderID:   "u1",
		SenderName: "Ann",
		ReceiverID: "u2",
		Body:       "hi",
	}, change)
}

func TestToChangeEvent_MessageCreatedNonStringFieldsAreStringified(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindMessageCreated,
		Params: map[string]string{ParamDialogID: "d1", ParamMessageID: "m1"},
		Data:   map[string]any{"senderId": 17, "body": nil},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	created := change.(models.MessageCreated)
	assert.Equal(t, "17", created.SenderID)
	assert.Equal(t, "", created.Body)
	assert.Equal(t, "", created.SenderName)
}

func TestToChangeEvent_MessageStatusChanged(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindMessageStatusChanged,
		Params: map[string]string{ParamDialogID: "d1", ParamMessageID: "m1"},
		Before: map[string]any{"status": "sent", "senderId": "u1"},
		After:  map[string]any{"status": "read", "senderId": "u1", "senderName": "Ann", "receiverId": "u2"},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusChanged{
		DialogID:       "d1",
		MessageID:      "m1",
		SenderID:       "u1",
		SenderName:     "Ann",
		ReceiverID:     "u2",
		PreviousStatus: "sent",
		NewStatus:      "read",
	}, change)
}

func TestToChangeEvent_MessageStatusChangedWithoutBefore(t *testing.T) {
	msg := ChangeMessage{
		Kind:   models.KindMessageStatusChanged,
		Params: map[string]string{ParamDialogID: "d1", ParamMessageID: "m1"},
		After:  map[string]any{"status": "read"},
	}

	change, err := msg.ToChangeEvent()

	require.NoError(t, err)
	assert.True(t, change.(models.MessageStatusChanged).StatusChanged())
}

// ============================================================================
// REJECTED INPUT
// ============================================================================

func TestToChangeEvent_UnknownKind(t *testing.T) {
	_, err := ChangeMessage{Kind: "user-deleted"}.ToChangeEvent()

	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestToChangeEvent_MissingParams(t *testing.T) {
	_, err := ChangeMessage{
		Kind:   models.KindMessageCreated,
		Params: map[string]string{ParamDialogID: "d1"},
		Data:   map[string]any{},
	}.ToChangeEvent()

	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestToChangeEvent_MissingDocument(t *testing.T) {
	_, err := ChangeMessage{
		Kind:   models.KindMessageStatusChanged,
		Params: map[string]string{ParamDialogID: "d1", ParamMessageID: "m1"},
		Before: map[string]any{"status": "sent"},
	}.ToChangeEvent()

	assert.ErrorIs(t, err, ErrMissingDocument)
}

func TestToChangeEvent_UnparseablePrivacyIsRejected(t *testing.T) {
	cases := map[string]any{
		"yes":    "yes",
		"on":     "on",
		"object": map[string]any{},
		"list":   []any{true},
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			change, err := ChangeMessage{
				Kind:   models.KindEventCreated,
				Params: map[string]string{ParamEventID: "e5"},
				Data:   map[string]any{"title": "Secret", "isPrivate": value},
			}.ToChangeEvent()

			assert.ErrorIs(t, err, ErrMalformedField)
			assert.Nil(t, change, "an unreadable privacy flag must never become a public event")
		})
	}
}
