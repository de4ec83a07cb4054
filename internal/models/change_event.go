package models

type EventKind string

const (
	KindEventCreated         EventKind = "event-created"
	KindMessageCreated       EventKind = "message-created"
	KindMessageStatusChanged EventKind = "message-status-changed"
)

// ChangeEvent is one observed mutation of the document store. The set of
// implementations is closed: EventCreated, MessageCreated and
// MessageStatusChanged.
type ChangeEvent interface {
	Kind() EventKind
	isChangeEvent()
}

// EventCreated fires when a record is added to the events collection.
type EventCreated struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	IsPrivate bool   `json:"is_private"`
}

// MessageCreated fires when a record is added to a conversation's message list.
type MessageCreated struct {
	DialogID   string `json:"dialog_id"`
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
}

// MessageStatusChanged fires on every update of a message record, whether or
// not the delivery status actually moved.
type MessageStatusChanged struct {
	DialogID       string `json:"dialog_id"`
	MessageID      string `json:"message_id"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	ReceiverID     string `json:"receiver_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

func (EventCreated) Kind() EventKind         { return KindEventCreated }
func (MessageCreated) Kind() EventKind       { return KindMessageCreated }
func (MessageStatusChanged) Kind() EventKind { return KindMessageStatusChanged }

func (EventCreated) isChangeEvent()         {}
func (MessageCreated) isChangeEvent()       {}
func (MessageStatusChanged) isChangeEvent() {}

// StatusChanged reports whether the update moved the message to a new status.
func (e MessageStatusChanged) StatusChanged() bool {
	return e.PreviousStatus != e.NewStatus
}

// Value returns the value form of event. Pointers to the concrete event types
// also satisfy ChangeEvent; they are dereferenced here, and a nil pointer
// becomes a nil event.
func Value(event ChangeEvent) ChangeEvent {
	switch e := event.(type) {
	case *EventCreated:
		if e == nil {
			return nil
		}
		return *e
	case *MessageCreated:
		if e == nil {
			return nil
		}
		return *e
	case *MessageStatusChanged:
		if e == nil {
			return nil
		}
		return *e
	default:
		return event
	}
}
