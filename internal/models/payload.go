package models

// Data keys and type discriminators read by the mobile client.
const (
	DataKeyType           = "type"
	DataKeyEventID        = "eventId"
	DataKeyConversationID = "conversationId"
	DataKeyDialogID       = "dialogId"
	DataKeyMessageID      = "messageId"
	DataKeySender         = "sender"
	DataKeySenderID       = "senderId"
	DataKeyReceiverID     = "receiverId"
	DataKeyMessageStatus  = "messageStatus"
	DataKeyStatus         = "status"

	DataTypeEvent         = "event"
	DataTypeMessage       = "message"
	DataTypeMessageStatus = "messageStatus"
)

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationPayload is what gets pushed to every recipient token.
// A nil Notification means a data-only push with no banner.
type NotificationPayload struct {
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data"`
}

func (p NotificationPayload) IsDataOnly() bool {
	return p.Notification == nil
}
