package models

type RecipientKind int

const (
	RecipientNone RecipientKind = iota
	RecipientBroadcast
	RecipientDirect
)

func (k RecipientKind) String() string {
	switch k {
	case RecipientBroadcast:
		return "broadcast"
	case RecipientDirect:
		return "direct"
	default:
		return "none"
	}
}

// Recipients is the resolved delivery target of one change event.
// Direct always carries exactly one token; Broadcast carries zero or more.
type Recipients struct {
	Kind   RecipientKind
	Tokens []string
}

func NoRecipients() Recipients {
	return Recipients{Kind: RecipientNone}
}

func BroadcastTo(tokens []string) Recipients {
	return Recipients{Kind: RecipientBroadcast, Tokens: tokens}
}

func DirectTo(token string) Recipients {
	return Recipients{Kind: RecipientDirect, Tokens: []string{token}}
}

func (r Recipients) IsNone() bool {
	return r.Kind == RecipientNone
}

// UserProfile is the part of a user profile record the dispatcher cares about.
// An empty FCMToken means the user never registered a device.
type UserProfile struct {
	ID       string `json:"id" db:"id"`
	FCMToken string `json:"fcm_token" db:"fcm_token"`
}
