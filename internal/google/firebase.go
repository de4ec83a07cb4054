package google

import (
	"context"
	"fmt"
	"push-service/internal/models"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// messagingClient is the subset of *messaging.Client the service uses.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type FirebaseService struct {
	app    *firebase.App
	client messagingClient
	config *FirebaseConfig
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	BatchSize       int // For batch sending
	Timeout         time.Duration
	AndroidPriority string
	Sound           string
}

func NewFirebaseService(ctx context.Context, cfg *FirebaseConfig) (*FirebaseService, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FirebaseService{
		app:    app,
		client: client,
		config: cfg,
	}, nil
}

// Firestore opens a Firestore client on the same Firebase project.
func (f *FirebaseService) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := f.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return client, nil
}

// SendOne pushes payload to a single device and returns the FCM message id.
func (f *FirebaseService) SendOne(ctx context.Context, token string, payload models.NotificationPayload) (string, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	message := &messaging.Message{
		Token:        token,
		Notification: toFCMNotification(payload),
		Data:         payload.Data,
		Android:      f.androidConfig(payload),
		APNS:         f.apnsConfig(payload),
	}

	response, err := f.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	return response, nil
}

// SendMulticast pushes payload to up to BatchSize tokens in one request and
// returns one outcome per token, in token order.
func (f *FirebaseService) SendMulticast(ctx context.Context, tokens []string, payload models.NotificationPayload) ([]models.DeliveryOutcome, error) {
	if f.config.BatchSize > 0 && len(tokens) > f.config.BatchSize {
		return nil, fmt.Errorf("batch size %d exceeds limit of %d", len(tokens), f.config.BatchSize)
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	message := &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: toFCMNotification(payload),
		Data:         payload.Data,
		Android:      f.androidConfig(payload),
		APNS:         f.apnsConfig(payload),
	}

	response, err := f.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("error sending batch: %w", err)
	}

	outcomes := make([]models.DeliveryOutcome, len(tokens))
	for i, token := range tokens {
		outcomes[i] = toOutcome(token, response, i)
	}
	return outcomes, nil
}

func toOutcome(token string, response *messaging.BatchResponse, i int) models.DeliveryOutcome {
	if response == nil || i >= len(response.Responses) || response.Responses[i] == nil {
		return models.DeliveryOutcome{Token: token, ErrorMessage: "no response for token"}
	}

	resp := response.Responses[i]
	if resp.Success {
		return models.DeliveryOutcome{Token: token, Success: true, MessageID: resp.MessageID}
	}

	message := "unknown error"
	if resp.Error != nil {
		message = resp.Error.Error()
	}
	return models.DeliveryOutcome{Token: token, ErrorMessage: message}
}

func toFCMNotification(payload models.NotificationPayload) *messaging.Notification {
	if payload.IsDataOnly() {
		return nil
	}
	return &messaging.Notification{
		Title: payload.Notification.Title,
		Body:  payload.Notification.Body,
	}
}

func (f *FirebaseService) androidConfig(payload models.NotificationPayload) *messaging.AndroidConfig {
	cfg := &messaging.AndroidConfig{Priority: f.config.AndroidPriority}
	if !payload.IsDataOnly() && f.config.Sound != "" {
		cfg.Notification = &messaging.AndroidNotification{Sound: f.config.Sound}
	}
	return cfg
}

// Data-only pushes must be flagged content-available or iOS drops them while
// the app is in the background.
func (f *FirebaseService) apnsConfig(payload models.NotificationPayload) *messaging.APNSConfig {
	aps := &messaging.Aps{}
	if payload.IsDataOnly() {
		aps.ContentAvailable = true
	} else {
		aps.Sound = f.config.Sound
	}
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{Aps: aps},
	}
}

func (f *FirebaseService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.config.Timeout)
}
