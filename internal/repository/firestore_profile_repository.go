package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-service/internal/models"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreProfileRepository struct {
	client     *firestore.Client
	collection string
	tokenField string
	timeout    time.Duration
}

func NewFirestoreProfileRepository(client *firestore.Client, collection, tokenField string, timeout time.Duration) IProfileRepository {
	return &FirestoreProfileRepository{
		client:     client,
		collection: collection,
		tokenField: tokenField,
		timeout:    timeout,
	}
}

// GetAll scans the whole users collection. A record with an unreadable token
// is logged and skipped rather than failing the scan.
func (r *FirestoreProfileRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	iter := r.client.Collection(r.collection).Documents(ctx)
	defer iter.Stop()

	profiles, err := collectProfiles(func() (string, map[string]any, error) {
		doc, err := iter.Next()
		if err != nil {
			return "", nil, err
		}
		return doc.Ref.ID, doc.Data(), nil
	}, r.tokenField)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", r.collection, err)
	}
	return profiles, nil
}

func (r *FirestoreProfileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var data map[string]any
	doc, err := r.client.Collection(r.collection).Doc(userID).Get(ctx)
	if err == nil {
		data = doc.Data()
	}
	return profileFromDocument(userID, data, err, r.tokenField)
}

// collectProfiles drains next until iterator.Done.
func collectProfiles(next func() (string, map[string]any, error), tokenField string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	for {
		id, data, err := next()
		if errors.Is(err, iterator.Done) {
			return profiles, nil
		}
		if err != nil {
			return nil, err
		}

		token, err := tokenFromData(data, tokenField)
		if err != nil {
			slog.Warn("Skipping user profile", "user_id", id, "error", err)
			continue
		}
		profiles = append(profiles, models.UserProfile{ID: id, FCMToken: token})
	}
}

// profileFromDocument maps the result of a single document read. NotFound is
// a missing profile, not a failure.
func profileFromDocument(userID string, data map[string]any, err error, tokenField string) (*models.UserProfile, error) {
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	token, err := tokenFromData(data, tokenField)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return &models.UserProfile{ID: userID, FCMToken: token}, nil
}

// tokenFromData reads the token field of a profile document. A missing or
// null field is an unregistered user, not an error.
func tokenFromData(data map[string]any, field string) (string, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return "", nil
	}
	token, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q has type %T", ErrMalformedProfile, field, raw)
	}
	return token, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
