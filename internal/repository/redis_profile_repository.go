package repository

import (
	"context"
	"errors"
	"fmt"
	"push-service/internal/models"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProfileRepository keeps tokens in a single hash: field = user id,
// value = FCM token.
type RedisProfileRepository struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

func NewRedisProfileRepository(client *redis.Client, key string, timeout time.Duration) IProfileRepository {
	return &RedisProfileRepository{
		client:  client,
		key:     key,
		timeout: timeout,
	}
}

func (r *RedisProfileRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read token hash %s: %w", r.key, err)
	}

	profiles := make([]models.UserProfile, 0, len(entries))
	for userID, token := range entries {
		profiles = append(profiles, models.UserProfile{ID: userID, FCMToken: token})
	}
	return profiles, nil
}

func (r *RedisProfileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	token, err := r.client.HGet(ctx, r.key, userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token of user %s: %w", userID, err)
	}
	return &models.UserProfile{ID: userID, FCMToken: token}, nil
}
