package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"push-service/internal/models"
	"time"

	"github.com/jmoiron/sqlx"
)

type PostgresProfileRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewPostgresProfileRepository(db *sqlx.DB, timeout time.Duration) IProfileRepository {
	return &PostgresProfileRepository{
		db:      db,
		timeout: timeout,
	}
}

func (r *PostgresProfileRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var profiles []models.UserProfile
	query := `SELECT id, COALESCE(fcm_token, '') AS fcm_token FROM users`
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list user tokens: %w", err)
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var profile models.UserProfile
	query := `SELECT id, COALESCE(fcm_token, '') AS fcm_token FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return &profile, nil
}
