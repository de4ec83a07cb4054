package repository

import (
	"context"
	"push-service/internal/models"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, db *sqlx.DB, users map[string]*string) {
	t.Helper()
	for id, token := range users {
		_, err := db.Exec(`INSERT INTO users (id, fcm_token) VALUES ($1, $2)`, id, token)
		require.NoError(t, err)
	}
}

func ptr(s string) *string { return &s }

func TestPostgresProfileRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, map[string]*string{
		"u1": ptr("T1"),
		"u2": nil,
		"u3": ptr(""),
	})
	repo := NewPostgresProfileRepository(db, 5*time.Second)
	ctx := context.Background()

	t.Run("with token", func(t *testing.T) {
		profile, err := repo.GetByID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, &models.UserProfile{ID: "u1", FCMToken: "T1"}, profile)
	})

	t.Run("null token reads as empty", func(t *testing.T) {
		profile, err := repo.GetByID(ctx, "u2")

		require.NoError(t, err)
		assert.Equal(t, &models.UserProfile{ID: "u2"}, profile)
	})

	t.Run("empty token", func(t *testing.T) {
		profile, err := repo.GetByID(ctx, "u3")

		require.NoError(t, err)
		assert.Equal(t, &models.UserProfile{ID: "u3"}, profile)
	})

	t.Run("missing profile", func(t *testing.T) {
		profile, err := repo.GetByID(ctx, "nobody")

		require.NoError(t, err)
		assert.Nil(t, profile)
	})
}

func TestPostgresProfileRepository_GetAll(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, map[string]*string{
		"u1": ptr("A"),
		"u2": nil,
		"u3": ptr("B"),
	})
	repo := NewPostgresProfileRepository(db, 5*time.Second)

	profiles, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.UserProfile{
		{ID: "u1", FCMToken: "A"},
		{ID: "u2"},
		{ID: "u3", FCMToken: "B"},
	}, profiles)
}

func TestPostgresProfileRepository_GetAllEmptyTable(t *testing.T) {
	repo := NewPostgresProfileRepository(newTestDB(t), 5*time.Second)

	profiles, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestPostgresProfileRepository_StoreFailureIsAnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresProfileRepository(db, 5*time.Second)
	require.NoError(t, db.Close())

	profile, err := repo.GetByID(context.Background(), "u1")
	assert.Error(t, err, "a broken store is not a missing profile")
	assert.Nil(t, profile)

	_, err = repo.GetAll(context.Background())
	assert.Error(t, err)
}
