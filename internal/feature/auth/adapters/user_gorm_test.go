package adapters

import (
	"context"
	"testing"

	"market_trends/internal/feature/auth/domain/entity"
	"market_trends/internal/feature/auth/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{}, &RevokedToken{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		user := &entity.User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "hashed_password",
		}

		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("duplicate username error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		first := &entity.User{Username: "alice", Email: "a@example.com", Password: "hash1"}
		require.NoError(t, repo.Create(context.Background(), first))

		second := &entity.User{Username: "alice", Email: "other@example.com", Password: "hash2"}
		err := repo.Create(context.Background(), second)

		assert.ErrorIs(t, err, usecase.ErrUsernameAlreadyExists)
	})

	t.Run("same email with different username is allowed", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), &entity.User{Username: "alice", Email: "shared@example.com", Password: "h"}))
		err := repo.Create(context.Background(), &entity.User{Username: "bob", Email: "shared@example.com", Password: "h"})

		assert.NoError(t, err)
	})
}

func TestUserGorm_FindByUsername(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		created := &entity.User{Username: "alice", Email: "alice@example.com", Password: "hashed"}
		require.NoError(t, repo.Create(context.Background(), created))

		found, err := repo.FindByUsername(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "alice@example.com", found.Email)
		assert.Equal(t, "hashed", found.Password)
	})

	t.Run("user not found", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByUsername(context.Background(), "nobody")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found)
	})
}
