package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/config"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/models"
)

// LoadTestConfig loads the database configuration used by integration
// tests from environment variables.
func LoadTestConfig() (*config.AppConfig, error) {
	_ = godotenv.Load("../.env.test") // From package directories
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// CreateTestUser creates a user with a unique slack id to avoid
// constraint violations across test runs.
func CreateTestUser(t *testing.T, usersRepo *db.PostgresUsersRepository) *models.User {
	t.Helper()
	user, err := usersRepo.CreateUser(context.Background(), &models.User{
		SlackID:   "U" + uuid.New().String(),
		FirstName: "Test",
		LastName:  "User",
		RealName:  "Test User",
		Timezone:  "America/Argentina/Buenos_Aires",
	})
	require.NoError(t, err, "Failed to create test user")
	return user
}

// CreateTestPoll creates a poll with two options owned by the given author.
func CreateTestPoll(t *testing.T, pollsRepo *db.PostgresPollsRepository, author string) *models.Poll {
	t.Helper()
	poll, err := models.ParsePoll(fmt.Sprintf("poll-%s? yes no", uuid.New().String()), author)
	require.NoError(t, err, "Failed to parse test poll")
	require.NoError(t, pollsRepo.CreatePoll(context.Background(), poll), "Failed to create test poll")
	return poll
}

// CreateTestSticker stores a sticker with a unique name.
func CreateTestSticker(t *testing.T, stickersRepo *db.PostgresStickersRepository, author string) *models.Sticker {
	t.Helper()
	sticker := &models.Sticker{
		Name:     "sticker-" + uuid.New().String(),
		ImageURL: "https://i.imgur.com/test.png",
		Author:   author,
	}
	require.NoError(t, stickersRepo.CreateSticker(context.Background(), sticker), "Failed to create test sticker")
	return sticker
}
