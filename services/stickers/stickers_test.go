package stickers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/testutils"
)

func setupTestService(t *testing.T) (*StickersService, *db.PostgresStickersRepository, *db.PostgresUsersRepository, func()) {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to create database connection")

	stickersRepo := db.NewPostgresStickersRepository(dbConn, cfg.DatabaseSchema)
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	service := NewStickersService(stickersRepo)

	cleanup := func() {
		dbConn.Close()
	}

	return service, stickersRepo, usersRepo, cleanup
}

func TestStickersService(t *testing.T) {
	service, stickersRepo, usersRepo, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("AddSticker", func(t *testing.T) {
		t.Run("RejectsNonURL", func(t *testing.T) {
			err := service.AddSticker(ctx, "broken", "not a url", "U1")

			require.Error(t, err)
			domainErr, ok := core.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, core.KindBadUsage, domainErr.Kind)
		})

		t.Run("RejectsDuplicateName", func(t *testing.T) {
			sticker := testutils.CreateTestSticker(t, stickersRepo, "U1")

			err := service.AddSticker(ctx, sticker.Name, "https://i.imgur.com/other.png", "U2")

			require.Error(t, err)
			domainErr, ok := core.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, core.KindDuplicate, domainErr.Kind)
		})
	})

	t.Run("DeleteSticker", func(t *testing.T) {
		t.Run("OnlyAuthorCanDelete", func(t *testing.T) {
			author := testutils.CreateTestUser(t, usersRepo)
			sticker := testutils.CreateTestSticker(t, stickersRepo, author.SlackID)

			// Anyone else gets the same not-found reply.
			err := service.DeleteSticker(ctx, sticker.Name, "U_not_the_author")
			require.Error(t, err)
			domainErr, ok := core.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, core.KindUnknownTarget, domainErr.Kind)

			require.NoError(t, service.DeleteSticker(ctx, sticker.Name, author.SlackID))

			fetched, err := service.GetStickerByName(ctx, sticker.Name)
			require.NoError(t, err)
			assert.False(t, fetched.IsPresent())
		})

		t.Run("UnknownSticker", func(t *testing.T) {
			err := service.DeleteSticker(ctx, "never-added", "U1")

			require.Error(t, err)
			domainErr, ok := core.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, core.KindUnknownTarget, domainErr.Kind)
		})
	})
}
