package stickers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/samber/mo"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/models"
)

type StickersService struct {
	stickersRepo *db.PostgresStickersRepository
}

func NewStickersService(repo *db.PostgresStickersRepository) *StickersService {
	return &StickersService{stickersRepo: repo}
}

func (s *StickersService) AddSticker(ctx context.Context, name, imageURL, author string) error {
	log.Printf("📋 Starting to add sticker %s by %s", name, author)

	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return core.NewDomainError(core.KindBadUsage, "`%s` does not look like an image url", imageURL)
	}

	err = s.stickersRepo.CreateSticker(ctx, &models.Sticker{
		Name:     name,
		ImageURL: imageURL,
		Author:   author,
	})
	if errors.Is(err, db.ErrDuplicateSticker) {
		return core.NewDomainError(core.KindDuplicate,
			"Something went wrong. Is the sticker name `%s` taken already?", name)
	}
	if err != nil {
		return fmt.Errorf("failed to add sticker: %w", err)
	}

	log.Printf("📋 Completed successfully - sticker %s saved", name)
	return nil
}

func (s *StickersService) GetStickerByName(ctx context.Context, name string) (mo.Option[*models.Sticker], error) {
	return s.stickersRepo.GetStickerByName(ctx, name)
}

func (s *StickersService) ListStickers(ctx context.Context) ([]*models.Sticker, error) {
	return s.stickersRepo.ListStickers(ctx)
}

// DeleteSticker removes the sticker. Only the author can delete it; anyone
// else gets the same not-found reply to avoid leaking authorship.
func (s *StickersService) DeleteSticker(ctx context.Context, name, author string) error {
	err := s.stickersRepo.DeleteSticker(ctx, name, author)
	if errors.Is(err, core.ErrNotFound) {
		return core.NewDomainError(core.KindUnknownTarget, "No sticker found under `%s`", name)
	}
	if err != nil {
		return fmt.Errorf("failed to delete sticker: %w", err)
	}

	log.Printf("📋 Sticker %s deleted by %s", name, author)
	return nil
}
