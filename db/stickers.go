package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"github.com/Ambro17/slacker/core"
	dbtx "github.com/Ambro17/slacker/db/tx"
	"github.com/Ambro17/slacker/models"
)

type PostgresStickersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for stickers table
var stickersColumns = []string{
	"id",
	"name",
	"image_url",
	"author",
	"created_at",
}

// ErrDuplicateSticker is returned when the sticker name is already taken.
var ErrDuplicateSticker = errors.New("sticker name already taken")

func NewPostgresStickersRepository(db *sqlx.DB, schema string) *PostgresStickersRepository {
	return &PostgresStickersRepository{db: db, schema: schema}
}

func (r *PostgresStickersRepository) CreateSticker(ctx context.Context, sticker *models.Sticker) error {
	db := dbtx.GetTransactional(ctx, r.db)

	if sticker.ID == "" {
		sticker.ID = core.NewID("st")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.stickers (id, name, image_url, author, created_at)
		VALUES ($1, $2, $3, $4, NOW())`, r.schema)

	if _, err := db.ExecContext(ctx, query, sticker.ID, sticker.Name, sticker.ImageURL, sticker.Author); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateSticker
		}
		return fmt.Errorf("failed to create sticker: %w", err)
	}

	return nil
}

func (r *PostgresStickersRepository) GetStickerByName(
	ctx context.Context,
	name string,
) (mo.Option[*models.Sticker], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.stickers
		WHERE name = $1`,
		strings.Join(stickersColumns, ", "), r.schema)

	sticker := &models.Sticker{}
	err := db.QueryRowxContext(ctx, query, name).StructScan(sticker)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Sticker](), nil
		}
		return mo.None[*models.Sticker](), fmt.Errorf("failed to get sticker: %w", err)
	}

	return mo.Some(sticker), nil
}

func (r *PostgresStickersRepository) ListStickers(ctx context.Context) ([]*models.Sticker, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.stickers
		ORDER BY name`,
		strings.Join(stickersColumns, ", "), r.schema)

	var stickers []*models.Sticker
	if err := db.SelectContext(ctx, &stickers, query); err != nil {
		return nil, fmt.Errorf("failed to list stickers: %w", err)
	}

	return stickers, nil
}

// DeleteSticker removes a sticker; only its author may delete it.
// Returns core.ErrNotFound when no sticker matched name and author.
func (r *PostgresStickersRepository) DeleteSticker(ctx context.Context, name, author string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.stickers
		WHERE name = $1 AND author = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, name, author)
	if err != nil {
		return fmt.Errorf("failed to delete sticker: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return core.ErrNotFound
	}

	return nil
}
