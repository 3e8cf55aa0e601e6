package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "github.com/Ambro17/slacker/db/tx"
	"github.com/Ambro17/slacker/models"
)

type PostgresPollsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for polls table
var pollsColumns = []string{
	"id",
	"question",
	"author",
	"ended",
	"created_at",
}

func NewPostgresPollsRepository(db *sqlx.DB, schema string) *PostgresPollsRepository {
	return &PostgresPollsRepository{db: db, schema: schema}
}

func (r *PostgresPollsRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.polls (id, question, author, ended, created_at)
		VALUES ($1, $2, $3, false, NOW())`, r.schema)

	if _, err := db.ExecContext(ctx, query, poll.ID, poll.Question, poll.Author); err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	optionQuery := fmt.Sprintf(`
		INSERT INTO %s.poll_options (id, poll_id, number, text)
		VALUES ($1, $2, $3, $4)`, r.schema)

	for _, op := range poll.Options {
		if _, err := db.ExecContext(ctx, optionQuery, op.ID, poll.ID, op.Number, op.Text); err != nil {
			return fmt.Errorf("failed to create poll option %d: %w", op.Number, err)
		}
	}

	return nil
}

// GetPollByID loads a poll with its options and per-option vote counts.
func (r *PostgresPollsRepository) GetPollByID(ctx context.Context, pollID string) (mo.Option[*models.Poll], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.polls
		WHERE id = $1`,
		strings.Join(pollsColumns, ", "), r.schema)

	poll := &models.Poll{}
	err := db.QueryRowxContext(ctx, query, pollID).StructScan(poll)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Poll](), nil
		}
		return mo.None[*models.Poll](), fmt.Errorf("failed to get poll: %w", err)
	}

	optionsQuery := fmt.Sprintf(`
		SELECT o.id, o.poll_id, o.number, o.text, COUNT(v.user_id) AS votes
		FROM %s.poll_options o
		LEFT JOIN %s.poll_votes v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.poll_id, o.number, o.text
		ORDER BY o.number`, r.schema, r.schema)

	if err := db.SelectContext(ctx, &poll.Options, optionsQuery, pollID); err != nil {
		return mo.None[*models.Poll](), fmt.Errorf("failed to get poll options: %w", err)
	}

	return mo.Some(poll), nil
}

// HasVoted reports whether the user already voted on any option of the poll.
func (r *PostgresPollsRepository) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s.poll_votes
		WHERE poll_id = $1 AND user_id = $2`, r.schema)

	var count int
	if err := db.GetContext(ctx, &count, query, pollID, userID); err != nil {
		return false, fmt.Errorf("failed to check poll vote: %w", err)
	}

	return count > 0, nil
}

func (r *PostgresPollsRepository) AddVote(ctx context.Context, vote *models.Vote) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.poll_votes (poll_id, option_id, user_id, user_name)
		VALUES ($1, $2, $3, $4)`, r.schema)

	if _, err := db.ExecContext(ctx, query, vote.PollID, vote.OptionID, vote.UserID, vote.UserName); err != nil {
		return fmt.Errorf("failed to add vote: %w", err)
	}

	return nil
}
