package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"github.com/Ambro17/slacker/core"
	dbtx "github.com/Ambro17/slacker/db/tx"
	"github.com/Ambro17/slacker/models"
)

type PostgresRetroRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for teams, sprints and retro_items tables
var (
	teamsColumns      = []string{"id", "name", "created_at"}
	sprintsColumns    = []string{"id", "name", "team_id", "running", "start_date"}
	retroItemsColumns = []string{"id", "sprint_id", "author_id", "author", "text", "created_at"}
)

func NewPostgresRetroRepository(db *sqlx.DB, schema string) *PostgresRetroRepository {
	return &PostgresRetroRepository{db: db, schema: schema}
}

func (r *PostgresRetroRepository) GetOrCreateTeam(ctx context.Context, name string) (*models.Team, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.teams
		WHERE name = $1`,
		strings.Join(teamsColumns, ", "), r.schema)

	team := &models.Team{}
	err := db.QueryRowxContext(ctx, query, name).StructScan(team)
	if err == nil {
		return team, nil
	}
	if !strings.Contains(err.Error(), "no rows") {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s.teams (id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING %s`, r.schema, strings.Join(teamsColumns, ", "))

	created := &models.Team{}
	if err := db.QueryRowxContext(ctx, insert, core.NewID("team"), name).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return created, nil
}

func (r *PostgresRetroRepository) GetTeamByName(ctx context.Context, name string) (mo.Option[*models.Team], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.teams
		WHERE name = $1`,
		strings.Join(teamsColumns, ", "), r.schema)

	team := &models.Team{}
	err := db.QueryRowxContext(ctx, query, name).StructScan(team)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Team](), nil
		}
		return mo.None[*models.Team](), fmt.Errorf("failed to get team by name: %w", err)
	}

	return mo.Some(team), nil
}

// CreateSprint starts a new running sprint for a team.
func (r *PostgresRetroRepository) CreateSprint(ctx context.Context, name, teamID string) (*models.Sprint, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.sprints (id, name, team_id, running, start_date)
		VALUES ($1, $2, $3, true, NOW())
		RETURNING %s`, r.schema, strings.Join(sprintsColumns, ", "))

	sprint := &models.Sprint{}
	if err := db.QueryRowxContext(ctx, query, core.NewID("sprint"), name, teamID).StructScan(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}

	return sprint, nil
}

// GetActiveSprint returns the running sprint for the team, if any. At most
// one sprint runs per team at a time.
func (r *PostgresRetroRepository) GetActiveSprint(ctx context.Context, teamID string) (mo.Option[*models.Sprint], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.sprints
		WHERE team_id = $1 AND running = true`,
		strings.Join(sprintsColumns, ", "), r.schema)

	sprint := &models.Sprint{}
	err := db.QueryRowxContext(ctx, query, teamID).StructScan(sprint)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Sprint](), nil
		}
		return mo.None[*models.Sprint](), fmt.Errorf("failed to get active sprint: %w", err)
	}

	return mo.Some(sprint), nil
}

func (r *PostgresRetroRepository) EndSprint(ctx context.Context, sprintID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.sprints
		SET running = false
		WHERE id = $1 AND running = true`, r.schema)

	result, err := db.ExecContext(ctx, query, sprintID)
	if err != nil {
		return fmt.Errorf("failed to end sprint: %w", err)
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

func (r *PostgresRetroRepository) AddRetroItem(ctx context.Context, item *models.RetroItem) error {
	db := dbtx.GetTransactional(ctx, r.db)

	if item.ID == "" {
		item.ID = core.NewID("ri")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.retro_items (id, sprint_id, author_id, author, text, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`, r.schema)

	if _, err := db.ExecContext(ctx, query, item.ID, item.SprintID, item.AuthorID, item.Author, item.Text); err != nil {
		return fmt.Errorf("failed to add retro item: %w", err)
	}

	return nil
}

func (r *PostgresRetroRepository) ListSprintItems(ctx context.Context, sprintID string) ([]*models.RetroItem, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.retro_items
		WHERE sprint_id = $1
		ORDER BY created_at`,
		strings.Join(retroItemsColumns, ", "), r.schema)

	var items []*models.RetroItem
	if err := db.SelectContext(ctx, &items, query, sprintID); err != nil {
		return nil, fmt.Errorf("failed to list retro items: %w", err)
	}

	return items, nil
}
