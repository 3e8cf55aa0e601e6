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

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for users table
var usersColumns = []string{
	"id",
	"slack_id",
	"first_name",
	"last_name",
	"real_name",
	"timezone",
	"team_id",
	"ovi_name",
	"ovi_token",
	"created_at",
	"updated_at",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

func (r *PostgresUsersRepository) GetUserBySlackID(
	ctx context.Context,
	slackID string,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE slack_id = $1`,
		strings.Join(usersColumns, ", "), r.schema)

	user := &models.User{}
	err := db.QueryRowxContext(ctx, query, slackID).StructScan(user)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by slack id: %w", err)
	}

	return mo.Some(user), nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	if user.ID == "" {
		user.ID = core.NewID("u")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, slack_id, first_name, last_name, real_name, timezone, team_id, ovi_name, ovi_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s`, r.schema, strings.Join(usersColumns, ", "))

	created := &models.User{}
	err := db.QueryRowxContext(
		ctx, query,
		user.ID, user.SlackID, user.FirstName, user.LastName, user.RealName,
		user.Timezone, user.TeamID, user.OviName, user.OviToken,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (r *PostgresUsersRepository) SetOviCredentials(
	ctx context.Context,
	userID, oviName, oviToken string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.users
		SET ovi_name = $2, ovi_token = $3, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, userID, oviName, oviToken)
	if err != nil {
		return fmt.Errorf("failed to set ovi credentials: %w", err)
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

func (r *PostgresUsersRepository) SetTeam(ctx context.Context, userID, teamID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.users
		SET team_id = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, userID, teamID)
	if err != nil {
		return fmt.Errorf("failed to set user team: %w", err)
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

func (r *PostgresUsersRepository) GetTeamMembers(ctx context.Context, teamID string) ([]*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE team_id = $1
		ORDER BY real_name`,
		strings.Join(usersColumns, ", "), r.schema)

	var users []*models.User
	if err := db.SelectContext(ctx, &users, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}

	return users, nil
}
