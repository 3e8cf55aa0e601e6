package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "github.com/Ambro17/slacker/db/tx"
	"github.com/Ambro17/slacker/models"
)

type PostgresVMsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for vm_ownerships table
var vmOwnershipsColumns = []string{
	"user_id",
	"vm_id",
	"alias",
	"created_at",
}

func NewPostgresVMsRepository(db *sqlx.DB, schema string) *PostgresVMsRepository {
	return &PostgresVMsRepository{db: db, schema: schema}
}

// ReplaceUserVMs drops the user's previous vm aliases and stores the new
// set. Registration is an all-or-nothing overwrite of the dialog input, so
// this must run inside a transaction.
func (r *PostgresVMsRepository) ReplaceUserVMs(
	ctx context.Context,
	userID string,
	vms map[string]string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s.vm_ownerships WHERE user_id = $1`, r.schema)
	if _, err := db.ExecContext(ctx, deleteQuery, userID); err != nil {
		return fmt.Errorf("failed to clear previous vms: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s.vm_ownerships (user_id, vm_id, alias, created_at)
		VALUES ($1, $2, $3, NOW())`, r.schema)

	for alias, vmID := range vms {
		if _, err := db.ExecContext(ctx, insertQuery, userID, vmID, alias); err != nil {
			return fmt.Errorf("failed to save vm alias %q: %w", alias, err)
		}
	}

	return nil
}

// GetUserVMs returns the user's vms as an alias -> vm id map.
func (r *PostgresVMsRepository) GetUserVMs(ctx context.Context, userID string) (map[string]string, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.vm_ownerships
		WHERE user_id = $1`,
		strings.Join(vmOwnershipsColumns, ", "), r.schema)

	var ownerships []*models.VMOwnership
	if err := db.SelectContext(ctx, &ownerships, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user vms: %w", err)
	}

	vms := make(map[string]string, len(ownerships))
	for _, o := range ownerships {
		vms[o.Alias] = o.VMID
	}

	return vms, nil
}
