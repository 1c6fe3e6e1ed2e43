// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for account records.

# Schema Table Mapping
  - users.account: identity, profile and status.
*/
package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for account records.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// FindByID retrieves a user record from the users.account table.
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		auth.UserColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, apperr.NotFound("User"))
	}

	return user, nil
}

/*
UpdateStatus overwrites the status column and refreshes updatedat.

Parameters:
  - ctx: context.Context
  - id: string (UUID)
  - status: string

Returns:
  - *auth.User: The row after the update
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresAccountRepository) UpdateStatus(ctx context.Context, id, status string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Status, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		auth.UserColumns,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		return nil, dberr.Wrap(err, apperr.NotFound("User"))
	}

	return user, nil
}
