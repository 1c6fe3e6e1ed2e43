// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the signed-in user's own record: reading the account
and reading or overwriting its free-text status.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Identity: Every operation takes the caller's [sec.Identity]; a user can
    only ever read or change their own record.
*/
package account

import (
	"context"

	"github.com/taibuivan/quill/internal/users/auth"
)

// # Field Identifiers

const (
	FieldStatus  = "status"
	FieldMessage = "message"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		UpdateStatus overwrites the status of a user and returns the updated record.

		Returns:
		  - *User: Account after the write
		  - error: apperr.NotFound or storage failures
	*/
	UpdateStatus(ctx context.Context, id, status string) (*auth.User, error)
}
