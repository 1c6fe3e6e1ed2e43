// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned by [UserRepository.Create] when the email is
// already held by another account.
var ErrDuplicateEmail = errors.New("auth: email already registered")

// UserRepository defines the persistence contract for user accounts.
//
// Lookups return an [apperr.AppError] with status 404 when no row matches.
type UserRepository interface {
	// Create persists a new user. It returns [ErrDuplicateEmail] when the
	// unique email constraint rejects the row.
	Create(ctx context.Context, user *User) error

	// FindByEmail retrieves a user by exact email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id string) (*User, error)
}
