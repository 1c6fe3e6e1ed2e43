// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for the caller's own account.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// GetUser retrieves the caller's account.
func (service *Service) GetUser(ctx context.Context, identity sec.Identity) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, identity.UserID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_get_user_failed: %w", err)
	}
	return user, nil
}

// GetStatus returns the caller's status, or 404 when the account is gone.
func (service *Service) GetStatus(ctx context.Context, identity sec.Identity) (string, error) {
	user, err := service.GetUser(ctx, identity)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

/*
UpdateStatus overwrites the caller's status.

Description: The status is free text and is stored as sent; concurrent
writers are last-writer-wins.

Returns:
  - *auth.User: The account after the write
  - error: 404 when the account is gone, or storage failures
*/
func (service *Service) UpdateStatus(ctx context.Context, identity sec.Identity, status string) (*auth.User, error) {
	user, err := service.accountRepository.UpdateStatus(ctx, identity.UserID, status)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_status_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_status_updated", slog.String("user_id", user.ID))

	return user, nil
}
