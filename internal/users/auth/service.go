// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/uuid"
)

// Login failure causes. Both surface as the same 401 on REST; the GraphQL
// surface reports them separately.
var (
	ErrUnknownEmail  = errors.New("auth: no account for email")
	ErrWrongPassword = errors.New("auth: password mismatch")
)

// # Contracts & Types

// TokenIssuer signs identity tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, error)
}

// Service implements enrollment and login use cases.
type Service struct {
	users  UserRepository
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new author.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// normalize trims the input and lowercases the email.
func (input SignupInput) normalize() SignupInput {
	return SignupInput{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Name:     strings.TrimSpace(input.Name),
		Password: input.Password,
	}
}

// Validate checks the enrollment rules: a valid email, a password of at
// least 5 characters and a name of at least 5 characters.
func (input SignupInput) Validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, MinNameLength)

	return validator.Err()
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: The email is checked for existing accounts first; the unique
constraint in storage catches the race between two concurrent signups.

Parameters:
  - ctx: context.Context
  - input: SignupInput

Returns:
  - *User: Created entity (never carries the plaintext password)
  - error: 422 validation or duplicate email, or storage errors
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	input = input.normalize()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Existence check before the expensive hash.
	_, err := service.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, emailTaken()
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Status:       DefaultStatus,
		PostIDs:      []string{},
	}

	if err := service.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_signed_up", slog.String("user_id", user.ID))

	return user, nil
}

// emailTaken is the 422 returned for an already registered email.
func emailTaken() *apperr.AppError {
	return apperr.ValidationError("Email already registered.", apperr.FieldError{
		Field:   FieldEmail,
		Message: "Email already registered.",
	})
}

// # Authentication Flow

// LoginResult represents a successful credential check.
type LoginResult struct {
	Token string
	User  *User
}

// ValidateCredentials checks the shape of login input: a valid email and a
// password of at least 5 characters. Only the GraphQL surface applies it.
func ValidateCredentials(email, password string) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, strings.TrimSpace(email)).
		MinLen(FieldPassword, password, MinPasswordLength)

	return validator.ErrWithMessage("Invalid input.")
}

/*
Login validates user credentials and issues an identity token.

Description: Unknown emails and wrong passwords both return 401
"Email/password incorrect."; the cause ([ErrUnknownEmail] or
[ErrWrongPassword]) is kept in the error chain.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Signed token valid for one hour plus the user
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, invalidCredentials(ErrUnknownEmail)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalidCredentials(ErrWrongPassword)
	}

	token, err := service.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{Token: token, User: user}, nil
}

func invalidCredentials(cause error) *apperr.AppError {
	return apperr.Unauthorized("Email/password incorrect.").WithCause(cause)
}

// FindByID returns the user with the given ID.
func (service *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return service.users.FindByID(ctx, id)
}
