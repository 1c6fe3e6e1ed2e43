// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graphql

import (
	"context"
	"errors"

	"github.com/graph-gophers/graphql-go"

	"github.com/taibuivan/quill/internal/feed"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/ctxutil"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/internal/users/account"
	"github.com/taibuivan/quill/internal/users/auth"
	"github.com/taibuivan/quill/pkg/pointer"
)

// Resolver is the root resolver for both RootQuery and RootMutation.
type Resolver struct {
	authService    *auth.Service
	accountService *account.Service
	feedService    *feed.Service
}

// NewResolver constructs the root [Resolver].
func NewResolver(authService *auth.Service, accountService *account.Service, feedService *feed.Service) *Resolver {
	return &Resolver{
		authService:    authService,
		accountService: accountService,
		feedService:    feedService,
	}
}

// # Arguments

type userInputData struct {
	Email    string
	Name     string
	Password string
}

type postInputData struct {
	Title    string
	Content  string
	ImageURL *string
}

func (data postInputData) toInput(keepImage bool) feed.PostInput {
	return feed.PostInput{
		Title:     data.Title,
		Content:   data.Content,
		ImageURL:  pointer.Val(data.ImageURL),
		KeepImage: keepImage,
	}
}

// # Queries

// Login checks the credential shape, then exchanges them for a token.
func (root *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authDataResolver, error) {
	if err := auth.ValidateCredentials(args.Email, args.Password); err != nil {
		return nil, err
	}

	result, err := root.authService.Login(ctx, args.Email, args.Password)
	switch {
	case errors.Is(err, auth.ErrUnknownEmail):
		return nil, apperr.Unauthorized("User not found.").WithCause(err)
	case errors.Is(err, auth.ErrWrongPassword):
		return nil, apperr.Unauthorized("Password invalid.").WithCause(err)
	case err != nil:
		return nil, err
	}

	return &authDataResolver{token: result.Token, userID: result.User.ID}, nil
}

// Posts returns one page of posts, newest first. A missing page reads as 1.
func (root *Resolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*postDataResolver, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}

	page, err := root.feedService.List(ctx, feed.GraphQLListing, int(pointer.Val(args.Page)))
	if err != nil {
		return nil, err
	}

	return &postDataResolver{posts: root.posts(page.Posts), total: page.Total}, nil
}

func (root *Resolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}

	post, err := root.feedService.Get(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return root.post(post), nil
}

// User returns the caller's own account.
func (root *Resolver) User(ctx context.Context) (*userResolver, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := root.accountService.GetUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return root.user(user), nil
}

// # Mutations

func (root *Resolver) CreateUser(ctx context.Context, args struct{ UserInput userInputData }) (*userResolver, error) {
	user, err := root.authService.Signup(ctx, auth.SignupInput{
		Email:    args.UserInput.Email,
		Name:     args.UserInput.Name,
		Password: args.UserInput.Password,
	})
	if err != nil {
		return nil, invalidInput(err)
	}
	return root.user(user), nil
}

func (root *Resolver) CreatePost(ctx context.Context, args struct{ PostInput postInputData }) (*postResolver, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	post, err := root.feedService.Create(ctx, identity, args.PostInput.toInput(false))
	if err != nil {
		return nil, invalidInput(err)
	}
	return root.post(post), nil
}

// UpdatePost keeps the current image when imageUrl is empty or "undefined".
func (root *Resolver) UpdatePost(ctx context.Context, args struct {
	ID        graphql.ID
	PostInput postInputData
}) (*postResolver, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	post, err := root.feedService.Update(ctx, identity, string(args.ID), args.PostInput.toInput(true))
	if err != nil {
		return nil, invalidInput(err)
	}
	return root.post(post), nil
}

func (root *Resolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (*bool, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := root.feedService.Delete(ctx, identity, string(args.ID)); err != nil {
		return nil, err
	}
	return pointer.To(true), nil
}

func (root *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*userResolver, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := root.accountService.UpdateStatus(ctx, identity, args.Status)
	if err != nil {
		return nil, err
	}
	return root.user(user), nil
}

// # Helpers

func requireIdentity(ctx context.Context) (sec.Identity, error) {
	identity, ok := ctxutil.GetIdentity(ctx)
	if !ok {
		return sec.Identity{}, apperr.Unauthorized("Not authenticated.")
	}
	return identity, nil
}

// invalidInput renames rule-based validation failures to "Invalid input.".
// Other errors, including specific 422s such as a taken email, pass through.
func invalidInput(err error) error {
	appError := apperr.As(err)
	if appError == nil || appError.Message != validate.FailedMessage {
		return err
	}

	renamed := apperr.ValidationError("Invalid input.", appError.Details...)
	return renamed.WithCause(err)
}
