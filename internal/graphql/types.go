// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graphql

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go"

	"github.com/taibuivan/quill/internal/feed"
	"github.com/taibuivan/quill/internal/users/auth"
	"github.com/taibuivan/quill/pkg/slice"
)

// # Post

type postResolver struct {
	root *Resolver
	post *feed.Post
}

func (resolver *postResolver) ID() graphql.ID { return graphql.ID(resolver.post.ID) }
func (resolver *postResolver) Title() string { return resolver.post.Title }
func (resolver *postResolver) Content() string { return resolver.post.Content }
func (resolver *postResolver) ImageURL() string { return resolver.post.ImageURL }

func (resolver *postResolver) CreatedAt() string { return isoTime(resolver.post.CreatedAt) }
func (resolver *postResolver) UpdatedAt() string { return isoTime(resolver.post.UpdatedAt) }

// Creator resolves the full account of the post's author.
func (resolver *postResolver) Creator(ctx context.Context) (*userResolver, error) {
	user, err := resolver.root.authService.FindByID(ctx, resolver.post.Creator.ID)
	if err != nil {
		return nil, err
	}
	return resolver.root.user(user), nil
}

// # User

type userResolver struct {
	root *Resolver
	user *auth.User
}

func (resolver *userResolver) ID() graphql.ID { return graphql.ID(resolver.user.ID) }
func (resolver *userResolver) Name() string { return resolver.user.Name }
func (resolver *userResolver) Email() string { return resolver.user.Email }
func (resolver *userResolver) Status() string { return resolver.user.Status }

// Password is always null; the hash never leaves the service.
func (resolver *userResolver) Password() *string { return nil }

// Posts resolves the user's post collection in creation order.
func (resolver *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := resolver.root.feedService.ByIDs(ctx, resolver.user.PostIDs)
	if err != nil {
		return nil, err
	}
	return resolver.root.posts(posts), nil
}

// # Payloads

type authDataResolver struct {
	token  string
	userID string
}

func (resolver *authDataResolver) Token() string { return resolver.token }
func (resolver *authDataResolver) UserID() string { return resolver.userID }

type postDataResolver struct {
	posts []*postResolver
	total int
}

func (resolver *postDataResolver) Posts() []*postResolver { return resolver.posts }
func (resolver *postDataResolver) TotalPosts() int32 { return int32(resolver.total) }

// # Helpers

// isoLayout renders timestamps like JavaScript's Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

func (root *Resolver) post(post *feed.Post) *postResolver {
	return &postResolver{root: root, post: post}
}

func (root *Resolver) posts(posts []*feed.Post) []*postResolver {
	if len(posts) == 0 {
		return []*postResolver{}
	}
	return slice.Map(posts, root.post)
}

func (root *Resolver) user(user *auth.User) *userResolver {
	return &userResolver{root: root, user: user}
}

func isoTime(value time.Time) string {
	return value.UTC().Format(isoLayout)
}
