// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"

	"github.com/taibuivan/quill/internal/users/auth"
)

// Repository defines the persistence contract for posts.
//
// Lookups return an [apperr.AppError] with status 404 when no row matches.
type Repository interface {
	// Count returns the total number of posts.
	Count(ctx context.Context) (int, error)

	// List returns at most limit posts after skipping offset, in the given order.
	List(ctx context.Context, order Order, limit, offset int) ([]*Post, error)

	// FindByID retrieves a post with its creator summary.
	FindByID(ctx context.Context, id string) (*Post, error)

	// FindByIDs retrieves posts in the order of ids, skipping missing ones.
	FindByIDs(ctx context.Context, ids []string) ([]*Post, error)

	// Create stores the post and appends its ID to the creator's post
	// collection as one unit.
	Create(ctx context.Context, post *Post) error

	// Update overwrites title, content and image of an existing post.
	Update(ctx context.Context, post *Post) error

	// Delete removes the post and pulls its ID from the creator's post
	// collection as one unit.
	Delete(ctx context.Context, post *Post) error
}

// CreatorDirectory resolves the account behind an identity.
type CreatorDirectory interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// Cache is a best-effort store for single posts. Implementations swallow and
// log their own failures; a miss is always safe.
type Cache interface {
	Get(ctx context.Context, id string) (*Post, bool)
	Set(ctx context.Context, post *Post)
	Invalidate(ctx context.Context, id string)
}

// AssetRemover deletes image assets in the background.
type AssetRemover interface {
	Delete(path string)
}

// NopCache is a [Cache] that never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Post, bool) { return nil, false }
func (NopCache) Set(context.Context, *Post)                {}
func (NopCache) Invalidate(context.Context, string)        {}
