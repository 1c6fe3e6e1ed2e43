// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/platform/validate"
	"github.com/taibuivan/quill/pkg/pagination"
	"github.com/taibuivan/quill/pkg/uuid"
)

// undefinedImage is the literal some clients send when no new image was picked.
const undefinedImage = "undefined"

// Service implements the post use cases shared by the REST and GraphQL surfaces.
type Service struct {
	posts    Repository
	creators CreatorDirectory
	cache    Cache
	assets   AssetRemover
	logger   *slog.Logger
}

// NewService constructs a [Service]. A nil cache disables caching.
func NewService(posts Repository, creators CreatorDirectory, cache Cache, assets AssetRemover, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{
		posts:    posts,
		creators: creators,
		cache:    cache,
		assets:   assets,
		logger:   logger,
	}
}

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string

	// KeepImage keeps the current image when ImageURL is empty or "undefined"
	// instead of rejecting the update.
	KeepImage bool
}

func (input PostInput) normalize() PostInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	return input
}

// validate checks title and content lengths.
func (input PostInput) validate() error {
	validator := &validate.Validator{}
	validator.MinLen(FieldTitle, input.Title, MinTitleLength).
		MinLen(FieldContent, input.Content, MinContentLength).
		MaxLen(FieldContent, input.Content, MaxContentLength)

	return validator.Err()
}

// # Queries

/*
List returns one page of posts.

Description: The page size is fixed; pages below 1 are read as page 1. The
listing variant decides the order and whether an empty page is a 404.

Returns:
  - *Page: posts of the page and the total post count
  - error: 404 "No posts found." for empty pages under [RESTListing]
*/
func (service *Service) List(ctx context.Context, listing Listing, page int) (*Page, error) {
	params := pagination.Page(page)

	total, err := service.posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed_service_count_failed: %w", err)
	}

	posts, err := service.posts.List(ctx, listing.Order, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("feed_service_list_failed: %w", err)
	}

	if listing.EmptyIsNotFound && len(posts) == 0 {
		return nil, apperr.NotFoundMessage("No posts found.")
	}

	if posts == nil {
		posts = []*Post{}
	}

	return &Page{Posts: posts, Total: total}, nil
}

// Get returns a single post, served from the cache when possible.
func (service *Service) Get(ctx context.Context, id string) (*Post, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Post")
	}

	if post, ok := service.cache.Get(ctx, id); ok {
		return post, nil
	}

	post, err := service.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	service.cache.Set(ctx, post)
	return post, nil
}

// ByIDs returns the posts with the given IDs in the same order.
func (service *Service) ByIDs(ctx context.Context, ids []string) ([]*Post, error) {
	if len(ids) == 0 {
		return []*Post{}, nil
	}
	return service.posts.FindByIDs(ctx, ids)
}

// # Commands

/*
Create stores a new post owned by the caller.

Description: Validates the input, resolves the caller's account and stores
the post together with the creator collection update.

Returns:
  - *Post: the stored post with its creator summary
  - error: 422 validation, 401 "Invalid user." when the account is gone
*/
func (service *Service) Create(ctx context.Context, identity sec.Identity, input PostInput) (*Post, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.ImageURL == "" {
		return nil, validate.RequiredError(FieldImage, "No image provided.")
	}

	creator, err := service.creators.FindByID(ctx, identity.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid user.")
		}
		return nil, fmt.Errorf("feed_service_creator_lookup_failed: %w", err)
	}

	post := &Post{
		ID:       uuid.New(),
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		Creator:  Creator{ID: creator.ID, Name: creator.Name},
	}

	if err := service.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("feed_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "post_created",
		slog.String("post_id", post.ID),
		slog.String("user_id", identity.UserID),
	)

	return post, nil
}

/*
Update overwrites a post owned by the caller.

Description: Existence is checked first (404), then ownership (403), then
the input (422). When the image changes, the previous asset is scheduled for
deletion after the write succeeds.

Returns:
  - *Post: the updated post
  - error: 404 "Post not found.", 403 "Not authorized.", 422 validation
*/
func (service *Service) Update(ctx context.Context, identity sec.Identity, id string, input PostInput) (*Post, error) {
	post, err := service.findOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	imageURL := input.ImageURL
	if imageURL == "" || imageURL == undefinedImage {
		if !input.KeepImage {
			return nil, validate.RequiredError(FieldImage, "No image picked.")
		}
		imageURL = post.ImageURL
	}

	previousImage := post.ImageURL

	updated := *post
	updated.Title = input.Title
	updated.Content = input.Content
	updated.ImageURL = imageURL

	if err := service.posts.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("feed_service_update_failed: %w", err)
	}

	service.cache.Invalidate(ctx, id)

	if previousImage != imageURL {
		service.assets.Delete(previousImage)
	}

	service.logger.InfoContext(ctx, "post_updated",
		slog.String("post_id", id),
		slog.Bool("image_replaced", previousImage != imageURL),
	)

	return &updated, nil
}

/*
Delete removes a post owned by the caller.

Description: Same 404/403 rules as [Service.Update]. The post row and the
creator collection entry go in one transaction; the image asset is scheduled
for deletion afterwards.

Returns:
  - *Post: the post as it was before deletion
*/
func (service *Service) Delete(ctx context.Context, identity sec.Identity, id string) (*Post, error) {
	post, err := service.findOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := service.posts.Delete(ctx, post); err != nil {
		return nil, fmt.Errorf("feed_service_delete_failed: %w", err)
	}

	service.cache.Invalidate(ctx, id)
	service.assets.Delete(post.ImageURL)

	service.logger.InfoContext(ctx, "post_deleted",
		slog.String("post_id", id),
		slog.String("user_id", identity.UserID),
	)

	return post, nil
}

// findOwned loads a post from storage and checks that identity created it.
func (service *Service) findOwned(ctx context.Context, identity sec.Identity, id string) (*Post, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Post")
	}

	post, err := service.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.OwnedBy(identity.UserID) {
		return nil, apperr.Forbidden("Not authorized.")
	}

	return post, nil
}
