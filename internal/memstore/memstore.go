// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memstore keeps accounts and posts in memory for tests.

It implements the same repository contracts as the Postgres stores,
including the all-or-nothing coupling between a post and its creator's post
collection.
*/
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/quill/internal/feed"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/users/auth"
)

type postRow struct {
	post feed.Post
	seq  int64
}

// Store holds all records behind one mutex.
type Store struct {
	mu      sync.Mutex
	users   map[string]*auth.User
	byEmail map[string]string
	posts   map[string]*postRow
	seq     int64
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]*auth.User),
		byEmail: make(map[string]string),
		posts:   make(map[string]*postRow),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the account view of the store.
func (store *Store) Users() *Users { return &Users{store: store} }

// Posts returns the post view of the store.
func (store *Store) Posts() *Posts { return &Posts{store: store} }

func cloneUser(user *auth.User) *auth.User {
	clone := *user
	clone.PostIDs = slices.Clone(user.PostIDs)
	return &clone
}

// # Accounts

// Users implements auth.UserRepository and account.AccountRepository.
type Users struct {
	store *Store
}

// Create stores a new account; a taken email yields auth.ErrDuplicateEmail.
func (users *Users) Create(_ context.Context, user *auth.User) error {
	store := users.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, taken := store.byEmail[user.Email]; taken {
		return auth.ErrDuplicateEmail
	}

	now := store.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.PostIDs == nil {
		user.PostIDs = []string{}
	}

	store.users[user.ID] = cloneUser(user)
	store.byEmail[user.Email] = user.ID
	return nil
}

// FindByEmail retrieves an account by email.
func (users *Users) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store := users.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id, ok := store.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return cloneUser(store.users[id]), nil
}

// FindByID retrieves an account by ID.
func (users *Users) FindByID(_ context.Context, id string) (*auth.User, error) {
	store := users.store
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return cloneUser(user), nil
}

// UpdateStatus overwrites an account's status.
func (users *Users) UpdateStatus(_ context.Context, id, status string) (*auth.User, error) {
	store := users.store
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Status = status
	user.UpdatedAt = store.now()
	return cloneUser(user), nil
}

// # Posts

// Posts implements feed.Repository.
type Posts struct {
	store *Store
}

func (posts *Posts) hydrate(row *postRow) *feed.Post {
	post := row.post
	if creator, ok := posts.store.users[post.Creator.ID]; ok {
		post.Creator.Name = creator.Name
	}
	return &post
}

// Count returns the number of stored posts.
func (posts *Posts) Count(context.Context) (int, error) {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	return len(store.posts), nil
}

// List returns a window of posts in the requested order.
func (posts *Posts) List(_ context.Context, order feed.Order, limit, offset int) ([]*feed.Post, error) {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	rows := make([]*postRow, 0, len(store.posts))
	for _, row := range store.posts {
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if order == feed.OrderNewest {
			if !rows[i].post.CreatedAt.Equal(rows[j].post.CreatedAt) {
				return rows[i].post.CreatedAt.After(rows[j].post.CreatedAt)
			}
			return rows[i].seq > rows[j].seq
		}
		return rows[i].seq < rows[j].seq
	})

	result := []*feed.Post{}
	for index := offset; index < len(rows) && len(result) < limit; index++ {
		result = append(result, posts.hydrate(rows[index]))
	}
	return result, nil
}

// FindByID retrieves a post.
func (posts *Posts) FindByID(_ context.Context, id string) (*feed.Post, error) {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	return posts.hydrate(row), nil
}

// FindByIDs retrieves posts in the order of ids, skipping missing ones.
func (posts *Posts) FindByIDs(_ context.Context, ids []string) ([]*feed.Post, error) {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	result := []*feed.Post{}
	for _, id := range ids {
		if row, ok := store.posts[id]; ok {
			result = append(result, posts.hydrate(row))
		}
	}
	return result, nil
}

// Create stores the post and appends it to the creator's collection.
func (posts *Posts) Create(_ context.Context, post *feed.Post) error {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	creator, ok := store.users[post.Creator.ID]
	if !ok {
		return apperr.NotFound("User")
	}

	now := store.now()
	post.CreatedAt = now
	post.UpdatedAt = now

	store.seq++
	store.posts[post.ID] = &postRow{post: *post, seq: store.seq}
	creator.PostIDs = append(creator.PostIDs, post.ID)
	return nil
}

// Update overwrites title, content and image.
func (posts *Posts) Update(_ context.Context, post *feed.Post) error {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.posts[post.ID]
	if !ok {
		return apperr.NotFound("Post")
	}

	post.UpdatedAt = store.now()
	row.post.Title = post.Title
	row.post.Content = post.Content
	row.post.ImageURL = post.ImageURL
	row.post.UpdatedAt = post.UpdatedAt
	return nil
}

// Delete removes the post and pulls it from the creator's collection.
func (posts *Posts) Delete(_ context.Context, post *feed.Post) error {
	store := posts.store
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.posts[post.ID]
	if !ok {
		return apperr.NotFound("Post")
	}

	delete(store.posts, post.ID)
	if creator, ok := store.users[row.post.Creator.ID]; ok {
		creator.PostIDs = slices.DeleteFunc(creator.PostIDs, func(id string) bool { return id == post.ID })
	}
	return nil
}
