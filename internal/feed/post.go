// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed implements the post lifecycle: listing, reading, creating,
updating and deleting posts, with ownership enforced on every mutation.

# Ownership

A post's creator is fixed at creation. Only the identity whose user ID equals
the creator ID may update or delete it; there is no administrative override.

# Creator Collection

Every account holds the ordered list of post IDs it created. Creating a post
appends its ID and deleting a post removes it, in the same transaction as the
post write.
*/
package feed

import "time"

// # Domain Entities

// Creator is the author summary embedded in every post.
type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Post is a single feed entry.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID created the post.
func (post *Post) OwnedBy(userID string) bool {
	return post.Creator.ID == userID
}

// # Listing Variants

// Order selects the sort order of a post listing.
type Order int

const (
	// OrderInsertion lists posts oldest first, in the order they were stored.
	OrderInsertion Order = iota
	// OrderNewest lists posts by creation time, newest first.
	OrderNewest
)

// Listing configures how a surface pages through posts.
type Listing struct {
	Order Order
	// EmptyIsNotFound turns a page without posts into a 404.
	EmptyIsNotFound bool
}

var (
	// RESTListing is the /feed/posts behavior: insertion order, empty pages are 404.
	RESTListing = Listing{Order: OrderInsertion, EmptyIsNotFound: true}

	// GraphQLListing is the posts query behavior: newest first, empty pages are valid.
	GraphQLListing = Listing{Order: OrderNewest}
)

// Page is one page of posts plus the total number of posts stored.
type Page struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"totalItems"`
}

// # Field Identifiers

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldImage   = "image"
	FieldMessage = "message"
	FieldPost    = "post"
)

// # Constraints

const (
	MinTitleLength   = 5
	MinContentLength = 5
	MaxContentLength = 400
)
