// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account enrollment and credential login.

It defines the User entity shared by every package that needs an author,
and the two entry points that create identities: signup and login.

# Architecture

Entities defined here have no transport dependencies. The REST handler in this
package and the GraphQL resolvers both call [Service]; only the error message
shaping differs between the two.
*/
package auth

import (
	"time"
)

// # Domain Entities

// DefaultStatus is the status every new account starts with.
const DefaultStatus = "I am new!"

// User represents a registered author.
//
// PostIDs is the ordered collection of posts the user created. Each post ID
// appears at most once and is removed when the post is deleted.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Status       string    `json:"status"`
	PostIDs      []string  `json:"posts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Field Identifiers

// Field names for validation and response payloads in the authentication domain.
const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldUserID   = "userId"
	FieldMessage  = "message"
)

// # Constraints

const (
	// MinPasswordLength is the minimum trimmed password length.
	MinPasswordLength = 5
	// MinNameLength is the minimum trimmed display name length.
	MinNameLength = 5
)
