// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package graphql exposes the post and account operations over a single
/graphql endpoint.

# Identity

The endpoint sits behind the soft Authenticate middleware only. Every resolver
except createUser and login checks the caller itself and fails with 401
"Not authenticated." for anonymous requests.

# Errors

Each error is rendered as {"message", "status", "data"}, where status is the
HTTP status of the underlying application error (500 when there is none) and
data carries the field-level validation failures.
*/
package graphql

// schemaSDL is the GraphQL schema served at /graphql.
const schemaSDL = `
schema {
	query: RootQuery
	mutation: RootMutation
}

type Post {
	_id: ID!
	title: String!
	content: String!
	imageUrl: String!
	creator: User!
	createdAt: String!
	updatedAt: String!
}

type User {
	_id: ID!
	name: String!
	email: String!
	password: String
	status: String!
	posts: [Post!]!
}

type AuthData {
	token: String!
	userId: String!
}

type PostData {
	posts: [Post!]!
	totalPosts: Int!
}

input UserInputData {
	email: String!
	name: String!
	password: String!
}

input PostInputData {
	title: String!
	content: String!
	imageUrl: String
}

type RootQuery {
	login(email: String!, password: String!): AuthData!
	posts(page: Int): PostData!
	post(id: ID!): Post!
	user: User!
}

type RootMutation {
	createUser(userInput: UserInputData!): User!
	createPost(postInput: PostInputData!): Post!
	updatePost(id: ID!, postInput: PostInputData!): Post!
	deletePost(id: ID!): Boolean
	updateStatus(status: String!): User!
}
`
