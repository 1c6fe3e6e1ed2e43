// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graphql_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/feed"
	"github.com/taibuivan/quill/internal/graphql"
	"github.com/taibuivan/quill/internal/memstore"
	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/middleware"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/users/account"
	"github.com/taibuivan/quill/internal/users/auth"
)

type nopAssets struct{}

func (nopAssets) Delete(string) {}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string              `json:"message"`
		Status  int                 `json:"status"`
		Data    []apperr.FieldError `json:"data"`
	} `json:"errors"`
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func newClient(t *testing.T) *client {
	t.Helper()

	store := memstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("test-secret-0123456789", "quill")
	require.NoError(t, err)

	authService := auth.NewService(store.Users(), tokens, logger)
	accountService := account.NewService(store.Users(), logger)
	feedService := feed.NewService(store.Posts(), store.Users(), nil, nopAssets{}, logger)

	handler := graphql.NewHandler(graphql.NewResolver(authService, accountService, feedService), logger)
	return &client{t: t, handler: middleware.Authenticate(tokens)(handler.Routes())}
}

func (c *client) do(token, query string, variables map[string]interface{}) (int, gqlResponse) {
	c.t.Helper()

	payload, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	require.NoError(c.t, err)

	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)

	var response gqlResponse
	require.NoError(c.t, json.NewDecoder(recorder.Body).Decode(&response))
	return recorder.Code, response
}

func (c *client) field(response gqlResponse, name string, target interface{}) {
	c.t.Helper()
	require.Empty(c.t, response.Errors)
	require.NoError(c.t, json.Unmarshal(response.Data[name], target))
}

const (
	createUserMutation = `mutation($email: String!, $name: String!, $password: String!) {
		createUser(userInput: {email: $email, name: $name, password: $password}) { _id email status password }
	}`
	loginQuery = `query($email: String!, $password: String!) {
		login(email: $email, password: $password) { token userId }
	}`
	createPostMutation = `mutation($title: String!, $content: String!, $imageUrl: String) {
		createPost(postInput: {title: $title, content: $content, imageUrl: $imageUrl}) {
			_id title imageUrl creator { name posts { title } }
		}
	}`
)

// signup creates an account and returns its token.
func (c *client) signup(email, name string) string {
	c.t.Helper()

	_, response := c.do("", createUserMutation, map[string]interface{}{"email": email, "name": name, "password": "secret1"})
	require.Empty(c.t, response.Errors)

	_, response = c.do("", loginQuery, map[string]interface{}{"email": email, "password": "secret1"})
	var login struct{ Token string }
	c.field(response, "login", &login)
	return login.Token
}

func (c *client) createPost(token, title string) string {
	c.t.Helper()

	_, response := c.do(token, createPostMutation, map[string]interface{}{
		"title": title, "content": "Some content", "imageUrl": "images/a.png",
	})
	var post struct {
		ID string `json:"_id"`
	}
	c.field(response, "createPost", &post)
	return post.ID
}

func TestCreateUserAndLogin(t *testing.T) {
	c := newClient(t)

	status, response := c.do("", createUserMutation, map[string]interface{}{
		"email": "a@x.com", "name": "Name1", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, status)

	var user struct {
		ID       string  `json:"_id"`
		Email    string  `json:"email"`
		Status   string  `json:"status"`
		Password *string `json:"password"`
	}
	c.field(response, "createUser", &user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "I am new!", user.Status)
	assert.Nil(t, user.Password)

	t.Run("invalid input", func(t *testing.T) {
		status, response := c.do("", createUserMutation, map[string]interface{}{
			"email": "not-an-email", "name": "Name2", "password": "secret1",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "Invalid input.", response.Errors[0].Message)
		assert.Equal(t, http.StatusUnprocessableEntity, response.Errors[0].Status)
		assert.NotEmpty(t, response.Errors[0].Data)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, response := c.do("", createUserMutation, map[string]interface{}{
			"email": "a@x.com", "name": "Name2", "password": "secret1",
		})
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "Email already registered.", response.Errors[0].Message)
	})

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
	}{
		{"unknown email", "b@x.com", "secret1", http.StatusUnauthorized, "User not found."},
		{"wrong password", "a@x.com", "secret2", http.StatusUnauthorized, "Password invalid."},
		{"short password", "a@x.com", "abc", http.StatusUnprocessableEntity, "Invalid input."},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			status, response := c.do("", loginQuery, map[string]interface{}{"email": testCase.email, "password": testCase.password})
			assert.Equal(t, testCase.status, status)
			require.Len(t, response.Errors, 1)
			assert.Equal(t, testCase.message, response.Errors[0].Message)
			assert.Equal(t, testCase.status, response.Errors[0].Status)
		})
	}

	_, response = c.do("", loginQuery, map[string]interface{}{"email": "a@x.com", "password": "secret1"})
	var login struct {
		Token  string
		UserID string `json:"userId"`
	}
	c.field(response, "login", &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.UserID)
}

func TestAnonymousCallsAreRejected(t *testing.T) {
	c := newClient(t)

	queries := []string{
		`{ posts { totalPosts } }`,
		`{ user { _id } }`,
		`{ post(id: "0190c2f4-0000-7000-8000-000000000000") { _id } }`,
		`mutation { updateStatus(status: "x") { status } }`,
		`mutation { deletePost(id: "0190c2f4-0000-7000-8000-000000000000") }`,
	}
	for _, query := range queries {
		_, response := c.do("", query, nil)
		require.Len(t, response.Errors, 1, query)
		assert.Equal(t, "Not authenticated.", response.Errors[0].Message)
		assert.Equal(t, http.StatusUnauthorized, response.Errors[0].Status)
	}

	_, response := c.do("forged.token.value", `{ user { _id } }`, nil)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, http.StatusUnauthorized, response.Errors[0].Status)
}

func TestPostLifecycle(t *testing.T) {
	c := newClient(t)
	owner := c.signup("a@x.com", "Name1")
	other := c.signup("b@x.com", "Name2")

	_, response := c.do(owner, createPostMutation, map[string]interface{}{
		"title": "Post 1", "content": "Some content", "imageUrl": "images/a.png",
	})
	var created struct {
		ID       string `json:"_id"`
		ImageURL string `json:"imageUrl"`
		Creator  struct {
			Name  string
			Posts []struct{ Title string }
		}
	}
	c.field(response, "createPost", &created)
	assert.Equal(t, "Name1", created.Creator.Name)
	require.Len(t, created.Creator.Posts, 1)
	assert.Equal(t, "Post 1", created.Creator.Posts[0].Title)

	t.Run("validation", func(t *testing.T) {
		status, response := c.do(owner, createPostMutation, map[string]interface{}{
			"title": "abc", "content": "Some content", "imageUrl": "images/a.png",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "Invalid input.", response.Errors[0].Message)
	})

	update := `mutation($id: ID!, $imageUrl: String) {
		updatePost(id: $id, postInput: {title: "Post 1 edited", content: "New content", imageUrl: $imageUrl}) { title imageUrl }
	}`

	t.Run("non-owner cannot update", func(t *testing.T) {
		status, response := c.do(other, update, map[string]interface{}{"id": created.ID, "imageUrl": "images/b.png"})
		assert.Equal(t, http.StatusForbidden, status)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "Not authorized.", response.Errors[0].Message)
	})

	t.Run("undefined image keeps the current one", func(t *testing.T) {
		_, response := c.do(owner, update, map[string]interface{}{"id": created.ID, "imageUrl": "undefined"})
		var updated struct {
			Title    string
			ImageURL string `json:"imageUrl"`
		}
		c.field(response, "updatePost", &updated)
		assert.Equal(t, "Post 1 edited", updated.Title)
		assert.Equal(t, "images/a.png", updated.ImageURL)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		_, response := c.do(other, `mutation($id: ID!) { deletePost(id: $id) }`, map[string]interface{}{"id": created.ID})
		require.Len(t, response.Errors, 1)
		assert.Equal(t, http.StatusForbidden, response.Errors[0].Status)
	})

	_, response = c.do(owner, `mutation($id: ID!) { deletePost(id: $id) }`, map[string]interface{}{"id": created.ID})
	var deleted bool
	c.field(response, "deletePost", &deleted)
	assert.True(t, deleted)

	status, response := c.do(owner, `query($id: ID!) { post(id: $id) { _id } }`, map[string]interface{}{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, status)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "Post not found.", response.Errors[0].Message)

	_, response = c.do(owner, `{ user { posts { _id } } }`, nil)
	var user struct{ Posts []struct{} }
	c.field(response, "user", &user)
	assert.Empty(t, user.Posts)
}

func TestPostsNewestFirst(t *testing.T) {
	c := newClient(t)
	token := c.signup("a@x.com", "Name1")

	for _, title := range []string{"Post 1", "Post 2", "Post 3"} {
		c.createPost(token, title)
	}

	query := `query($page: Int) { posts(page: $page) { totalPosts posts { title } } }`
	type page struct {
		TotalPosts int
		Posts      []struct{ Title string }
	}

	_, response := c.do(token, query, nil)
	var first page
	c.field(response, "posts", &first)
	assert.Equal(t, 3, first.TotalPosts)
	require.Len(t, first.Posts, 2)
	assert.Equal(t, "Post 3", first.Posts[0].Title)
	assert.Equal(t, "Post 2", first.Posts[1].Title)

	_, response = c.do(token, query, map[string]interface{}{"page": 2})
	var second page
	c.field(response, "posts", &second)
	require.Len(t, second.Posts, 1)
	assert.Equal(t, "Post 1", second.Posts[0].Title)

	status, response := c.do(token, query, map[string]interface{}{"page": 9})
	assert.Equal(t, http.StatusOK, status)
	var empty page
	c.field(response, "posts", &empty)
	assert.Empty(t, empty.Posts)
	assert.Equal(t, 3, empty.TotalPosts)
}

func TestStatus(t *testing.T) {
	c := newClient(t)
	token := c.signup("a@x.com", "Name1")

	_, response := c.do(token, `mutation { updateStatus(status: "Busy writing") { status } }`, nil)
	var updated struct{ Status string }
	c.field(response, "updateStatus", &updated)
	assert.Equal(t, "Busy writing", updated.Status)

	_, response = c.do(token, `{ user { name status } }`, nil)
	var user struct{ Name, Status string }
	c.field(response, "user", &user)
	assert.Equal(t, "Name1", user.Name)
	assert.Equal(t, "Busy writing", user.Status)
}

func TestMalformedRequests(t *testing.T) {
	c := newClient(t)

	status, response := c.do("", `{ posts { `, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, response.Errors)
	assert.Equal(t, http.StatusInternalServerError, response.Errors[0].Status)

	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
