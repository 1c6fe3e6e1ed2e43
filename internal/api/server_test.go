// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/api"
	"github.com/taibuivan/quill/internal/feed"
	"github.com/taibuivan/quill/internal/graphql"
	"github.com/taibuivan/quill/internal/media"
	"github.com/taibuivan/quill/internal/memstore"
	"github.com/taibuivan/quill/internal/platform/config"
	"github.com/taibuivan/quill/internal/platform/sec"
	"github.com/taibuivan/quill/internal/users/account"
	"github.com/taibuivan/quill/internal/users/auth"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	images  *media.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	tokens, err := sec.NewTokenService("test-secret-0123456789", "quill")
	require.NoError(t, err)

	images, err := media.NewStore(t.TempDir(), 1<<20, logger)
	require.NoError(t, err)

	authService := auth.NewService(store.Users(), tokens, logger)
	accountService := account.NewService(store.Users(), logger)
	feedService := feed.NewService(store.Posts(), store.Users(), nil, images, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)

	cfg := &config.Config{ServerPort: "0", CORSOrigins: "*"}
	server := api.NewServer(ctx, cfg, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Feed:      feed.NewHandler(feedService, images),
		Media:     media.NewHandler(images),
		GraphQL:   graphql.NewHandler(graphql.NewResolver(authService, accountService, feedService), logger),
	})

	return &testServer{t: t, handler: server.Handler(), images: images}
}

func (s *testServer) send(request *http.Request, token string) (int, map[string]any) {
	s.t.Helper()

	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)

	body := map[string]any{}
	if recorder.Body.Len() > 0 && recorder.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(recorder.Body.Bytes(), &body))
	}
	return recorder.Code, body
}

func (s *testServer) json(method, target, token string, payload any) (int, map[string]any) {
	s.t.Helper()

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(s.t, err)
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")
	return s.send(request, token)
}

// signup registers an account and logs it in.
func (s *testServer) signup(email, name string) (token, userID string) {
	s.t.Helper()

	status, body := s.json(http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "name": name, "password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, status, body)

	status, body = s.json(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(s.t, http.StatusOK, status, body)
	return body["token"].(string), body["userId"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = s.json(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadinessDegraded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	}, logger)

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "degraded")
	assert.Contains(t, recorder.Body.String(), "connection refused")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/feed/posts"},
		{http.MethodPost, "/feed/post"},
		{http.MethodGet, "/user/status"},
		{http.MethodPatch, "/user/status"},
		{http.MethodPut, "/post-image"},
	} {
		status, body := s.json(route.method, route.target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, route.target)
		assert.Equal(t, "Not authenticated.", body["message"], route.target)
	}

	status, _ := s.json(http.MethodGet, "/feed/posts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	request := httptest.NewRequest(http.MethodOptions, "/feed/posts", nil)
	request.Header.Set("Origin", "https://blog.example")
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestSignupRules(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@x.com", "Name1")

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"duplicate email", map[string]string{"email": "a@x.com", "name": "Name2", "password": "secret1"}},
		{"short name", map[string]string{"email": "b@x.com", "name": "Nm", "password": "secret1"}},
		{"short password", map[string]string{"email": "b@x.com", "name": "Name2", "password": "abc"}},
		{"invalid email", map[string]string{"email": "b-at-x", "name": "Name2", "password": "secret1"}},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			status, _ := s.json(http.MethodPost, "/auth/signup", "", testCase.payload)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
		})
	}

	status, body := s.json(http.MethodPost, "/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email/password incorrect.", body["message"])
}

func TestPostOwnership(t *testing.T) {
	s := newTestServer(t)
	ownerToken, ownerID := s.signup("a@x.com", "Name1")
	otherToken, _ := s.signup("b@x.com", "Name2")

	status, body := s.json(http.MethodPost, "/feed/post", ownerToken, map[string]string{
		"title": "Post 1", "content": "Some content", "image": "images/a.png",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Post created successfully.", body["message"])

	post := body["post"].(map[string]any)
	postID := post["_id"].(string)
	creator := post["creator"].(map[string]any)
	assert.Equal(t, "Name1", creator["name"])
	assert.Equal(t, ownerID, creator["_id"])

	status, body = s.json(http.MethodDelete, "/feed/post/"+postID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized.", body["message"])

	status, body = s.json(http.MethodPut, "/feed/post/"+postID, otherToken, map[string]string{
		"title": "Hijacked", "content": "Hijacked", "image": "images/a.png",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.json(http.MethodPut, "/feed/post/"+postID, ownerToken, map[string]string{
		"title": "Post 1 edited", "content": "Other content",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "No image picked.", body["message"])

	status, body = s.json(http.MethodPut, "/feed/post/"+postID, ownerToken, map[string]string{
		"title": "Post 1 edited", "content": "Other content", "image": "images/a.png",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Post 1 edited", body["post"].(map[string]any)["title"])

	status, body = s.json(http.MethodGet, "/feed/post/"+postID, otherToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post 1 edited", body["post"].(map[string]any)["title"])

	status, _ = s.json(http.MethodDelete, "/feed/post/"+postID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.json(http.MethodGet, "/feed/post/"+postID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found.", body["message"])

	status, body = s.json(http.MethodGet, "/feed/posts", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No posts found.", body["message"])
}

func TestListPostsInInsertionOrder(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@x.com", "Name1")

	for _, title := range []string{"Post 1", "Post 2", "Post 3"} {
		status, body := s.json(http.MethodPost, "/feed/post", token, map[string]string{
			"title": title, "content": "Some content", "image": "images/a.png",
		})
		require.Equal(t, http.StatusCreated, status, body)
	}

	titles := func(body map[string]any) []string {
		var result []string
		for _, post := range body["posts"].([]any) {
			result = append(result, post.(map[string]any)["title"].(string))
		}
		return result
	}

	status, body := s.json(http.MethodGet, "/feed/posts", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Post 1", "Post 2"}, titles(body))
	assert.EqualValues(t, 3, body["totalItems"])

	status, body = s.json(http.MethodGet, "/feed/posts?page=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Post 3"}, titles(body))

	status, _ = s.json(http.MethodGet, "/feed/posts?page=3", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListPostsPastLastPage(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@x.com", "Name1")

	status, body := s.json(http.MethodPost, "/feed/post", token, map[string]string{
		"title": "Post 1", "content": "Some content", "image": "images/a.png",
	})
	require.Equal(t, http.StatusCreated, status, body)

	for _, page := range []string{"4611686018427387905", "9223372036854775807"} {
		status, body = s.json(http.MethodGet, "/feed/posts?page="+page, token, nil)
		assert.Equal(t, http.StatusNotFound, status, page)
		assert.Equal(t, "No posts found.", body["message"], page)
	}
}

func TestStatusEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@x.com", "Name1")

	status, body := s.json(http.MethodGet, "/user/status", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "I am new!", body["status"])

	status, body = s.json(http.MethodPatch, "/user/status", token, map[string]string{"status": "Writing"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Writing", body["status"])

	_, body = s.json(http.MethodGet, "/user/status", token, nil)
	assert.Equal(t, "Writing", body["status"])
}

func TestImageUploadAndServe(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@x.com", "Name1")

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="Cover.PNG"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPut, "/post-image", &payload)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	status, body := s.send(request, token)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "File stored.", body["message"])

	filePath := body["filePath"].(string)
	assert.Regexp(t, `^images/\d+-\d+-cover\.png$`, filePath)

	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/"+filePath, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "png-bytes", recorder.Body.String())
}

func TestGraphQLMounted(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@x.com", "Name1")

	status, body := s.json(http.MethodPost, "/graphql", token, map[string]string{"query": "{ user { name status } }"})
	require.Equal(t, http.StatusOK, status)

	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "Name1", user["name"])
	assert.Equal(t, "I am new!", user["status"])

	status, body = s.json(http.MethodPost, "/graphql", "", map[string]string{"query": "{ user { name } }"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["errors"])
}
