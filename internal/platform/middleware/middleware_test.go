// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quill/internal/platform/ctxutil"
	"github.com/taibuivan/quill/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

// identityEcho answers 200 with the caller id, or "anonymous".
var identityEcho = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	identity, ok := ctxutil.GetIdentity(request.Context())
	if !ok {
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_, _ = writer.Write([]byte(identity.UserID))
})

/*
TestAuthenticate_Soft verifies that bad credentials never reject a request.
*/
func TestAuthenticate_Soft(t *testing.T) {
	handler := Authenticate(stubVerifier{claims: &sec.AuthClaims{UserID: "u-1"}})(identityEcho)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"wrong scheme", "Basic good", "anonymous"},
		{"empty token", "Bearer ", "anonymous"},
		{"rejected token", "Bearer forged", "anonymous"},
		{"valid token", "Bearer good", "u-1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if testCase.header != "" {
				request.Header.Set("Authorization", testCase.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, testCase.want, recorder.Body.String())
		})
	}
}

/*
TestRequireAuth verifies the REST gate answers 401 for anonymous callers.
*/
func TestRequireAuth(t *testing.T) {
	handler := Authenticate(stubVerifier{claims: &sec.AuthClaims{UserID: "u-1"}})(RequireAuth(identityEcho))

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Contains(t, anonymous.Body.String(), "Not authenticated.")

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	authenticated := httptest.NewRecorder()
	handler.ServeHTTP(authenticated, request)
	assert.Equal(t, http.StatusOK, authenticated.Code)
	assert.Equal(t, "u-1", authenticated.Body.String())
}

/*
TestCORS covers the preflight short-circuit and origin matching.
*/
func TestCORS(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		called = true
	})

	t.Run("preflight", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodOptions, "/feed/posts", nil)
		recorder := httptest.NewRecorder()

		CORS([]string{"*"})(next).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, called)
		assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("listed origin", func(t *testing.T) {
		called = false
		request := httptest.NewRequest(http.MethodGet, "/feed/posts", nil)
		request.Header.Set("Origin", "https://blog.example")
		recorder := httptest.NewRecorder()

		CORS([]string{"https://blog.example"})(next).ServeHTTP(recorder, request)

		assert.True(t, called)
		assert.Equal(t, "https://blog.example", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", recorder.Header().Get("Vary"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/feed/posts", nil)
		request.Header.Set("Origin", "https://evil.example")
		recorder := httptest.NewRecorder()

		CORS([]string{"https://blog.example"})(next).ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}

/*
TestRateLimiter verifies buckets are tracked per client IP.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := NewRateLimiter(ctx, 0.001, 2).Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	serve := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2"))
}

/*
TestPanicRecovery converts a handler panic into a 500.
*/
func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", RealIP(request))
}
