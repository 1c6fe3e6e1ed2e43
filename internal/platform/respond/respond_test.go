// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/respond"
)

/*
TestError_AppError renders the classified status and message.
*/
func TestError_AppError(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/feed/post/1", nil)
	recorder := httptest.NewRecorder()

	respond.Error(recorder, request, apperr.NotFound("Post"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "Post not found.", body.Message)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

/*
TestError_Unclassified hides internal details behind a 500.
*/
func TestError_Unclassified(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/feed/posts", nil)
	recorder := httptest.NewRecorder()

	respond.Error(recorder, request, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
}

/*
TestCreated writes the payload without an envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Created(recorder, map[string]string{"message": "Signup successful.", "userId": "u1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"message":"Signup successful.","userId":"u1"}`, recorder.Body.String())
}
