// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/respond"
)

// Field names of the upload endpoint.
const (
	FieldImage    = "image"
	FieldOldPath  = "oldPath"
	FieldFilePath = "filePath"
	FieldMessage  = "message"
)

// Handler exposes image upload and static serving.
type Handler struct {
	store *Store
}

// NewHandler constructs a new [Handler].
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// UploadRoutes returns the authenticated upload routes.
//
// # Endpoints
//   - PUT / : Stores the "image" file, optionally deleting "oldPath".
func (handler *Handler) UploadRoutes() chi.Router {
	router := chi.NewRouter()
	router.Put("/", handler.upload)
	return router
}

// Static serves stored images; mount it under "/images". Directory
// listings are not served.
func (handler *Handler) Static() http.Handler {
	files := http.StripPrefix("/"+PublicPrefix, http.FileServer(http.Dir(handler.store.Dir())))

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasSuffix(request.URL.Path, "/") {
			http.NotFound(writer, request)
			return
		}
		files.ServeHTTP(writer, request)
	})
}

// UploadError classifies a failed upload: oversized bodies are a 422, the
// rest are internal errors.
func UploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.ValidationError("File too large.", apperr.FieldError{
			Field:   FieldImage,
			Message: fmt.Sprintf("Maximum %d bytes", tooLarge.Limit),
		})
	}
	return apperr.Internal(err)
}

// LimitBody caps the request body at the store's upload limit.
func (store *Store) LimitBody(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, store.maxBytes)
}

/*
upload stores a single image for later use by a post.

PUT /post-image

Response:
  - 200: {message: "No file provided."} when no acceptable file was sent
  - 201: {message: "File stored.", filePath}
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	handler.store.LimitBody(writer, request)

	filePath, err := handler.store.SaveFormFile(request, FieldImage)
	if err != nil {
		respond.Error(writer, request, UploadError(err))
		return
	}

	if filePath == "" {
		respond.OK(writer, map[string]string{FieldMessage: "No file provided."})
		return
	}

	if oldPath := request.FormValue(FieldOldPath); oldPath != "" {
		handler.store.Delete(oldPath)
	}

	respond.Created(writer, map[string]string{
		FieldMessage:  "File stored.",
		FieldFilePath: filePath,
	})
}
