// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quill/internal/media"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
	"github.com/taibuivan/quill/pkg/pagination"
)

// ImageUploader stores images sent with multipart post requests.
type ImageUploader interface {
	LimitBody(writer http.ResponseWriter, request *http.Request)
	SaveFormFile(request *http.Request, field string) (string, error)
	Delete(path string)
}

// Handler implements the /feed endpoints. Every route requires authentication;
// the router mounts it behind middleware.RequireAuth.
type Handler struct {
	feedService *Service
	images      ImageUploader
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, images ImageUploader) *Handler {
	return &Handler{feedService: service, images: images}
}

// Routes returns a [chi.Router] configured with the feed routes.
//
// # Endpoints
//   - GET    /posts?page=N : One page of posts, insertion order.
//   - POST   /post         : Creates a post (multipart with "image" file, or JSON with "image" path).
//   - GET    /post/{id}    : A single post.
//   - PUT    /post/{id}    : Updates a post owned by the caller.
//   - DELETE /post/{id}    : Deletes a post owned by the caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/posts", handler.listPosts)
	router.Post("/post", handler.createPost)
	router.Get("/post/{postID}", handler.getPost)
	router.Put("/post/{postID}", handler.updatePost)
	router.Delete("/post/{postID}", handler.deletePost)

	return router
}

// # Request Payloads

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// readPostInput decodes a multipart or JSON post body. The second return is
// the path of a file stored by this request, if any.
func (handler *Handler) readPostInput(writer http.ResponseWriter, request *http.Request) (PostInput, string, error) {
	if !requestutil.IsMultipart(request) {
		var body postRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			return PostInput{}, "", err
		}
		return PostInput{Title: body.Title, Content: body.Content, ImageURL: body.Image}, "", nil
	}

	handler.images.LimitBody(writer, request)

	uploaded, err := handler.images.SaveFormFile(request, FieldImage)
	if err != nil {
		return PostInput{}, "", media.UploadError(err)
	}

	input := PostInput{
		Title:    request.FormValue(FieldTitle),
		Content:  request.FormValue(FieldContent),
		ImageURL: request.FormValue(FieldImage),
	}
	if uploaded != "" {
		input.ImageURL = uploaded
	}

	return input, uploaded, nil
}

/*
listPosts returns one page of posts.

GET /feed/posts?page=N

Response:
  - 200: {message, posts, totalItems}
  - 404: No posts found.
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	page, err := handler.feedService.List(request.Context(), RESTListing, params.Page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Posts fetched successfully.",
		"posts":      page.Posts,
		"totalItems": page.Total,
	})
}

/*
createPost stores a new post owned by the caller.

POST /feed/post

Response:
  - 201: {message, post}
  - 422: Validation failure or missing image
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, uploaded, err := handler.readPostInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.feedService.Create(request.Context(), identity, input)
	if err != nil {
		handler.images.Delete(uploaded)
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldMessage: "Post created successfully.",
		FieldPost:    post,
	})
}

/*
getPost returns a single post.

GET /feed/post/{postID}
*/
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.feedService.Get(request.Context(), requestutil.Param(request, "postID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Post fetched.",
		FieldPost:    post,
	})
}

/*
updatePost overwrites a post owned by the caller.

PUT /feed/post/{postID}

Description: The image is either a newly uploaded "image" file or the
existing path sent in the "image" field; one of them is required.

Response:
  - 200: {message, post}
  - 403: Not authorized.
  - 404: Post not found.
  - 422: Validation failure or no image
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, uploaded, err := handler.readPostInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.feedService.Update(request.Context(), identity, requestutil.Param(request, "postID"), input)
	if err != nil {
		handler.images.Delete(uploaded)
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Post updated successfully.",
		FieldPost:    post,
	})
}

/*
deletePost removes a post owned by the caller.

DELETE /feed/post/{postID}

Response:
  - 200: {message, post}
  - 403: Not authorized.
  - 404: Post not found.
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.feedService.Delete(request.Context(), identity, requestutil.Param(request, "postID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Post deleted.",
		FieldPost:    post,
	})
}
