// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/quill/internal/platform/request"
	"github.com/taibuivan/quill/internal/platform/respond"
)

const (
	// maxQueryBytes caps the size of a GraphQL request body.
	maxQueryBytes = 1 << 20

	// maxQueryDepth rejects pathological nesting such as post.creator.posts.creator...
	maxQueryDepth = 8
)

// Handler serves the GraphQL endpoint.
type Handler struct {
	schema *graphql.Schema
}

// NewHandler parses the schema against the root resolver.
//
// It panics if the resolver does not satisfy the schema, which is a
// programming error caught at startup.
func NewHandler(resolver *Resolver, logger *slog.Logger) *Handler {
	schema := graphql.MustParseSchema(schemaSDL, resolver,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{logger: logger}),
	)
	return &Handler{schema: schema}
}

// Routes returns a [chi.Router] exposing POST / for queries and mutations.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.serve)
	return router
}

// # Wire Format

type queryRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// FormattedError is one entry of the "errors" array.
type FormattedError struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Data    []apperr.FieldError `json:"data,omitempty"`
	Path    []interface{}       `json:"path,omitempty"`

	resolved bool
}

// Result is the response body of the endpoint.
type Result struct {
	Data   json.RawMessage  `json:"data,omitempty"`
	Errors []FormattedError `json:"errors,omitempty"`
}

func (handler *Handler) serve(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxQueryBytes)

	var body queryRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.JSON(writer, http.StatusBadRequest, Result{Errors: []FormattedError{{
			Message: "Invalid request body.",
			Status:  http.StatusBadRequest,
		}}})
		return
	}

	response := handler.schema.Exec(request.Context(), body.Query, body.OperationName, body.Variables)

	result := Result{Data: response.Data}
	for _, queryError := range response.Errors {
		result.Errors = append(result.Errors, formatError(queryError))
	}

	logResolverFailures(request.Context(), response.Errors)
	respond.JSON(writer, httpStatus(result), result)
}

// formatError renders a query error. Resolver errors carry the status and
// field details of their [apperr.AppError]; anything else reports 500.
func formatError(queryError *gqlerrors.QueryError) FormattedError {
	formatted := FormattedError{
		Message: queryError.Message,
		Status:  http.StatusInternalServerError,
		Path:    queryError.Path,
	}

	if queryError.ResolverError == nil {
		return formatted
	}
	formatted.resolved = true

	appError := apperr.As(queryError.ResolverError)
	if appError == nil {
		formatted.Message = apperr.Internal(queryError.ResolverError).Message
		return formatted
	}

	formatted.Message = appError.Message
	formatted.Status = appError.HTTPStatus
	formatted.Data = appError.Details
	return formatted
}

// httpStatus is 200 whenever data was produced. Otherwise it is the status of
// the first error, or 400 when the document never executed.
func httpStatus(result Result) int {
	if hasData(result.Data) || len(result.Errors) == 0 {
		return http.StatusOK
	}
	if !result.Errors[0].resolved {
		return http.StatusBadRequest
	}
	return result.Errors[0].Status
}

func hasData(data json.RawMessage) bool {
	return len(data) > 0 && string(data) != "null"
}

func logResolverFailures(ctx context.Context, queryErrors []*gqlerrors.QueryError) {
	logger := ctxutil.GetLogger(ctx)
	for _, queryError := range queryErrors {
		if queryError.ResolverError == nil {
			continue
		}
		if appError := apperr.As(queryError.ResolverError); appError != nil && appError.HTTPStatus < http.StatusInternalServerError {
			continue
		}
		logger.ErrorContext(ctx, "graphql_resolver_failed",
			slog.Any("path", queryError.Path),
			slog.String("error", queryError.ResolverError.Error()),
			slog.Any("cause", apperr.Classify(queryError.ResolverError).Cause),
		)
	}
}

// panicLogger routes resolver panics to the structured logger.
type panicLogger struct {
	logger *slog.Logger
}

func (recorder panicLogger) LogPanic(ctx context.Context, value interface{}) {
	recorder.logger.ErrorContext(ctx, "graphql_panic_recovered", slog.String("panic", fmt.Sprint(value)))
}
