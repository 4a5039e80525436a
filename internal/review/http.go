// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for reviews and their comment threads.
//
// The router is mounted beneath /titles/{titleID}/reviews, so every handler
// resolves the title ID from the parent route context.
type Handler struct {
	service *Service
}

// NewHandler constructs a new review [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the review and comment endpoints.
//
// # Routing Strategy
//
//   - Reading (Public): Reviews and comments are visible to all visitors.
//   - Writing (Authenticated): Publishing requires a valid token; editing and
//     deleting are enforced per-resource in the service (author or moderator+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Reading
	router.Get("/", handler.listReviews)
	router.Get("/{reviewID}", handler.getReview)
	router.Get("/{reviewID}/comments", handler.listComments)
	router.Get("/{reviewID}/comments/{commentID}", handler.getComment)

	// ## Authenticated Writing
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createReview)
		authed.Patch("/{reviewID}", handler.updateReview)
		authed.Delete("/{reviewID}", handler.deleteReview)

		authed.Post("/{reviewID}/comments", handler.createComment)
		authed.Patch("/{reviewID}/comments/{commentID}", handler.updateComment)
		authed.Delete("/{reviewID}/comments/{commentID}", handler.deleteComment)
	})

	return router
}

// # Request Payloads

type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type reviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// actorFromRequest builds the acting user from the verified token claims.
func actorFromRequest(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// # Review Handlers

/*
ListReviews returns a page of a title's reviews.

GET /api/v1/titles/{titleID}/reviews

Response:
  - 200: []Review + pagination meta
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviews, meta, err := handler.service.ListReviews(request.Context(), titleID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, meta)
}

/*
GetReview returns a single review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
CreateReview publishes a review on a title.

POST /api/v1/titles/{titleID}/reviews

Response:
  - 201: Review: the published review
  - 400: ErrInvalidJSON: Bad input or score outside 1..10
  - 404: ErrNotFound: Unknown title
  - 409: ErrConflict: Author has already reviewed this title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), titleID, actor, ReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

/*
UpdateReview partially modifies a review.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review: the updated review
  - 403: ErrForbidden: Caller is neither the author nor a moderator
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewPatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), titleID, reviewID, actor, ReviewPatch{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
DeleteReview removes a review and its comment thread.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 204: Deleted
  - 403: ErrForbidden: Caller is neither the author nor a moderator
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), titleID, reviewID, actor); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comment Handlers

/*
ListComments returns a page of the thread beneath a review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments

Response:
  - 200: []Comment + pagination meta
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, meta, err := handler.service.ListComments(request.Context(), titleID, reviewID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, meta)
}

/*
GetComment returns a single comment.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment
  - 404: ErrNotFound: Unknown title, review, or comment
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

/*
CreateComment publishes a comment beneath a review.

POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments

Response:
  - 201: Comment: the published comment
  - 400: ErrInvalidJSON: Missing text
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), titleID, reviewID, actor, CommentInput{
		Text: input.Text,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

/*
UpdateComment rewrites the text of a comment.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment: the updated comment
  - 403: ErrForbidden: Caller is neither the author nor a moderator
  - 404: ErrNotFound: Unknown title, review, or comment
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), titleID, reviewID, commentID, actor, CommentInput{
		Text: input.Text,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

/*
DeleteComment removes a comment.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 204: Deleted
  - 403: ErrForbidden: Caller is neither the author nor a moderator
  - 404: ErrNotFound: Unknown title, review, or comment
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actor, err := actorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), titleID, reviewID, commentID, actor); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Path Helpers

func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	titleID, err = requestutil.IntParam(request, "titleID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = requestutil.IntParam(request, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

func commentPath(request *http.Request) (titleID, reviewID, commentID int64, err error) {
	titleID, reviewID, err = reviewPath(request)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err = requestutil.IntParam(request, "commentID")
	if err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
