package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"moviesrev/internal/store"
	"moviesrev/pkg/global"
	"moviesrev/pkg/models"
)

// ReviewHandler serves the five review operations. It holds no state
// beyond the shared store handle, so any number of requests run in
// parallel without coordination.
type ReviewHandler struct {
	store  store.ReviewStore
	logger *slog.Logger
}

func NewReviewHandler(s store.ReviewStore, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{store: s, logger: logger}
}

func (h *ReviewHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, global.HealthBody{Status: "OK", Message: "Server is running"})
}

// ListByMovie returns every review for one movie, newest first.
func (h *ReviewHandler) ListByMovie(c *gin.Context) {
	ctx := c.Request.Context()
	movieID := c.Param("movieId")

	reviews, err := h.store.ByMovie(ctx, movieID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch reviews for movie",
			slog.String("movieId", movieID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, global.Error("Failed to fetch reviews"))
		return
	}

	models.SortNewestFirst(reviews)
	c.JSON(http.StatusOK, reviews)
}

// ListByUser returns one user's reviews; a blank username means every
// review in the store.
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	ctx := c.Request.Context()
	username := strings.TrimSpace(c.Param("username"))

	var (
		reviews []models.Review
		err     error
	)
	if username == "" {
		reviews, err = h.store.All(ctx)
	} else {
		reviews, err = h.store.ByUser(ctx, username)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch user reviews",
			slog.String("username", username), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, global.Error("Failed to fetch user reviews"))
		return
	}

	models.SortNewestFirst(reviews)
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) ListAll(c *gin.Context) {
	ctx := c.Request.Context()

	reviews, err := h.store.All(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch all reviews", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, global.Error("Failed to fetch all reviews"))
		return
	}

	models.SortNewestFirst(reviews)
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.Error("Invalid request payload"))
		return
	}

	// Presence first, then range, so the messages stay distinct.
	if !req.HasAllFields() {
		c.JSON(http.StatusBadRequest, global.Error("All fields are required"))
		return
	}
	if !models.RatingInRange(req.Rating) {
		c.JSON(http.StatusBadRequest, global.Error("Rating must be between 1 and 5"))
		return
	}

	review := req.ToReview()
	if _, err := h.store.Insert(ctx, review); err != nil {
		c.JSON(http.StatusInternalServerError, global.Error("Failed to create review"))
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.Error("Invalid request payload"))
		return
	}

	if req.Rating == 0 || req.Review == "" {
		c.JSON(http.StatusBadRequest, global.Error("Rating and review are required"))
		return
	}
	if !models.RatingInRange(req.Rating) {
		c.JSON(http.StatusBadRequest, global.Error("Rating must be between 1 and 5"))
		return
	}

	// Existence check before writing. A concurrent delete can still slip
	// between this and the update; the store reports that as not found.
	if _, err := h.store.GetByID(ctx, id); err != nil {
		h.respondStoreError(c, id, err, "Failed to update review")
		return
	}

	if err := h.store.Update(ctx, id, req.Rating, req.Review, models.Now()); err != nil {
		h.respondStoreError(c, id, err, "Failed to update review")
		return
	}

	// Re-read so the response carries the stored record, not the local
	// copy.
	updated, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.respondStoreError(c, id, err, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// Check-then-delete, matching update. Deleting an already-deleted id
	// reports not found rather than succeeding silently.
	if _, err := h.store.GetByID(ctx, id); err != nil {
		h.respondStoreError(c, id, err, "Failed to delete review")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.respondStoreError(c, id, err, "Failed to delete review")
		return
	}

	c.JSON(http.StatusOK, global.Deleted("Review deleted successfully", id))
}

func (h *ReviewHandler) respondStoreError(c *gin.Context, id string, err error, internalMsg string) {
	if errors.Is(err, store.ErrReviewNotFound) {
		c.JSON(http.StatusNotFound, global.Error("Review not found"))
		return
	}
	h.logger.ErrorContext(c.Request.Context(), internalMsg,
		slog.String("reviewId", id), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, global.Error(internalMsg))
}
