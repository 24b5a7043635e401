package handler

import (
	"net/http"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers reviews under a /titles/:title_id group and
// returns the /reviews/:review_id group for comments
func (h *ReviewHandler) RegisterRoutes(title *gin.RouterGroup) *gin.RouterGroup {
	reviews := title.Group("/reviews")
	{
		// Public routes
		reviews.GET("", h.List)
		reviews.GET("/:review_id", h.Get)

		// Write routes (authorization is decided by the service)
		reviews.POST("", middleware.RequireAuth(), h.Create)
		reviews.PUT("/:review_id", middleware.RequireAuth(), h.Replace)
		reviews.PATCH("/:review_id", middleware.RequireAuth(), h.Patch)
		reviews.DELETE("/:review_id", middleware.RequireAuth(), h.Delete)
	}
	return reviews.Group("/:review_id")
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "title_id", shared.ErrTitleNotFound)
	if !ok {
		return
	}
	opts := listOptions(c)
	reviews, total, err := h.reviewService.List(c.Request.Context(), titleID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.MapSlice(reviews, dto.FromReview), total, opts.Page, opts.PageSize))
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReview(review))
}

// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "title_id", shared.ErrTitleNotFound)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), middleware.ActorFrom(c), titleID,
		service.ReviewInput{Text: req.Text, Score: *req.Score})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromReview(review))
}

// Replace is a full update; the caller becomes the author
// PUT /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Replace(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, service.ReviewPatch{Text: &req.Text, Score: req.Score}, service.Full)
}

// Patch is a partial update; moderators keep the original author
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Patch(c *gin.Context) {
	var req dto.PatchReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, service.ReviewPatch{Text: req.Text, Score: req.Score}, service.Partial)
}

func (h *ReviewHandler) update(c *gin.Context, patch service.ReviewPatch, mode service.UpdateMode) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, patch, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReview(review))
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewPath(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = pathID(c, "title_id", shared.ErrTitleNotFound); !ok {
		return 0, 0, false
	}
	if reviewID, ok = pathID(c, "review_id", shared.ErrReviewNotFound); !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}
