package handler

import (
	"net/http"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comments under a .../reviews/:review_id group
func (h *CommentHandler) RegisterRoutes(review *gin.RouterGroup) {
	comments := review.Group("/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:comment_id", h.Get)

		comments.POST("", middleware.RequireAuth(), h.Create)
		comments.PUT("/:comment_id", middleware.RequireAuth(), h.Replace)
		comments.PATCH("/:comment_id", middleware.RequireAuth(), h.Patch)
		comments.DELETE("/:comment_id", middleware.RequireAuth(), h.Delete)
	}
}

// GET .../reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	opts := listOptions(c)
	comments, total, err := h.commentService.List(c.Request.Context(), titleID, reviewID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.MapSlice(comments, dto.FromComment), total, opts.Page, opts.PageSize))
}

// GET .../comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}
	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromComment(comment))
}

// POST .../reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	comment, err := h.commentService.Create(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromComment(comment))
}

// PUT .../comments/:comment_id
func (h *CommentHandler) Replace(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, &req.Text, service.Full)
}

// PATCH .../comments/:comment_id
func (h *CommentHandler) Patch(c *gin.Context) {
	var req dto.PatchCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, req.Text, service.Partial)
}

func (h *CommentHandler) update(c *gin.Context, text *string, mode service.UpdateMode) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}
	comment, err := h.commentService.Update(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID, text, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromComment(comment))
}

// DELETE .../comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func commentPath(c *gin.Context) (titleID, reviewID, commentID int64, ok bool) {
	if titleID, reviewID, ok = reviewPath(c); !ok {
		return 0, 0, 0, false
	}
	if commentID, ok = pathID(c, "comment_id", shared.ErrCommentNotFound); !ok {
		return 0, 0, 0, false
	}
	return titleID, reviewID, commentID, true
}
