package handler

import (
	"net/http"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes registers /titles; reviews and comments nest under it
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) *gin.RouterGroup {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", middleware.RequireAuth(), h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", middleware.RequireAuth(), h.Update)
		titles.DELETE("/:title_id", middleware.RequireAuth(), h.Delete)
	}
	return titles.Group("/:title_id")
}

// List titles filtered by genre, category, year and name
// GET /api/v1/titles
func (h *TitleHandler) List(c *gin.Context) {
	var q dto.TitleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	opts := listOptions(c)
	filter := repository.TitleFilter{
		GenreSlugs:    q.Genre,
		CategorySlugs: q.Category,
		Year:          q.Year,
		Name:          q.Name,
	}
	titles, total, err := h.titleService.List(c.Request.Context(), filter, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.MapSlice(titles, dto.FromTitle), total, opts.Page, opts.PageSize))
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id", shared.ErrTitleNotFound)
	if !ok {
		return
	}
	title, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitle(title))
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	title, err := h.titleService.Create(c.Request.Context(), middleware.ActorFrom(c), service.CreateTitleInput{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTitle(title))
}

// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id", shared.ErrTitleNotFound)
	if !ok {
		return
	}
	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	title, err := h.titleService.Update(c.Request.Context(), middleware.ActorFrom(c), id, service.UpdateTitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitle(title))
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id", shared.ErrTitleNotFound)
	if !ok {
		return
	}
	if err := h.titleService.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
