package handler

import (
	"net/http"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers /genres and /categories
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.POST("", middleware.RequireAuth(), h.CreateGenre)
		genres.DELETE("/:slug", middleware.RequireAuth(), h.DeleteGenre)
	}
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", middleware.RequireAuth(), h.CreateCategory)
		categories.DELETE("/:slug", middleware.RequireAuth(), h.DeleteCategory)
	}
}

// GET /api/v1/genres?search=
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	opts := listOptions(c)
	genres, total, err := h.catalogService.ListGenres(c.Request.Context(), c.Query("search"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.MapSlice(genres, dto.FromGenre), total, opts.Page, opts.PageSize))
}

// POST /api/v1/genres
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req dto.CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	genre, err := h.catalogService.CreateGenre(c.Request.Context(), middleware.ActorFrom(c),
		service.CatalogInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromGenre(genre))
}

// DELETE /api/v1/genres/:slug
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/categories?search=
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	opts := listOptions(c)
	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("search"), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.MapSlice(categories, dto.FromCategory), total, opts.Page, opts.PageSize))
}

// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), middleware.ActorFrom(c),
		service.CatalogInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCategory(category))
}

// DELETE /api/v1/categories/:slug
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
