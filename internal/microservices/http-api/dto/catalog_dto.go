package dto

import "reviewhub/internal/microservices/http-api/models"

// CatalogRequest creates a genre or a category
type CatalogRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// CatalogResponse is the public shape of genres and categories
type CatalogResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromGenre(g *models.Genre) CatalogResponse {
	return CatalogResponse{Name: g.Name, Slug: g.Slug}
}

func FromCategory(c *models.Category) CatalogResponse {
	return CatalogResponse{Name: c.Name, Slug: c.Slug}
}
