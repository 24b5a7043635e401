package dto

import "reviewhub/internal/microservices/http-api/models"

// CreateTitleRequest: genre and category are given by slug
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
	Category    string   `json:"category" binding:"omitempty,slug"`
}

// UpdateTitleRequest: absent fields are left unchanged, "genre" replaces the
// whole set and an empty "category" clears it
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string   `json:"category"`
}

// TitleResponse: rating is null until the first review
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []CatalogResponse `json:"genre"`
	Category    *CatalogResponse  `json:"category"`
}

// TitleQuery holds the list filters from the query string
type TitleQuery struct {
	Genre    []string `form:"genre"`
	Category []string `form:"category"`
	Year     *int     `form:"year"`
	Name     string   `form:"name"`
}

func FromTitle(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       MapSlice(t.Genres, FromGenre),
	}
	if t.Category != nil {
		c := FromCategory(t.Category)
		resp.Category = &c
	}
	return resp
}
