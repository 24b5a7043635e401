package dto

import (
	"time"

	"reviewhub/internal/microservices/http-api/models"
)

// ReviewRequest for creating a review or replacing it with PUT. Score is a
// pointer so that 0 reaches the range check instead of failing "required".
type ReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score *int   `json:"score" binding:"required"`
}

// PatchReviewRequest for partial updates
type PatchReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// ReviewResponse: author is the username
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// FromReview converts a Review model to ReviewResponse DTO
func FromReview(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
