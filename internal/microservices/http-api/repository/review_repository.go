package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/shared"

	"gorm.io/gorm"
)

// ReviewRepository persists reviews. Every write recomputes the rating of the
// affected title inside the same transaction.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID int64, opts ListOptions) ([]models.Review, int64, error)
	GetByID(ctx context.Context, titleID, id int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, titleID, id int64) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByTitle retrieves the reviews of a title, newest first
func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, opts ListOptions) ([]models.Review, int64, error) {
	var (
		reviews []models.Review
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	err := q.Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(opts.Limit()).
		Offset(opts.Offset()).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

// GetByID only finds the review when it belongs to titleID.
func (r *reviewRepository) GetByID(ctx context.Context, titleID, id int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, id).Error
	if err != nil {
		return nil, translateError(err, shared.ErrReviewNotFound, nil)
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review for author: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Title").Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", translateReviewError(err))
		}
		return recomputeRating(tx, review.TitleID)
	})
}

// Update writes text, score and author. Title and publication date never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Review{}).
			Where("id = ? AND title_id = ?", review.ID, review.TitleID).
			Updates(map[string]any{
				"text":      review.Text,
				"score":     review.Score,
				"author_id": review.AuthorID,
			})
		if res.Error != nil {
			return fmt.Errorf("update review: %w", translateReviewError(res.Error))
		}
		if res.RowsAffected == 0 {
			return shared.ErrReviewNotFound
		}
		return recomputeRating(tx, review.TitleID)
	})
}

func (r *reviewRepository) Delete(ctx context.Context, titleID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		res := tx.Where("title_id = ?", titleID).Delete(&models.Review{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.ErrReviewNotFound
		}
		return recomputeRating(tx, titleID)
	})
}

// translateReviewError turns constraint failures raised by a concurrent
// writer into the same errors the service reports for its own checks.
func translateReviewError(err error) error {
	switch {
	case isUniqueViolation(err):
		return shared.ErrDuplicateReview.Wrap(err)
	case isCheckViolation(err):
		return shared.ErrInvalidScore.Wrap(err)
	case isForeignKeyViolation(err):
		return shared.ErrTitleNotFound.Wrap(err)
	}
	return err
}
