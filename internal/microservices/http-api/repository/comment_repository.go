package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/shared"

	"gorm.io/gorm"
)

type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID int64, opts ListOptions) ([]models.Comment, int64, error)
	GetByID(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, reviewID, id int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByReview(ctx context.Context, reviewID int64, opts ListOptions) ([]models.Comment, int64, error) {
	var (
		comments []models.Comment
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	err := q.Preload("Author").
		Order("pub_date ASC, id ASC").
		Limit(opts.Limit()).
		Offset(opts.Offset()).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (r *commentRepository) GetByID(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("review_id = ?", reviewID).
		First(&comment, id).Error
	if err != nil {
		return nil, translateError(err, shared.ErrCommentNotFound, nil)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Review").Create(comment).Error; err != nil {
		if isForeignKeyViolation(err) {
			return shared.ErrReviewNotFound.Wrap(err)
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND review_id = ?", comment.ID, comment.ReviewID).
		Updates(map[string]any{
			"text":      comment.Text,
			"author_id": comment.AuthorID,
		})
	if res.Error != nil {
		return fmt.Errorf("update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, reviewID, id int64) error {
	res := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrCommentNotFound
	}
	return nil
}
