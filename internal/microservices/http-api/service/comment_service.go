package service

import (
	"context"
	"log/slog"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, opts repository.ListOptions) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, actor permission.Actor, titleID, reviewID int64, text string) (*models.Comment, error)
	// Update with a nil text only re-resolves the author.
	Update(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64, text *string, mode UpdateMode) (*models.Comment, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
	titles   repository.TitleRepository
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	reviews repository.ReviewRepository,
	titles repository.TitleRepository,
	logger *slog.Logger,
) CommentService {
	return &commentService{comments: comments, reviews: reviews, titles: titles, logger: logger}
}

// resolveReview checks the whole path: the title must exist and the review
// must belong to it.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) error {
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return err
	}
	_, err := s.reviews.GetByID(ctx, titleID, reviewID)
	return err
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, opts repository.ListOptions) ([]models.Comment, int64, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, opts)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, id)
}

func (s *commentService) Create(ctx context.Context, actor permission.Actor, titleID, reviewID int64, text string) (*models.Comment, error) {
	if err := permission.Authorize(actor, permission.Create, permission.Resource{Kind: permission.KindComment}); err != nil {
		return nil, err
	}
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	comment := &models.Comment{ReviewID: reviewID, AuthorID: actor.UserID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("comment created", "review_id", reviewID, "comment_id", comment.ID, "author", actor.UserID)
	return s.comments.GetByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64, text *string, mode UpdateMode) (*models.Comment, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, reviewID, id)
	if err != nil {
		return nil, err
	}
	res := permission.Resource{Kind: permission.KindComment, OwnerID: comment.AuthorID}
	if err := permission.Authorize(actor, permission.Update, res); err != nil {
		return nil, err
	}
	if mode == Full && text == nil {
		return nil, errFullUpdateMissing
	}
	if text != nil {
		if err := validateText(*text); err != nil {
			return nil, err
		}
		comment.Text = *text
	}
	comment.AuthorID = effectiveAuthor(actor, comment.AuthorID, mode)

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("comment updated", "review_id", reviewID, "comment_id", id, "actor", actor.UserID)
	return s.comments.GetByID(ctx, reviewID, id)
}

func (s *commentService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, id int64) error {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, reviewID, id)
	if err != nil {
		return err
	}
	res := permission.Resource{Kind: permission.KindComment, OwnerID: comment.AuthorID}
	if err := permission.Authorize(actor, permission.Delete, res); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, id); err != nil {
		return err
	}
	s.logger.Info("comment deleted", "review_id", reviewID, "comment_id", id, "actor", actor.UserID)
	return nil
}
