package service

import (
	"context"
	"log/slog"

	"reviewhub/internal/metrics"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"
)

// UpdateMode distinguishes a partial update (PATCH) from a full one (PUT).
type UpdateMode int

const (
	Partial UpdateMode = iota
	Full
)

type ReviewInput struct {
	Text  string
	Score int
}

// ReviewPatch carries the fields of an update; nil means unchanged. A Full
// update requires both.
type ReviewPatch struct {
	Text  *string
	Score *int
}

type ReviewService interface {
	List(ctx context.Context, titleID int64, opts repository.ListOptions) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	Create(ctx context.Context, actor permission.Actor, titleID int64, in ReviewInput) (*models.Review, error)
	Update(ctx context.Context, actor permission.Actor, titleID, id int64, in ReviewPatch, mode UpdateMode) (*models.Review, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, id int64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
	logger  *slog.Logger
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository, logger *slog.Logger) ReviewService {
	return &reviewService{reviews: reviews, titles: titles, logger: logger}
}

// effectiveAuthor decides who authors a review or comment after an update.
// Moderators patching someone else's entry leave the author alone; any other
// update is attributed to the actor.
func effectiveAuthor(actor permission.Actor, current string, mode UpdateMode) string {
	if mode == Partial && actor.IsModerator() {
		return current
	}
	return actor.UserID
}

// requireTitle is checked explicitly so that a missing title is reported as
// such rather than as an empty review list.
func requireTitle(ctx context.Context, titles repository.TitleRepository, titleID int64) error {
	ok, err := titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrTitleNotFound
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, titleID int64, opts repository.ListOptions) ([]models.Review, int64, error) {
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, opts)
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, titleID, id)
}

func (s *reviewService) Create(ctx context.Context, actor permission.Actor, titleID int64, in ReviewInput) (*models.Review, error) {
	if err := permission.Authorize(actor, permission.Create, permission.Resource{Kind: permission.KindReview}); err != nil {
		return nil, err
	}
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return nil, err
	}
	if err := ValidateScore(in.Score); err != nil {
		return nil, err
	}
	if err := validateText(in.Text); err != nil {
		return nil, err
	}
	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     in.Text,
		Score:    in.Score,
	}
	// a concurrent duplicate still fails here on the unique index
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	metrics.RecordReviewWrite("create")
	s.logger.Info("review created", "title_id", titleID, "review_id", review.ID, "author", actor.UserID)
	return s.reviews.GetByID(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor permission.Actor, titleID, id int64, in ReviewPatch, mode UpdateMode) (*models.Review, error) {
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	res := permission.Resource{Kind: permission.KindReview, OwnerID: review.AuthorID}
	if err := permission.Authorize(actor, permission.Update, res); err != nil {
		return nil, err
	}
	if mode == Full && (in.Text == nil || in.Score == nil) {
		return nil, errFullUpdateMissing
	}
	if in.Score != nil {
		if err := ValidateScore(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}
	if in.Text != nil {
		if err := validateText(*in.Text); err != nil {
			return nil, err
		}
		review.Text = *in.Text
	}

	author := effectiveAuthor(actor, review.AuthorID, mode)
	if author != review.AuthorID {
		taken, err := s.reviews.ExistsForAuthor(ctx, titleID, author)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.ErrDuplicateReview
		}
		review.AuthorID = author
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	metrics.RecordReviewWrite("update")
	s.logger.Info("review updated", "title_id", titleID, "review_id", id, "actor", actor.UserID)
	return s.reviews.GetByID(ctx, titleID, id)
}

func (s *reviewService) Delete(ctx context.Context, actor permission.Actor, titleID, id int64) error {
	if err := requireTitle(ctx, s.titles, titleID); err != nil {
		return err
	}
	review, err := s.reviews.GetByID(ctx, titleID, id)
	if err != nil {
		return err
	}
	res := permission.Resource{Kind: permission.KindReview, OwnerID: review.AuthorID}
	if err := permission.Authorize(actor, permission.Delete, res); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, id); err != nil {
		return err
	}
	metrics.RecordReviewWrite("delete")
	s.logger.Info("review deleted", "title_id", titleID, "review_id", id, "actor", actor.UserID)
	return nil
}
