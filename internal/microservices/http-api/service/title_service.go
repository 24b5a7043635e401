package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"
)

type CreateTitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string   // slug, empty for none
	Genres      []string // slugs
}

// UpdateTitleInput is a partial update: nil fields are left unchanged. A
// non-nil empty Category clears the category; a non-nil Genres replaces the set.
type UpdateTitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, opts repository.ListOptions) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, actor permission.Actor, in CreateTitleInput) (*models.Title, error)
	Update(ctx context.Context, actor permission.Actor, id int64, in UpdateTitleInput) (*models.Title, error)
	Delete(ctx context.Context, actor permission.Actor, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	genres     repository.GenreRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewTitleService(
	titles repository.TitleRepository,
	genres repository.GenreRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) TitleService {
	return &titleService{
		titles:     titles,
		genres:     genres,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

var titleResource = permission.Resource{Kind: permission.KindTitle}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, opts repository.ListOptions) ([]models.Title, int64, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	return s.titles.List(ctx, filter, opts)
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	return s.titles.GetByID(ctx, id)
}

func (s *titleService) Create(ctx context.Context, actor permission.Actor, in CreateTitleInput) (*models.Title, error) {
	if err := permission.Authorize(actor, permission.Create, titleResource); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := ValidateYear(in.Year, s.now()); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        strings.TrimSpace(in.Name),
		Year:        in.Year,
		Description: in.Description,
	}
	var err error
	if title.CategoryID, err = s.resolveCategory(ctx, in.Category); err != nil {
		return nil, err
	}
	if title.Genres, err = s.resolveGenres(ctx, in.Genres); err != nil {
		return nil, err
	}

	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	s.logger.Info("title created", "title_id", title.ID, "actor", actor.UserID)
	return s.titles.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, actor permission.Actor, id int64, in UpdateTitleInput) (*models.Title, error) {
	if err := permission.Authorize(actor, permission.Update, titleResource); err != nil {
		return nil, err
	}
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		title.Name = strings.TrimSpace(*in.Name)
	}
	if in.Year != nil {
		if err := ValidateYear(*in.Year, s.now()); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil {
		if title.CategoryID, err = s.resolveCategory(ctx, *in.Category); err != nil {
			return nil, err
		}
	}
	if in.Genres != nil {
		if title.Genres, err = s.resolveGenres(ctx, *in.Genres); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Update(ctx, title, in.Genres != nil); err != nil {
		return nil, err
	}
	s.logger.Info("title updated", "title_id", id, "actor", actor.UserID)
	return s.titles.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, actor permission.Actor, id int64) error {
	if err := permission.Authorize(actor, permission.Delete, titleResource); err != nil {
		return err
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("title deleted", "title_id", id, "actor", actor.UserID)
	return nil
}

// resolveCategory turns a slug into a category id. An unknown slug is a
// validation error because it comes from the request body, not the path.
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	category, err := s.categories.GetBySlug(ctx, slug)
	if errors.Is(err, shared.ErrCategoryNotFound) {
		return nil, shared.Validation(fmt.Sprintf("unknown category %q", slug))
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	wanted := dedupe(slugs)
	genres, err := s.genres.FindBySlugs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	if len(genres) == len(wanted) {
		return genres, nil
	}
	found := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		found[g.Slug] = struct{}{}
	}
	for _, slug := range wanted {
		if _, ok := found[slug]; !ok {
			return nil, shared.Validation(fmt.Sprintf("unknown genre %q", slug))
		}
	}
	return genres, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
