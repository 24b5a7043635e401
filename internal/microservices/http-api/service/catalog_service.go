package service

import (
	"context"
	"log/slog"
	"strings"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
)

// CatalogInput creates a genre or a category.
type CatalogInput struct {
	Name string
	Slug string
}

// CatalogService manages genres and categories. Reads are public, writes
// are admin only.
type CatalogService interface {
	ListGenres(ctx context.Context, search string, opts repository.ListOptions) ([]models.Genre, int64, error)
	CreateGenre(ctx context.Context, actor permission.Actor, in CatalogInput) (*models.Genre, error)
	DeleteGenre(ctx context.Context, actor permission.Actor, slug string) error

	ListCategories(ctx context.Context, search string, opts repository.ListOptions) ([]models.Category, int64, error)
	CreateCategory(ctx context.Context, actor permission.Actor, in CatalogInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor permission.Actor, slug string) error
}

type catalogService struct {
	genres     repository.GenreRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCatalogService(genres repository.GenreRepository, categories repository.CategoryRepository, logger *slog.Logger) CatalogService {
	return &catalogService{genres: genres, categories: categories, logger: logger}
}

func validateCatalogInput(in CatalogInput) (CatalogInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateName(in.Name); err != nil {
		return in, err
	}
	if err := ValidateSlug(in.Slug); err != nil {
		return in, err
	}
	return in, nil
}

func (s *catalogService) ListGenres(ctx context.Context, search string, opts repository.ListOptions) ([]models.Genre, int64, error) {
	return s.genres.List(ctx, strings.TrimSpace(search), opts)
}

func (s *catalogService) CreateGenre(ctx context.Context, actor permission.Actor, in CatalogInput) (*models.Genre, error) {
	if err := permission.Authorize(actor, permission.Create, permission.Resource{Kind: permission.KindGenre}); err != nil {
		return nil, err
	}
	in, err := validateCatalogInput(in)
	if err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, err
	}
	s.logger.Info("genre created", "slug", genre.Slug, "actor", actor.UserID)
	return genre, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, actor permission.Actor, slug string) error {
	if err := permission.Authorize(actor, permission.Delete, permission.Resource{Kind: permission.KindGenre}); err != nil {
		return err
	}
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	s.logger.Info("genre deleted", "slug", slug, "actor", actor.UserID)
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context, search string, opts repository.ListOptions) ([]models.Category, int64, error) {
	return s.categories.List(ctx, strings.TrimSpace(search), opts)
}

func (s *catalogService) CreateCategory(ctx context.Context, actor permission.Actor, in CatalogInput) (*models.Category, error) {
	if err := permission.Authorize(actor, permission.Create, permission.Resource{Kind: permission.KindCategory}); err != nil {
		return nil, err
	}
	in, err := validateCatalogInput(in)
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("category created", "slug", category.Slug, "actor", actor.UserID)
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, actor permission.Actor, slug string) error {
	if err := permission.Authorize(actor, permission.Delete, permission.Resource{Kind: permission.KindCategory}); err != nil {
		return err
	}
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	s.logger.Info("category deleted", "slug", slug, "actor", actor.UserID)
	return nil
}
