package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter narrows a title listing. Zero values mean "no constraint".
type TitleFilter struct {
	GenreSlugs    []string
	CategorySlugs []string
	Year          *int
	Name          string
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, opts ListOptions) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, title *models.Title) error
	// Update writes the scalar columns and category; when replaceGenres is
	// true the genre set is replaced with title.Genres.
	Update(ctx context.Context, title *models.Title, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, opts ListOptions) ([]models.Title, int64, error) {
	var (
		titles []models.Title
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&models.Title{}).Scopes(filterTitles(filter))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}
	err := q.Preload("Category").Preload("Genres").
		Order("id ASC").
		Limit(opts.Limit()).
		Offset(opts.Offset()).
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return titles, total, nil
}

func filterTitles(f TitleFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.GenreSlugs) > 0 {
			db = db.Where("titles.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Table("title_genres").
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug IN ?", f.GenreSlugs))
		}
		if len(f.CategorySlugs) > 0 {
			db = db.Where("titles.category_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Table("categories").
				Select("id").
				Where("slug IN ?", f.CategorySlugs))
		}
		if f.Year != nil {
			db = db.Where("titles.year = ?", *f.Year)
		}
		if f.Name != "" {
			db = db.Where("titles.name ILIKE ?", containsPattern(f.Name))
		}
		return db
	}
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		First(&title, id).Error
	if err != nil {
		return nil, translateError(err, shared.ErrTitleNotFound, nil)
	}
	return &title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check title %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return fmt.Errorf("create title: %w", translateError(err, nil, nil))
		}
		return linkGenres(tx, title.ID, title.Genres)
	})
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title, replaceGenres bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Title{ID: title.ID}).
			Select("name", "year", "description", "category_id").
			Omit(clause.Associations).
			Updates(title)
		if res.Error != nil {
			return fmt.Errorf("update title: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.ErrTitleNotFound
		}
		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("clear genres: %w", err)
		}
		return linkGenres(tx, title.ID, title.Genres)
	})
}

func linkGenres(tx *gorm.DB, titleID int64, genres []models.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	links := make([]models.TitleGenre, 0, len(genres))
	for _, g := range genres {
		links = append(links, models.TitleGenre{TitleID: titleID, GenreID: g.ID})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return fmt.Errorf("link genres: %w", err)
	}
	return nil
}

// Delete removes the title together with its reviews, their comments and the
// genre links. Nothing is left referencing the title afterwards.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}
		res := tx.Delete(&models.Title{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete title: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.ErrTitleNotFound
		}
		return nil
	})
}
