package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for every repository. It keeps the same
// contracts as the gorm implementations, including the rating recompute on
// review writes and the cascades on delete.
type memStore struct {
	mu sync.Mutex

	users      map[string]*models.User
	titles     map[int64]*models.Title
	genres     map[int64]*models.Genre
	categories map[int64]*models.Category
	titleGenre map[int64][]int64
	reviews    map[int64]*models.Review
	comments   map[int64]*models.Comment

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		titles:     map[int64]*models.Title{},
		genres:     map[int64]*models.Genre{},
		categories: map[int64]*models.Category{},
		titleGenre: map[int64][]int64{},
		reviews:    map[int64]*models.Review{},
		comments:   map[int64]*models.Comment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func page[T any](items []T, opts repository.ListOptions) []T {
	start := opts.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + opts.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// recompute mirrors the SQL average; nil when no reviews remain.
func (m *memStore) recompute(titleID int64) {
	t, ok := m.titles[titleID]
	if !ok {
		return
	}
	sum, n := 0, 0
	for _, r := range m.reviews {
		if r.TitleID == titleID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		t.Rating = nil
		return
	}
	avg := float64(sum) / float64(n)
	t.Rating = &avg
}

// users

type memUsers struct{ *memStore }

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return shared.ErrIdentityConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m memUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return shared.ErrUserNotFound
	}
	for _, u := range m.users {
		if u.ID != user.ID && (u.Username == user.Username || strings.EqualFold(u.Email, user.Email)) {
			return shared.ErrIdentityConflict
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return shared.ErrUserNotFound
	}
	touched := map[int64]struct{}{}
	for rid, r := range m.reviews {
		if r.AuthorID == id {
			touched[r.TitleID] = struct{}{}
			m.dropReview(rid)
		}
	}
	for cid, c := range m.comments {
		if c.AuthorID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.users, id)
	for tid := range touched {
		m.recompute(tid)
	}
	return nil
}

func (m memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m memUsers) List(_ context.Context, search string, opts repository.ListOptions) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if search == "" || contains(u.Username, search) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, opts), int64(len(out)), nil
}

// catalog

type memGenres struct{ *memStore }

func (m memGenres) List(_ context.Context, search string, opts repository.ListOptions) ([]models.Genre, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Genre
	for _, g := range m.genres {
		if search == "" || contains(g.Name, search) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, opts), int64(len(out)), nil
}

func (m memGenres) GetBySlug(_ context.Context, slug string) (*models.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.genres {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, shared.ErrGenreNotFound
}

func (m memGenres) FindBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Genre
	for _, s := range slugs {
		for _, g := range m.genres {
			if g.Slug == s {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}

func (m memGenres) Create(_ context.Context, genre *models.Genre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.genres {
		if g.Slug == genre.Slug || g.Name == genre.Name {
			return shared.ErrAlreadyExists
		}
	}
	genre.ID = m.id()
	cp := *genre
	m.genres[genre.ID] = &cp
	return nil
}

func (m memGenres) DeleteBySlug(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, g := range m.genres {
		if g.Slug != slug {
			continue
		}
		for tid, gids := range m.titleGenre {
			kept := gids[:0]
			for _, gid := range gids {
				if gid != id {
					kept = append(kept, gid)
				}
			}
			m.titleGenre[tid] = kept
		}
		delete(m.genres, id)
		return nil
	}
	return shared.ErrGenreNotFound
}

type memCategories struct{ *memStore }

func (m memCategories) List(_ context.Context, search string, opts repository.ListOptions) ([]models.Category, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		if search == "" || contains(c.Name, search) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, opts), int64(len(out)), nil
}

func (m memCategories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrCategoryNotFound
}

func (m memCategories) Create(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == category.Slug || c.Name == category.Name {
			return shared.ErrAlreadyExists
		}
	}
	category.ID = m.id()
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m memCategories) DeleteBySlug(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.categories {
		if c.Slug != slug {
			continue
		}
		for _, t := range m.titles {
			if t.CategoryID != nil && *t.CategoryID == id {
				t.CategoryID = nil
			}
		}
		delete(m.categories, id)
		return nil
	}
	return shared.ErrCategoryNotFound
}

// titles

type memTitles struct{ *memStore }

func (m memTitles) hydrate(t *models.Title) models.Title {
	cp := *t
	cp.Category = nil
	if t.CategoryID != nil {
		if c, ok := m.categories[*t.CategoryID]; ok {
			cc := *c
			cp.Category = &cc
		}
	}
	cp.Genres = nil
	for _, gid := range m.titleGenre[t.ID] {
		if g, ok := m.genres[gid]; ok {
			cp.Genres = append(cp.Genres, *g)
		}
	}
	if t.Rating != nil {
		r := *t.Rating
		cp.Rating = &r
	}
	return cp
}

func (m memTitles) List(_ context.Context, f repository.TitleFilter, opts repository.ListOptions) ([]models.Title, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Title
	for _, t := range m.titles {
		h := m.hydrate(t)
		if f.Year != nil && h.Year != *f.Year {
			continue
		}
		if f.Name != "" && !contains(h.Name, f.Name) {
			continue
		}
		if len(f.CategorySlugs) > 0 && (h.Category == nil || !hasString(f.CategorySlugs, h.Category.Slug)) {
			continue
		}
		if len(f.GenreSlugs) > 0 {
			match := false
			for _, g := range h.Genres {
				if hasString(f.GenreSlugs, g.Slug) {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), int64(len(out)), nil
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m memTitles) GetByID(_ context.Context, id int64) (*models.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.titles[id]
	if !ok {
		return nil, shared.ErrTitleNotFound
	}
	h := m.hydrate(t)
	return &h, nil
}

func (m memTitles) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.titles[id]
	return ok, nil
}

func (m memTitles) Create(_ context.Context, title *models.Title) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	title.ID = m.id()
	cp := *title
	cp.Rating = nil
	cp.Genres = nil
	cp.Category = nil
	m.titles[title.ID] = &cp
	m.titleGenre[title.ID] = genreIDs(title.Genres)
	return nil
}

func (m memTitles) Update(_ context.Context, title *models.Title, replaceGenres bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.titles[title.ID]
	if !ok {
		return shared.ErrTitleNotFound
	}
	t.Name = title.Name
	t.Year = title.Year
	t.Description = title.Description
	t.CategoryID = title.CategoryID
	if replaceGenres {
		m.titleGenre[title.ID] = genreIDs(title.Genres)
	}
	return nil
}

func genreIDs(genres []models.Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func (m memTitles) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[id]; !ok {
		return shared.ErrTitleNotFound
	}
	for rid, r := range m.reviews {
		if r.TitleID == id {
			m.dropReview(rid)
		}
	}
	delete(m.titleGenre, id)
	delete(m.titles, id)
	return nil
}

// reviews

// dropReview removes a review and its comments; caller holds the lock.
func (m *memStore) dropReview(id int64) {
	for cid, c := range m.comments {
		if c.ReviewID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.reviews, id)
}

type memReviews struct{ *memStore }

func (m memReviews) withAuthor(r *models.Review) models.Review {
	cp := *r
	if u, ok := m.users[r.AuthorID]; ok {
		cp.Author = *u
	}
	return cp
}

func (m memReviews) ListByTitle(_ context.Context, titleID int64, opts repository.ListOptions) ([]models.Review, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for _, r := range m.reviews {
		if r.TitleID == titleID {
			out = append(out, m.withAuthor(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, opts), int64(len(out)), nil
}

func (m memReviews) GetByID(_ context.Context, titleID, id int64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok || r.TitleID != titleID {
		return nil, shared.ErrReviewNotFound
	}
	cp := m.withAuthor(r)
	return &cp, nil
}

func (m memReviews) ExistsForAuthor(_ context.Context, titleID int64, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m memReviews) Create(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[review.TitleID]; !ok {
		return shared.ErrTitleNotFound
	}
	for _, r := range m.reviews {
		if r.TitleID == review.TitleID && r.AuthorID == review.AuthorID {
			return shared.ErrDuplicateReview
		}
	}
	review.ID = m.id()
	review.PubDate = time.Now()
	cp := *review
	cp.Author = models.User{}
	m.reviews[review.ID] = &cp
	m.recompute(review.TitleID)
	return nil
}

func (m memReviews) Update(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[review.ID]
	if !ok || r.TitleID != review.TitleID {
		return shared.ErrReviewNotFound
	}
	r.Text = review.Text
	r.Score = review.Score
	r.AuthorID = review.AuthorID
	m.recompute(review.TitleID)
	return nil
}

func (m memReviews) Delete(_ context.Context, titleID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok || r.TitleID != titleID {
		return shared.ErrReviewNotFound
	}
	m.dropReview(id)
	m.recompute(titleID)
	return nil
}

// comments

type memComments struct{ *memStore }

func (m memComments) withAuthor(c *models.Comment) models.Comment {
	cp := *c
	if u, ok := m.users[c.AuthorID]; ok {
		cp.Author = *u
	}
	return cp
}

func (m memComments) ListByReview(_ context.Context, reviewID int64, opts repository.ListOptions) ([]models.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for _, c := range m.comments {
		if c.ReviewID == reviewID {
			out = append(out, m.withAuthor(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts), int64(len(out)), nil
}

func (m memComments) GetByID(_ context.Context, reviewID, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, shared.ErrCommentNotFound
	}
	cp := m.withAuthor(c)
	return &cp, nil
}

func (m memComments) Create(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[comment.ReviewID]; !ok {
		return shared.ErrReviewNotFound
	}
	comment.ID = m.id()
	comment.PubDate = time.Now()
	cp := *comment
	cp.Author = models.User{}
	m.comments[comment.ID] = &cp
	return nil
}

func (m memComments) Update(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[comment.ID]
	if !ok || c.ReviewID != comment.ReviewID {
		return shared.ErrCommentNotFound
	}
	c.Text = comment.Text
	c.AuthorID = comment.AuthorID
	return nil
}

func (m memComments) Delete(_ context.Context, reviewID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.ReviewID != reviewID {
		return shared.ErrCommentNotFound
	}
	delete(m.comments, id)
	return nil
}
