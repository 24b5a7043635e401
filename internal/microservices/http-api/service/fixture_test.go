package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type sentMail struct {
	Subject, Body, Recipient string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, subject, body, recipient string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{subject, body, recipient})
	return nil
}

type fixture struct {
	store  *memStore
	mailer *recordingMailer

	auth     *authService
	users    UserService
	catalog  CatalogService
	titles   TitleService
	reviews  ReviewService
	comments CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()
	mailer := &recordingMailer{}
	cfg := &config.Config{
		JWTSecret:           "test-secret-test-secret-test-secret",
		AccessTokenTTL:      time.Hour,
		ConfirmationCodeTTL: 24 * time.Hour,
	}

	users := memUsers{store}
	titlesRepo := memTitles{store}
	genres := memGenres{store}
	categories := memCategories{store}
	reviews := memReviews{store}

	authSvc := NewAuthService(users, mailer, cfg, logger).(*authService)
	authSvc.now = func() time.Time { return fixedNow }

	titleSvc := NewTitleService(titlesRepo, genres, categories, logger).(*titleService)
	titleSvc.now = func() time.Time { return fixedNow }

	return &fixture{
		store:    store,
		mailer:   mailer,
		auth:     authSvc,
		users:    NewUserService(users, logger),
		catalog:  NewCatalogService(genres, categories, logger),
		titles:   titleSvc,
		reviews:  NewReviewService(reviews, titlesRepo, logger),
		comments: NewCommentService(memComments{store}, reviews, titlesRepo, logger),
	}
}

// user inserts a user directly and returns its actor.
func (f *fixture) user(t *testing.T, username string, role models.Role) permission.Actor {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, memUsers{f.store}.Create(context.Background(), u))
	return permission.ActorFromUser(u)
}

func (f *fixture) title(t *testing.T, admin permission.Actor, name string, year int) *models.Title {
	t.Helper()
	title, err := f.titles.Create(context.Background(), admin, CreateTitleInput{Name: name, Year: year})
	require.NoError(t, err)
	return title
}

func ptr[T any](v T) *T { return &v }

func actorFor(u *models.User) permission.Actor { return permission.ActorFromUser(u) }

// extractCode pulls the confirmation code out of a signup mail body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	const marker = "code is: "
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "no code in %q", body)
	rest := body[i+len(marker):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
