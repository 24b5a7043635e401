package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/mail"
	"reviewhub/internal/metrics"
	"reviewhub/internal/middleware/auth"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

const confirmationSubject = "Your reviewhub confirmation code"

// AuthService runs the signup flow and issues access tokens.
type AuthService interface {
	// Signup gets or creates the user and mails a fresh confirmation code.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a confirmation code for a signed access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	// Authenticate validates an access token and loads its user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users   repository.UserRepository
	mailer  mail.Mailer
	logger  *slog.Logger
	now     func() time.Time
	newCode func() (code, hash string, err error)

	jwtSecret      []byte
	accessTokenTTL time.Duration
	codeTTL        time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	mailer mail.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:          users,
		mailer:         mailer,
		logger:         logger,
		now:            time.Now,
		newCode:        auth.GenerateConfirmationCode,
		jwtSecret:      []byte(cfg.JWTSecret),
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	byName, err := s.findOptional(s.users.FindByUsername(ctx, username))
	if err != nil {
		return nil, err
	}
	byEmail, err := s.findOptional(s.users.FindByEmail(ctx, email))
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch {
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		// repeated signup with the same pair re-sends a code
		user = byName
	case byName != nil || byEmail != nil:
		return nil, shared.ErrIdentityConflict
	default:
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	}

	code, hash, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	issued := s.now()
	user.ConfirmationCodeHash = hash
	user.ConfirmationCodeIssued = &issued
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\n\nIt is valid for %s.\n",
		user.Username, code, s.codeTTL)
	if err := s.mailer.Send(ctx, confirmationSubject, body, user.Email); err != nil {
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}
	metrics.SignupCodesSent.Inc()
	s.logger.Debug("confirmation code sent", "user_id", user.ID)
	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if !s.codeValid(user, code) {
		return "", shared.ErrInvalidConfirmationCode
	}

	// single use: the code is gone once a token has been issued
	now := s.now()
	user.ConfirmationCodeHash = ""
	user.ConfirmationCodeIssued = nil
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	token, err := s.generateAccessToken(user, now)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	metrics.TokensIssued.Inc()
	s.logger.Info("access token issued", "user_id", user.ID)
	return token, nil
}

func (s *authService) codeValid(user *models.User, code string) bool {
	if user.ConfirmationCodeHash == "" || user.ConfirmationCodeIssued == nil {
		return false
	}
	if s.codeTTL > 0 && s.now().After(user.ConfirmationCodeIssued.Add(s.codeTTL)) {
		return false
	}
	return auth.VerifyConfirmationCode(user.ConfirmationCodeHash, code)
}

func (s *authService) generateAccessToken(user *models.User, now time.Time) (string, error) {
	claims := shared.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     shared.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &shared.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthenticated.Wrap(err)
	}
	if claims.Type != shared.TokenTypeAccess || claims.UserID == "" {
		return nil, shared.ErrUnauthenticated
	}

	// roles can change after issue; always act on the stored user
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// findOptional turns a not-found lookup into (nil, nil).
func (s *authService) findOptional(user *models.User, err error) (*models.User, error) {
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}
