package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"reviewhub/internal/shared"

	"github.com/go-playground/validator/v10"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxSlugLength     = 50
	MaxNameLength     = 256

	MinScore = 1
	MaxScore = 10

	// ReservedUsername names the current user in URLs and cannot be registered.
	ReservedUsername = "me"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// shared instance; validator caches per-tag parsing
	validate = validator.New(validator.WithRequiredStructEnabled())

	errInvalidName       = shared.Validation("name is required and must be at most 256 characters")
	errFullUpdateMissing = shared.Validation("text and score are required for a full update")
)

// UsernamePattern reports whether username has only allowed characters.
func UsernamePattern(username string) bool {
	return usernamePattern.MatchString(username)
}

// SlugPattern reports whether slug is URL safe.
func SlugPattern(slug string) bool {
	return slugPattern.MatchString(slug)
}

func ValidateUsername(username string) error {
	if strings.EqualFold(username, ReservedUsername) {
		return shared.ErrReservedUsername
	}
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength || !UsernamePattern(username) {
		return shared.ErrInvalidUsername
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return shared.ErrInvalidEmail
	}
	return nil
}

func ValidateSlug(slug string) error {
	if slug == "" || len(slug) > MaxSlugLength || !SlugPattern(slug) {
		return shared.ErrInvalidSlug
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return errInvalidName
	}
	return nil
}

// ValidateYear rejects release years later than the current year.
func ValidateYear(year int, now time.Time) error {
	if year > now.Year() {
		return shared.ErrInvalidYear
	}
	return nil
}

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return shared.ErrInvalidScore
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return shared.ErrEmptyText
	}
	return nil
}
