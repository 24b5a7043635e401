package shared

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindAuthentication:
		return "authentication"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message so that wrapped copies
// produced by Wrap still satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap attaches a cause to a sentinel while keeping its kind and message.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) *Error { return &Error{Kind: KindAuthorization, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

var (
	ErrInvalidScore            = Validation("score must be an integer between 1 and 10")
	ErrInvalidYear             = Validation("year cannot be later than the current year")
	ErrInvalidUsername         = Validation("username may contain only letters, digits and @/./+/-/_ and be at most 150 characters")
	ErrReservedUsername        = Validation(`username "me" is reserved`)
	ErrInvalidEmail            = Validation("a valid email address of at most 254 characters is required")
	ErrInvalidSlug             = Validation("slug may contain only latin letters, digits, hyphens and underscores and be at most 50 characters")
	ErrInvalidRole             = Validation("role must be one of user, moderator, admin")
	ErrEmptyText               = Validation("text must not be empty")
	ErrInvalidConfirmationCode = Validation("invalid confirmation code")

	ErrTitleNotFound    = NotFound("title not found")
	ErrReviewNotFound   = NotFound("review not found")
	ErrCommentNotFound  = NotFound("comment not found")
	ErrUserNotFound     = NotFound("user not found")
	ErrGenreNotFound    = NotFound("genre not found")
	ErrCategoryNotFound = NotFound("category not found")

	ErrDuplicateReview  = Conflict("this author has already reviewed the title")
	ErrIdentityConflict = Conflict("username or email is already in use")
	ErrAlreadyExists    = Conflict("resource already exists")

	ErrForbidden       = Forbidden("you do not have permission to perform this action")
	ErrUnauthenticated = Unauthenticated("authentication credentials were not provided or are invalid")
)
