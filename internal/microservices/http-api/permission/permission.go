// Package permission holds the single authorization predicate consulted by
// every mutating operation. It is pure: no store access, no side effects.
package permission

import (
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/shared"
)

type Operation int

const (
	Read Operation = iota
	Create
	Update
	Delete
	// AssignRole changes a user's role; separate from Update so that a
	// user may edit their own profile but never their own role.
	AssignRole
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case AssignRole:
		return "assign_role"
	}
	return "unknown"
}

type Kind string

const (
	KindTitle    Kind = "title"
	KindGenre    Kind = "genre"
	KindCategory Kind = "category"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"
	KindUser     Kind = "user"
)

// Resource is the target of an operation. OwnerID is the author for
// reviews/comments and the user's own id for user records; empty for
// collections and catalog entries.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Actor is the identity performing an operation. The zero value is anonymous.
type Actor struct {
	UserID string
	Role   models.Role
	Staff  bool
}

// ActorFromUser builds an actor from a loaded user; nil means anonymous.
func ActorFromUser(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UserID: u.ID, Role: u.Role, Staff: u.IsStaff}
}

func (a Actor) Authenticated() bool { return a.UserID != "" }

func (a Actor) IsAdmin() bool { return a.Authenticated() && (a.Role == models.RoleAdmin || a.Staff) }

// IsModerator is true for moderators and everything above them.
func (a Actor) IsModerator() bool {
	return a.Authenticated() && (a.Staff || a.Role.AtLeast(models.RoleModerator))
}

func (a Actor) owns(res Resource) bool {
	return a.Authenticated() && res.OwnerID != "" && res.OwnerID == a.UserID
}

// Authorize returns nil when actor may perform op on res, ErrUnauthenticated
// when an anonymous actor attempts something that needs an identity, and
// ErrForbidden otherwise.
func Authorize(actor Actor, op Operation, res Resource) error {
	if allowed(actor, op, res) {
		return nil
	}
	if !actor.Authenticated() {
		return shared.ErrUnauthenticated
	}
	return shared.ErrForbidden
}

func allowed(actor Actor, op Operation, res Resource) bool {
	switch res.Kind {
	case KindTitle, KindGenre, KindCategory:
		return op == Read || actor.IsAdmin()

	case KindReview, KindComment:
		switch op {
		case Read:
			return true
		case Create:
			return actor.Authenticated()
		case Update, Delete:
			return actor.owns(res) || actor.IsModerator()
		}
		return false

	case KindUser:
		if actor.IsAdmin() {
			return true
		}
		return (op == Read || op == Update) && actor.owns(res)
	}
	return false
}
