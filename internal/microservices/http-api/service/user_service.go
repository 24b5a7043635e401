package service

import (
	"context"
	"log/slog"
	"strings"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/permission"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/shared"
)

type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      models.Role // empty means user
}

// UserPatch is a partial update of a user record; nil fields are unchanged.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

// UserService covers the admin user endpoints and the self-service profile.
type UserService interface {
	List(ctx context.Context, actor permission.Actor, search string, opts repository.ListOptions) ([]models.User, int64, error)
	Get(ctx context.Context, actor permission.Actor, username string) (*models.User, error)
	Create(ctx context.Context, actor permission.Actor, in UserInput) (*models.User, error)
	Update(ctx context.Context, actor permission.Actor, username string, in UserPatch) (*models.User, error)
	Delete(ctx context.Context, actor permission.Actor, username string) error

	GetSelf(ctx context.Context, actor permission.Actor) (*models.User, error)
	// UpdateSelf ignores any role in the patch.
	UpdateSelf(ctx context.Context, actor permission.Actor, in UserPatch) (*models.User, error)
}

type userService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{users: users, logger: logger}
}

var usersResource = permission.Resource{Kind: permission.KindUser}

func userResource(u *models.User) permission.Resource {
	return permission.Resource{Kind: permission.KindUser, OwnerID: u.ID}
}

func (s *userService) List(ctx context.Context, actor permission.Actor, search string, opts repository.ListOptions) ([]models.User, int64, error) {
	if err := permission.Authorize(actor, permission.Read, usersResource); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, strings.TrimSpace(search), opts)
}

func (s *userService) Get(ctx context.Context, actor permission.Actor, username string) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, shared.ErrUnauthenticated
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := permission.Authorize(actor, permission.Read, userResource(user)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, actor permission.Actor, in UserInput) (*models.User, error) {
	if err := permission.Authorize(actor, permission.Create, usersResource); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, shared.ErrInvalidRole
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "actor", actor.UserID)
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor permission.Actor, username string, in UserPatch) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, shared.ErrUnauthenticated
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, user, in)
}

func (s *userService) Delete(ctx context.Context, actor permission.Actor, username string) error {
	if !actor.Authenticated() {
		return shared.ErrUnauthenticated
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := permission.Authorize(actor, permission.Delete, userResource(user)); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", user.ID, "actor", actor.UserID)
	return nil
}

func (s *userService) GetSelf(ctx context.Context, actor permission.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, shared.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, actor.UserID)
}

func (s *userService) UpdateSelf(ctx context.Context, actor permission.Actor, in UserPatch) (*models.User, error) {
	user, err := s.GetSelf(ctx, actor)
	if err != nil {
		return nil, err
	}
	in.Role = nil
	return s.apply(ctx, actor, user, in)
}

// apply authorizes and writes a patch. Changing username or email voids any
// outstanding confirmation code.
func (s *userService) apply(ctx context.Context, actor permission.Actor, user *models.User, in UserPatch) (*models.User, error) {
	if err := permission.Authorize(actor, permission.Update, userResource(user)); err != nil {
		return nil, err
	}

	identityChanged := false
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if err := ValidateUsername(name); err != nil {
			return nil, err
		}
		if name != user.Username {
			user.Username = name
			identityChanged = true
		}
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			user.Email = email
			identityChanged = true
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && *in.Role != user.Role {
		if err := permission.Authorize(actor, permission.AssignRole, userResource(user)); err != nil {
			return nil, err
		}
		if !in.Role.Valid() {
			return nil, shared.ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if identityChanged {
		user.ConfirmationCodeHash = ""
		user.ConfirmationCodeIssued = nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", user.ID, "actor", actor.UserID)
	return user, nil
}
