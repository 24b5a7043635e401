package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role grants increasing capability: user < moderator < admin.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) rank() int {
	switch r {
	case RoleModerator:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether r grants at least the capability of other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      Role   `gorm:"type:varchar(16);default:'user';not null" json:"role"` // default after creation is "user"
	IsStaff   bool   `gorm:"default:false;not null" json:"-"`                        // set only from the admin CLI

	// single-use code from the signup flow, hashed; empty once consumed
	ConfirmationCodeHash   string     `gorm:"column:confirmation_code_hash" json:"-"`
	ConfirmationCodeIssued *time.Time `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID and default role before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// IsAdmin covers both the admin role and staff accounts.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsStaff
}

func (User) TableName() string {
	return "users"
}
