package entity

import (
	"time"

	"github.com/google/uuid"
)

type BaseEntity struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Pagination[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
	Skip       int `json:"skip"`
	Limit      int `json:"limit"`
}

// Roles
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// AuthUser is the authenticated caller resolved by the auth middleware.
type AuthUser struct {
	ID     uuid.UUID
	TeamID *uuid.UUID
	Role   string
}

func (u *AuthUser) HasTeam() bool {
	return u != nil && u.TeamID != nil && *u.TeamID != uuid.Nil
}

func (u *AuthUser) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
