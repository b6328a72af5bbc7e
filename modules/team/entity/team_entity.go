package entity

import (
	"team-calendar-api/core/entity"

	"github.com/google/uuid"
)

type Team struct {
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	entity.BaseEntity
}

// User is the directory view of an account: who it is and which team it
// belongs to.
type User struct {
	Email    string     `db:"email" json:"email"`
	Role     string     `db:"role" json:"role"`
	IsActive bool       `db:"is_active" json:"is_active"`
	TeamID   *uuid.UUID `db:"team_id" json:"team_id,omitempty"`

	entity.BaseEntity
}

func (u *User) BelongsTo(teamID uuid.UUID) bool {
	return u != nil && u.TeamID != nil && *u.TeamID == teamID
}
