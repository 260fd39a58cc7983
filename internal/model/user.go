package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Patients sign up as "user",
// practitioners as "doctor".
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleDoctor:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
