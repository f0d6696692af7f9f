package domain

import (
	"errors"
	"time"
)

// User owns accounts, transactions and journal entries.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is a user's access level.
type Role string

const (
	// RoleAdmin may additionally run operational commands such as balance
	// recalculation.
	RoleAdmin Role = "admin"

	// RoleMember is a regular user of the tracker.
	RoleMember Role = "member"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// CanRecalculate checks if the role may run the balance repair job.
func (r Role) CanRecalculate() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInsufficientRole   = errors.New("insufficient role for this operation")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
