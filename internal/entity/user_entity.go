package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
	UserRoleAdmin    UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User covers both customers and staff. XP and Level belong to the
// gamified lesson progression; they are only ever increased, best-effort,
// when a booking completes.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Phone        string
	Role         UserRole
	Status       UserStatus
	XP           int
	Level        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LevelForXP derives the progression level from accumulated points.
// Every 500 XP advances one level, starting at level 1.
func LevelForXP(xp int) int {
	return xp/500 + 1
}
