package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a cashier or manager account. Every user works at exactly one
// trading point; the session token carries that binding so shift and
// transaction endpoints never have to ask.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	PasswordHash   string
	TradingPointID uuid.UUID
	Status         UserStatus
	CreatedAt      time.Time
}
