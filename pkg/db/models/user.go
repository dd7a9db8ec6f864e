package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/enums"
)

// User represents the canonical identity entity. Customers sign in with a
// phone number or email; business owners additionally carry a password hash.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone        *string        `gorm:"column:phone;uniqueIndex"`
	Email        *string        `gorm:"column:email;uniqueIndex"`
	Name         *string        `gorm:"column:name"`
	PasswordHash *string        `gorm:"column:password_hash"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:'customer'"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
