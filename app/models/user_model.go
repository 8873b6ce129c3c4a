package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"uid"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	AccountType  string    `json:"accountType" db:"account_type"`
	SchoolName   string    `json:"schoolName,omitempty" db:"school_name"`
	Avatar       string    `json:"avatar,omitempty" db:"avatar"`
	Verified     bool      `json:"verified" db:"verified"`
	OTP          string    `json:"-" db:"otp"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is what other users may see of an account.
type PublicUser struct {
	ID          uuid.UUID `json:"id" db:"uid"`
	Username    string    `json:"username" db:"username"`
	AccountType string    `json:"accountType" db:"account_type"`
	SchoolName  string    `json:"schoolName,omitempty" db:"school_name"`
	Avatar      string    `json:"avatar,omitempty" db:"avatar"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		AccountType: u.AccountType,
		SchoolName:  u.SchoolName,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}

type RefreshToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	Token     string     `json:"token" db:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	Revoked   bool       `json:"revoked" db:"revoked"`
}

// Expired reports whether the token can no longer be exchanged at now.
func (rt RefreshToken) Expired(now time.Time) bool {
	return rt.Revoked || (rt.ExpiresAt != nil && now.After(*rt.ExpiresAt))
}
