package models

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey"`
	Token     string     `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint       `gorm:"not null;index"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

func NewPasswordResetToken(userID uint, ttl time.Duration, now time.Time) PasswordResetToken {
	return PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
	}
}

// Usable reports whether the token can still reset a password.
func (t PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
