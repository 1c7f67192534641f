package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string  `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string  `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Password string  `json:"-" gorm:"not null"`
	Role     Role    `json:"role" gorm:"size:20;not null"`
	IsActive bool    `json:"is_active" gorm:"not null"`
	Photo    *string `json:"photo"` // reference only, storage lives elsewhere
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	return nil
}
