package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Community is a named catchment area. Names are unique ignoring case and
// surrounding/repeated whitespace, enforced through NameKey.
type Community struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	NameKey   string    `gorm:"size:150;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CommunityKey is the comparison form of a community name.
func CommunityKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (c *Community) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.Join(strings.Fields(c.Name), " ")
	c.NameKey = CommunityKey(c.Name)
	return nil
}
