// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment is always scoped to exactly one parent post. Post and author are
// fixed at creation; only the text is mutable, and only by the author.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Created   time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `json:"updated_at"`
}
