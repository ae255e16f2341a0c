// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a publication owned by its author. Author and PubDate are
// fixed at creation and never mutated by update operations.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	PubDate   time.Time `gorm:"autoCreateTime;column:pub_date" json:"pub_date"`
	UpdatedAt time.Time `json:"updated_at"`
}
