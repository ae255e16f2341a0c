// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Follow is the directed relationship "user follows following".
// The (user_id, following_id) pair is unique at the database level; the
// repository relies on that constraint for its atomic conditional insert.
// Self-follows are rejected before insert.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"user_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	User      User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
