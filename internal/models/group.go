// Package models contains data structures for the application's domain models.
package models

import "time"

// Group is a thematic community that posts may optionally belong to.
// Groups are read-only through the API; they are created by seeding or
// migrations.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"unique;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
