package models

import "time"

// Comment represents a visitor comment on a post. Comments are never edited
// after creation; moderators may only flip the Active flag.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
