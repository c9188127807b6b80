package models

// Tag is a free-form label attached to posts. Labels are deduplicated by
// name; the slug is the URL-safe form used in listing routes.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}
