package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post represents a blog post written by an author. Bodies are Markdown;
// rendering happens at the edges (feed, clients), never in the store.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:250;not null" json:"title"`
	Slug      string    `gorm:"size:250;index;not null" json:"slug"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Publish   time.Time `gorm:"index;not null" json:"publish"`
	Status    Status    `gorm:"size:10;index;default:'draft'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Tags      []Tag     `gorm:"many2many:post_tags;" json:"tags"`
}

// BeforeCreate defaults the publish time to now, matching the rule that a
// fresh draft is dated at creation until the author says otherwise.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Publish.IsZero() {
		p.Publish = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp on every mutation.
func (p *Post) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// URLPath returns the canonical site path for the post. Slug uniqueness is
// scoped to the UTC publish date, so the date is part of the identity.
func (p *Post) URLPath() string {
	d := p.Publish.UTC()
	return fmt.Sprintf("/%d/%d/%d/%s", d.Year(), int(d.Month()), d.Day(), p.Slug)
}
