package models

import (
	"time"

	"gorm.io/gorm"
)

// Published narrows a query to posts readers may see. Used as a gorm scope
// so every public controller shares the exact same predicate.
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status = ?", StatusPublished)
}

// ByPublishDate narrows a post query to one UTC calendar day of the publish
// timestamp. Slug uniqueness is scoped to this window.
func ByPublishDate(year, month, day int) func(*gorm.DB) *gorm.DB {
	start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.publish >= ? AND posts.publish < ?", start, end)
	}
}

// SimilarTo ranks other published posts by the number of tags they share
// with p, newest first among equals, at most limit results. Tag membership
// is a set: the join counts each shared tag once. A post without tags has
// no candidates.
func SimilarTo(db *gorm.DB, p *Post, limit int) ([]Post, error) {
	var tagIDs []uint
	if err := db.Table("post_tags").Where("post_id = ?", p.ID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []Post{}, nil
	}

	var posts []Post
	err := db.Model(&Post{}).
		Select("posts.*, COUNT(post_tags.tag_id) AS same_tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id IN ?", tagIDs).
		Where("posts.id <> ?", p.ID).
		Scopes(Published).
		Group("posts.id").
		Order("same_tags DESC, posts.publish DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
