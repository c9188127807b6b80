package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache memory database keeps all pool connections on
	// the same data; the name isolates tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Tag{}, &Post{}, &Comment{}))
	return db
}

func makeTag(t *testing.T, db *gorm.DB, name string) *Tag {
	t.Helper()
	tag := Tag{Name: name, Slug: name}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func makePost(t *testing.T, db *gorm.DB, title, slug string, status Status, publish time.Time, tags ...*Tag) *Post {
	t.Helper()
	author := User{Username: "author-" + slug}
	require.NoError(t, db.Where("username = ?", author.Username).FirstOrCreate(&author).Error)

	post := Post{
		Title:    title,
		Slug:     slug,
		AuthorID: author.ID,
		Body:     "body of " + title,
		Publish:  publish,
		Status:   status,
	}
	for _, tag := range tags {
		post.Tags = append(post.Tags, *tag)
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC)
}

func TestUserPostsAssociation(t *testing.T) {
	db := newTestDB(t)
	post := makePost(t, db, "Mine", "mine", StatusPublished, day(1))

	var author User
	require.NoError(t, db.Preload("Posts").First(&author, "id = ?", post.AuthorID).Error)
	require.Len(t, author.Posts, 1)
	assert.Equal(t, post.ID, author.Posts[0].ID)
}

func TestPublishedScopeHidesDrafts(t *testing.T) {
	db := newTestDB(t)
	makePost(t, db, "Visible", "visible", StatusPublished, day(1))
	makePost(t, db, "Hidden", "hidden", StatusDraft, day(2))

	var posts []Post
	require.NoError(t, db.Scopes(Published).Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, "Visible", posts[0].Title)
}

func TestByPublishDateWindow(t *testing.T) {
	db := newTestDB(t)
	makePost(t, db, "In", "in", StatusPublished, time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC))
	makePost(t, db, "Out", "out", StatusPublished, time.Date(2024, 1, 11, 0, 1, 0, 0, time.UTC))

	var posts []Post
	require.NoError(t, db.Scopes(ByPublishDate(2024, 1, 10)).Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, "In", posts[0].Title)
}

func TestSimilarToSharedTagScenario(t *testing.T) {
	db := newTestDB(t)
	x := makeTag(t, db, "x")
	y := makeTag(t, db, "y")

	a := makePost(t, db, "A", "a", StatusPublished, day(10), x, y)
	makePost(t, db, "B", "b", StatusPublished, day(5), x)
	makePost(t, db, "C", "c", StatusPublished, day(1), x, y)

	similar, err := SimilarTo(db, a, 4)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	// C shares two tags and beats B's one despite being older.
	assert.Equal(t, "C", similar[0].Title)
	assert.Equal(t, "B", similar[1].Title)
}

func TestSimilarToTiesBreakTowardNewer(t *testing.T) {
	db := newTestDB(t)
	x := makeTag(t, db, "x")

	a := makePost(t, db, "A", "a", StatusPublished, day(10), x)
	makePost(t, db, "Old", "old", StatusPublished, day(2), x)
	makePost(t, db, "New", "new", StatusPublished, day(7), x)

	similar, err := SimilarTo(db, a, 4)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, "New", similar[0].Title)
	assert.Equal(t, "Old", similar[1].Title)
}

func TestSimilarToExcludesSelfDraftsAndHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	x := makeTag(t, db, "x")

	a := makePost(t, db, "A", "a", StatusPublished, day(20), x)
	for i := 1; i <= 5; i++ {
		makePost(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d", i), StatusPublished, day(i), x)
	}
	makePost(t, db, "Draft", "draft", StatusDraft, day(15), x)

	similar, err := SimilarTo(db, a, 4)
	require.NoError(t, err)
	require.Len(t, similar, 4)
	for _, p := range similar {
		assert.NotEqual(t, a.ID, p.ID)
		assert.Equal(t, StatusPublished, p.Status)
	}
	// Newest candidates win within the limit.
	assert.Equal(t, "P5", similar[0].Title)
	assert.Equal(t, "P2", similar[3].Title)
}

func TestSimilarToWithoutTags(t *testing.T) {
	db := newTestDB(t)
	x := makeTag(t, db, "x")
	bare := makePost(t, db, "Bare", "bare", StatusPublished, day(3))
	makePost(t, db, "Tagged", "tagged", StatusPublished, day(4), x)

	similar, err := SimilarTo(db, bare, 4)
	require.NoError(t, err)
	assert.Empty(t, similar)
}
