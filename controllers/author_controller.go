package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthorController is the authenticated write side: author sessions,
// drafting, publishing and comment moderation.
type AuthorController struct {
	db *gorm.DB
}

// NewAuthorController creates a new AuthorController instance.
func NewAuthorController(db *gorm.DB) *AuthorController {
	return &AuthorController{db: db}
}

// Login checks author credentials and issues a session token.
func (a *AuthorController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40050, utils.FieldErrors(err))
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid credentials")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "username": user.Username},
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthorController) Logout(ctx *gin.Context) {
	tokenVal, _ := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "no session token")
		return
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

type postForm struct {
	Title   string     `json:"title" binding:"required,max=250"`
	Body    string     `json:"body" binding:"required"`
	Slug    string     `json:"slug" binding:"max=250"`
	Publish *time.Time `json:"publish"`
	Tags    []string   `json:"tags"`
}

// CreatePost stores a new draft owned by the authenticated author. The slug
// is derived from the title when omitted and must be unique within the UTC
// publish date.
func (a *AuthorController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req postForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40060, utils.FieldErrors(err))
		return
	}

	title := strings.TrimSpace(req.Title)
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" {
		utils.ValidationError(ctx, 40061, map[string]string{"slug": "cannot derive a slug from this title"})
		return
	}

	publish := time.Now().UTC()
	if req.Publish != nil {
		publish = req.Publish.UTC()
	}

	conflict, err := a.slugTaken(slug, publish, 0)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to check slug")
		return
	}
	if conflict {
		utils.Error(ctx, http.StatusConflict, 40901, "slug already used on this publish date")
		return
	}

	tags, err := a.ensureTags(req.Tags)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to resolve tags")
		return
	}

	post := models.Post{
		Title:    title,
		Slug:     slug,
		AuthorID: userID,
		Body:     req.Body,
		Publish:  publish,
		Status:   models.StatusDraft,
		Tags:     tags,
	}
	if err := a.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to create post")
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost lets the owner edit a post. The updated timestamp refreshes on
// every mutation.
func (a *AuthorController) UpdatePost(ctx *gin.Context) {
	post, ok := a.ownedPost(ctx)
	if !ok {
		return
	}

	var req postForm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40062, utils.FieldErrors(err))
		return
	}

	title := strings.TrimSpace(req.Title)
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	publish := post.Publish
	if req.Publish != nil {
		publish = req.Publish.UTC()
	}

	conflict, err := a.slugTaken(slug, publish, post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to check slug")
		return
	}
	if conflict {
		utils.Error(ctx, http.StatusConflict, 40901, "slug already used on this publish date")
		return
	}

	tags, err := a.ensureTags(req.Tags)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to resolve tags")
		return
	}

	post.Title = title
	post.Slug = slug
	post.Body = req.Body
	post.Publish = publish
	if err := a.db.Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to update post")
		return
	}
	if err := a.db.Model(post).Association("Tags").Replace(tags); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50067, "failed to update tags")
		return
	}
	post.Tags = tags

	utils.Success(ctx, gin.H{"post": post})
}

// PublishPost transitions a draft to published under owner control.
func (a *AuthorController) PublishPost(ctx *gin.Context) {
	post, ok := a.ownedPost(ctx)
	if !ok {
		return
	}
	if post.Status != models.StatusPublished {
		post.Status = models.StatusPublished
		if err := a.db.Save(post).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50068, "failed to publish post")
			return
		}
	}
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost removes an owned post along with its comments and tag links.
func (a *AuthorController) DeletePost(ctx *gin.Context) {
	post, ok := a.ownedPost(ctx)
	if !ok {
		return
	}
	if err := a.db.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50069, "failed to delete comments")
		return
	}
	if err := a.db.Model(post).Association("Tags").Clear(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to detach tags")
		return
	}
	if err := a.db.Delete(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to delete post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ModerateComment toggles a comment's visibility flag.
func (a *AuthorController) ModerateComment(ctx *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40070, utils.FieldErrors(err))
		return
	}

	var comment models.Comment
	if err := a.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load comment")
		return
	}

	comment.Active = *req.Active
	if err := a.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to update comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// ownedPost loads the path post and enforces ownership. Errors are written
// to the context; the bool reports success.
func (a *AuthorController) ownedPost(ctx *gin.Context) (*models.Post, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}

	var post models.Post
	if err := a.db.Preload("Tags").First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40414, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to load post")
		return nil, false
	}
	if post.AuthorID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only manage your own posts")
		return nil, false
	}
	return &post, true
}

// slugTaken reports whether another post already uses slug within the UTC
// day of publish. excludeID skips the post being edited.
func (a *AuthorController) slugTaken(slug string, publish time.Time, excludeID uint) (bool, error) {
	day := publish.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int64
	q := a.db.Model(&models.Post{}).
		Where("slug = ? AND publish >= ? AND publish < ?", slug, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ensureTags resolves free-form labels to tag rows, creating missing ones.
// Labels are deduplicated case-insensitively.
func (a *AuthorController) ensureTags(labels []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(labels))
	tags := make([]models.Tag, 0, len(labels))
	for _, label := range labels {
		name := strings.TrimSpace(label)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		var tag models.Tag
		err := a.db.Where("name = ?", name).
			Attrs(models.Tag{Name: name, Slug: utils.Slugify(name)}).
			FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
