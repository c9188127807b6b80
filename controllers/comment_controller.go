package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// CommentController accepts visitor comments on published posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type commentForm struct {
	Name  string `form:"name" json:"name" binding:"required,max=80"`
	Email string `form:"email" json:"email" binding:"required,email"`
	Body  string `form:"body" json:"body" binding:"required"`
}

// Create validates and persists a comment on the target published post.
// Validation failures re-render with field errors and persist nothing.
func (c *CommentController) Create(ctx *gin.Context) {
	// MySQL would coerce a trailing-garbage id like "5abc" to 5, so the
	// segment is parsed strictly before it reaches the query.
	postID, err := strconv.ParseUint(ctx.Param("postID"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
		return
	}

	var post models.Post
	if err := c.db.Scopes(models.Published).First(&post, "posts.id = ?", uint(postID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load post")
		return
	}

	var form commentForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.ValidationError(ctx, 40020, utils.FieldErrors(err))
		return
	}

	body := utils.Sanitize(strings.TrimSpace(form.Body))
	if body == "" {
		utils.ValidationError(ctx, 40021, map[string]string{"body": "this field is required"})
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		Name:   strings.TrimSpace(form.Name),
		Email:  strings.TrimSpace(form.Email),
		Body:   body,
		Active: true,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment, "post": gin.H{"id": post.ID, "title": post.Title}})
}
