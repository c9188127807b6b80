package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

// Mailer dispatches a composed message. utils.SendMail satisfies it; tests
// inject a fake.
type Mailer func(subject, body string, to []string) error

// ShareController handles sharing a post by email. Nothing is persisted on
// this path; a failed dispatch leaves no state behind.
type ShareController struct {
	db   *gorm.DB
	mail Mailer
}

// NewShareController creates a new ShareController instance.
func NewShareController(db *gorm.DB, mail Mailer) *ShareController {
	return &ShareController{db: db, mail: mail}
}

type shareForm struct {
	Name     string `form:"name" json:"name" binding:"required,max=50"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	To       string `form:"to" json:"to" binding:"required,email"`
	Comments string `form:"comments" json:"comments"`
}

// Form identifies the post and returns the empty share form context.
func (s *ShareController) Form(ctx *gin.Context) {
	post, ok := s.lookupPost(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{
		"post": gin.H{"id": post.ID, "title": post.Title, "url": post.URLPath()},
		"form": gin.H{"name": "", "email": "", "to": "", "comments": ""},
		"sent": false,
	})
}

// Send validates the form, composes the notification and dispatches it.
// sent=true is reported only after the SMTP dialogue completed.
func (s *ShareController) Send(ctx *gin.Context) {
	post, ok := s.lookupPost(ctx)
	if !ok {
		return
	}

	var form shareForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.ValidationError(ctx, 40040, utils.FieldErrors(err))
		return
	}

	postURL := config.Get().SiteURL + post.URLPath()
	subject := fmt.Sprintf("%s recommends you read %s", form.Name, post.Title)
	body := fmt.Sprintf("Read %s at %s\n\n%s's comments: %s",
		post.Title, postURL, form.Name, form.Comments)

	if err := s.mail(subject, body, []string{form.To}); err != nil {
		utils.Sugar.Errorw("share mail dispatch failed",
			"post_id", post.ID, "recipient", form.To, "error", err)
		utils.Respond(ctx, http.StatusBadGateway, 50240, "failed to send share email", gin.H{"sent": false})
		return
	}

	utils.Success(ctx, gin.H{
		"post": gin.H{"id": post.ID, "title": post.Title, "url": postURL},
		"sent": true,
	})
}

func (s *ShareController) lookupPost(ctx *gin.Context) (*models.Post, bool) {
	postID, err := strconv.ParseUint(ctx.Param("postID"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
		return nil, false
	}

	var post models.Post
	if err := s.db.Scopes(models.Published).First(&post, "posts.id = ?", uint(postID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load post")
		return nil, false
	}
	return &post, true
}
