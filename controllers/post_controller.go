package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

const (
	// PostsPerPage is the fixed page size for listing views.
	PostsPerPage = 2
	// SimilarPostsLimit caps the similar-post recommendations on detail pages.
	SimilarPostsLimit = 4
	// SearchSimilarityFloor drops search hits scoring at or below it.
	SearchSimilarityFloor = 0.1
)

// PostController serves the public read side: listings, detail pages and
// title search.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// List returns published posts newest-first, paginated, optionally filtered
// to a single tag when the route carries a tag slug. Bad or out-of-range
// page indicators fall back silently, never erroring.
func (p *PostController) List(ctx *gin.Context) {
	var tag *models.Tag
	if slug := ctx.Param("tagSlug"); slug != "" {
		var t models.Tag
		if err := p.db.Where("slug = ?", slug).First(&t).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Error(ctx, http.StatusNotFound, 40410, "tag not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load tag")
			return
		}
		tag = &t
	}

	query := p.db.Scopes(models.Published).Preload("Author").Preload("Tags").Order("posts.publish DESC")
	if tag != nil {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", tag.ID)
	}

	var total int64
	if err := query.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to count posts")
		return
	}

	page := utils.ResolvePage(ctx.Query("page"), total, PostsPerPage)

	var posts []models.Post
	if err := query.Offset(page.Offset()).Limit(page.Size).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{
		"posts": posts,
		"tag":   tag,
		"pagination": gin.H{
			"page":         page.Number,
			"page_size":    page.Size,
			"total_pages":  page.TotalPages,
			"total_items":  page.TotalItems,
			"has_next":     page.HasNext(),
			"has_previous": page.HasPrevious(),
		},
	})
}

// Detail returns one published post addressed by its UTC publish date and
// slug, together with its active comments (oldest first), similar posts, and
// an empty comment form for rendering.
func (p *PostController) Detail(ctx *gin.Context) {
	year, errY := strconv.Atoi(ctx.Param("year"))
	month, errM := strconv.Atoi(ctx.Param("month"))
	day, errD := strconv.Atoi(ctx.Param("day"))
	slug := ctx.Param("slug")
	if errY != nil || errM != nil || errD != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "post not found")
		return
	}
	// time.Date rolls impossible dates into the next month; the triple must
	// round-trip unchanged.
	if t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); t.Year() != year ||
		t.Month() != time.Month(month) || t.Day() != day {
		utils.Error(ctx, http.StatusNotFound, 40411, "post not found")
		return
	}

	var post models.Post
	err := p.db.Scopes(models.Published, models.ByPublishDate(year, month, day)).
		Where("posts.slug = ?", slug).
		Preload("Author").Preload("Tags").
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load post")
		return
	}

	var comments []models.Comment
	if err := p.db.Where("post_id = ? AND active = ?", post.ID, true).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load comments")
		return
	}

	similar, err := models.SimilarTo(p.db, &post, SimilarPostsLimit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load similar posts")
		return
	}

	utils.Success(ctx, gin.H{
		"post":          post,
		"comments":      comments,
		"similar_posts": similar,
		"form":          gin.H{"name": "", "email": "", "body": ""},
	})
}

// SearchResult pairs a post with its title similarity score.
type SearchResult struct {
	Post       models.Post `json:"post"`
	Similarity float64     `json:"similarity"`
}

type searchForm struct {
	Query string `form:"query" binding:"required,max=255"`
}

// Search ranks published posts by trigram similarity between title and
// query, dropping weak matches. Without a query parameter it returns the
// empty form context.
func (p *PostController) Search(ctx *gin.Context) {
	if _, present := ctx.GetQuery("query"); !present {
		utils.Success(ctx, gin.H{"query": "", "results": []SearchResult{}})
		return
	}

	var form searchForm
	if err := ctx.ShouldBindQuery(&form); err != nil {
		utils.ValidationError(ctx, 40030, utils.FieldErrors(err))
		return
	}

	// Candidates come back newest-first so the stable sort leaves ties in
	// publish-recency order.
	var posts []models.Post
	if err := p.db.Scopes(models.Published).Preload("Author").
		Order("posts.publish DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to search posts")
		return
	}

	results := make([]SearchResult, 0)
	for _, post := range posts {
		score := utils.TrigramSimilarity(post.Title, form.Query)
		if score > SearchSimilarityFloor {
			results = append(results, SearchResult{Post: post, Similarity: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	utils.Success(ctx, gin.H{"query": form.Query, "results": results})
}
