package controllers

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/utils"
)

const (
	// FeedItems is how many of the latest posts the RSS feed carries.
	FeedItems = 5
	// FeedDescriptionWords is the word budget for feed item descriptions.
	FeedDescriptionWords = 30
)

// FeedController emits the machine-readable surfaces: the RSS feed and the
// sitemap.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Latest serves an RSS 2.0 feed of the newest published posts. Item bodies
// are rendered from Markdown and truncated to a fixed word budget with the
// markup kept balanced.
func (f *FeedController) Latest(ctx *gin.Context) {
	var posts []models.Post
	if err := f.db.Scopes(models.Published).
		Order("posts.publish DESC").Limit(FeedItems).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load feed posts")
		return
	}

	cfg := config.Get()
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := cfg.SiteURL + p.URLPath()
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			Description: utils.TruncateHTMLWords(utils.RenderMarkdown(p.Body), FeedDescriptionWords),
			PubDate:     p.Publish.UTC().Format(time.RFC1123Z),
		})
	}

	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.SiteName,
			Link:        cfg.SiteURL + "/",
			Description: cfg.SiteDescription,
			Items:       items,
		},
	}
	writeXML(ctx, "application/rss+xml; charset=utf-8", doc)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap lists every published post with its last-modified timestamp so
// crawlers can prioritize fresh content.
func (f *FeedController) Sitemap(ctx *gin.Context) {
	var posts []models.Post
	if err := f.db.Scopes(models.Published).
		Order("posts.publish DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load sitemap posts")
		return
	}

	cfg := config.Get()
	urls := make([]sitemapURL, 0, len(posts))
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        cfg.SiteURL + p.URLPath(),
			LastMod:    p.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.9",
		})
	}

	writeXML(ctx, "application/xml; charset=utf-8", sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func writeXML(ctx *gin.Context, contentType string, doc interface{}) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to encode document")
		return
	}
	ctx.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
