package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/controllers"
	"github.com/inkpress/inkpress/middleware"
	"github.com/inkpress/inkpress/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, mail controllers.Mailer) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Replace the default console logger with a file-based zap logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	shareController := controllers.NewShareController(db, mail)
	feedController := controllers.NewFeedController(db)
	authorController := controllers.NewAuthorController(db)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	// Public blog surface.
	r.GET("/", postController.List)
	r.GET("/tag/:tagSlug", postController.List)
	r.GET("/search", postController.Search)
	r.GET("/feed", feedController.Latest)
	r.GET("/sitemap.xml", feedController.Sitemap)

	// Author API.
	auth := r.Group("/api/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/login", authorController.Login)
	auth.POST("/logout", middleware.AuthRequired(), authorController.Logout)

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	api.POST("/posts", authorController.CreatePost)
	api.PUT("/posts/:id", authorController.UpdatePost)
	api.POST("/posts/:id/publish", authorController.PublishPost)
	api.DELETE("/posts/:id", authorController.DeletePost)
	api.PATCH("/comments/:id/active", authorController.ModerateComment)

	// The dated detail route and the id-prefixed share/comment routes start
	// with a wildcard segment, which gin's tree cannot host next to the
	// static routes above. They are dispatched from the NoRoute fallback
	// instead, which also owns their 405 answers.
	rl := middleware.RateLimitMiddleware()
	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}

		segs := strings.Split(strings.Trim(path, "/"), "/")
		switch {
		case len(segs) == 2 && segs[1] == "share":
			setParams(ctx, gin.Param{Key: "postID", Value: segs[0]})
			switch ctx.Request.Method {
			case http.MethodGet:
				shareController.Form(ctx)
			case http.MethodPost:
				rl(ctx)
				if !ctx.IsAborted() {
					shareController.Send(ctx)
				}
			default:
				utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "method not allowed")
			}
		case len(segs) == 2 && segs[1] == "comment":
			if ctx.Request.Method != http.MethodPost {
				utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "method not allowed")
				return
			}
			setParams(ctx, gin.Param{Key: "postID", Value: segs[0]})
			rl(ctx)
			if !ctx.IsAborted() {
				commentController.Create(ctx)
			}
		case len(segs) == 4:
			if ctx.Request.Method != http.MethodGet {
				utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "method not allowed")
				return
			}
			setParams(ctx,
				gin.Param{Key: "year", Value: segs[0]},
				gin.Param{Key: "month", Value: segs[1]},
				gin.Param{Key: "day", Value: segs[2]},
				gin.Param{Key: "slug", Value: segs[3]},
			)
			postController.Detail(ctx)
		default:
			utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
		}
	})
	r.NoMethod(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	return r
}

func setParams(ctx *gin.Context, params ...gin.Param) {
	ctx.Params = append(ctx.Params, params...)
}
