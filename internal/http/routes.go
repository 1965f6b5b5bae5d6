package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/unlinked/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, env *Env) {

	// --- Middleware ---

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	corsOrigin := "*"
	if env.Config != nil && env.Config.CORSOrigin != "" {
		corsOrigin = env.Config.CORSOrigin
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Token", "HX-Request", "HX-Target", "HX-Current-URL"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: corsOrigin != "*",
	}))

	// --- Rate Limiter Setup ---
	submitLimiter := NewIPRateLimiter(rate.Limit(submitRPS), submitBurst)
	translateLimiter := NewIPRateLimiter(rate.Limit(translateRPS), translateBurst)
	go submitLimiter.sweepForever()
	go translateLimiter.sweepForever()

	adminToken := ""
	if env.Config != nil {
		adminToken = env.Config.AdminToken
	}

	// --- Board Routes ---

	router.GET("/", env.GetHome)
	router.GET("/hall-of-fame/", env.GetHallOfFame)
	router.GET("/wall-of-shame/", env.GetWallOfShame)
	router.GET("/category/:slug/", env.GetCategory)

	router.GET("/rant/:id/", env.GetRant)
	router.GET("/sidebyside/:id/", env.GetSideBySide)
	router.GET("/ghosting/:id/", env.GetGhostingStory)
	router.GET("/share/rant/:slug/", env.GetSharedRant)
	router.GET("/share/sidebyside/:slug/", env.GetSharedSideBySide)

	router.POST("/submit/", RateLimitMiddleware(submitLimiter), env.CreateRant)
	router.POST("/submit/sidebyside/", RateLimitMiddleware(submitLimiter), env.CreateSideBySide)
	router.POST("/submit/ghosting/", RateLimitMiddleware(submitLimiter), env.CreateGhostingStory)

	router.POST("/react/:content_type/:id/:reaction_type/", env.ToggleReaction)
	router.POST("/report/:content_type/:id/", env.ReportContent)

	// --- Translator Routes ---

	tr := router.Group("/translator")
	{
		tr.GET("/", env.GetTranslator)
		tr.POST("/", RateLimitMiddleware(translateLimiter), env.PostTranslateForm)
		tr.POST("/api/", RateLimitMiddleware(translateLimiter), env.PostTranslateAPI)
		tr.GET("/share/:slug/", env.GetSharedTranslation)
	}

	// --- Admin Routes ---

	admin := router.Group("/admin", AdminAuthMiddleware(adminToken))
	{
		admin.POST("/moderate/:content_type", env.Moderate)
		admin.GET("/reported/:content_type", env.GetReported)
		admin.POST("/categories", env.CreateCategory)
		admin.DELETE("/categories/:slug", env.DeleteCategory)
		admin.GET("/translations", env.GetTranslations)
	}

	// --- WebSocket Route ---

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(env.Hub, c.Writer, c.Request)
	})
}
