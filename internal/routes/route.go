package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/container"
	"github.com/joshua-takyi/crumbs/internal/handlers"
	"github.com/joshua-takyi/crumbs/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	optionalAuth := middleware.OptionalAuth(container.Verifier, container.UserService, container.Logger, secure)
	requireAuth := middleware.AuthMiddleware(container.Verifier, container.UserService, container.Logger, secure)
	limitWrites := middleware.RateLimit(container.RateLimiter)

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "crumbs-api",
			})
		})

		// auth
		v1.POST("/login", limitWrites, handlers.AuthenticateUser(container.UserService, secure))
		v1.GET("/auth/google", handlers.GoogleAuth(container.UserService, cfg.FrontendURL))
		v1.GET("/auth/callback", handlers.GoogleAuthCallback(cfg.FrontendURL))
		v1.POST("/logout", handlers.Logout(container.UserService, secure))

		// public reads
		v1.GET("/schools", handlers.ListSchools(container.LocationService))
		v1.GET("/search", handlers.Search(container.SearchService))
		v1.GET("/search/live", handlers.LiveSearch(container.SearchService, cfg.AllowedOrigins, cfg.SearchDelay, container.Logger))
		v1.GET("/directory/universities", handlers.SearchUniversities(container.UserService))
	}

	locationRoutes := v1.Group("/locations")
	locationRoutes.Use(optionalAuth)
	{
		locationRoutes.GET("", handlers.ListLocations(container.LocationService))
		locationRoutes.GET("/:id", handlers.GetLocation(container.LocationService))
		locationRoutes.GET("/:id/reviews", handlers.ListLocationReviews(container.ReviewService))
		locationRoutes.POST("/suggest", limitWrites, handlers.SuggestLocation(container.LocationService))
		locationRoutes.POST("/:id/reviews", requireAuth, limitWrites, handlers.CreateReview(container.ReviewService))
	}

	userRoutes := v1.Group("/users")
	{
		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.GET("/:id/reviews", handlers.ListUserReviews(container.ReviewService))
	}

	protected := v1.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/profile", handlers.GetProfile(container.UserService))
		protected.PATCH("/profile", limitWrites, handlers.UpdateProfile(container.UserService))
		protected.DELETE("/reviews/:id", limitWrites, handlers.DeleteReview(container.ReviewService))
		protected.POST("/reviews/:id/upvote", limitWrites, handlers.UpvoteReview(container.ReviewService))
	}

	return r
}
