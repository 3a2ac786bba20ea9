package container

import (
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/crumbs/internal/config"
	"github.com/joshua-takyi/crumbs/internal/directory"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/middleware"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/moderation"
	"github.com/joshua-takyi/crumbs/internal/ratelimiter"
	"github.com/joshua-takyi/crumbs/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Cloudinary  *cloudinary.Cloudinary
	Verifier    middleware.TokenVerifier
	RateLimiter *ratelimiter.FixedWindowRateLimiter
	// Database clients
	SupabaseClient  *supabase.Client
	MongoDBClient   *mongo.Client
	UserService     *services.UserService
	LocationService *services.LocationService
	ReviewService   *services.ReviewService
	SearchService   *services.SearchService
}

// Repos groups the storage and identity ports the services depend on.
type Repos struct {
	Identity  models.IdentityRepo
	Locations models.LocationsRepo
	Reviews   models.ReviewsRepo
	Users     models.UsersRepo
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	verifier *helpers.TokenVerifier,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient)
	mongo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	c := Build(cfg, logger, cloudinary, Repos{
		Identity:  supa,
		Locations: mongo,
		Reviews:   mongo,
		Users:     mongo,
	})
	c.SupabaseClient = supabaseClient
	c.MongoDBClient = mongoDBClient
	c.Verifier = verifier
	return c
}

// Build wires the services over the given repositories.
func Build(cfg *config.Config, logger *slog.Logger, cld *cloudinary.Cloudinary, repos Repos) *Container {
	var moderator moderation.Moderator = moderation.Noop{}
	if cfg.GeminiAPIKey != "" {
		moderator = moderation.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	dir := directory.NewClient(cfg.DirectoryURL)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Cloudinary:      cld,
		RateLimiter:     ratelimiter.NewFixedWindowLimiter(cfg.WriteRateLimit, time.Minute),
		UserService:     services.NewUserService(repos.Identity, repos.Users, repos.Reviews, dir, logger),
		LocationService: services.NewLocationService(repos.Locations, repos.Reviews, cld, logger),
		ReviewService:   services.NewReviewService(repos.Reviews, repos.Locations, repos.Users, moderator, logger),
		SearchService:   services.NewSearchService(repos.Locations, repos.Users),
	}
}
