package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/crumbs/internal/config"
	"github.com/joshua-takyi/crumbs/internal/connect"
	"github.com/joshua-takyi/crumbs/internal/models"
)

func main() {
	force := flag.Bool("force", false, "seed even when ENVIRONMENT is production")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() && !*force {
		logger.Error("Refusing to seed a production database without -force")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := connect.MongoDBConnect(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := connect.MongoDBDisconnect(); err != nil {
			logger.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	repo := models.MongodbNewRepo(client, cfg.MongoDBDatabase)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	n, err := repo.SeedLocations(ctx, models.FixtureLocations)
	if err != nil {
		logger.Error("Failed to seed locations", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Seeded %d locations (%d written) into %s.%s\n",
		len(models.FixtureLocations), n, cfg.MongoDBDatabase, models.LocationsColName)
}
