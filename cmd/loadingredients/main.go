package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/db"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/services"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// Imports the ingredient catalog from a JSON file of
// {"name": ..., "measurement_unit": ...} entries and optionally seeds tags.
// Safe to re-run, existing rows are left alone.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to the ingredient catalog JSON")
	tagsPath := flag.String("tags", "", "optional path to a tags JSON file")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := pg.DB()
	ctx := context.Background()

	ingredientRepo := repos.NewIngredientRepo(theDB, log)
	ingredientService := services.NewIngredientService(theDB, log, ingredientRepo)

	raw, err := os.ReadFile(*ingredientsPath)
	if err != nil {
		log.Error("Failed to read catalog file", "path", *ingredientsPath, "error", err)
		os.Exit(1)
	}
	var entries []services.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Error("Failed to parse catalog file", "path", *ingredientsPath, "error", err)
		os.Exit(1)
	}

	created, err := ingredientService.LoadCatalog(ctx, entries)
	if err != nil {
		log.Error("Catalog import failed", "error", err)
		os.Exit(1)
	}
	log.Info("Catalog import done", "total", len(entries), "created", created)

	if *tagsPath != "" {
		if err := loadTags(ctx, theDB, log, *tagsPath); err != nil {
			log.Error("Tag import failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadTags(ctx context.Context, theDB *gorm.DB, log *logger.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tags file: %w", err)
	}
	var entries []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse tags file: %w", err)
	}

	tagRepo := repos.NewTagRepo(theDB, log)
	created := 0
	for _, entry := range entries {
		existing, err := tagRepo.GetBySlugs(ctx, nil, []string{entry.Slug})
		if err != nil {
			return fmt.Errorf("lookup tag %q: %w", entry.Slug, err)
		}
		if len(existing) > 0 {
			continue
		}
		tag := &types.Tag{ID: uuid.New(), Name: entry.Name, Slug: entry.Slug}
		if _, err := tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
			return fmt.Errorf("create tag %q: %w", entry.Slug, err)
		}
		created++
	}
	log.Info("Tag import done", "total", len(entries), "created", created)
	return nil
}
