package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fanbase/fanbase/internal/application/api"
	"github.com/fanbase/fanbase/internal/domain/services"
	"github.com/fanbase/fanbase/internal/infrastructure/config"
	"github.com/fanbase/fanbase/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds the wired dependencies commands operate on.
type Deps struct {
	Config *config.Config
	Store  *sqlite.Repository
	API    api.Services
}

// withDeps loads config, opens the store and builds the service graph, then
// calls the provided function. Cleanup happens automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	relationships := services.NewRelationshipService(store)
	associations := services.NewAssociationService(store)
	engagement := services.NewEngagementService(store)

	deps := &Deps{
		Config: cfg,
		Store:  store,
		API: api.Services{
			Series:        services.NewSeriesService(store),
			Characters:    services.NewCharacterService(store),
			Relationships: relationships,
			Associations:  associations,
			Lore:          services.NewLoreService(store, associations),
			Theories:      services.NewTheoryService(store),
			Engagement:    engagement,
			Timelines:     services.NewTimelineService(store),
			Profiles:      services.NewProfileService(store),
			APIKeys:       services.NewAPIKeyService(store),
			Query:         services.NewQueryService(store, relationships, associations, engagement),
		},
	}

	return fn(deps)
}
