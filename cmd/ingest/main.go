package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/database"
	"hr-helpdesk-be/pkg/vectorindex"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ingest",
		Usage: "Build and inspect the labour law vector index",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Fetch the source pages, embed them and persist the index",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Rebuild even when a persisted index exists",
					},
					&cli.StringSliceFlag{
						Name:  "url",
						Usage: "Source URL (repeatable); defaults to RAG_SOURCE_URLS",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Print the closest chunks for a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"k"},
						Usage:   "Number of hits to print",
						Value:   5,
					},
				},
			},
		},
	}
}

func buildCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if urls := c.StringSlice("url"); len(urls) > 0 {
		cfg.Rag.SourceURLs = urls
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, false)
	env, err := newEnvironment(cfg, c.Bool("force"), log)
	if err != nil {
		return err
	}
	defer env.close()

	color.Cyan("Building index from %d source(s) into %s backend", len(cfg.Rag.SourceURLs), cfg.Rag.IndexBackend)
	start := time.Now()
	idx, err := env.manager.Get(c.Context)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	color.Green("✓ Index ready: %d chunks in %s", idx.Len(), time.Since(start).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("search: query argument is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewNopLogger()
	env, err := newEnvironment(cfg, false, log)
	if err != nil {
		return err
	}
	defer env.close()

	idx, err := loadExisting(c.Context, env.index)
	if err != nil {
		return err
	}
	vec, err := env.gateway.EmbedOne(c.Context, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}
	hits, err := idx.Search(c.Context, vec, c.Int("top"))
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		color.Yellow("No hits")
		return nil
	}
	for i, h := range hits {
		color.New(color.FgCyan, color.Bold).Printf("%d. %.3f ", i+1, h.Score)
		fmt.Printf("%s | %s\n", h.Chunk.SourceURL, h.Chunk.Section)
		fmt.Printf("   %s\n", h.Chunk.Text)
	}
	return nil
}

var errNoIndex = errors.New("no index, run build")

// loadExisting opens persisted artifacts without ever building.
func loadExisting(ctx context.Context, index vectorindex.Index) (vectorindex.Index, error) {
	if !index.Exists(ctx) {
		return nil, errNoIndex
	}
	if err := index.Load(ctx); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return index, nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDB connects only for the pgvector backend.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Rag.IndexBackend != "pgvector" {
		return nil, nil
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Debug)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db, true); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
