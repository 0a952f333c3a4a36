// Package main implements the seed command, which provisions the category
// catalog. Categories are read-only through the API, so this is the only
// way they are created.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/classifieds-api/internal/config"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/platform/postgres"
	"github.com/phrazzld/classifieds-api/internal/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	migrate := fs.Bool("migrate", false, "apply pending migrations before seeding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if *migrate {
		if err := postgres.Migrate(ctx, db, "up", log); err != nil {
			return err
		}
	}

	categories := service.NewCategoryService(postgres.NewPostgresCategoryStore(db, log), db, log)
	return seed(ctx, categories, stdout)
}

// seed upserts the catalog and prints one line per category.
func seed(ctx context.Context, categories service.CategoryService, out io.Writer) error {
	seeded, err := categories.Seed(ctx, catalogCategories(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	for _, c := range seeded {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", c.ID, c.Slug, c.Name); err != nil {
			return err
		}
	}
	return nil
}
