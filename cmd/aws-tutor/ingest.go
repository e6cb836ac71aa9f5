package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aws-tutor/internal/database"
	"aws-tutor/internal/repository"
	"aws-tutor/internal/worker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.jsonl|-]",
	Short: "Load scraped AWS documentation into the document store",
	Long: `Reads documentation pages as JSON Lines (title, content, url, section,
timestamp), the format written by the documentation scraper, and upserts them
into PostgreSQL for retrieval. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open documents: %w", err)
		}
		defer file.Close()
		in = file
	}

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection failed: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, cfg.MigrationsDir, logger); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	repo := repository.NewDocumentRepo(pool)
	docs, readErr := worker.ReadDocuments(ctx, in)
	stats, err := worker.NewPool(repo, logger, cfg.IngestWorkers).Run(ctx, docs)
	cancel()
	if rerr := <-readErr; rerr != nil && err == nil {
		err = rerr
	}

	fields := []zap.Field{
		zap.Int64("stored", stats.Stored),
		zap.Int64("skipped", stats.Skipped),
		zap.Int64("failed", stats.Failed),
	}
	if total, cerr := repo.Count(cmd.Context()); cerr == nil {
		fields = append(fields, zap.Int64("documents", total))
	} else {
		logger.Warn("failed to count documents", zap.Error(cerr))
	}
	logger.Info("ingestion finished", fields...)
	return err
}
