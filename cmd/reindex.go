package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/midonacion/causabot/internal/app"
	"github.com/midonacion/causabot/internal/config"
)

var reindexRebuild bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Index the cause catalog into the vector store",
	Long: `Fetches the configured catalog and indexes it into the embedded
vector store. With --rebuild the existing index is replaced by a fresh
snapshot; otherwise the configured reindex policy applies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReindex()
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexRebuild, "rebuild", false,
		"replace the existing index instead of honoring the configured policy")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if reindexRebuild {
		cfg.ReindexPolicy = config.ReindexRebuild
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	indexed, err := a.Indexer.Reindex(ctx)
	if err != nil {
		return fmt.Errorf("indexing catalog: %w", err)
	}

	fmt.Printf("Indexed %d documents (policy: %s)\n", indexed, cfg.ReindexPolicy)

	return nil
}
