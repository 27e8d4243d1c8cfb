package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/factlens/factlens/internal/config"
)

// indexCmd groups vector collection management commands
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector collection",
	Long: `Inspect or reset the vector collection backing retrieval.

The collection is shared across runs: every check adds its corpus to
the same collection, and retrieval searches everything indexed so far.`,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show collection name and point count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := buildStore(cfg, newLogger())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		count, err := store.Count(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Collection: %s\n", cfg.Qdrant.Collection)
		fmt.Printf("Vector size: %d\n", cfg.Qdrant.VectorSize)
		fmt.Printf("Points: %d\n", count)
		return nil
	},
}

var indexResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the collection and all indexed points",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := buildStore(cfg, newLogger())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := store.Drop(ctx); err != nil {
			return err
		}

		fmt.Printf("Collection %q deleted\n", cfg.Qdrant.Collection)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexInfoCmd)
	indexCmd.AddCommand(indexResetCmd)
}
