package main

import (
	"context"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/app"
	"delivery-tracking-service/internal/config"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// backend is opened by the root command before any subcommand runs.
	backend *app.Backend

	cfgSeedPath  string
	flagSeedPath string
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Prepare and seed the delivery tracking store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found (using environment variables)")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfgSeedPath = cfg.SeedPath

		backend, err = app.OpenBackend(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if backend == nil {
			return nil
		}
		return backend.Close(context.Background())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (postgres) or indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("Initializing database schema...")
		if err := backend.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		log.Println("Schema ready.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, then load businesses and customers from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := backend.Migrate(ctx); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}

		path := flagSeedPath
		if path == "" {
			path = cfgSeedPath
		}

		log.Printf("Seeding from %s...", path)
		res, err := repositories.SeedFromJSON(ctx, backend.Store, path)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "businesses=%d customers=%d skipped=%d\n", res.Businesses, res.Customers, res.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedPath, "file", "", "seed file (default: SEED_PATH or data/seeds/seed.json)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
