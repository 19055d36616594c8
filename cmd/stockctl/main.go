package main

import (
	"context"
	"elles-app/config"
	"elles-app/database"
	"elles-app/middleware"
	"elles-app/migration"
	seed "elles-app/seeder"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var envFile string

func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, log, db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the stock tables.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, log, db, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := migration.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		log.Info("migration completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo stock items and random movements.",
	Long:  `Command that exists and should be used only for development purposes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, log, db, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := migration.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		movements, _ := cmd.Flags().GetInt("movements")
		randSeed, _ := cmd.Flags().GetUint64("seed")
		if randSeed == 0 {
			randSeed = uint64(time.Now().UnixNano())
		}

		result, err := seed.SeedDemo(cmd.Context(), db, log, movements, randSeed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "items created: %d, movements recorded: %d\n", result.ItemsCreated, result.MovementsCreated)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the stock API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		subject, _ := cmd.Flags().GetString("subject")
		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, subject, cfg.Auth.JWTExpiration)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "stockctl",
		Short:        "Stock API management commands",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", os.Getenv("ENV_FILE"), "Path to the .env file")

	seedCmd.Flags().Int("movements", 60, "Number of random movements to record")
	seedCmd.Flags().Uint64("seed", 0, "Random seed, 0 picks one from the clock")
	tokenCmd.Flags().String("subject", "admin", "Token subject")

	rootCmd.AddCommand(migrateCmd, seedCmd, tokenCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
