package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team-calendar-api/core/config"
	"team-calendar-api/core/constants"
	"team-calendar-api/core/database"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/server"
	"team-calendar-api/core/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// @title Team Calendar API
// @version 1.0
// @description Meeting scheduling with conflict detection and team calendar views

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "team-calendar",
		Short:         "Team meeting scheduler and calendar API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.JSON)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx, config.Get()); err != nil {
				logger.Error("run server error", "error", err)
				return err
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateUp(config.Get().Database.URL())
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateDown(config.Get().Database.URL(), steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(downCmd)

	return migrateCmd
}

// newTokenCmd issues an access token for an existing user, for local testing.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			token, err := utils.GenerateToken(config.Get().JWT.Secret, id, constants.ScopeTokenAccess, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	return tokenCmd
}

