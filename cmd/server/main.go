// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/roomstyle/internal/config"
	"github.com/tomtom215/roomstyle/internal/logging"
)

var version = "dev"

// app carries state shared by every subcommand once PersistentPreRunE ran.
type app struct {
	configPath string
	envFile    string
	cfg        *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "roomstyle",
		Short: "Furniture and interior product recommendations",
		Long: `roomstyle serves product recommendations for a room and design style,
fitted from a product catalog held in a JSON file or a remote document store.

Without a subcommand it runs the server.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: "+config.ConfigPathEnvVar+" or ./config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(serveCmd(a), migrateCmd(a))
	return root
}

// load applies the dotenv file and configuration, then initializes logging.
func (a *app) load(_ *cobra.Command, _ []string) error {
	// A missing dotenv file is normal outside development.
	if _, err := os.Stat(a.envFile); err == nil {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}
	if a.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, a.configPath); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return nil
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the trainer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
}

func migrateCmd(a *app) *cobra.Command {
	var legacy, modelDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Fit a legacy catalog dump and save it as the next engine version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), a.cfg, legacy, modelDir)
		},
	}
	cmd.Flags().StringVar(&legacy, "legacy", "", "path to the legacy documents JSON dump")
	cmd.Flags().StringVar(&modelDir, "model-dir", "", "directory for saved engine versions (default: storage.model_dir)")
	_ = cmd.MarkFlagRequired("legacy")
	return cmd
}
