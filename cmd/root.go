// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for basesetup.
// Each subcommand is one independent setup step for the storefront's
// Supabase project: printing the SQL instructions, probing the REST
// endpoint, verifying the schema, creating the admin account and managing
// stored credentials.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"basesetup/cli/internal/config"
	"basesetup/cli/internal/keychain"
	"basesetup/cli/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	showVersion bool
	verbose     bool
)

// app holds what PersistentPreRunE resolved for the running command.
var app struct {
	cfg *config.Config
	log *zap.Logger
}

// openKeychain is replaced in tests with an in-memory keyring.
var openKeychain = keychain.GetManager

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "basesetup",
	Short: "Provision and verify the storefront's Supabase project",
	Long: `basesetup prepares the Supabase project behind the storefront. It prints the
steps for running the bundled SQL setup file in the Supabase SQL editor, tests
connectivity, verifies that the expected tables exist and creates the admin
account.

The project URL and API key are read from flags, the environment (SUPABASE_URL,
SUPABASE_ANON_KEY), a .env file in the working directory or the OS keychain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		log, err := logging.NewLogger(verbose, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		app.cfg = cfg
		app.log = log
		log.Debug("configuration loaded",
			zap.String("url", cfg.URL),
			zap.String("url_source", cfg.Sources[config.KeyURL]),
			logging.Secret("anon_key", cfg.AnonKey),
			zap.String("sql_file", cfg.SQLFile),
			zap.Duration("timeout", cfg.Timeout),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "basesetup %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// resolveSecrets fills the API key and database URL from the OS keychain
// when neither a flag nor the environment provided them.
func resolveSecrets() {
	cfg := app.cfg
	if cfg.AnonKey != "" && cfg.DBURL != "" {
		return
	}
	km, err := openKeychain()
	if err != nil {
		app.log.Debug("keychain unavailable", zap.Error(err))
		return
	}
	if cfg.AnonKey == "" {
		if key, err := km.LoadAnonKey(); err == nil {
			cfg.AnonKey = key
			cfg.Sources[config.KeyAnonKey] = config.SourceKeychain
		} else if !errors.Is(err, keychain.ErrNotFound) {
			app.log.Debug("reading API key from keychain", zap.Error(err))
		}
	}
	if cfg.DBURL == "" {
		if dbURL, err := km.LoadDBURL(); err == nil {
			cfg.DBURL = dbURL
			cfg.Sources[config.KeyDBURL] = config.SourceKeychain
		} else if !errors.Is(err, keychain.ErrNotFound) {
			app.log.Debug("reading database URL from keychain", zap.Error(err))
		}
	}
}

// requireBackend resolves secrets and checks that the project is configured.
func requireBackend() error {
	resolveSecrets()
	return app.cfg.RequireBackend()
}

// Execute runs the CLI application.
// Errors are printed once, with secrets masked, and the process exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")

	pf := rootCmd.PersistentFlags()
	pf.String("url", "", "Supabase project URL (env SUPABASE_URL)")
	pf.String("anon-key", "", "Publishable (anon) API key (env SUPABASE_ANON_KEY)")
	pf.String("project-ref", "", "Project ref used in dashboard links (env SUPABASE_PROJECT_REF)")
	pf.String("sql-file", config.DefaultSQLFile, "Path to the SQL setup file (env BASESETUP_SQL_FILE)")
	pf.Duration("timeout", config.DefaultTimeout, "Timeout for each network request (env BASESETUP_TIMEOUT)")
	pf.String("log-level", config.DefaultLogLevel, "Diagnostic log level with --verbose (env BASESETUP_LOG_LEVEL)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
}
