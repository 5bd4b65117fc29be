// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"basesetup/cli/internal/config"
	"basesetup/cli/internal/dsn"
	"basesetup/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// infoCmd shows the resolved configuration with secrets masked.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved configuration",
	Long: `The info command displays the configuration basesetup would use and where
each value came from. The API key and the database password are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolveSecrets()
		cfg := app.cfg

		var b strings.Builder
		row := func(label, value, key string) {
			if value == "" {
				value = "(not set)"
			}
			src := ""
			if key != "" {
				src = pterm.NewStyle(pterm.FgGray).Sprintf("  [%s]", cfg.Sources[key])
			}
			fmt.Fprintf(&b, "%-14s %s%s\n", label, value, src)
		}

		row("Project URL", cfg.URL, config.KeyURL)
		row("Project ref", cfg.ResolvedProjectRef(), config.KeyProjectRef)
		row("API key", logging.MaskKey(cfg.AnonKey), config.KeyAnonKey)
		row("Database URL", maskDBURL(cfg.DBURL), config.KeyDBURL)
		row("SQL file", sqlFileStatus(cfg.SQLFile), config.KeySQLFile)
		row("SQL editor", cfg.SQLEditorURL(), "")
		row("Admin email", cfg.AdminEmail, config.KeyAdminEmail)
		row("Timeout", cfg.Timeout.String(), config.KeyTimeout)
		if dir, err := config.Dir(); err == nil {
			row("Config dir", dir, "")
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("basesetup configuration")).
			WithPadding(1).
			Println(strings.TrimRight(b.String(), "\n"))
		pterm.Println()

		if err := cfg.RequireBackend(); err != nil {
			pterm.Println("⚠️  " + strings.TrimPrefix(err.Error(), "config: "))
			pterm.Println("   Run: basesetup credentials save")
			pterm.Println()
		}
		return nil
	},
}

// maskDBURL hides the password of a database URL. Unparseable input is
// masked wholesale by the generic secret masker.
func maskDBURL(raw string) string {
	if raw == "" {
		return ""
	}
	if info, err := dsn.Parse(raw); err == nil {
		return info.Masked()
	}
	return logging.Mask(raw)
}

func sqlFileStatus(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " (missing)"
	}
	return path
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
