// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"basesetup/cli/internal/httperrors"
	"basesetup/cli/internal/instructions"
	"basesetup/cli/internal/probe"
	"basesetup/cli/internal/supabase"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// applyCmd loads the SQL file, explains how to run it and probes the project.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Explain how to apply the SQL setup file and test the connection",
	Long: `The apply command reads the SQL setup file and prints the steps for running it
in the Supabase SQL editor. The publishable API key cannot execute SQL, and the
service_role key is never used, so the SQL itself is applied by hand.

It then sends one request to the project's REST endpoint to confirm the
project is reachable. A failed connection test is reported but does not fail
the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg

		section("SUPABASE DATABASE MIGRATION")

		pterm.Printf("📖 Reading SQL file: %s\n", cfg.SQLFile)
		script, err := instructions.LoadScript(cfg.SQLFile)
		if err != nil {
			pterm.Printf("❌ Error reading SQL file\n")
			return err
		}
		pterm.Printf("✓ SQL file loaded (%d characters)\n", script.Len())
		pterm.Println()

		if err := requireBackend(); err != nil {
			return err
		}

		pterm.Println(pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("⚠️  IMPORTANT NOTICE:"))
		pterm.Println()
		for _, line := range instructions.PublishableKeyNotice {
			pterm.Println(line)
		}
		pterm.Println()

		section("RECOMMENDED APPROACH")
		printSteps(script)
		pterm.Println("This is the safest and most reliable method!")
		pterm.Println()

		pterm.Println("🔌 Testing Supabase connection...")
		client := supabase.New(cfg.URL, cfg.AnonKey, supabase.WithTimeout(cfg.Timeout), supabase.WithLogger(app.log))
		var res probe.Result
		_ = withSpinner("contacting "+httperrors.ExtractHostFromURL(cfg.URL), func() error {
			res = probe.Run(cmd.Context(), client)
			return nil
		})
		app.log.Debug("probe finished", zap.String("status", string(res.Status)), zap.Int("http_status", res.StatusCode))

		switch res.Status {
		case probe.Reachable:
			pterm.Println("✓ Supabase connection: ACTIVE")
			pterm.Printf("✓ API endpoint: RESPONDING (HTTP %d)\n", res.StatusCode)
		case probe.Unexpected:
			pterm.Printf("⚠️  Unexpected response: %d\n", res.StatusCode)
		case probe.Failed:
			_ = httperrors.FormatNetworkError(res.Err, httperrors.ExtractHostFromURL(cfg.URL), "testing the Supabase connection")
		}
		pterm.Println()

		section("NEXT STEPS")
		pterm.Println("After executing the SQL:")
		for i, step := range instructions.NextSteps {
			pterm.Printf("  %d. Run: %s\n", i+1, step)
		}
		pterm.Println()
		return nil
	},
}

// printSteps prints the numbered manual procedure for script.
func printSteps(script *instructions.Script) {
	for i, step := range instructions.Steps(editorURL(), script.Path) {
		pterm.Printf("%d. %s\n\n", i+1, step)
	}
}

// editorURL returns the project's SQL editor link, or the dashboard root
// when the project ref cannot be determined.
func editorURL() string {
	if u := app.cfg.SQLEditorURL(); u != "" {
		return u
	}
	return app.cfg.DashboardURL + " (open your project, then SQL Editor)"
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
