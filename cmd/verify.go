// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"time"

	"basesetup/cli/internal/dsn"
	apperr "basesetup/cli/internal/errors"
	"basesetup/cli/internal/httperrors"
	"basesetup/cli/internal/logging"
	"basesetup/cli/internal/sqlexec"
	"basesetup/cli/internal/supabase"
	"basesetup/cli/internal/verify"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	failFast     bool
	verifyPolicy string
)

// verifyCmd checks that every expected table exists.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that the storefront tables exist",
	Long: `The verify command issues one row-count query per expected table
(categories, products, orders, profiles, user_roles) and reports each table's
row count or absence.

Counts go through the project's REST API by default. With --db-url, or when
SUPABASE_DB_URL or a saved database URL is available, they run directly
against Postgres instead.

Every table is checked and the command exits 1 if any is missing or
inaccessible. With --policy fail-fast (or --fail-fast) it stops at the first
such table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg
		ctx := cmd.Context()

		policy, err := verify.ParsePolicy(verifyPolicy)
		if err != nil {
			return err
		}
		if failFast {
			policy = verify.FailFast
		}

		section("SUPABASE CONNECTION VERIFICATION")

		resolveSecrets()
		var counter verify.Counter
		if cfg.DBURL != "" {
			masked := cfg.DBURL
			if info, err := dsn.Parse(cfg.DBURL); err == nil {
				masked = info.Masked()
			}
			pterm.Printf("🔌 Connecting to database: %s\n", masked)
			var db *sqlexec.Counter
			err = withSpinner("connecting", func() error {
				var err error
				db, err = sqlexec.Open(ctx, cfg.DBURL, cfg.Timeout, app.log)
				return err
			})
			if err != nil {
				pterm.Println("❌ Connection failed. Please check your database credentials and network connection.")
				return err
			}
			defer db.Close()
			counter = db
		} else {
			if err := cfg.RequireBackend(); err != nil {
				return err
			}
			pterm.Printf("🔌 Connecting to %s\n", cfg.URL)
			counter = supabase.New(cfg.URL, cfg.AnonKey, supabase.WithTimeout(cfg.Timeout), supabase.WithLogger(app.log))
		}
		pterm.Println()

		v := verify.New(timeoutCounter{counter, cfg.Timeout}, policy)
		v.OnCheck = printCheck

		pterm.Println("📊 Checking database schema...")
		report := v.Run(ctx)
		pterm.Println()

		if report.OK() {
			printVerifySuccess()
			return nil
		}
		printVerifyFailure(report)
		return report.Err()
	},
}

// timeoutCounter bounds each count query by the configured timeout.
type timeoutCounter struct {
	verify.Counter
	timeout time.Duration
}

func (t timeoutCounter) CountRows(ctx context.Context, table string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Counter.CountRows(ctx, table)
}

func printCheck(c verify.TableCheck) {
	switch c.Outcome {
	case verify.Present:
		pterm.Printf("  ✓ %s table exists (count: %d)\n", c.Table, c.Count)
	case verify.Missing:
		pterm.Printf("  ⚠ %s table not found - migrations need to be applied\n", c.Table)
	default:
		pterm.Printf("  ⚠ %s table inaccessible: %s\n", c.Table, logging.PresentError("", c.Err))
	}
}

func printVerifySuccess() {
	section("DATABASE SETUP STATUS")
	pterm.Println("✓ Supabase connection: WORKING")
	pterm.Println("✓ Database credentials: VALID")
	pterm.Println("✓ Tables: READY")
	pterm.Println()
	pterm.Println(pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("✅ SUPABASE SETUP COMPLETE!"))
	pterm.Println()
	pterm.Println("Next steps:")
	pterm.Println("  1. Run: basesetup admin create")
	pterm.Println("  2. Sign in to the storefront with the admin account")
	pterm.Println()
}

func printVerifyFailure(report verify.Report) {
	if report.Stopped {
		pterm.Println("Stopped at the first failing table (fail-fast).")
		pterm.Println()
	}
	if missing := report.Missing(); len(missing) > 0 {
		pterm.Println(pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("ACTION REQUIRED:"))
		pterm.Printf("  1. Open: %s\n", app.cfg.SQLFile)
		pterm.Println("  2. Copy all content")
		pterm.Printf("  3. Paste in the Supabase SQL Editor: %s\n", editorURL())
		pterm.Println("  4. Click RUN")
		pterm.Println()
		pterm.Println("  Or run: basesetup instructions")
		pterm.Println()
	}
	for _, c := range report.Checks {
		if c.Outcome == verify.Inaccessible && apperr.Is(c.Err, apperr.Network) {
			_ = httperrors.FormatNetworkError(c.Err, httperrors.ExtractHostFromURL(app.cfg.URL), "counting rows in "+c.Table)
			break
		}
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("db-url", "", "Verify directly against Postgres (env SUPABASE_DB_URL)")
	verifyCmd.Flags().StringVar(&verifyPolicy, "policy", string(verify.Summarize), "What to do on a missing table: summarize or fail-fast")
	verifyCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Shorthand for --policy fail-fast")
}
