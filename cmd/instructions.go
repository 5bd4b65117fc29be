// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"basesetup/cli/internal/instructions"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	noClipboard bool

	// clipboardWriter is replaced in tests.
	clipboardWriter instructions.Clipboard = instructions.SystemClipboard
)

var instructionsCmd = &cobra.Command{
	Use:     "instructions",
	Aliases: []string{"setup"},
	Short:   "Print the SQL editor steps and copy the SQL to the clipboard",
	Long: `The instructions command prints the steps for pasting the SQL setup file into
the Supabase SQL editor and copies the file's content to the clipboard.
It never contacts the network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := instructions.LoadScript(app.cfg.SQLFile)
		if err != nil {
			pterm.Printf("❌ Error reading SQL file\n")
			return err
		}

		section("SUPABASE DATABASE SETUP")
		pterm.Println("INSTRUCTIONS:")
		pterm.Println()
		printSteps(script)

		pterm.Println("The SQL file contains:")
		for _, item := range instructions.Contents {
			pterm.Println("  ✓ " + item)
		}
		pterm.Println()

		if noClipboard {
			return nil
		}
		if err := instructions.Copy(clipboardWriter, script); err != nil {
			if !errors.Is(err, instructions.ErrClipboardUnavailable) {
				pterm.Printf("⚠️  Could not copy to clipboard: %v\n", err)
			}
			pterm.Println("Note: " + instructions.ClipboardHint)
			pterm.Println()
			return nil
		}
		pterm.Println("✓ SQL content copied to clipboard!")
		pterm.Println("  Just paste (Ctrl+V) into the SQL Editor and click RUN")
		pterm.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(instructionsCmd)
	instructionsCmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "Do not copy the SQL to the clipboard")
}
