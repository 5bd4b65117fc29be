// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"basesetup/cli/internal/admin"
	"basesetup/cli/internal/config"
	apperr "basesetup/cli/internal/errors"
	"basesetup/cli/internal/httperrors"
	"basesetup/cli/internal/logging"
	"basesetup/cli/internal/supabase"
	"basesetup/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	menuCreate = "Create new admin user"
	menuGrant  = "Assign admin role to existing user"
)

var (
	adminEmail string
	adminName  string

	// newAuthAPI builds the client used for sign-up and the role upsert.
	newAuthAPI = func(cfg *config.Config) admin.AuthAPI {
		return supabase.New(cfg.URL, cfg.AnonKey, supabase.WithTimeout(cfg.Timeout), supabase.WithLogger(app.log))
	}
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the admin account or print the SQL that grants the admin role",
	Long: `The admin command manages the storefront's administrative account.
Run without a subcommand in a terminal to choose an action interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !terminal.IsInteractive() {
			return cmd.Help()
		}
		section("ADMIN USER SETUP")
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{menuCreate, menuGrant}).
			Show("Choose an option")
		if err != nil {
			return err
		}
		pterm.Println()
		if choice == menuGrant {
			return runAdminGrant()
		}
		return runAdminCreate(cmd)
	},
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the admin account and assign the admin role",
	Long: `The create command signs up a new account and assigns it the admin role.

The email comes from --email or BASESETUP_ADMIN_EMAIL and the password from
` + config.AdminPasswordEnv + `. Missing values are prompted for when running
in a terminal; the password is read without echo and must be at least 8
characters.

If the role cannot be assigned through the API, or the account already exists,
the command prints the SQL to run in the Supabase SQL editor instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminCreate(cmd)
	},
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Print the SQL that grants the admin role to an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminGrant()
	},
}

func runAdminCreate(cmd *cobra.Command) error {
	cfg := app.cfg
	if err := requireBackend(); err != nil {
		return err
	}

	req := admin.Request{
		Email:    adminEmail,
		Name:     adminName,
		Password: os.Getenv(config.AdminPasswordEnv),
	}
	if req.Password == "" {
		if !terminal.IsInteractive() {
			return apperr.New(apperr.Validation, "no password given: set "+config.AdminPasswordEnv+" or run in a terminal")
		}
		if err := promptAdminRequest(&req, cfg.AdminEmail); err != nil {
			return err
		}
	}

	svc := admin.NewService(newAuthAPI(cfg), cfg.AdminEmail, app.log)
	prepared, err := svc.Prepare(req)
	if err != nil {
		return err
	}

	pterm.Printf("Creating admin user: %s\n", prepared.Email)
	var res *admin.Result
	err = withSpinner("signing up", func() error {
		var err error
		res, err = svc.Create(cmd.Context(), prepared)
		return err
	})
	if err != nil {
		if apperr.Is(err, apperr.Network) {
			return httperrors.FormatNetworkError(err, httperrors.ExtractHostFromURL(cfg.URL), "creating the admin user")
		}
		pterm.Println("❌ Failed to create user")
		return err
	}

	printAdminResult(res)
	return nil
}

// promptAdminRequest asks for the fields the flags and environment left blank.
func promptAdminRequest(req *admin.Request, defaultEmail string) error {
	pterm.Println("Let's create your admin account!")
	pterm.Println()

	if req.Email == "" {
		input := pterm.DefaultInteractiveTextInput
		if defaultEmail != "" {
			input = *input.WithDefaultValue(defaultEmail)
		}
		email, err := input.Show("Enter admin email")
		if err != nil {
			return err
		}
		req.Email = strings.TrimSpace(email)
	}

	password, err := terminal.ReadPassword(fmt.Sprintf("Enter password (min %d chars): ", admin.MinPasswordLength))
	if err != nil {
		return err
	}
	req.Password = strings.TrimSpace(password)

	if req.Name == "" {
		name, err := pterm.DefaultInteractiveTextInput.Show("Enter your full name")
		if err != nil {
			return err
		}
		req.Name = name
	}
	pterm.Println()
	return nil
}

func printAdminResult(res *admin.Result) {
	switch res.Outcome {
	case admin.Created:
		pterm.Println("✓ User created successfully!")
		pterm.Printf("  User ID: %s\n", res.UserID)
		pterm.Println("✓ Admin role assigned successfully!")
		pterm.Println()
		section("✅ ADMIN ACCOUNT CREATED!")
		pterm.Printf("Email: %s\n", res.Email)
		pterm.Printf("Name: %s\n", res.Name)
		pterm.Println("Role: Admin")
		pterm.Println()
		pterm.Println("You can now log in with these credentials!")
		pterm.Println()
	case admin.CreatedRoleManual:
		pterm.Println("✓ User created successfully!")
		pterm.Printf("  User ID: %s\n", res.UserID)
		pterm.Println()
		pterm.Println("⚠ Note: User created but role assignment needs manual step")
		pterm.Printf("   Error: %s\n", logging.PresentError("", res.RoleErr))
		pterm.Println()
		printSQL("Manual fix: run this SQL in the Supabase SQL Editor ("+editorURL()+"):", res.RemediationSQL)
	case admin.AlreadyExists:
		pterm.Printf("✓ User %s already exists!\n", res.Email)
		pterm.Println()
		printSQL("To assign the admin role, run this SQL in the Supabase SQL Editor:", res.RemediationSQL)
	}
}

func runAdminGrant() error {
	email := strings.TrimSpace(adminEmail)
	if email == "" {
		email = app.cfg.AdminEmail
	}
	if email == "" && terminal.IsInteractive() {
		answer, err := pterm.DefaultInteractiveTextInput.Show("Enter email address")
		if err != nil {
			return err
		}
		email = strings.TrimSpace(answer)
	}
	if email == "" {
		return apperr.New(apperr.Validation, "an email address is required (use --email or BASESETUP_ADMIN_EMAIL)")
	}
	if !strings.Contains(email, "@") {
		return apperr.New(apperr.Validation, fmt.Sprintf("%q is not an email address", email))
	}
	pterm.Println()
	printSQL("Run this SQL in the Supabase SQL Editor:", admin.AssignByEmailSQL(email))
	return nil
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd, adminGrantCmd)

	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "Admin email address (env BASESETUP_ADMIN_EMAIL)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name for the admin account (default \"Admin\")")
}
