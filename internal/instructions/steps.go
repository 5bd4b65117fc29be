// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package instructions

// Steps returns the numbered manual procedure for applying the script.
func Steps(editorURL, scriptPath string) []string {
	return []string{
		"Open the Supabase SQL Editor:\n   " + editorURL,
		"Open the SQL file:\n   " + scriptPath,
		"Select all (Ctrl+A) and copy (Ctrl+C)",
		"Paste into the SQL Editor (Ctrl+V)",
		"Click RUN",
		"Wait for the success confirmation",
	}
}

// Contents describes what the setup file creates.
var Contents = []string{
	"All table schemas (categories, products, orders, etc.)",
	"User roles and authentication setup",
	"Row Level Security (RLS) policies",
	"Functions and triggers",
	"Storage bucket for product images",
	"Admin access configuration",
}

// PublishableKeyNotice explains why the script is not applied automatically.
var PublishableKeyNotice = []string{
	"The configured API key is a publishable (anon) key. It is safe for",
	"client-side use but cannot execute SQL.",
	"",
	"Applying migrations programmatically would need the service_role key,",
	"which must never be used by this tool, shipped to clients or committed to git.",
}

// NextSteps lists the commands to run once the SQL has been executed.
var NextSteps = []string{
	"basesetup verify        check that the tables exist",
	"basesetup admin create  create the admin account",
}
