// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It masks project API keys, session tokens and database passwords before they
// reach the console or the diagnostic log, and builds the zap logger used for
// --verbose output.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reDSNPass  = regexp.MustCompile(`(?i)(://)([^:/@\s]+):(\S+)(@)`) // postgresql://user:p@ss@host, up to the last @
	reAPIKey   = regexp.MustCompile(`(?i)(apikey[=:]\s*|api_key=)([^\s;&]+)`)
	reSBKey    = regexp.MustCompile(`\b(sb_(?:publishable|secret)_)[A-Za-z0-9_-]+`)
	reJWT      = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

// Mask replaces sensitive values in the input string with "*".
// For DSN strings, both username and password are masked.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reDSNPass.ReplaceAllString(out, "$1*:*$4")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reSBKey.ReplaceAllString(out, "$1***")
	out = reJWT.ReplaceAllString(out, "eyJ***")
	for _, k := range []string{"PGPASSWORD", "SUPABASE_ANON_KEY", "SUPABASE_KEY", "BASESETUP_ADMIN_PASSWORD"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}

// MaskKey renders an API key for display, keeping only enough of it to tell
// two keys apart.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if m := reSBKey.FindStringSubmatch(key); m != nil {
		return m[1] + "***" + tail(key, 4)
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***" + tail(key, 4)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
