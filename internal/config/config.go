// Package config resolves basesetup settings from flags, environment, a local
// .env file and the JSON config file in the XDG config dir.
// Only non-secret settings are ever written back to disk; the API key and the
// database URL come from the environment or the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperr "basesetup/cli/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Flags use the same names with dashes.
const (
	KeyURL          = "url"
	KeyAnonKey      = "anon_key"
	KeyProjectRef   = "project_ref"
	KeyDBURL        = "db_url"
	KeySQLFile      = "sql_file"
	KeyDashboardURL = "dashboard_url"
	KeyAdminEmail   = "admin_email"
	KeyTimeout      = "timeout"
	KeyLogLevel     = "log_level"
)

// AdminPasswordEnv supplies the admin password non-interactively. It is
// read straight from the environment and never stored.
const AdminPasswordEnv = "BASESETUP_ADMIN_PASSWORD"

// Defaults. The project URL and key have none.
const (
	DefaultSQLFile      = "SUPABASE_SETUP_COMPLETE.sql"
	DefaultDashboardURL = "https://supabase.com/dashboard"
	DefaultTimeout      = 10 * time.Second
	DefaultLogLevel     = "debug"
)

// Source names reported by `basesetup info`.
const (
	SourceFlag     = "flag"
	SourceEnv      = "env"
	SourceFile     = "config file"
	SourceKeychain = "keychain"
	SourceDefault  = "default"
	SourceUnset    = "unset"
)

var envNames = map[string][]string{
	KeyURL:          {"SUPABASE_URL"},
	KeyAnonKey:      {"SUPABASE_ANON_KEY", "SUPABASE_KEY"},
	KeyProjectRef:   {"SUPABASE_PROJECT_REF"},
	KeyDBURL:        {"SUPABASE_DB_URL"},
	KeySQLFile:      {"BASESETUP_SQL_FILE"},
	KeyDashboardURL: {"BASESETUP_DASHBOARD_URL"},
	KeyAdminEmail:   {"BASESETUP_ADMIN_EMAIL"},
	KeyTimeout:      {"BASESETUP_TIMEOUT"},
	KeyLogLevel:     {"BASESETUP_LOG_LEVEL"},
}

// Config holds resolved CLI settings.
type Config struct {
	URL          string
	AnonKey      string
	ProjectRef   string
	DBURL        string
	SQLFile      string
	DashboardURL string
	AdminEmail   string
	Timeout      time.Duration
	LogLevel     string

	// Sources records where each setting came from, keyed by setting key.
	Sources map[string]string
}

// fileConfig is the on-disk representation. Secrets have no field here.
type fileConfig struct {
	URL          string `json:"url,omitempty"`
	ProjectRef   string `json:"project_ref,omitempty"`
	SQLFile      string `json:"sql_file,omitempty"`
	DashboardURL string `json:"dashboard_url,omitempty"`
	AdminEmail   string `json:"admin_email,omitempty"`
	Timeout      string `json:"timeout,omitempty"`
	LogLevel     string `json:"log_level,omitempty"`
}

// Dir returns the XDG config directory for basesetup.
// Only Save creates it, with private permissions (0700).
// It falls back to ~/.config/basesetup when XDG_CONFIG_HOME is unset.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basesetup"), nil
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load resolves configuration with precedence flag > env > .env > file > default.
// flags may be nil; only flags that exist in the set are bound.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperr.Wrap(apperr.Config, "reading .env", err)
	}

	v := viper.New()
	v.SetDefault(KeySQLFile, DefaultSQLFile)
	v.SetDefault(KeyDashboardURL, DefaultDashboardURL)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	// Without a usable config dir there is simply no file to read.
	if p, err := path(); err == nil && fileExists(p) {
		v.SetConfigFile(p)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Wrap(apperr.Config, "parsing "+p, err)
		}
	}

	for key, names := range envNames {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, apperr.Wrap(apperr.Config, "binding env for "+key, err)
		}
	}

	if flags != nil {
		for key := range envNames {
			if f := flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, apperr.Wrap(apperr.Config, "binding flag "+f.Name, err)
				}
			}
		}
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		return nil, apperr.New(apperr.Config, fmt.Sprintf("invalid timeout %q", v.GetString(KeyTimeout)))
	}

	c := &Config{
		URL:          strings.TrimRight(strings.TrimSpace(v.GetString(KeyURL)), "/"),
		AnonKey:      strings.TrimSpace(v.GetString(KeyAnonKey)),
		ProjectRef:   strings.TrimSpace(v.GetString(KeyProjectRef)),
		DBURL:        strings.TrimSpace(v.GetString(KeyDBURL)),
		SQLFile:      v.GetString(KeySQLFile),
		DashboardURL: strings.TrimRight(v.GetString(KeyDashboardURL), "/"),
		AdminEmail:   strings.TrimSpace(v.GetString(KeyAdminEmail)),
		Timeout:      timeout,
		LogLevel:     v.GetString(KeyLogLevel),
		Sources:      make(map[string]string, len(envNames)),
	}
	for key, names := range envNames {
		c.Sources[key] = sourceOf(v, flags, key, names)
	}
	return c, nil
}

// flagName maps a setting key onto its cobra flag name.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func sourceOf(v *viper.Viper, flags *pflag.FlagSet, key string, names []string) string {
	if flags != nil {
		if f := flags.Lookup(flagName(key)); f != nil && f.Changed {
			return SourceFlag
		}
	}
	for _, n := range names {
		if val, ok := os.LookupEnv(n); ok && val != "" {
			return SourceEnv
		}
	}
	if v.InConfig(key) {
		return SourceFile
	}
	if v.GetString(key) != "" {
		return SourceDefault
	}
	return SourceUnset
}

// RequireBackend checks the settings every backend-facing command needs.
func (c *Config) RequireBackend() error {
	if c.URL == "" {
		return apperr.New(apperr.Config, "project URL is not set (export SUPABASE_URL or pass --url)")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return apperr.New(apperr.Config, fmt.Sprintf("project URL %q must be an http(s) URL", c.URL))
	}
	if c.AnonKey == "" {
		return apperr.New(apperr.Config, "API key is not set (export SUPABASE_ANON_KEY, pass --anon-key, or run 'basesetup credentials save')")
	}
	return nil
}

// ResolvedProjectRef returns the configured project ref, or derives it from a
// hosted project URL of the form https://<ref>.supabase.co.
func (c *Config) ResolvedProjectRef() string {
	if c.ProjectRef != "" {
		return c.ProjectRef
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if !strings.HasSuffix(host, ".supabase.co") {
		return ""
	}
	return strings.SplitN(host, ".", 2)[0]
}

// SQLEditorURL returns the hosted SQL editor URL for the project, or "" when
// the project ref is unknown.
func (c *Config) SQLEditorURL() string {
	ref := c.ResolvedProjectRef()
	if ref == "" {
		return ""
	}
	return fmt.Sprintf("%s/project/%s/sql/new", c.DashboardURL, ref)
}

// Save writes the non-secret settings with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	fc := fileConfig{
		URL:        c.URL,
		ProjectRef: c.ProjectRef,
		AdminEmail: c.AdminEmail,
	}
	if c.SQLFile != DefaultSQLFile {
		fc.SQLFile = c.SQLFile
	}
	if c.LogLevel != DefaultLogLevel {
		fc.LogLevel = c.LogLevel
	}
	if c.DashboardURL != DefaultDashboardURL {
		fc.DashboardURL = c.DashboardURL
	}
	if c.Timeout > 0 && c.Timeout != DefaultTimeout {
		fc.Timeout = c.Timeout.String()
	}
	b, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
