package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Placeholder fragments left in a copied .env that mean the remote
// store was never pointed at a real project.
var placeholderFragments = []string{
	"YOUR-PROJECT-ID",
	"your-project-id",
	"example.firebaseio.com",
}

type Config struct {
	// HTTP Server
	Port string

	// Remote document store
	FirebaseDatabaseURL string

	// Local mirror
	SQLiteDBPath string

	// Background refresh
	RefreshInterval time.Duration

	// Google Sheets export (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string
	ExportSchedule      string

	// Release channel
	AppVersion string
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8090"),
		FirebaseDatabaseURL: getEnv("FIREBASE_DATABASE_URL", ""),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "./data/kolipanel.db"),
		RefreshInterval:     getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Sales"),
		ExportSchedule:      getEnv("EXPORT_SCHEDULE", "0 * * * *"),
		AppVersion:          getEnv("APP_VERSION", "dev"),
	}
}

// HasPlaceholderURL reports whether the store URL still contains a
// template value from the sample .env. The app runs against the local
// mirror in that case instead of failing outright.
func (c *Config) HasPlaceholderURL() bool {
	for _, frag := range placeholderFragments {
		if strings.Contains(c.FirebaseDatabaseURL, frag) {
			return true
		}
	}
	return false
}

// StoreConfigured reports whether a usable remote store URL was
// provided. A missing or placeholder URL is a warning at startup, not
// a crash; the app then serves the mirrored ledger.
func (c *Config) StoreConfigured() bool {
	return c.FirebaseDatabaseURL != "" && !c.HasPlaceholderURL()
}

// ExportEnabled reports whether the Sheets export should run.
func (c *Config) ExportEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.StoreConfigured() {
		if parsed, err := url.Parse(c.FirebaseDatabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid store URL '%s': %v", c.FirebaseDatabaseURL, err))
		} else if parsed.Scheme != "https" && parsed.Scheme != "http" {
			errors = append(errors, fmt.Sprintf("invalid store URL scheme '%s': must be http or https", parsed.Scheme))
		}
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.RefreshInterval < 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 10 seconds", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}

	if c.ExportEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name cannot be empty when export is enabled")
		}
		if _, err := cron.ParseStandard(c.ExportSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid export schedule '%s': %v", c.ExportSchedule, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
