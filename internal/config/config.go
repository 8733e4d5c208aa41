package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

// Config represents the full application configuration surface.
type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	MongoDB      MongoDBConfig
	Sheets       SheetsConfig
	Reporting    ReportingConfig
	DeliveryNote DeliveryNoteConfig
	Fonts        FontConfig
	Export       ExportConfig
	Notify       NotifyConfig
	Log          LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// StorageConfig selects the records store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// The ledger mirror is disabled when either field is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
}

// Enabled reports whether the sheet ledger should be wired.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves Timezone.
func (r ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// DeliveryNoteConfig carries the fixed letterhead printed on every delivery note.
type DeliveryNoteConfig struct {
	FileLabel   string
	Title       string
	BranchLabel string
	AccountLine string
	CarrierName string
	PhoneLine   string
}

// FontConfig configures the Korean font resolution chain.
type FontConfig struct {
	EmbeddedName string
	FilePath     string
	WebFontCSS   string
	Timeout      time.Duration
}

// ExportConfig configures batch export pacing.
type ExportConfig struct {
	Pacing time.Duration
}

// NotifyConfig holds the optional webhook that receives the daily summary.
type NotifyConfig struct {
	WebhookURL string
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	fontTimeout, err := getDuration("WEBFONT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pacing, err := getDuration("EXPORT_PACING", 300*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getenvWithDefault("STORAGE_DRIVER", DriverSQLite)),
			DSN:    getenvWithDefault("DATABASE_DSN", "collection-desk.db"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "collection_desk"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			LedgerRange:     getenvWithDefault("GOOGLE_SHEET_LEDGER_RANGE", "Shipments!A:F"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Seoul"),
		},
		DeliveryNote: DeliveryNoteConfig{
			FileLabel:   getenvWithDefault("NOTE_FILE_LABEL", "송품장"),
			Title:       getenvWithDefault("NOTE_TITLE", "송 품 장"),
			BranchLabel: getenvWithDefault("NOTE_BRANCH_LABEL", "밀양산내지소"),
			AccountLine: getenvWithDefault("NOTE_ACCOUNT_LINE", "계좌번호: 농협 356-0724-8964-13 (강민준)"),
			CarrierName: getenvWithDefault("NOTE_CARRIER_NAME", "강민준 기사"),
			PhoneLine:   getenvWithDefault("NOTE_PHONE_LINE", "H.P : 010-3444-8853"),
		},
		Fonts: FontConfig{
			EmbeddedName: getenvWithDefault("FONT_EMBEDDED_NAME", "NotoSansKR-Regular.ttf"),
			FilePath:     getenvWithDefault("FONT_PATH", "fonts/NotoSansKR-Regular.ttf"),
			WebFontCSS:   getenvWithDefault("WEBFONT_CSS_URL", "https://fonts.googleapis.com/css2?family=Noto+Sans+KR:wght@400&display=swap"),
			Timeout:      fontTimeout,
		},
		Export: ExportConfig{
			Pacing: pacing,
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		Log: LogConfig{
			Level:      getenvWithDefault("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("DATABASE_DSN must be provided")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided when STORAGE_DRIVER=mongodb")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.DeliveryNote.FileLabel == "" {
		return errors.New("NOTE_FILE_LABEL must not be empty")
	}

	if c.Export.Pacing < 0 {
		return errors.New("EXPORT_PACING must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
