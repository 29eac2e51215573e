// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Source kinds for the input table
const (
	SourceCSV       = "csv"
	SourceSnowflake = "snowflake"
)

// Defaults matching the published report
const (
	DefaultInputPath  = "cocoa_production_data.csv"
	DefaultOutputPath = "final_annotated_cocoa_analysis.pdf"
	DefaultItem       = "Cocoa, beans"
)

// Config represents the application configuration
type Config struct {
	// Input
	Source    string
	InputPath string
	Delimiter rune
	Item      string

	// Cell texts treated as missing values; nil keeps the converter defaults
	NullValues []string

	// Outputs
	OutputPath string
	XLSXPath   string // empty disables the workbook export
	Show       bool
	PGExport   bool

	// Database connections, loaded only when the matching feature is enabled
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads variables from the given .env files, ignoring files that do not exist
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables and validates it
func LoadConfig() (*Config, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.LoadDatabases(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadConfig reads configuration from environment variables without validating it,
// so callers can apply overrides before calling LoadDatabases and Validate.
func ReadConfig() (*Config, error) {
	delimiter, err := parseDelimiter(getEnv("REPORT_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Source:     strings.ToLower(getEnv("REPORT_SOURCE", SourceCSV)),
		InputPath:  getEnv("REPORT_INPUT", DefaultInputPath),
		Delimiter:  delimiter,
		Item:       getEnv("REPORT_ITEM", DefaultItem),
		NullValues: getEnvAsStringSlice("REPORT_NULL_VALUES", nil),
		OutputPath: getEnv("REPORT_OUTPUT", DefaultOutputPath),
		XLSXPath:   getEnv("REPORT_XLSX_PATH", ""),
		Show:       getEnvAsBool("REPORT_SHOW", false),
		PGExport:   getEnvAsBool("REPORT_PG_EXPORT", false),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

// LoadDatabases loads the connection settings required by the enabled features
func (c *Config) LoadDatabases() error {
	if c.Source == SourceSnowflake && c.Snowflake == nil {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		c.Snowflake = snowConfig
	}

	if c.PGExport && c.Postgres == nil {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		c.Postgres = pgConfig
	}

	return nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.InputPath == "" {
			return errors.New("input path is required")
		}
	case SourceSnowflake:
		if c.Snowflake == nil {
			return errors.New("snowflake configuration is required for the snowflake source")
		}
	default:
		return fmt.Errorf("unknown source %q (expected %s or %s)", c.Source, SourceCSV, SourceSnowflake)
	}

	if c.OutputPath == "" {
		return errors.New("output path is required")
	}

	switch strings.ToLower(filepath.Ext(c.OutputPath)) {
	case ".pdf", ".png", ".svg":
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(c.OutputPath))
	}

	if c.XLSXPath != "" && !strings.EqualFold(filepath.Ext(c.XLSXPath), ".xlsx") {
		return fmt.Errorf("workbook path must end in .xlsx: %s", c.XLSXPath)
	}

	if c.Item == "" {
		return errors.New("item is required")
	}

	if c.PGExport && c.Postgres == nil {
		return errors.New("postgreSQL configuration is required for the export")
	}

	return nil
}

// parseDelimiter accepts a single character or the word "tab"
func parseDelimiter(s string) (rune, error) {
	if strings.EqualFold(s, "tab") || s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSeconds reads a whole number of seconds
func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	seconds := getEnvAsInt(key, -1)
	if seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsStringSlice parses a comma-separated list, dropping blank entries
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		v = strings.Trim(strings.TrimSpace(v), `"`)
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
