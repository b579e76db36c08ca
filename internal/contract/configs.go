package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultBatchSize           = 25
	DefaultCollectLimit        = 100
	DefaultHandleCacheTTL      = 30 * time.Minute
	DefaultHandleCacheSize     = 64
	DefaultDefaultBranch       = "main"
	DefaultPrecision           = 2
	DefaultRecentHours         = 24
	DefaultQueryLimit          = 50
	DefaultHotspotMinChanges   = 3
	DefaultHotspotLimit        = 50
	DefaultConfidenceThreshold = 0.3
	MaxResultLimit             = 1000
)

// Config is the validated configuration shared by all commands.
type Config struct {
	DBBackend       schema.DatabaseBackend
	DBConnect       string
	BatchSize       int
	GitRate         float64
	HandleCacheTTL  time.Duration
	HandleCacheSize int
	DefaultBranch   string
	FileSizes       bool
	AuthorMatch     schema.AuthorMatchMode
	LogLevel        logrus.Level
	LogFormat       string
	Output          schema.OutputMode
	OutputFile      string
	Precision       int
	UseColors       bool
	Width           int
}

// ConfigRawInput holds the raw, unvalidated configuration from file, env and flags.
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	DBBackend       string  `mapstructure:"db-backend"`
	DBConnect       string  `mapstructure:"db-connect"`
	BatchSize       int     `mapstructure:"batch-size"`
	GitRate         float64 `mapstructure:"git-rate"`
	HandleCacheTTL  string  `mapstructure:"handle-cache-ttl"`
	HandleCacheSize int     `mapstructure:"handle-cache-size"`
	DefaultBranch   string  `mapstructure:"default-branch"`
	FileSizes       bool    `mapstructure:"file-sizes"`
	AuthorMatch     string  `mapstructure:"author-match"`
	LogLevel        string  `mapstructure:"log-level"`
	LogFormat       string  `mapstructure:"log-format"`
	Output          string  `mapstructure:"output"`
	OutputFile      string  `mapstructure:"output-file"`
	Precision       int     `mapstructure:"precision"`
	Color           string  `mapstructure:"color"`
	Width           int     `mapstructure:"width"`
}

// DefaultConfig returns the configuration produced by empty input.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := ProcessAndValidate(cfg, &ConfigRawInput{Precision: DefaultPrecision}); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// Clone returns a copy of the config that callers may modify freely.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate reads input and populates cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processStoreInputs(cfg, input); err != nil {
		return err
	}
	if err := processEngineInputs(cfg, input); err != nil {
		return err
	}
	return processOutputInputs(cfg, input)
}

// processStoreInputs validates the database backend and its connection string.
func processStoreInputs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.DBBackend))
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.DBBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect)
}

// processEngineInputs validates collection, caching and correlation settings.
func processEngineInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.BatchSize = input.BatchSize
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize < 1 || cfg.BatchSize > MaxResultLimit {
		return fmt.Errorf("batch-size must be between 1 and %d", MaxResultLimit)
	}

	if input.GitRate < 0 {
		return fmt.Errorf("git-rate cannot be negative")
	}
	cfg.GitRate = input.GitRate

	cfg.HandleCacheTTL = DefaultHandleCacheTTL
	if input.HandleCacheTTL != "" {
		ttl, err := time.ParseDuration(input.HandleCacheTTL)
		if err != nil {
			return fmt.Errorf("invalid handle-cache-ttl %q: %w", input.HandleCacheTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("handle-cache-ttl must be positive")
		}
		cfg.HandleCacheTTL = ttl
	}

	cfg.HandleCacheSize = input.HandleCacheSize
	if cfg.HandleCacheSize == 0 {
		cfg.HandleCacheSize = DefaultHandleCacheSize
	}
	if cfg.HandleCacheSize < 1 {
		return fmt.Errorf("handle-cache-size must be at least 1")
	}

	cfg.DefaultBranch = strings.TrimSpace(input.DefaultBranch)
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultDefaultBranch
	}
	cfg.FileSizes = input.FileSizes

	mode := strings.ToLower(strings.TrimSpace(input.AuthorMatch))
	if mode == "" {
		mode = string(schema.NoAuthorMatch)
	}
	cfg.AuthorMatch = schema.AuthorMatchMode(mode)
	if _, ok := schema.ValidAuthorMatchModes[cfg.AuthorMatch]; !ok {
		return fmt.Errorf("invalid author-match '%s'. must be none or email", input.AuthorMatch)
	}
	return nil
}

// processOutputInputs validates logging and rendering settings.
func processOutputInputs(cfg *Config, input *ConfigRawInput) error {
	level := input.LogLevel
	if level == "" {
		level = logrus.WarnLevel.String()
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log-level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = parsed

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log-format '%s'. must be text or json", input.LogFormat)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output '%s'. must be text, json or csv", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6")
	}
	cfg.Precision = input.Precision

	color := input.Color
	if color == "" {
		color = "yes"
	}
	useColors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative")
	}
	cfg.Width = input.Width
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter or be a postgres:// URL")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// GetDBFilePath returns the default path of the SQLite database file.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpulse.db"
	}
	return filepath.Join(homeDir, ".gitpulse.db")
}
