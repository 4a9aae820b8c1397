package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Batch    BatchConfig
	Storage  StorageConfig
	Render   RenderConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the SQLite settings used for batch job history
type DatabaseConfig struct {
	Path string // file path, or ":memory:" for ephemeral runs
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// BatchConfig holds batch pipeline settings
type BatchConfig struct {
	Workers       int    // concurrent render workers per batch
	MaxRows       int    // upper bound on rows per uploaded dataset
	FailurePolicy string // "abort" or "collect", the default for runs that do not choose one
}

// StorageConfig holds archive storage settings. With Enabled false the
// archives land under LocalDir on the local filesystem.
type StorageConfig struct {
	Enabled         bool
	LocalDir        string // archive directory when object storage is disabled
	Endpoint        string // custom endpoint for S3-compatible stores (empty = AWS)
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// RenderConfig holds document rendering settings
type RenderConfig struct {
	PageSize    string // A4, A5, Letter, Legal
	Orientation string // P or L
	FontFamily  string
	LogoMaxSize int64 // max accepted logo upload in bytes
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICEGEN_ prefix (e.g., INVOICEGEN_STORAGE_BUCKET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("INVOICEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Batch: BatchConfig{
			Workers:       v.GetInt("batch.workers"),
			MaxRows:       v.GetInt("batch.max_rows"),
			FailurePolicy: v.GetString("batch.failure_policy"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			LocalDir:        v.GetString("storage.local_dir"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
		},
		Render: RenderConfig{
			PageSize:    v.GetString("render.page_size"),
			Orientation: v.GetString("render.orientation"),
			FontFamily:  v.GetString("render.font_family"),
			LogoMaxSize: v.GetInt64("render.logo_max_size"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoicegen-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "invoicegen.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Batch renders can take a while to stream back
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 4
	}
	if cfg.Batch.MaxRows == 0 {
		cfg.Batch.MaxRows = 1000
	}
	if cfg.Batch.FailurePolicy == "" {
		cfg.Batch.FailurePolicy = "abort"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "data/archives"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-south-1"
	}
	if cfg.Render.PageSize == "" {
		cfg.Render.PageSize = "A4"
	}
	if cfg.Render.Orientation == "" {
		cfg.Render.Orientation = "P"
	}
	if cfg.Render.FontFamily == "" {
		cfg.Render.FontFamily = "Helvetica"
	}
	if cfg.Render.LogoMaxSize == 0 {
		cfg.Render.LogoMaxSize = 2 << 20 // 2MB
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Batch.MaxRows <= 0 {
		return fmt.Errorf("batch.max_rows must be positive")
	}
	if c.Batch.FailurePolicy != "abort" && c.Batch.FailurePolicy != "collect" {
		return fmt.Errorf("batch.failure_policy must be 'abort' or 'collect', got %q", c.Batch.FailurePolicy)
	}
	if c.Render.Orientation != "P" && c.Render.Orientation != "L" {
		return fmt.Errorf("render.orientation must be 'P' or 'L', got %q", c.Render.Orientation)
	}

	if c.Storage.Enabled {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage is enabled")
		}
		if c.Storage.Region == "" {
			return fmt.Errorf("storage.region is required when storage is enabled")
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Database.Path == ":memory:" {
			return fmt.Errorf("database.path cannot be ':memory:' in production")
		}
	}

	return nil
}
