package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"aptigenius-backend/internal/model"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API" yaml:"-"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr" yaml:"request_dump"`
	Context        ContextConfig        `xml:"CONTEXT" yaml:"context"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION" yaml:"authentication"`
	DB             DBConfig             `xml:"DB" yaml:"db"`
	Log            LogConfig            `xml:"LOG" yaml:"log"`
	Test           TestConfig           `xml:"TEST" yaml:"test"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT" yaml:"port"`
	Host     string `xml:"HOST" yaml:"host"`
	TimeZone string `xml:"TIME_ZONE" yaml:"time_zone"`
}

// AuthenticationConfig holds token and login throttling settings.
type AuthenticationConfig struct {
	AccessSecret       string `xml:"ACCESS_SECRET" yaml:"access_secret"`
	RefreshSecret      string `xml:"REFRESH_SECRET" yaml:"refresh_secret"`
	AccessTTLMinutes   int    `xml:"ACCESS_TTL_MINUTES" yaml:"access_ttl_minutes"`
	RefreshTTLHours    int    `xml:"REFRESH_TTL_HOURS" yaml:"refresh_ttl_hours"`
	RateLimitPerMinute int    `xml:"RATE_LIMIT_PER_MINUTE" yaml:"rate_limit_per_minute"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Driver     string       `xml:"DRIVER" yaml:"driver"`
	Host       string       `xml:"HOST" yaml:"host"`
	Port       int          `xml:"PORT" yaml:"port"`
	SSLMode    string       `xml:"SSL_MODE" yaml:"ssl_mode"`
	Names      DBNames      `xml:"NAMES" yaml:"names"`
	Username   string       `xml:"USERNAME" yaml:"username"`
	Password   DBPassword   `xml:"PASSWORD" yaml:"password"`
	SQLitePath string       `xml:"SQLITE_PATH" yaml:"sqlite_path"`
	Pool       DBPoolConfig `xml:"POOL" yaml:"pool"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	APTIGENIUS string `xml:"APTIGENIUS,attr" yaml:"aptigenius"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr" yaml:"type"`
	Value string `xml:",chardata" yaml:"value"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME" yaml:"conn_max_lifetime"`
}

// LogConfig controls the rotating log files.
type LogConfig struct {
	Dir        string `xml:"DIR" yaml:"dir"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB" yaml:"max_size_mb"`
	MaxBackups int    `xml:"MAX_BACKUPS" yaml:"max_backups"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS" yaml:"max_age_days"`
	Debug      bool   `xml:"DEBUG" yaml:"debug"`
}

// TestConfig holds test session defaults, served to clients by GET /api/config.
type TestConfig struct {
	DurationSeconds int `xml:"DURATION_SECONDS" yaml:"duration_seconds"`
	DefaultLimit    int `xml:"DEFAULT_LIMIT" yaml:"default_limit"`
	MaxLimit        int `xml:"MAX_LIMIT" yaml:"max_limit"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig loads a .env file if one exists, parses the XML (or YAML) file at
// path, applies environment overrides and defaults, and validates the result.
func LoadConfig(path string) (*APIConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw config bytes. ext selects the format: ".yaml"/".yml" for
// YAML, anything else for XML.
func Parse(data []byte, ext string) (*APIConfig, error) {
	var cfg APIConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := xml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse xml config: %w", err)
		}
	}
	return &cfg, nil
}

func (c *APIConfig) applyEnv() {
	if v := os.Getenv("JWT_ACCESS_SECRET"); v != "" {
		c.Authentication.AccessSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		c.Authentication.RefreshSecret = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.DB.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DB.Password.Value = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.DB.SQLitePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Host == "" {
		c.Context.Host = "0.0.0.0"
	}
	if c.Context.Port == 0 {
		c.Context.Port = 5000
	}
	if c.Authentication.AccessTTLMinutes == 0 {
		c.Authentication.AccessTTLMinutes = 24 * 60
	}
	if c.Authentication.RefreshTTLHours == 0 {
		c.Authentication.RefreshTTLHours = 24 * 7
	}
	if c.Authentication.RateLimitPerMinute == 0 {
		c.Authentication.RateLimitPerMinute = 30
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DriverPostgres
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.SQLitePath == "" {
		c.DB.SQLitePath = "aptigenius.db"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 30
	}
	if c.Test.DurationSeconds == 0 {
		c.Test.DurationSeconds = 1800
	}
	if c.Test.DefaultLimit == 0 {
		c.Test.DefaultLimit = 10
	}
	if c.Test.MaxLimit == 0 {
		c.Test.MaxLimit = 50
	}
}

// Validate reports the first setting that would stop the server from running.
func (c *APIConfig) Validate() error {
	switch {
	case c.Authentication.AccessSecret == "":
		return errors.New("config: access secret is required")
	case c.Authentication.RefreshSecret == "":
		return errors.New("config: refresh secret is required")
	case c.DB.Driver != DriverPostgres && c.DB.Driver != DriverSQLite:
		return fmt.Errorf("config: unsupported db driver %q", c.DB.Driver)
	case c.Test.DurationSeconds <= 0:
		return errors.New("config: test duration must be positive")
	case c.Test.DefaultLimit <= 0 || c.Test.MaxLimit < c.Test.DefaultLimit:
		return errors.New("config: test limits must satisfy 0 < default <= max")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}

func (c *APIConfig) AccessTTL() time.Duration {
	return time.Duration(c.Authentication.AccessTTLMinutes) * time.Minute
}

func (c *APIConfig) RefreshTTL() time.Duration {
	return time.Duration(c.Authentication.RefreshTTLHours) * time.Hour
}

// TestSettings is what GET /api/config serves to test-taking clients.
func (c *APIConfig) TestSettings() model.TestSettings {
	return model.TestSettings{
		DurationSeconds: c.Test.DurationSeconds,
		DefaultLimit:    c.Test.DefaultLimit,
		MaxLimit:        c.Test.MaxLimit,
	}
}
