// Package config provides configuration loading and management for the dashboard server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

// EnvPrefix is the prefix of every environment variable read by the server
const EnvPrefix = "MGNREGA"

const (
	// StorageTypeDatabase keeps records and cache entries in PostgreSQL
	StorageTypeDatabase = "database"

	// StorageTypeMemory keeps records and cache entries in process memory
	StorageTypeMemory = "memory"
)

// Defaults applied by the getters when a field is left empty.
const (
	DefaultBaseURL         = "https://api.data.gov.in"
	DefaultResourceID      = "ee03643a-ee4c-48c2-ac30-9f2ff26ab722"
	DefaultFormat          = "json"
	DefaultLimit           = 1000
	DefaultFetchTimeout    = 15 * time.Second
	DefaultMaxRetries      = 2
	DefaultStateCode       = "up"
	DefaultCacheTTL        = time.Hour
	DefaultLongCacheTTL    = 24 * time.Hour
	DefaultShortCacheTTL   = 5 * time.Minute
	DefaultAPIResponseTTL  = 30 * time.Minute
	DefaultReapInterval    = 10 * time.Minute
	DefaultBatchSize       = 50
	DefaultBatchDelay      = 100 * time.Millisecond
	DefaultSyncInterval    = 24 * time.Hour
	defaultDatabaseSSLMode = "require"
	apiKeyEnvKey           = "api_key"
	databasePasswordEnvKey = "database_password"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks; this also cleans the path.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	DataSource DataSourceConfig  `yaml:"dataSource"`
	Cache      CacheConfig       `yaml:"cache"`
	Ingestion  IngestionConfig   `yaml:"ingestion"`
	Sync       SyncConfig        `yaml:"sync"`
	Storage    StorageConfig     `yaml:"storage"`
	Database   *DatabaseConfig   `yaml:"database,omitempty"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// DataSourceConfig describes the upstream data.gov.in resource
type DataSourceConfig struct {
	// BaseURL is the API root, without the resource path
	BaseURL string `yaml:"baseURL,omitempty"`

	// ResourceID identifies the MGNREGA data set on data.gov.in
	ResourceID string `yaml:"resourceID,omitempty"`

	// APIKeyFile is the path to a file containing the API key.
	// Falls back to the MGNREGA_API_KEY environment variable.
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	Format string `yaml:"format,omitempty"`
	Limit  int    `yaml:"limit,omitempty"`

	// Timeout bounds a whole fetch, retries included (e.g. "15s")
	Timeout string `yaml:"timeout,omitempty"`

	// MaxRetries is the number of retries on 429 and 5xx responses
	MaxRetries *int `yaml:"maxRetries,omitempty"`

	// DefaultStateCode is used when a raw record names neither a state code nor a known state
	DefaultStateCode string `yaml:"defaultStateCode,omitempty"`

	// Filters are passed through verbatim as query parameters
	Filters map[string]string `yaml:"filters,omitempty"`
}

// CacheConfig defines TTLs for the response cache
type CacheConfig struct {
	DefaultTTL     string `yaml:"defaultTTL,omitempty"`
	LongTTL        string `yaml:"longTTL,omitempty"`
	ShortTTL       string `yaml:"shortTTL,omitempty"`
	APIResponseTTL string `yaml:"apiResponseTTL,omitempty"`
	ReapInterval   string `yaml:"reapInterval,omitempty"`
}

// IngestionConfig defines how normalized records are written
type IngestionConfig struct {
	BatchSize  int    `yaml:"batchSize,omitempty"`
	BatchDelay string `yaml:"batchDelay,omitempty"`
}

// SyncConfig defines the sync schedule
type SyncConfig struct {
	Interval  string `yaml:"interval,omitempty"`
	OnStartup bool   `yaml:"onStartup,omitempty"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	// Type is either "database" or "memory"; defaults to "database"
	Type string `yaml:"type,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the minimum number of idle connections kept in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	// every duration except the batch delay must be positive
	durations := map[string]string{
		"dataSource.timeout":   c.DataSource.Timeout,
		"cache.defaultTTL":     c.Cache.DefaultTTL,
		"cache.longTTL":        c.Cache.LongTTL,
		"cache.shortTTL":       c.Cache.ShortTTL,
		"cache.apiResponseTTL": c.Cache.APIResponseTTL,
		"cache.reapInterval":   c.Cache.ReapInterval,
		"ingestion.batchDelay": c.Ingestion.BatchDelay,
		"sync.interval":        c.Sync.Interval,
	}
	for field, value := range durations {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be a valid duration (e.g., '30m', '1h'): %w", field, err))
			continue
		}
		switch {
		case d < 0:
			errs = append(errs, fmt.Errorf("%s must not be negative", field))
		case d == 0 && field != "ingestion.batchDelay":
			errs = append(errs, fmt.Errorf("%s must be positive", field))
		}
	}

	if c.DataSource.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.DataSource.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("dataSource.baseURL is invalid: %w", err))
		}
	}
	if c.DataSource.Limit < 0 {
		errs = append(errs, fmt.Errorf("dataSource.limit must not be negative"))
	}
	if c.DataSource.MaxRetries != nil && *c.DataSource.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("dataSource.maxRetries must not be negative"))
	}
	if c.Ingestion.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("ingestion.batchSize must not be negative"))
	}

	switch c.GetStorageType() {
	case StorageTypeMemory:
	case StorageTypeDatabase:
		if c.Database == nil {
			errs = append(errs, fmt.Errorf("database configuration is required when storage.type is %q", StorageTypeDatabase))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type must be %q or %q, got %q",
			StorageTypeDatabase, StorageTypeMemory, c.Storage.Type))
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("telemetry: %w", err))
		}
	}

	return errors.Join(errs...)
}

// GetStorageType returns the storage type, defaulting to database
func (c *Config) GetStorageType() string {
	if c.Storage.Type == "" {
		return StorageTypeDatabase
	}
	return c.Storage.Type
}

// durationOr parses value, returning def when it is empty, invalid or not
// positive. Values are checked by validate, so an invalid value only shows
// up for configs built in code.
func durationOr(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetBaseURL returns the API base URL without a trailing slash
func (d *DataSourceConfig) GetBaseURL() string {
	if d.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(d.BaseURL, "/")
}

// GetResourceID returns the data.gov.in resource identifier
func (d *DataSourceConfig) GetResourceID() string {
	if d.ResourceID == "" {
		return DefaultResourceID
	}
	return d.ResourceID
}

// GetFormat returns the requested response format
func (d *DataSourceConfig) GetFormat() string {
	if d.Format == "" {
		return DefaultFormat
	}
	return d.Format
}

// GetLimit returns the page size requested from the API
func (d *DataSourceConfig) GetLimit() int {
	if d.Limit == 0 {
		return DefaultLimit
	}
	return d.Limit
}

// GetTimeout returns the hard timeout of one fetch
func (d *DataSourceConfig) GetTimeout() time.Duration {
	return durationOr(d.Timeout, DefaultFetchTimeout)
}

// GetMaxRetries returns the number of retries on retryable responses.
// An explicit 0 disables retries.
func (d *DataSourceConfig) GetMaxRetries() int {
	if d.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *d.MaxRetries
}

// GetDefaultStateCode returns the fallback state code, lowercased
func (d *DataSourceConfig) GetDefaultStateCode() string {
	if d.DefaultStateCode == "" {
		return DefaultStateCode
	}
	return strings.ToLower(d.DefaultStateCode)
}

// GetAPIKey returns the API key using the following priority:
// 1. Read from APIKeyFile if specified
// 2. Read from MGNREGA_API_KEY environment variable
//
// A missing key is not an error: data.gov.in rejects the request and the
// sync falls back to the synthetic data set.
func (d *DataSourceConfig) GetAPIKey() (string, error) {
	if d.APIKeyFile != "" {
		data, err := os.ReadFile(filepath.Clean(d.APIKeyFile))
		if err != nil {
			return "", fmt.Errorf("failed to read API key from file %s: %w", d.APIKeyFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return envValue(apiKeyEnvKey), nil
}

// GetDefaultTTL returns the TTL of district data entries
func (c *CacheConfig) GetDefaultTTL() time.Duration {
	return durationOr(c.DefaultTTL, DefaultCacheTTL)
}

// GetLongTTL returns the TTL of reference data entries
func (c *CacheConfig) GetLongTTL() time.Duration {
	return durationOr(c.LongTTL, DefaultLongCacheTTL)
}

// GetShortTTL returns the TTL of short-lived entries
func (c *CacheConfig) GetShortTTL() time.Duration {
	return durationOr(c.ShortTTL, DefaultShortCacheTTL)
}

// GetAPIResponseTTL returns the TTL of cached raw upstream responses
func (c *CacheConfig) GetAPIResponseTTL() time.Duration {
	return durationOr(c.APIResponseTTL, DefaultAPIResponseTTL)
}

// GetReapInterval returns how often expired entries are physically removed
func (c *CacheConfig) GetReapInterval() time.Duration {
	return durationOr(c.ReapInterval, DefaultReapInterval)
}

// GetBatchSize returns the number of records per upsert chunk
func (i *IngestionConfig) GetBatchSize() int {
	if i.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return i.BatchSize
}

// GetBatchDelay returns the pause between upsert chunks
// An explicit "0s" disables the pause.
func (i *IngestionConfig) GetBatchDelay() time.Duration {
	if d, err := time.ParseDuration(i.BatchDelay); err == nil && d == 0 {
		return 0
	}
	return durationOr(i.BatchDelay, DefaultBatchDelay)
}

// GetInterval returns the scheduled sync interval
func (s *SyncConfig) GetInterval() time.Duration {
	return durationOr(s.Interval, DefaultSyncInterval)
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from MGNREGA_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		data, err := os.ReadFile(filepath.Clean(d.PasswordFile))
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := envValue(databasePasswordEnvKey); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_%s environment variable",
		EnvPrefix, strings.ToUpper(databasePasswordEnvKey),
	)
}

// GetConnectionString builds a PostgreSQL connection string.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = defaultDatabaseSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String(), nil
}

// envValue reads the environment variable EnvPrefix_KEY
func envValue(key string) string {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v.GetString(key)
}
