package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the jobrank API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Index    IndexConfig    `yaml:"index"`
	Model    ModelConfig    `yaml:"model"`
	Cluster  ClusterConfig  `yaml:"cluster"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings. Used only by the redis model driver.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// DatasetConfig locates the job postings file.
type DatasetConfig struct {
	Path                   string `yaml:"path"` // .csv or .parquet
	MaxRecordsForAnalytics int    `yaml:"max_records_for_analytics"` // 0 = all
}

// IndexConfig holds vectorizer and ranking settings.
type IndexConfig struct {
	MaxCorpusSize       int     `yaml:"max_corpus_size"`
	MaxFeatures         int     `yaml:"max_features"`
	MinDF               int     `yaml:"min_df"`
	MaxDF               float64 `yaml:"max_df"`
	NgramMax            int     `yaml:"ngram_max"`
	DescriptionChars    int     `yaml:"description_chars"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
	BuildWorkers        int     `yaml:"build_workers"` // 0 = GOMAXPROCS
}

// Model storage drivers.
const (
	ModelDriverFile   = "file"
	ModelDriverSQLite = "sqlite"
	ModelDriverRedis  = "redis"
)

// ModelConfig selects where the trained model is persisted.
type ModelConfig struct {
	Driver string `yaml:"driver"` // file (default), sqlite, redis
	Path   string `yaml:"path"`   // directory for file, database file for sqlite
}

// ClusterConfig holds k-means settings.
type ClusterConfig struct {
	DefaultK      int     `yaml:"default_k"`
	Seed          uint64  `yaml:"seed"`
	Restarts      int     `yaml:"restarts"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, then decodes, defaults, and validates it.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120 // POST /api/train runs synchronously
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Dataset.Path == "" {
		c.Dataset.Path = "data/jobs.csv"
	}
	if c.Index.MaxCorpusSize <= 0 {
		c.Index.MaxCorpusSize = 5000
	}
	if c.Index.MaxFeatures <= 0 {
		c.Index.MaxFeatures = 1000
	}
	if c.Index.MinDF <= 0 {
		c.Index.MinDF = 2
	}
	if c.Index.MaxDF <= 0 {
		c.Index.MaxDF = 0.8
	}
	if c.Index.NgramMax <= 0 {
		c.Index.NgramMax = 2
	}
	if c.Index.DescriptionChars <= 0 {
		c.Index.DescriptionChars = 500
	}
	if c.Index.CandidateMultiplier <= 0 {
		c.Index.CandidateMultiplier = 3
	}
	if c.Model.Driver == "" {
		c.Model.Driver = ModelDriverFile
	}
	if c.Model.Path == "" {
		switch c.Model.Driver {
		case ModelDriverSQLite:
			c.Model.Path = "models/model.db"
		default:
			c.Model.Path = "models"
		}
	}
	if c.Cluster.DefaultK <= 0 {
		c.Cluster.DefaultK = 8
	}
	if c.Cluster.Seed == 0 {
		c.Cluster.Seed = 42
	}
	if c.Cluster.Restarts <= 0 {
		c.Cluster.Restarts = 10
	}
	if c.Cluster.MaxIterations <= 0 {
		c.Cluster.MaxIterations = 300
	}
	if c.Cluster.Tolerance <= 0 {
		c.Cluster.Tolerance = 1e-4
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "jobrank:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Index.MaxDF > 1 {
		return fmt.Errorf("index.max_df must be in (0, 1], got %g", c.Index.MaxDF)
	}
	if c.Index.NgramMax > 3 {
		return fmt.Errorf("index.ngram_max must be at most 3, got %d", c.Index.NgramMax)
	}
	switch c.Model.Driver {
	case ModelDriverFile, ModelDriverSQLite:
		// ok
	case ModelDriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for model.driver %q", ModelDriverRedis)
		}
	default:
		return fmt.Errorf("model.driver must be \"file\", \"sqlite\" or \"redis\", got %q", c.Model.Driver)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
		// ok
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
