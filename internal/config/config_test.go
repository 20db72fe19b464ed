package config

import (
	"strings"
	"testing"
)

func TestValidate_InvalidModelDriver(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	cfg.Model.Driver = "s3"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid model driver")
	}

	expected := `model.driver must be "file", "sqlite" or "redis", got "s3"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidModelDrivers(t *testing.T) {
	for _, driver := range []string{ModelDriverFile, ModelDriverSQLite, ModelDriverRedis} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := Config{
				HTTP:     HTTPConfig{Port: 8080},
				Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
				Model:    ModelConfig{Driver: driver},
			}
			cfg.ApplyDefaults()

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid driver %q: %v", driver, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Model: ModelConfig{Driver: ModelDriverRedis},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_AddrsOptionalForFileDriver(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MaxDFOutOfRange(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Index: IndexConfig{MaxDF: 1.5}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_df > 1")
	}
}

func TestValidate_InvalidDatabaseDriver(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Database: DatabaseConfig{Driver: "memcached"}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid database driver")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Index.MaxCorpusSize != 5000 {
		t.Errorf("expected MaxCorpusSize=5000, got %d", cfg.Index.MaxCorpusSize)
	}
	if cfg.Index.MaxFeatures != 1000 {
		t.Errorf("expected MaxFeatures=1000, got %d", cfg.Index.MaxFeatures)
	}
	if cfg.Index.MinDF != 2 || cfg.Index.MaxDF != 0.8 || cfg.Index.NgramMax != 2 {
		t.Errorf("unexpected df/ngram defaults: %+v", cfg.Index)
	}
	if cfg.Index.CandidateMultiplier != 3 {
		t.Errorf("expected CandidateMultiplier=3, got %d", cfg.Index.CandidateMultiplier)
	}
	if cfg.Model.Driver != ModelDriverFile || cfg.Model.Path != "models" {
		t.Errorf("unexpected model defaults: %+v", cfg.Model)
	}
	if cfg.Cluster.DefaultK != 8 || cfg.Cluster.Seed != 42 || cfg.Cluster.Restarts != 10 {
		t.Errorf("unexpected cluster defaults: %+v", cfg.Cluster)
	}
	if cfg.Storage.KeyPrefix != "jobrank:" {
		t.Errorf("expected KeyPrefix='jobrank:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_SQLitePath(t *testing.T) {
	cfg := Config{Model: ModelConfig{Driver: ModelDriverSQLite}}
	cfg.ApplyDefaults()

	if cfg.Model.Path != "models/model.db" {
		t.Errorf("expected sqlite path 'models/model.db', got %q", cfg.Model.Path)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Index:    IndexConfig{MaxCorpusSize: 100, MaxFeatures: 50, MinDF: 1, MaxDF: 1},
		Cluster:  ClusterConfig{DefaultK: 3, Seed: 7},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.MaxCorpusSize != 100 || cfg.Index.MaxFeatures != 50 || cfg.Index.MinDF != 1 {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Cluster.DefaultK != 3 || cfg.Cluster.Seed != 7 {
		t.Errorf("cluster overridden: %+v", cfg.Cluster)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBRANK_TEST_PORT", "9090")

	cfg, err := Parse([]byte(`
http:
  port: ${JOBRANK_TEST_PORT}
dataset:
  path: ${JOBRANK_TEST_DATASET:-data/sample.csv}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Dataset.Path != "data/sample.csv" {
		t.Errorf("expected default dataset path, got %q", cfg.Dataset.Path)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}
