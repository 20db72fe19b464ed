package jobrank

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/kmeans"
	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

// Option configures a Client.
type Option func(*clientConfig)

type storeKind int

const (
	storeNone storeKind = iota
	storeDir
	storeSQLite
	storeRedis
)

type clientConfig struct {
	datasetPath string

	store     storeKind
	storePath string
	addrs     []string
	password  string
	keyPrefix string

	vectorizer       tfidf.Options
	descriptionChars int
	maxCorpusSize    int
	multiplier       int
	cluster          kmeans.Config

	logger *zap.Logger
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:        "jobrank:",
		vectorizer:       tfidf.DefaultOptions(),
		descriptionChars: 500,
		cluster:          kmeans.DefaultConfig(),
		logger:           zap.NewNop(),
	}
}

// WithDataset sets the .csv or .parquet file to train on. Required.
func WithDataset(path string) Option {
	return func(c *clientConfig) {
		c.datasetPath = path
	}
}

// WithModelDir persists the trained model as files under dir.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) {
		c.store = storeDir
		c.storePath = dir
	}
}

// WithSQLite persists the trained model in a SQLite database file.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.store = storeSQLite
		c.storePath = path
	}
}

// WithRedis persists the trained model in Redis or Valkey.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.store = storeRedis
		c.addrs = addrs
	}
}

// WithPassword sets the Redis/Valkey password.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithKeyPrefix overrides the Redis key prefix (default "jobrank:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithVocabulary overrides the term pruning limits.
// maxDF is a fraction of documents in (0,1].
func WithVocabulary(maxFeatures, minDF int, maxDF float64) Option {
	return func(c *clientConfig) {
		c.vectorizer.MaxFeatures = maxFeatures
		c.vectorizer.MinDF = minDF
		c.vectorizer.MaxDF = maxDF
	}
}

// WithMaxCorpusSize caps the number of records indexed per training run.
func WithMaxCorpusSize(n int) Option {
	return func(c *clientConfig) {
		c.maxCorpusSize = n
	}
}

// WithCandidateMultiplier sets the pool size factor used before filtering.
func WithCandidateMultiplier(m int) Option {
	return func(c *clientConfig) {
		c.multiplier = m
	}
}

// WithClusters sets the default cluster count and the clustering seed.
func WithClusters(k int, seed uint64) Option {
	return func(c *clientConfig) {
		c.cluster.K = k
		c.cluster.Seed = seed
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
