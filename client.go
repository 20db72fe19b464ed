// Package jobrank recommends job postings for free-text queries by TF-IDF
// cosine similarity over a fixed corpus, with skill extraction and
// k-means clustering of the indexed jobs.
package jobrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/jobrank/internal/db/redis"
	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/repository/dataset"
	"github.com/kailas-cloud/jobrank/internal/repository/model"
	"github.com/kailas-cloud/jobrank/internal/textnorm"
	clusteruc "github.com/kailas-cloud/jobrank/internal/usecase/cluster"
	searchuc "github.com/kailas-cloud/jobrank/internal/usecase/search"
	traininguc "github.com/kailas-cloud/jobrank/internal/usecase/training"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the jobrank SDK entry point. It is safe for concurrent use:
// queries run against an immutable snapshot while Train swaps in a new one.
type Client struct {
	holder    *index.Holder
	training  *traininguc.Service
	searchSvc *searchuc.Service
	clusters  *clusteruc.Service
	closers   []func()
}

// New creates a Client. Nothing is trained until LoadOrTrain or Train.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	if cfg.datasetPath == "" {
		return nil, errors.New("jobrank: dataset path required (use WithDataset)")
	}
	if err := cfg.vectorizer.Validate(); err != nil {
		return nil, fmt.Errorf("jobrank: %w", err)
	}

	source, err := dataset.Open(cfg.datasetPath, dataset.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("jobrank: %w", err)
	}

	store, closer, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	c := wireClient(source, store, cfg)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (traininguc.ModelStore, func(), error) {
	switch cfg.store {
	case storeNone:
		return model.NewMemoryStore(), nil, nil
	case storeDir:
		s, err := model.NewFileStore(cfg.storePath)
		if err != nil {
			return nil, nil, fmt.Errorf("jobrank: create model dir: %w", err)
		}
		return s, nil, nil
	case storeSQLite:
		s, err := model.OpenSQLite(cfg.storePath)
		if err != nil {
			return nil, nil, fmt.Errorf("jobrank: open sqlite: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case storeRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("jobrank: create redis store: %w", err)
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("jobrank: database not ready: %w", err)
		}
		return model.NewKVStore(s, cfg.keyPrefix), s.Close, nil
	default:
		return nil, nil, fmt.Errorf("jobrank: unknown store %d", cfg.store)
	}
}

func wireClient(source dataset.Source, store traininguc.ModelStore, cfg *clientConfig) *Client {
	norm := textnorm.New()
	builder := index.NewBuilder(norm, index.BuildOptions{
		Vectorizer:       cfg.vectorizer,
		DescriptionChars: cfg.descriptionChars,
	})
	holder := index.NewHolder()

	return &Client{
		holder:    holder,
		training:  traininguc.New(source, builder, store, holder, cfg.maxCorpusSize, cfg.logger),
		searchSvc: searchuc.New(holder, norm, cfg.multiplier),
		clusters:  clusteruc.New(holder, cfg.cluster, cfg.logger.With(zap.String("component", "cluster"))),
	}
}

// Close releases the model store.
func (c *Client) Close() {
	for _, fn := range c.closers {
		fn()
	}
	c.closers = nil
}

// Ready reports whether a model is loaded.
func (c *Client) Ready() bool { return c.holder.Ready() }

// LoadOrTrain restores the persisted model, or trains one when the store
// is empty or unreadable.
func (c *Client) LoadOrTrain(ctx context.Context) (TrainSummary, error) {
	s, err := c.training.LoadOrTrain(ctx)
	if err != nil {
		return TrainSummary{}, fmt.Errorf("load or train: %w", err)
	}
	return summaryFromTraining(s), nil
}

// Train rebuilds the model from the dataset, persists it and swaps it in.
// The previous model keeps serving if anything fails.
func (c *Client) Train(ctx context.Context) (TrainSummary, error) {
	s, err := c.training.Train(ctx)
	if err != nil {
		return TrainSummary{}, fmt.Errorf("train: %w", err)
	}
	return summaryFromTraining(s), nil
}

// Search starts a query for jobs similar to text.
func (c *Client) Search(text string) *SearchBuilder {
	return &SearchBuilder{client: c, query: text}
}

// TopSkills returns the n heaviest vocabulary terms. n <= 0 returns 50.
func (c *Client) TopSkills(ctx context.Context, n int) ([]Skill, error) {
	terms, err := c.searchSvc.TopSkills(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top skills: %w", err)
	}
	return skillsFromTerms(terms), nil
}

// Cluster groups the indexed jobs into k clusters. k <= 0 uses the
// configured default. Results are deterministic for a given model and seed.
func (c *Client) Cluster(ctx context.Context, k int) (Clustering, error) {
	if k <= 0 {
		k = c.clusters.DefaultK()
	}
	r, err := c.clusters.Cluster(ctx, k)
	if err != nil {
		return Clustering{}, fmt.Errorf("cluster: %w", err)
	}
	return clusteringFromReport(r), nil
}
