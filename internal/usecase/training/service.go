package training

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/metrics"
	"github.com/kailas-cloud/jobrank/internal/repository/model"
)

// DefaultMaxCorpusSize caps the number of records indexed per training run.
const DefaultMaxCorpusSize = 5000

// Summary describes the snapshot that was published.
type Summary struct {
	ModelID        string
	Documents      int
	VocabularySize int
	Duration       time.Duration
	Loaded         bool         // restored from the model store, not trained
	LoadStatus     model.Status // outcome of the preceding load, if any
}

// Service trains, persists, and publishes the index.
type Service struct {
	dataset   DatasetReader
	builder   IndexBuilder
	store     ModelStore
	publisher SnapshotPublisher
	maxCorpus int
	logger    *zap.Logger

	mu sync.Mutex // serializes Train; readers never take it
}

// New creates a training service. maxCorpus <= 0 uses DefaultMaxCorpusSize.
func New(
	dataset DatasetReader, builder IndexBuilder, store ModelStore,
	publisher SnapshotPublisher, maxCorpus int, logger *zap.Logger,
) *Service {
	if maxCorpus <= 0 {
		maxCorpus = DefaultMaxCorpusSize
	}
	return &Service{
		dataset:   dataset,
		builder:   builder,
		store:     store,
		publisher: publisher,
		maxCorpus: maxCorpus,
		logger:    logger,
	}
}

// Train rebuilds the index from the dataset, persists it, then swaps it in.
// On any failure the previously published snapshot stays live.
func (s *Service) Train(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	snap, err := s.train(ctx)
	if err != nil {
		metrics.TrainingTotal.WithLabelValues("error").Inc()
		s.logger.Error("Training failed", zap.Error(err))
		return Summary{}, err
	}

	s.publish(snap)
	elapsed := time.Since(start)
	metrics.TrainingDuration.Observe(elapsed.Seconds())
	metrics.TrainingTotal.WithLabelValues("success").Inc()

	sum := summarize(snap)
	sum.Duration = elapsed
	s.logger.Info("Model trained",
		zap.String("model_id", sum.ModelID),
		zap.Int("documents", sum.Documents),
		zap.Int("vocabulary_size", sum.VocabularySize),
		zap.Duration("duration", elapsed),
	)
	return sum, nil
}

func (s *Service) train(ctx context.Context) (*index.Snapshot, error) {
	corpus, err := s.dataset.Records(ctx, s.maxCorpus)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	snap, err := s.builder.Build(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist model: %w", err)
	}
	return snap, nil
}

// LoadOrTrain publishes the persisted model when it loads cleanly and
// trains otherwise. Absent, corrupt, and unreadable models all retrain.
func (s *Service) LoadOrTrain(ctx context.Context) (Summary, error) {
	res := s.store.Load(ctx)
	metrics.ModelLoadTotal.WithLabelValues(string(res.Status)).Inc()

	switch res.Status {
	case model.StatusLoaded:
		s.mu.Lock()
		s.publish(res.Snapshot)
		s.mu.Unlock()

		sum := summarize(res.Snapshot)
		sum.Loaded = true
		sum.LoadStatus = res.Status
		s.logger.Info("Model loaded",
			zap.String("model_id", sum.ModelID),
			zap.Int("documents", sum.Documents),
			zap.Int("vocabulary_size", sum.VocabularySize),
		)
		return sum, nil
	case model.StatusAbsent:
		s.logger.Info("No persisted model, training")
	case model.StatusCorrupt:
		s.logger.Warn("Persisted model is corrupt, retraining", zap.Error(res.Err))
	default:
		s.logger.Error("Persisted model unreadable, retraining",
			zap.String("status", string(res.Status)), zap.Error(res.Err))
	}

	sum, err := s.Train(ctx)
	if err != nil {
		return Summary{}, err
	}
	sum.LoadStatus = res.Status
	return sum, nil
}

func (s *Service) publish(snap *index.Snapshot) {
	s.publisher.Swap(snap)
	metrics.IndexDocuments.Set(float64(snap.Size()))
	metrics.IndexVocabularySize.Set(float64(snap.Vectorizer().Size()))
}

func summarize(snap *index.Snapshot) Summary {
	return Summary{
		ModelID:        snap.ID(),
		Documents:      snap.Size(),
		VocabularySize: snap.Vectorizer().Size(),
	}
}
