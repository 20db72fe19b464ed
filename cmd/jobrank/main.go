package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/config"
	dbRedis "github.com/kailas-cloud/jobrank/internal/db/redis"
	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/kmeans"
	logpkg "github.com/kailas-cloud/jobrank/internal/logger"
	"github.com/kailas-cloud/jobrank/internal/metrics"
	"github.com/kailas-cloud/jobrank/internal/repository/dataset"
	"github.com/kailas-cloud/jobrank/internal/repository/model"
	"github.com/kailas-cloud/jobrank/internal/textnorm"
	"github.com/kailas-cloud/jobrank/internal/tfidf"
	chiTransport "github.com/kailas-cloud/jobrank/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/jobrank/internal/usecase/analytics"
	clusteruc "github.com/kailas-cloud/jobrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/jobrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/jobrank/internal/usecase/search"
	traininguc "github.com/kailas-cloud/jobrank/internal/usecase/training"
	"github.com/kailas-cloud/jobrank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting jobrank API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset", cfg.Dataset.Path),
		zap.String("model_driver", cfg.Model.Driver),
	)

	// Register index metrics explicitly (HTTP metrics register in init)
	metrics.RegisterIndexMetrics()

	ctx := context.Background()

	source, err := dataset.Open(cfg.Dataset.Path, dataset.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to open dataset", zap.Error(err))
	}

	// Model store; the database is only needed for the redis driver.
	// Pass a nil interface (not a typed nil pointer) to health when unused.
	var (
		modelStore traininguc.ModelStore
		dbPinger   healthuc.DBPinger
	)
	switch cfg.Model.Driver {
	case config.ModelDriverFile:
		fs, err := model.NewFileStore(cfg.Model.Path)
		if err != nil {
			logger.Fatal("Failed to create model directory", zap.Error(err))
		}
		modelStore = fs
	case config.ModelDriverSQLite:
		ss, err := model.OpenSQLite(cfg.Model.Path)
		if err != nil {
			logger.Fatal("Failed to open sqlite model store", zap.Error(err))
		}
		defer func() { _ = ss.Close() }()
		modelStore = ss
	case config.ModelDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("db_driver", cfg.Database.Driver),
			zap.Strings("db_addrs", cfg.Database.Addrs),
		)
		modelStore = model.NewKVStore(store, cfg.Storage.KeyPrefix)
		dbPinger = store
	}

	// Index and use cases: composition root
	norm := textnorm.New()
	builder := index.NewBuilder(norm, index.BuildOptions{
		Vectorizer: tfidf.Options{
			MaxFeatures: cfg.Index.MaxFeatures,
			MinDF:       cfg.Index.MinDF,
			MaxDF:       cfg.Index.MaxDF,
			NgramMin:    1,
			NgramMax:    cfg.Index.NgramMax,
		},
		DescriptionChars: cfg.Index.DescriptionChars,
		Workers:          cfg.Index.BuildWorkers,
	})
	holder := index.NewHolder()

	trainingSvc := traininguc.New(source, builder, modelStore, holder, cfg.Index.MaxCorpusSize, logger)
	searchSvc := searchuc.New(holder, norm, cfg.Index.CandidateMultiplier)
	clusterSvc := clusteruc.New(holder, kmeans.Config{
		K:             cfg.Cluster.DefaultK,
		Seed:          cfg.Cluster.Seed,
		Restarts:      cfg.Cluster.Restarts,
		MaxIterations: cfg.Cluster.MaxIterations,
		Tolerance:     cfg.Cluster.Tolerance,
	}, logger)

	if summary, err := trainingSvc.LoadOrTrain(ctx); err != nil {
		// Keep serving: index endpoints answer not_trained until POST /api/train succeeds.
		logger.Error("Initial model load and training failed", zap.Error(err))
	} else {
		logger.Info("Model ready",
			zap.String("model_id", summary.ModelID),
			zap.Bool("loaded", summary.Loaded),
			zap.Int("documents", summary.Documents),
			zap.Int("vocabulary_size", summary.VocabularySize),
		)
	}

	records, err := source.Records(ctx, cfg.Dataset.MaxRecordsForAnalytics)
	if err != nil {
		logger.Error("Failed to load records for analytics", zap.Error(err))
	}
	analyticsSvc := analyticsuc.New(records, searchSvc, clusterSvc, logger)
	healthSvc := healthuc.New(holder, dbPinger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, trainingSvc, clusterSvc, analyticsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
