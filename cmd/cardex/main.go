package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/config"
	"github.com/kailas-cloud/cardex/internal/db"
	dbRedis "github.com/kailas-cloud/cardex/internal/db/redis"
	"github.com/kailas-cloud/cardex/internal/encoder/bm25"
	logpkg "github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/metrics"
	"github.com/kailas-cloud/cardex/internal/repository/catalog"
	"github.com/kailas-cloud/cardex/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/cardex/internal/transport/chi"
	googleaiRanker "github.com/kailas-cloud/cardex/internal/transport/googleai"
	openaiEnc "github.com/kailas-cloud/cardex/internal/transport/openai"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
	"github.com/kailas-cloud/cardex/internal/usecase/recommend"
	"github.com/kailas-cloud/cardex/internal/usecase/retrieval"
	"github.com/kailas-cloud/cardex/internal/version"
)

const cacheReadinessTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

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

	logger.Info("Starting cardex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_url", cfg.Catalog.URL),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("ranker_model", cfg.Ranker.Model),
	)

	ctx := context.Background()

	// Optional embedding cache store
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, cacheReadinessTimeout); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Dense encoder chain: OpenAI-compatible provider, cached when a store is configured.
	baseEncoder := openaiEnc.NewEncoder(&openaiEnc.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var denseEncoder retrieval.DenseEncoder = baseEncoder
	if store != nil {
		denseEncoder = embcache.New(baseEncoder, store, metrics.EmbeddingCacheTotal, logger)
	}

	sparseEncoder, err := buildSparseEncoder(cfg.Sparse)
	if err != nil {
		logger.Fatal("Failed to build sparse encoder", zap.Error(err))
	}
	logger.Info("Sparse encoder ready", zap.Int("vocabulary", sparseEncoder.VocabularySize()))

	catalogRepo := catalog.New(&catalog.Config{
		URL:       cfg.Catalog.URL,
		APIKey:    cfg.Catalog.APIKey,
		Namespace: cfg.Catalog.Namespace,
		Timeout:   time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		Logger:    logger,
	})

	ranker, err := googleaiRanker.NewRanker(ctx, &googleaiRanker.Config{
		APIKey:  cfg.Ranker.APIKey,
		Model:   cfg.Ranker.Model,
		Timeout: time.Duration(cfg.Ranker.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create ranker", zap.Error(err))
	}

	// Use case services
	retrievalSvc := retrieval.New(denseEncoder, sparseEncoder, catalogRepo)
	recommendSvc := recommend.New(retrievalSvc, ranker)

	// Pass nil interface (not typed nil pointer!) when the cache is not configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, baseEncoder)

	server := chiTransport.NewServer(recommendSvc, healthSvc, logger).
		WithDefaultTopK(cfg.Catalog.TopK)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

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

// buildSparseEncoder loads the fitted vocabulary artifact, or fits from a
// plain-text corpus (one document per line) when only corpus_path is set.
func buildSparseEncoder(cfg config.SparseConfig) (*bm25.Encoder, error) {
	if cfg.VocabularyPath != "" {
		enc, err := bm25.Load(cfg.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary %s: %w", cfg.VocabularyPath, err)
		}
		return enc, nil
	}

	data, err := os.ReadFile(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", cfg.CorpusPath, err)
	}

	var corpus []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			corpus = append(corpus, line)
		}
	}

	enc := bm25.New(cfg.K1, cfg.B)
	if err := enc.Fit(corpus); err != nil {
		return nil, fmt.Errorf("fit corpus: %w", err)
	}
	return enc, nil
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
