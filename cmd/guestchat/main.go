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

	"github.com/guestlane/guestchat/internal/cache"
	"github.com/guestlane/guestchat/internal/config"
	dbRedis "github.com/guestlane/guestchat/internal/db/redis"
	"github.com/guestlane/guestchat/internal/domain/resolution"
	logpkg "github.com/guestlane/guestchat/internal/logger"
	"github.com/guestlane/guestchat/internal/metrics"
	chunkrepo "github.com/guestlane/guestchat/internal/repository/chunk"
	tenantrepo "github.com/guestlane/guestchat/internal/repository/tenant"
	chiTransport "github.com/guestlane/guestchat/internal/transport/chi"
	openaiTransport "github.com/guestlane/guestchat/internal/transport/openai"
	"github.com/guestlane/guestchat/internal/transport/token"
	chatuc "github.com/guestlane/guestchat/internal/usecase/chat"
	healthuc "github.com/guestlane/guestchat/internal/usecase/health"
	intentuc "github.com/guestlane/guestchat/internal/usecase/intent"
	retrievaluc "github.com/guestlane/guestchat/internal/usecase/retrieval"
	tenantuc "github.com/guestlane/guestchat/internal/usecase/tenant"
	"github.com/guestlane/guestchat/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting guestchat API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	classifierProvider := openaiTransport.NewClassifier(&openaiTransport.ClassifierConfig{
		APIKey:      cfg.Classifier.APIKey,
		BaseURL:     cfg.Classifier.BaseURL,
		Model:       cfg.Classifier.Model,
		Temperature: cfg.Classifier.Temperature,
		Timeout:     time.Duration(cfg.Classifier.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	logger.Info("Model providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("classifier_model", cfg.Classifier.Model),
	)

	tenantRepo := tenantrepo.New(store)
	chunkRepo := chunkrepo.New(store, cfg.Retrieval.IndexName, cfg.Retrieval.MinSimilarity)

	var tenantCache tenantuc.Cache
	switch cfg.Tenant.CacheBackend {
	case "redis":
		tenantCache = cache.NewRedis(store)
	default:
		tenantCache = cache.NewMemory()
	}

	tenantSvc := tenantuc.New(tenantRepo, tenantCache,
		time.Duration(cfg.Tenant.CacheTTLSec)*time.Second, logger)
	intentSvc := intentuc.New(classifierProvider, logger)
	retrievalSvc := retrievaluc.New(embedder, chunkRepo,
		time.Duration(cfg.Retrieval.SearchTimeoutSec)*time.Second,
		cfg.Classifier.AvoidConfidence, logger)

	// Resolutions were validated at config load.
	chatRes, _ := resolution.Parse(cfg.Retrieval.ChatResolution)
	adminRes, _ := resolution.Parse(cfg.Retrieval.AdminResolution)

	chatSvc := chatuc.New(tenantSvc, intentSvc, retrievalSvc, chatRes, adminRes, logger)
	healthSvc := healthuc.New(store, embedder, classifierProvider)

	verifier := token.NewVerifier([]byte(cfg.Session.Secret))
	server := chiTransport.NewServer(chatSvc, healthSvc, verifier, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r, chiTransport.APIKeyMiddleware(cfg.Auth.APIKeys))

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

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
