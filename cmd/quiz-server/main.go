// cmd/quiz-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"persona-quiz/internal/admin"
	"persona-quiz/internal/answers"
	"persona-quiz/internal/common/config"
	"persona-quiz/internal/common/database"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/observability"
	"persona-quiz/internal/motto"
	"persona-quiz/internal/server"
	"persona-quiz/internal/submissions"
	"persona-quiz/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting quiz server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("driver", cfg.Database.Driver),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Submission store ---
	var db *database.SQLClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.Ping(ctx); err != nil {
			_ = db.Close()
			return err
		}
		return nil
	}, 15, 2*time.Second, zapLog, "Database connection")
	if err != nil {
		zapLog.Fatal("database failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("Database connected successfully", zap.String("dialect", string(db.Dialect)))

	store := submissions.NewSQLStore(db.DB, db.Dialect, log)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}

	// --- Redis (optional) ---
	var (
		redisClient *redis.Client
		answerStore answers.Store = answers.NewMemoryStore(cfg.Quiz.MemorySessions, config.GetSeconds(cfg.Quiz.AnswerTTL))
	)
	if cfg.Database.Redis.Enabled() {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rc.Close()
		redisClient = rc.Client
		answerStore = answers.NewRedisStore(redisClient, config.GetSeconds(cfg.Quiz.AnswerTTL), log)
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Warn("Redis not configured, session answers are kept in memory")
	}

	// --- Elasticsearch (optional) ---
	var indexer submissions.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		index := cfg.Database.Elasticsearch.Index
		if err := esClient.EnsureIndex(ctx, index, submissions.IndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		indexer = submissions.NewESIndexer(esClient.Client, index)
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", index))
	}

	// --- Services ---
	cat, err := catalog.LoadOrDefault(cfg.Quiz.CatalogPath)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}

	mottoCfg := motto.LoadConfig(cfg)
	mottos, err := motto.NewService(mottoCfg, motto.NewChatCompleter(mottoCfg, log), log)
	if err != nil {
		zapLog.Fatal("motto service init failed", zap.Error(err))
	}
	if mottoCfg.APIKey == "" {
		zapLog.Warn("No GenAI API key configured, mottos come from the fallback pools")
	}

	subs := submissions.NewService(submissions.LoadConfig(cfg, cat.IDs()), store, indexer, redisClient, log)
	auth := admin.NewAuthenticator(admin.LoadConfig(cfg), apperrors.NewResponder(log), log)

	srv := server.New(cfg, server.Deps{
		Catalog:       cat,
		Answers:       answerStore,
		Submissions:   subs,
		Mottos:        mottos,
		Auth:          auth,
		Observability: obs,
	}, log)

	// --- Serve until SIGINT/SIGTERM ---
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("Server exited with error", zap.Error(err))
	}

	zapLog.Info("Quiz server stopped gracefully")
}
