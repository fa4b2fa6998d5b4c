// Command server starts the resume evaluator HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/observability"
	asynqadp "github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/queue/asynq"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/repo/postgres"
	fsstore "github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/storage/fs"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/app"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/config"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness probe surface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult {
	return r.Client.Ping(ctx)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	candRepo := postgres.NewCandidateRepo(pool)
	extRepo := postgres.NewExtractionRepo(pool)
	evalRepo := postgres.NewEvaluationRepo(pool)

	store, err := fsstore.New(cfg.StorageDir)
	if err != nil {
		slog.Error("storage init failed", slog.Any("error", err))
		os.Exit(1)
	}

	queue, err := asynqadp.New(cfg.RedisURL, cfg.TaskMaxRetries, cfg.TaskHardTimeout)
	if err != nil {
		slog.Error("queue connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			slog.Error("failed to close queue client", slog.Any("error", err))
		}
	}()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis url", slog.Any("error", err))
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	uploadSvc := usecase.NewUploadService(candRepo, store, queue)
	resultSvc := usecase.NewResultService(candRepo, extRepo, evalRepo, queue)

	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, redisAdapter{rdb})

	srv := httpserver.NewServer(uploadSvc, resultSvc, int(cfg.MaxUploadMB), cfg.MaxFilesPerUpload, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
