// Command worker consumes processing tasks and runs the evaluation
// pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/ai/openai"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/extractor"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/extractor/pdfnative"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/extractor/tika"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/observability"
	asynqadp "github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/queue/asynq"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/repo/postgres"
	fsstore "github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/storage/fs"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/config"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/jobdesc"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/usecase"
)

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

	// Extraction strategies in fallback order: native parse first,
	// then Tika streaming, then Tika forced OCR for scanned documents.
	tikaClient := tika.NewClient(cfg.TikaURL)
	chain := extractor.NewChain(
		pdfnative.New(),
		tika.NewStreamStrategy(tikaClient),
		tika.NewOCRStrategy(tikaClient, cfg.TikaOCREnabled),
	)

	evaluator := openai.New(cfg)
	jdSource := jobdesc.New(cfg.JobDescriptionPath)

	process := usecase.NewProcessService(candRepo, extRepo, evalRepo, store, chain, evaluator, jdSource)

	worker, err := asynqadp.NewWorker(cfg.RedisURL, cfg.WorkerConcurrency, cfg.TaskSoftTimeout, process)
	if err != nil {
		slog.Error("worker init failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Prometheus scrape endpoint for the worker process.
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WorkerMetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("worker metrics listening", slog.Int("port", cfg.WorkerMetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", slog.Any("error", err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("worker starting", slog.Int("concurrency", cfg.WorkerConcurrency))
		errCh <- worker.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			slog.Error("worker error", slog.Any("error", err))
		}
	}

	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
