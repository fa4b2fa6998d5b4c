package asynqadp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/usecase"
)

// Worker consumes pipeline tasks and drives the orchestrator.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker builds an asynq server around the process service. The soft
// timeout only logs a warning; the hard timeout set at enqueue time
// lets asynq abort the task context.
func NewWorker(redisURL string, concurrency int, softTimeout time.Duration, process usecase.ProcessService) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	srv := asynq.NewServer(opt, asynq.Config{Concurrency: concurrency})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskProcessCandidate, func(ctx context.Context, t *asynq.Task) error {
		return handleProcessCandidate(ctx, t, softTimeout, process)
	})
	return &Worker{server: srv, mux: mux}, nil
}

// Start begins consuming tasks; it does not block.
func (w *Worker) Start() error { return w.server.Start(w.mux) }

// Stop shuts the server down, waiting for in-flight tasks.
func (w *Worker) Stop() { w.server.Shutdown() }

func handleProcessCandidate(ctx context.Context, t *asynq.Task, softTimeout time.Duration, process usecase.ProcessService) error {
	tracer := otel.Tracer("queue.worker")
	ctx, span := tracer.Start(ctx, "ProcessCandidate")
	defer span.End()

	var p domain.ProcessTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	observability.PipelineRunning.Inc()
	defer observability.PipelineRunning.Dec()

	// Soft threshold: warn that the run is close to the hard kill so a
	// stuck external call is observable before the abort.
	if softTimeout > 0 {
		warn := time.AfterFunc(softTimeout, func() {
			slog.Warn("pipeline run exceeding soft time budget",
				slog.String("candidate_id", p.CandidateID),
				slog.Duration("soft_timeout", softTimeout))
		})
		defer warn.Stop()
	}

	outcome, err := process.Run(ctx, p.CandidateID)
	if err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) {
			slog.Error("candidate unknown, dropping task", slog.String("candidate_id", p.CandidateID))
			return fmt.Errorf("candidate %s not found: %w", p.CandidateID, asynq.SkipRetry)
		}
		// Unexpected failure: the FAILED transition is already recorded;
		// propagate so asynq's retry policy governs redelivery.
		observability.PipelineFailedTotal.WithLabelValues("unexpected").Inc()
		return err
	}

	switch outcome.Status {
	case domain.StatusDone:
		observability.PipelineCompletedTotal.Inc()
		if outcome.FitScore != nil {
			observability.FitScoreHistogram.Observe(*outcome.FitScore)
		}
	case domain.StatusFailed:
		observability.PipelineFailedTotal.WithLabelValues(stageFromMessage(outcome.ErrorMessage)).Inc()
	}
	return nil
}

func stageFromMessage(msg string) string {
	switch {
	case strings.HasPrefix(msg, "extraction failed"):
		return "extraction"
	case strings.HasPrefix(msg, "evaluation failed"):
		return "evaluation"
	default:
		return "unknown"
	}
}
