// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/parser"
	"github.com/fairyhunter13/resume-ai-evaluator/pkg/textx"
)

// Artifact filenames written by the pipeline.
const (
	artifactExtractedText = "extracted_text.txt"
	artifactStructured    = "structured.json"
	artifactEvaluation    = "evaluation.json"
	artifactSummary       = "summary.txt"
	artifactErrorLog      = "error.log"
)

// Stage markers prefix persisted error logs so an evaluation failure can
// never be mistaken for an extraction failure.
const (
	extractionFailedPrefix = "extraction failed: "
	evaluationFailedPrefix = "evaluation failed: "
	processingFailedPrefix = "processing failed: "
)

// ProcessService drives a single candidate through extraction and then
// evaluation, and owns every state transition.
type ProcessService struct {
	Candidates  domain.CandidateRepository
	Extractions domain.ExtractionRepository
	Evaluations domain.EvaluationRepository
	Store       domain.DocumentStore
	Extractor   domain.Extractor
	Evaluator   domain.Evaluator
	JobDesc     domain.JobDescriptionSource
}

// NewProcessService constructs a ProcessService with its dependencies.
func NewProcessService(
	candidates domain.CandidateRepository,
	extractions domain.ExtractionRepository,
	evaluations domain.EvaluationRepository,
	store domain.DocumentStore,
	extractor domain.Extractor,
	evaluator domain.Evaluator,
	jobDesc domain.JobDescriptionSource,
) ProcessService {
	return ProcessService{
		Candidates:  candidates,
		Extractions: extractions,
		Evaluations: evaluations,
		Store:       store,
		Extractor:   extractor,
		Evaluator:   evaluator,
		JobDesc:     jobDesc,
	}
}

// Run executes the full pipeline for one candidate.
//
// Stage failures (extraction, evaluation) are terminal: they persist an
// error artifact plus FAILED status and return a FAILED outcome with a
// nil error, so the dispatch layer does not redeliver. Unexpected
// errors best-effort record FAILED and are returned, letting the queue's
// retry policy govern redelivery. Every write is an idempotent upsert
// keyed by candidate id, so replaying the whole run is safe.
func (s ProcessService) Run(ctx domain.Context, candidateID string) (domain.PipelineOutcome, error) {
	tracer := otel.Tracer("usecase.pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	cand, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		// Unknown id is fatal to this invocation; the queue layer must
		// not redeliver it.
		return domain.PipelineOutcome{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}

	if err := s.Candidates.UpdateStatus(ctx, candidateID, domain.StatusProcessing); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("mark processing: %w", err))
	}
	slog.Info("pipeline started", slog.String("candidate_id", candidateID))

	// Extraction stage. A failure here must never attempt evaluation.
	resumePath := cand.ResumePath
	if resumePath == "" {
		resumePath = s.Store.ResumePath(candidateID)
	}
	rawText, strategy, err := s.Extractor.Extract(ctx, resumePath)
	if err != nil {
		// A killed run context (hard task timeout, shutdown) is not a
		// terminal stage failure; hand it back so the queue redelivers.
		if ctx.Err() != nil {
			return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("extract resume: %w", err))
		}
		msg := extractionFailedPrefix + err.Error()
		s.recordFailure(ctx, candidateID, msg)
		slog.Error("extraction stage failed", slog.String("candidate_id", candidateID), slog.Any("error", err))
		return domain.PipelineOutcome{Status: domain.StatusFailed, ErrorMessage: msg}, nil
	}
	// Strip control characters before anything downstream sees the text;
	// line boundaries survive for the structured parser.
	rawText = textx.SanitizeText(rawText)

	profile := parser.Parse(rawText)
	if _, err := s.Store.PutText(ctx, candidateID, artifactExtractedText, rawText); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist extracted text: %w", err))
	}
	if _, err := s.Store.PutJSON(ctx, candidateID, artifactStructured, profile); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist structured profile: %w", err))
	}
	if err := s.Extractions.Upsert(ctx, domain.Extraction{
		CandidateID: candidateID,
		RawText:     &rawText,
		Structured:  &profile,
	}); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist extraction: %w", err))
	}
	slog.Info("extraction persisted", slog.String("candidate_id", candidateID), slog.String("strategy", strategy))

	// Evaluation stage.
	evaluation, err := s.Evaluator.Evaluate(ctx, candidateID, rawText, profile, s.JobDesc.Load())
	if err != nil {
		if ctx.Err() != nil {
			return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("evaluate resume: %w", err))
		}
		msg := evaluationFailedPrefix + err.Error()
		s.recordFailure(ctx, candidateID, msg)
		slog.Error("evaluation stage failed",
			slog.String("candidate_id", candidateID),
			slog.Bool("quota_exceeded", errors.Is(err, domain.ErrQuotaExceeded)),
			slog.Any("error", err))
		return domain.PipelineOutcome{Status: domain.StatusFailed, ErrorMessage: msg}, nil
	}

	if _, err := s.Store.PutJSON(ctx, candidateID, artifactEvaluation, evaluationArtifact(evaluation)); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist evaluation artifact: %w", err))
	}
	summaryPath, err := s.Store.PutText(ctx, candidateID, artifactSummary, evaluation.SummaryText)
	if err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist summary: %w", err))
	}
	if err := s.Evaluations.Upsert(ctx, evaluation); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist evaluation: %w", err))
	}
	if err := s.Candidates.SetResult(ctx, candidateID, evaluation.FitScore, evaluation.Recommendation, summaryPath); err != nil {
		return domain.PipelineOutcome{}, s.unexpected(ctx, candidateID, fmt.Errorf("persist result: %w", err))
	}

	slog.Info("pipeline completed",
		slog.String("candidate_id", candidateID),
		slog.Float64("fit_score", evaluation.FitScore),
		slog.String("recommendation", evaluation.Recommendation))
	return domain.PipelineOutcome{
		Status:         domain.StatusDone,
		FitScore:       &evaluation.FitScore,
		Recommendation: &evaluation.Recommendation,
	}, nil
}

// recordFailure persists the error artifact, the extraction error log,
// and the FAILED status before the run returns. Each write is
// best-effort: a broken store must not mask the original failure.
func (s ProcessService) recordFailure(ctx domain.Context, candidateID, msg string) {
	// Failure records must still land when the run's own context was
	// killed, so the writes detach from its cancellation.
	ctx = context.WithoutCancel(ctx)
	if _, err := s.Store.PutText(ctx, candidateID, artifactErrorLog, msg); err != nil {
		slog.Error("failed to persist error artifact", slog.String("candidate_id", candidateID), slog.Any("error", err))
	}
	// Preserve any raw text from a completed extraction stage; only the
	// error log is overwritten on repeat failures.
	extraction := domain.Extraction{CandidateID: candidateID}
	if existing, err := s.Extractions.Get(ctx, candidateID); err == nil {
		extraction = existing
	}
	extraction.ErrorLog = &msg
	if err := s.Extractions.Upsert(ctx, extraction); err != nil {
		slog.Error("failed to persist error log", slog.String("candidate_id", candidateID), slog.Any("error", err))
	}
	if err := s.Candidates.UpdateStatus(ctx, candidateID, domain.StatusFailed); err != nil {
		slog.Error("failed to mark candidate failed", slog.String("candidate_id", candidateID), slog.Any("error", err))
	}
}

// unexpected records a FAILED transition and hands the error back for
// queue-level redelivery.
func (s ProcessService) unexpected(ctx domain.Context, candidateID string, err error) error {
	s.recordFailure(ctx, candidateID, processingFailedPrefix+err.Error())
	return err
}

// evaluationArtifact shapes the persisted evaluation.json file.
func evaluationArtifact(e domain.Evaluation) map[string]any {
	return map[string]any{
		"fit_score":      e.FitScore,
		"recommendation": e.Recommendation,
		"strengths":      e.Strengths,
		"weaknesses":     e.Weaknesses,
		"summary_text":   e.SummaryText,
		"model_used":     e.ModelUsed,
	}
}
