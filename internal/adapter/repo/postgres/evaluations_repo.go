package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// EvaluationRepo persists the 1:1 evaluation side-record keyed by
// candidate id, upserted like extractions.
type EvaluationRepo struct{ Pool PgxPool }

// NewEvaluationRepo constructs an EvaluationRepo with the given pool.
func NewEvaluationRepo(p PgxPool) *EvaluationRepo { return &EvaluationRepo{Pool: p} }

// Upsert creates or overwrites the evaluation row for a candidate.
func (r *EvaluationRepo) Upsert(ctx domain.Context, e domain.Evaluation) error {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.Upsert")
	defer span.End()
	strengths, err := json.Marshal(orEmpty(e.Strengths))
	if err != nil {
		return fmt.Errorf("op=evaluation.upsert: encode strengths: %w", err)
	}
	weaknesses, err := json.Marshal(orEmpty(e.Weaknesses))
	if err != nil {
		return fmt.Errorf("op=evaluation.upsert: encode weaknesses: %w", err)
	}
	q := `INSERT INTO evaluations (candidate_id, fit_score, recommendation, strengths, weaknesses, summary_text, model_used, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (candidate_id)
	DO UPDATE SET fit_score=EXCLUDED.fit_score, recommendation=EXCLUDED.recommendation, strengths=EXCLUDED.strengths, weaknesses=EXCLUDED.weaknesses, summary_text=EXCLUDED.summary_text, model_used=EXCLUDED.model_used`
	if _, err := r.Pool.Exec(ctx, q, e.CandidateID, e.FitScore, e.Recommendation, strengths, weaknesses, e.SummaryText, e.ModelUsed, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=evaluation.upsert: %w", err)
	}
	return nil
}

// Get loads the evaluation row for a candidate.
func (r *EvaluationRepo) Get(ctx domain.Context, candidateID string) (domain.Evaluation, error) {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.Get")
	defer span.End()
	q := `SELECT candidate_id, fit_score, recommendation, strengths, weaknesses, summary_text, model_used, created_at FROM evaluations WHERE candidate_id=$1`
	row := r.Pool.QueryRow(ctx, q, candidateID)
	var e domain.Evaluation
	var strengths, weaknesses []byte
	if err := row.Scan(&e.CandidateID, &e.FitScore, &e.Recommendation, &strengths, &weaknesses, &e.SummaryText, &e.ModelUsed, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Evaluation{}, fmt.Errorf("op=evaluation.get: %w", domain.ErrCandidateNotFound)
		}
		return domain.Evaluation{}, fmt.Errorf("op=evaluation.get: %w", err)
	}
	if err := json.Unmarshal(strengths, &e.Strengths); err != nil {
		return domain.Evaluation{}, fmt.Errorf("op=evaluation.get: decode strengths: %w", err)
	}
	if err := json.Unmarshal(weaknesses, &e.Weaknesses); err != nil {
		return domain.Evaluation{}, fmt.Errorf("op=evaluation.get: decode weaknesses: %w", err)
	}
	return e, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
