package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// ExtractionRepo persists the 1:1 extraction side-record keyed by
// candidate id. Writes are upserts: at-least-once task redelivery must
// never duplicate rows, only overwrite the latest attempt's data.
type ExtractionRepo struct{ Pool PgxPool }

// NewExtractionRepo constructs an ExtractionRepo with the given pool.
func NewExtractionRepo(p PgxPool) *ExtractionRepo { return &ExtractionRepo{Pool: p} }

// Upsert creates or overwrites the extraction row for a candidate.
func (r *ExtractionRepo) Upsert(ctx domain.Context, e domain.Extraction) error {
	tracer := otel.Tracer("repo.extractions")
	ctx, span := tracer.Start(ctx, "extractions.Upsert")
	defer span.End()
	var structured []byte
	if e.Structured != nil {
		var err error
		structured, err = json.Marshal(e.Structured)
		if err != nil {
			return fmt.Errorf("op=extraction.upsert: encode structured: %w", err)
		}
	}
	q := `INSERT INTO extractions (candidate_id, raw_text, structured, error_log)
	VALUES ($1,$2,$3,$4)
	ON CONFLICT (candidate_id)
	DO UPDATE SET raw_text=EXCLUDED.raw_text, structured=EXCLUDED.structured, error_log=EXCLUDED.error_log`
	if _, err := r.Pool.Exec(ctx, q, e.CandidateID, e.RawText, structured, e.ErrorLog); err != nil {
		return fmt.Errorf("op=extraction.upsert: %w", err)
	}
	return nil
}

// Get loads the extraction row for a candidate.
func (r *ExtractionRepo) Get(ctx domain.Context, candidateID string) (domain.Extraction, error) {
	tracer := otel.Tracer("repo.extractions")
	ctx, span := tracer.Start(ctx, "extractions.Get")
	defer span.End()
	q := `SELECT candidate_id, raw_text, structured, error_log FROM extractions WHERE candidate_id=$1`
	row := r.Pool.QueryRow(ctx, q, candidateID)
	var e domain.Extraction
	var structured []byte
	if err := row.Scan(&e.CandidateID, &e.RawText, &structured, &e.ErrorLog); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Extraction{}, fmt.Errorf("op=extraction.get: %w", domain.ErrCandidateNotFound)
		}
		return domain.Extraction{}, fmt.Errorf("op=extraction.get: %w", err)
	}
	if len(structured) > 0 {
		var p domain.StructuredProfile
		if err := json.Unmarshal(structured, &p); err != nil {
			return domain.Extraction{}, fmt.Errorf("op=extraction.get: decode structured: %w", err)
		}
		e.Structured = &p
	}
	return e, nil
}
