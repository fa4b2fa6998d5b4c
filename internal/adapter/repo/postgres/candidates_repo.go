package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// CandidateRepo persists and loads candidates from PostgreSQL.
type CandidateRepo struct{ Pool PgxPool }

// NewCandidateRepo constructs a CandidateRepo with the given pool.
func NewCandidateRepo(p PgxPool) *CandidateRepo { return &CandidateRepo{Pool: p} }

const candidateColumns = `id, original_filename, resume_path, status, fit_score, recommendation, summary_path, created_at, updated_at`

// Create inserts a new candidate and returns its id (generates one if empty).
func (r *CandidateRepo) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Create")
	defer span.End()
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := c.Status
	if status == "" {
		status = domain.StatusPending
	}
	q := `INSERT INTO candidates (id, original_filename, resume_path, status, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6)`
	now := time.Now().UTC()
	if _, err := r.Pool.Exec(ctx, q, id, c.OriginalFilename, c.ResumePath, status, now, now); err != nil {
		return "", fmt.Errorf("op=candidate.create: %w", err)
	}
	return id, nil
}

// Get loads a candidate by id.
func (r *CandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Get")
	defer span.End()
	q := `SELECT ` + candidateColumns + ` FROM candidates WHERE id=$1`
	c, err := scanCandidate(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", domain.ErrCandidateNotFound)
		}
		return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", err)
	}
	return c, nil
}

// UpdateStatus updates only the candidate's status.
func (r *CandidateRepo) UpdateStatus(ctx domain.Context, id string, status domain.CandidateStatus) error {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.UpdateStatus")
	defer span.End()
	q := `UPDATE candidates SET status=$2, updated_at=$3 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=candidate.update_status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidate.update_status: %w", domain.ErrCandidateNotFound)
	}
	return nil
}

// SetResult writes the final evaluation fields and moves the candidate to DONE.
func (r *CandidateRepo) SetResult(ctx domain.Context, id string, fitScore float64, recommendation, summaryPath string) error {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.SetResult")
	defer span.End()
	q := `UPDATE candidates SET status=$2, fit_score=$3, recommendation=$4, summary_path=$5, updated_at=$6 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, domain.StatusDone, fitScore, recommendation, summaryPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=candidate.set_result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidate.set_result: %w", domain.ErrCandidateNotFound)
	}
	return nil
}

// SetResumePath records where the original document was stored.
func (r *CandidateRepo) SetResumePath(ctx domain.Context, id, resumePath string) error {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.SetResumePath")
	defer span.End()
	q := `UPDATE candidates SET resume_path=$2, updated_at=$3 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, resumePath, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=candidate.set_resume_path: %w", err)
	}
	return nil
}

// List returns all candidates, newest first.
func (r *CandidateRepo) List(ctx domain.Context) ([]domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.List")
	defer span.End()
	q := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC`
	rows, err := r.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.list: %w", err)
	}
	defer rows.Close()
	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("op=candidate.list: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=candidate.list: %w", err)
	}
	return out, nil
}

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.OriginalFilename, &c.ResumePath, &c.Status, &c.FitScore, &c.Recommendation, &c.SummaryPath, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
