// Package domain holds the core entities and ports of the resume
// evaluation pipeline. Adapters implement the ports; usecases consume them.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrEvaluationFailed  = errors.New("evaluation failed")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrInternal          = errors.New("internal error")
)

// CandidateStatus enumerates the pipeline state machine states.
type CandidateStatus string

const (
	StatusPending    CandidateStatus = "PENDING"
	StatusProcessing CandidateStatus = "PROCESSING"
	StatusDone       CandidateStatus = "DONE"
	StatusFailed     CandidateStatus = "FAILED"
)

// Candidate is one submitted resume and its processing state.
// Invariants: ID and ResumePath are immutable after creation; FitScore
// and Recommendation are set only on a successful evaluation.
type Candidate struct {
	ID               string
	OriginalFilename string
	ResumePath       string
	Status           CandidateStatus
	FitScore         *float64
	Recommendation   *string
	SummaryPath      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StructuredProfile is the best-effort parsed view of a resume.
// Absent fields are nil, never omitted from the JSON encoding.
type StructuredProfile struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
}

// Extraction is the 1:1 side record produced by the extraction stage.
// It exists only after the pipeline has attempted extraction at least
// once; replays overwrite it (upsert by candidate id).
type Extraction struct {
	CandidateID string
	RawText     *string
	Structured  *StructuredProfile
	ErrorLog    *string
}

// Evaluation is the 1:1 side record produced by a successful AI call.
type Evaluation struct {
	CandidateID    string
	FitScore       float64
	Recommendation string
	Strengths      []string
	Weaknesses     []string
	SummaryText    string
	ModelUsed      string
	CreatedAt      time.Time
}

// Recommendation values the evaluation backend may return.
const (
	RecommendationInterview = "Interview"
	RecommendationDecline   = "Decline"
)

// PipelineOutcome is what one orchestrated run reports back to the
// dispatch layer.
type PipelineOutcome struct {
	Status         CandidateStatus
	FitScore       *float64
	Recommendation *string
	ErrorMessage   string
}

// ProcessTaskPayload is the unit of work carried by the queue.
type ProcessTaskPayload struct {
	CandidateID string `json:"candidate_id"`
}

// CandidateRepository persists candidate records.
type CandidateRepository interface {
	Create(ctx Context, c Candidate) (string, error)
	Get(ctx Context, id string) (Candidate, error)
	UpdateStatus(ctx Context, id string, status CandidateStatus) error
	SetResult(ctx Context, id string, fitScore float64, recommendation, summaryPath string) error
	SetResumePath(ctx Context, id, resumePath string) error
	List(ctx Context) ([]Candidate, error)
}

// ExtractionRepository persists the extraction side record, one row per
// candidate.
type ExtractionRepository interface {
	Upsert(ctx Context, e Extraction) error
	Get(ctx Context, candidateID string) (Extraction, error)
}

// EvaluationRepository persists the evaluation side record, one row per
// candidate.
type EvaluationRepository interface {
	Upsert(ctx Context, e Evaluation) error
	Get(ctx Context, candidateID string) (Evaluation, error)
}

// Queue dispatches pipeline runs with at-least-once delivery.
type Queue interface {
	Enqueue(ctx Context, candidateID string) (string, error)
}

// DocumentStore persists artifacts keyed by candidate id and logical
// filename (extracted_text.txt, structured.json, evaluation.json,
// summary.txt, error.log).
type DocumentStore interface {
	PutResume(ctx Context, candidateID string, data []byte) (string, error)
	ResumePath(candidateID string) string
	PutText(ctx Context, candidateID, name, content string) (string, error)
	PutJSON(ctx Context, candidateID, name string, v any) (string, error)
}

// Extractor turns a stored document into plain text. It returns the
// text and the name of the strategy that produced it.
type Extractor interface {
	Extract(ctx Context, path string) (string, string, error)
}

// Evaluator scores a resume against a job description through an
// external model with schema-validated output.
type Evaluator interface {
	Evaluate(ctx Context, candidateID, rawText string, profile StructuredProfile, jobDescription string) (Evaluation, error)
}

// JobDescriptionSource supplies the job description candidates are
// scored against.
type JobDescriptionSource interface {
	Load() string
}

// Context is an alias so the domain package does not spell out std
// context in every port signature.
type Context = context.Context
