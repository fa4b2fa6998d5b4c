package usecase

import (
	"errors"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// ResultService answers status/result queries and handles re-evaluation
// requests.
type ResultService struct {
	Candidates  domain.CandidateRepository
	Extractions domain.ExtractionRepository
	Evaluations domain.EvaluationRepository
	Queue       domain.Queue
}

// NewResultService constructs a ResultService with its dependencies.
func NewResultService(candidates domain.CandidateRepository, extractions domain.ExtractionRepository, evaluations domain.EvaluationRepository, queue domain.Queue) ResultService {
	return ResultService{Candidates: candidates, Extractions: extractions, Evaluations: evaluations, Queue: queue}
}

// CandidateResult aggregates the candidate row with its optional
// side-records for the result endpoint.
type CandidateResult struct {
	Candidate   domain.Candidate
	RawText     *string
	Structured  *domain.StructuredProfile
	Strengths   []string
	Weaknesses  []string
	SummaryText *string
	ErrorLog    *string
}

// Status returns the candidate row.
func (s ResultService) Status(ctx domain.Context, id string) (domain.Candidate, error) {
	return s.Candidates.Get(ctx, id)
}

// List returns all candidates, newest first.
func (s ResultService) List(ctx domain.Context) ([]domain.Candidate, error) {
	return s.Candidates.List(ctx)
}

// Result returns the candidate with extraction and evaluation data when
// present. Missing side-records are not errors: they simply have not
// been produced yet.
func (s ResultService) Result(ctx domain.Context, id string) (CandidateResult, error) {
	cand, err := s.Candidates.Get(ctx, id)
	if err != nil {
		return CandidateResult{}, err
	}
	res := CandidateResult{Candidate: cand}
	if extraction, err := s.Extractions.Get(ctx, id); err == nil {
		res.RawText = extraction.RawText
		res.Structured = extraction.Structured
		res.ErrorLog = extraction.ErrorLog
	} else if !errors.Is(err, domain.ErrCandidateNotFound) {
		return CandidateResult{}, err
	}
	if evaluation, err := s.Evaluations.Get(ctx, id); err == nil {
		res.Strengths = evaluation.Strengths
		res.Weaknesses = evaluation.Weaknesses
		res.SummaryText = &evaluation.SummaryText
	} else if !errors.Is(err, domain.ErrCandidateNotFound) {
		return CandidateResult{}, err
	}
	return res, nil
}

// Reevaluate resets a candidate to PENDING and re-triggers the pipeline
// from the top. No data is cleared: the next run overwrites the prior
// extraction and evaluation rows.
func (s ResultService) Reevaluate(ctx domain.Context, id string) error {
	if _, err := s.Candidates.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Candidates.UpdateStatus(ctx, id, domain.StatusPending); err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(ctx, id); err != nil {
		return err
	}
	return nil
}
