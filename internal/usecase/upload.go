package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// UploadService accepts resume documents, persists them, and enqueues
// the processing pipeline. Upload handling only enqueues and returns;
// all heavy work happens in the worker.
type UploadService struct {
	Candidates domain.CandidateRepository
	Store      domain.DocumentStore
	Queue      domain.Queue
}

// NewUploadService constructs an UploadService with its dependencies.
func NewUploadService(candidates domain.CandidateRepository, store domain.DocumentStore, queue domain.Queue) UploadService {
	return UploadService{Candidates: candidates, Store: store, Queue: queue}
}

// Ingest validates the document, creates the candidate record, stores
// the original bytes, and enqueues the pipeline run.
func (s UploadService) Ingest(ctx domain.Context, filename string, data []byte) (domain.Candidate, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return domain.Candidate{}, fmt.Errorf("%w: %s is not a PDF", domain.ErrInvalidArgument, filename)
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return domain.Candidate{}, fmt.Errorf("%w: %s is not a valid PDF", domain.ErrInvalidArgument, filename)
	}

	id, err := s.Candidates.Create(ctx, domain.Candidate{
		OriginalFilename: filename,
		Status:           domain.StatusPending,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	})
	if err != nil {
		return domain.Candidate{}, err
	}
	path, err := s.Store.PutResume(ctx, id, data)
	if err != nil {
		return domain.Candidate{}, err
	}
	if err := s.Candidates.SetResumePath(ctx, id, path); err != nil {
		return domain.Candidate{}, err
	}
	if _, err := s.Queue.Enqueue(ctx, id); err != nil {
		// The record exists but will never be picked up; surface that.
		_ = s.Candidates.UpdateStatus(ctx, id, domain.StatusFailed)
		return domain.Candidate{}, fmt.Errorf("enqueue candidate %s: %w", id, err)
	}
	return s.Candidates.Get(ctx, id)
}
