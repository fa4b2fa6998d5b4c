package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")

func TestIngest_HappyPath(t *testing.T) {
	t.Parallel()
	candidates := &mockCandidateRepo{}
	store := &mockStore{}
	queue := &mockQueue{}
	svc := NewUploadService(candidates, store, queue)

	candidates.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Candidate) bool {
		return c.OriginalFilename == "cv.pdf" && c.Status == domain.StatusPending
	})).Return("id-1", nil)
	store.On("PutResume", mock.Anything, "id-1", pdfBytes).Return("/store/candidates/id-1/resume.pdf", nil)
	candidates.On("SetResumePath", mock.Anything, "id-1", "/store/candidates/id-1/resume.pdf").Return(nil)
	queue.On("Enqueue", mock.Anything, "id-1").Return("task-1", nil)
	candidates.On("Get", mock.Anything, "id-1").Return(domain.Candidate{ID: "id-1", Status: domain.StatusPending}, nil)

	cand, err := svc.Ingest(context.Background(), "cv.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "id-1", cand.ID)
	assert.Equal(t, domain.StatusPending, cand.Status)
	candidates.AssertExpectations(t)
	store.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestIngest_RejectsNonPDFExtension(t *testing.T) {
	t.Parallel()
	svc := NewUploadService(&mockCandidateRepo{}, &mockStore{}, &mockQueue{})

	_, err := svc.Ingest(context.Background(), "resume.docx", pdfBytes)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIngest_RejectsNonPDFContent(t *testing.T) {
	t.Parallel()
	svc := NewUploadService(&mockCandidateRepo{}, &mockStore{}, &mockQueue{})

	// Extension lies; the magic bytes do not.
	_, err := svc.Ingest(context.Background(), "resume.pdf", []byte("plain text pretending"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIngest_CaseInsensitiveExtension(t *testing.T) {
	t.Parallel()
	candidates := &mockCandidateRepo{}
	store := &mockStore{}
	queue := &mockQueue{}
	svc := NewUploadService(candidates, store, queue)

	candidates.On("Create", mock.Anything, mock.Anything).Return("id-2", nil)
	store.On("PutResume", mock.Anything, "id-2", pdfBytes).Return("/p", nil)
	candidates.On("SetResumePath", mock.Anything, "id-2", "/p").Return(nil)
	queue.On("Enqueue", mock.Anything, "id-2").Return("task-2", nil)
	candidates.On("Get", mock.Anything, "id-2").Return(domain.Candidate{ID: "id-2"}, nil)

	_, err := svc.Ingest(context.Background(), "RESUME.PDF", pdfBytes)
	require.NoError(t, err)
}

func TestIngest_EnqueueFailureMarksFailed(t *testing.T) {
	t.Parallel()
	candidates := &mockCandidateRepo{}
	store := &mockStore{}
	queue := &mockQueue{}
	svc := NewUploadService(candidates, store, queue)

	candidates.On("Create", mock.Anything, mock.Anything).Return("id-3", nil)
	store.On("PutResume", mock.Anything, "id-3", pdfBytes).Return("/p", nil)
	candidates.On("SetResumePath", mock.Anything, "id-3", "/p").Return(nil)
	queue.On("Enqueue", mock.Anything, "id-3").Return("", assert.AnError)
	candidates.On("UpdateStatus", mock.Anything, "id-3", domain.StatusFailed).Return(nil)

	_, err := svc.Ingest(context.Background(), "cv.pdf", pdfBytes)
	require.Error(t, err)
	candidates.AssertCalled(t, "UpdateStatus", mock.Anything, "id-3", domain.StatusFailed)
	candidates.AssertNotCalled(t, "Get", mock.Anything, "id-3")
}
