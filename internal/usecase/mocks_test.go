package usecase

import (
	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

type mockCandidateRepo struct{ mock.Mock }

func (m *mockCandidateRepo) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *mockCandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) UpdateStatus(ctx domain.Context, id string, status domain.CandidateStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockCandidateRepo) SetResult(ctx domain.Context, id string, fitScore float64, recommendation, summaryPath string) error {
	return m.Called(ctx, id, fitScore, recommendation, summaryPath).Error(0)
}

func (m *mockCandidateRepo) SetResumePath(ctx domain.Context, id, path string) error {
	return m.Called(ctx, id, path).Error(0)
}

func (m *mockCandidateRepo) List(ctx domain.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

type mockExtractionRepo struct{ mock.Mock }

func (m *mockExtractionRepo) Upsert(ctx domain.Context, e domain.Extraction) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockExtractionRepo) Get(ctx domain.Context, candidateID string) (domain.Extraction, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(domain.Extraction), args.Error(1)
}

type mockEvaluationRepo struct{ mock.Mock }

func (m *mockEvaluationRepo) Upsert(ctx domain.Context, e domain.Evaluation) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEvaluationRepo) Get(ctx domain.Context, candidateID string) (domain.Evaluation, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(domain.Evaluation), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) PutResume(ctx domain.Context, candidateID string, data []byte) (string, error) {
	args := m.Called(ctx, candidateID, data)
	return args.String(0), args.Error(1)
}

func (m *mockStore) ResumePath(candidateID string) string {
	return m.Called(candidateID).String(0)
}

func (m *mockStore) PutText(ctx domain.Context, candidateID, name, content string) (string, error) {
	args := m.Called(ctx, candidateID, name, content)
	return args.String(0), args.Error(1)
}

func (m *mockStore) PutJSON(ctx domain.Context, candidateID, name string, v any) (string, error) {
	args := m.Called(ctx, candidateID, name, v)
	return args.String(0), args.Error(1)
}

type mockQueue struct{ mock.Mock }

func (m *mockQueue) Enqueue(ctx domain.Context, candidateID string) (string, error) {
	args := m.Called(ctx, candidateID)
	return args.String(0), args.Error(1)
}

type mockExtractor struct{ mock.Mock }

func (m *mockExtractor) Extract(ctx domain.Context, path string) (string, string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.String(1), args.Error(2)
}

type mockEvaluator struct{ mock.Mock }

func (m *mockEvaluator) Evaluate(ctx domain.Context, candidateID, rawText string, profile domain.StructuredProfile, jobDescription string) (domain.Evaluation, error) {
	args := m.Called(ctx, candidateID, rawText, profile, jobDescription)
	return args.Get(0).(domain.Evaluation), args.Error(1)
}

type mockJobDesc struct{ mock.Mock }

func (m *mockJobDesc) Load() string {
	return m.Called().String(0)
}
