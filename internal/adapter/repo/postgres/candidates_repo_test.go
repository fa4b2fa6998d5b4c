package postgres_test

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

const candidateCols = "id, original_filename, resume_path, status, fit_score, recommendation, summary_path, created_at, updated_at"

func newCandidateMock(t *testing.T) (pgxmock.PgxPoolIface, *postgres.CandidateRepo) {
	t.Helper()
	m, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, postgres.NewCandidateRepo(m)
}

func TestCandidateRepo_Create_GeneratesID(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	m.ExpectExec("INSERT INTO candidates").
		WithArgs(pgxmock.AnyArg(), "cv.pdf", "", domain.StatusPending, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), domain.Candidate{OriginalFilename: "cv.pdf"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, m.ExpectationsWereMet())
}

func TestCandidateRepo_Create_KeepsProvidedID(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	m.ExpectExec("INSERT INTO candidates").
		WithArgs("fixed-id", "cv.pdf", "/p.pdf", domain.StatusPending, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), domain.Candidate{
		ID:               "fixed-id",
		OriginalFilename: "cv.pdf",
		ResumePath:       "/p.pdf",
		Status:           domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
	require.NoError(t, m.ExpectationsWereMet())
}

func TestCandidateRepo_Get(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	now := time.Now().UTC()
	score := 8.0
	rec := domain.RecommendationInterview
	sum := "/a/summary.txt"
	m.ExpectQuery("SELECT " + candidateCols + " FROM candidates").
		WithArgs("id-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "original_filename", "resume_path", "status", "fit_score", "recommendation", "summary_path", "created_at", "updated_at",
		}).AddRow("id-1", "cv.pdf", "/p.pdf", domain.StatusDone, &score, &rec, &sum, now, now))

	c, err := repo.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, domain.StatusDone, c.Status)
	require.NotNil(t, c.FitScore)
	assert.Equal(t, 8.0, *c.FitScore)
	require.NoError(t, m.ExpectationsWereMet())
}

func TestCandidateRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	m.ExpectQuery("SELECT " + candidateCols + " FROM candidates").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestCandidateRepo_UpdateStatus_NotFound(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	m.ExpectExec("UPDATE candidates SET status").
		WithArgs("ghost", domain.StatusProcessing, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "ghost", domain.StatusProcessing)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestCandidateRepo_SetResult(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	m.ExpectExec("UPDATE candidates SET status").
		WithArgs("id-1", domain.StatusDone, 7.5, domain.RecommendationInterview, "/a/summary.txt", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetResult(context.Background(), "id-1", 7.5, domain.RecommendationInterview, "/a/summary.txt")
	require.NoError(t, err)
	require.NoError(t, m.ExpectationsWereMet())
}

func TestCandidateRepo_List(t *testing.T) {
	t.Parallel()
	m, repo := newCandidateMock(t)

	now := time.Now().UTC()
	m.ExpectQuery("SELECT " + candidateCols + " FROM candidates ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "original_filename", "resume_path", "status", "fit_score", "recommendation", "summary_path", "created_at", "updated_at",
		}).
			AddRow("id-2", "b.pdf", "", domain.StatusPending, (*float64)(nil), (*string)(nil), (*string)(nil), now, now).
			AddRow("id-1", "a.pdf", "", domain.StatusDone, (*float64)(nil), (*string)(nil), (*string)(nil), now.Add(-time.Hour), now))

	out, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "id-2", out[0].ID)
}
