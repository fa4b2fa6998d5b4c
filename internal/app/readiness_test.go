package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/config"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeRedisResult struct{ err error }

func (r fakeRedisResult) Err() error { return r.err }

type fakeRedisPinger struct{ err error }

func (p fakeRedisPinger) Ping(context.Context) RedisPingResult { return fakeRedisResult{err: p.err} }

func TestBuildReadinessChecks_DBAndRedis(t *testing.T) {
	t.Parallel()
	dbErr := errors.New("pool closed")
	db, rds, _ := BuildReadinessChecks(config.Config{}, fakePinger{err: dbErr}, fakeRedisPinger{})
	assert.ErrorIs(t, db(context.Background()), dbErr)
	assert.NoError(t, rds(context.Background()))

	db, rds, _ = BuildReadinessChecks(config.Config{}, nil, nil)
	assert.Error(t, db(context.Background()))
	assert.Error(t, rds(context.Background()))
}

func TestBuildReadinessChecks_TikaOptional(t *testing.T) {
	t.Parallel()

	// Unconfigured Tika is not a readiness failure; native extraction
	// still serves.
	_, _, tika := BuildReadinessChecks(config.Config{}, fakePinger{}, fakeRedisPinger{})
	assert.NoError(t, tika(context.Background()))
}

func TestBuildReadinessChecks_TikaConfigured(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/version", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, _, tika := BuildReadinessChecks(config.Config{TikaURL: srv.URL}, fakePinger{}, fakeRedisPinger{})
	assert.NoError(t, tika(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	_, _, tika = BuildReadinessChecks(config.Config{TikaURL: down.URL}, fakePinger{}, fakeRedisPinger{})
	assert.Error(t, tika(context.Background()))
}
