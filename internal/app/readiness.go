// Package app wires the HTTP router and shared bootstrap helpers.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/config"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisPinger is the minimal Redis client surface needed for readiness.
type RedisPinger interface {
	Ping(ctx context.Context) RedisPingResult
}

// BuildReadinessChecks returns the db, redis, and tika readiness
// probes used by /readyz.
func BuildReadinessChecks(cfg config.Config, pool Pinger, rdb RedisPinger) (httpserver.Check, httpserver.Check, httpserver.Check) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	redisCheck := func(ctx context.Context) error {
		if rdb == nil {
			return fmt.Errorf("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
	tikaCheck := func(ctx context.Context) error {
		// Tika is an optional extraction backend; a deployment running
		// on native extraction alone is still ready.
		if cfg.TikaURL == "" {
			return nil
		}
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.TikaURL+"/version", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("tika status %d", resp.StatusCode)
	}
	return dbCheck, redisCheck, tikaCheck
}
