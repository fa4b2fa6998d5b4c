// Package asynqadp adapts the hibiken/asynq Redis task queue to the
// domain Queue port. Delivery is at-least-once: the pipeline relies on
// idempotent upserts to make redelivery safe.
package asynqadp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// TaskProcessCandidate is the task type for one candidate pipeline run.
const TaskProcessCandidate = "process_candidate"

// Queue enqueues pipeline runs.
type Queue struct {
	client      *asynq.Client
	maxRetries  int
	hardTimeout time.Duration
}

// New constructs a Queue from a Redis URI.
func New(redisURL string, maxRetries int, hardTimeout time.Duration) (*Queue, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return &Queue{client: asynq.NewClient(opt), maxRetries: maxRetries, hardTimeout: hardTimeout}, nil
}

// Enqueue dispatches a pipeline run for the candidate, fire-and-forget.
// The hard timeout bounds a stuck run from blocking a worker slot.
func (q *Queue) Enqueue(ctx domain.Context, candidateID string) (string, error) {
	b, err := json.Marshal(domain.ProcessTaskPayload{CandidateID: candidateID})
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	t := asynq.NewTask(TaskProcessCandidate, b)
	info, err := q.client.EnqueueContext(ctx, t,
		asynq.MaxRetry(q.maxRetries),
		asynq.Timeout(q.hardTimeout),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	observability.PipelineEnqueuedTotal.Inc()
	return info.ID, nil
}

// Close releases the underlying Redis connection.
func (q *Queue) Close() error { return q.client.Close() }
