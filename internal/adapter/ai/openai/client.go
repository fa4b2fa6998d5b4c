// Package openai implements the AI evaluation client against an
// OpenAI-compatible chat completions backend. An Azure/enterprise
// endpoint is preferred when fully configured; the public endpoint is
// the fallback. The choice is resolved once per client instance, not
// probed at call time.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/config"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// outcome classifies one backend call into a closed set of kinds so the
// retry loop never inspects error text.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeValidation
	outcomeTransient
	outcomeQuota
)

func (o outcome) String() string {
	switch o {
	case outcomeSuccess:
		return "success"
	case outcomeValidation:
		return "validation_error"
	case outcomeTransient:
		return "transient_error"
	case outcomeQuota:
		return "quota_exceeded"
	}
	return "unknown"
}

// classifyStatus maps an HTTP status and response body onto an outcome
// kind. Quota and rate-limit signals short-circuit retries.
func classifyStatus(status int, body string) outcome {
	if status >= 200 && status < 300 {
		return outcomeSuccess
	}
	if status == http.StatusTooManyRequests {
		return outcomeQuota
	}
	lower := strings.ToLower(body)
	if strings.Contains(lower, "insufficient_quota") || strings.Contains(lower, "quota") {
		return outcomeQuota
	}
	return outcomeTransient
}

// evalPayload is the schema required of the backend response. Pointer
// fields distinguish "missing key" from zero values.
type evalPayload struct {
	FitScore       *float64 `json:"fit_score" validate:"required,gte=1,lte=10"`
	Recommendation *string  `json:"recommendation" validate:"required,oneof=Interview Decline"`
	Strengths      []string `json:"strengths" validate:"required"`
	Weaknesses     []string `json:"weaknesses" validate:"required"`
	SummaryText    *string  `json:"summary_text" validate:"required"`
}

// Client implements domain.Evaluator over an OpenAI-compatible API.
type Client struct {
	hc       *http.Client
	vld      *validator.Validate
	endpoint string
	apiKey   string
	model    string
	useAzure bool

	maxRetries int
	textLimit  int
}

// New constructs a client. Backend selection happens here, once, by
// configuration completeness.
func New(cfg config.Config) *Client {
	c := &Client{
		hc:         &http.Client{Timeout: cfg.AITimeout},
		vld:        validator.New(),
		maxRetries: cfg.EvalMaxRetries,
		textLimit:  cfg.EvalTextLimit,
	}
	if cfg.AzureConfigured() {
		// The enterprise endpoint is assumed to be an OpenAI-compatible
		// gateway: bearer auth against /chat/completions. Raw Azure
		// OpenAI (api-key header, deployment-scoped path) needs a proxy
		// in front.
		c.useAzure = true
		c.endpoint = strings.TrimSuffix(cfg.AzureOpenAIEndpoint, "/") + "/chat/completions"
		c.apiKey = cfg.AzureOpenAIAPIKey
		c.model = cfg.AzureOpenAIDeployment
		slog.Info("evaluation backend selected", slog.String("backend", "azure"), slog.String("model", c.model))
	} else {
		c.endpoint = strings.TrimSuffix(cfg.OpenAIBaseURL, "/") + "/chat/completions"
		c.apiKey = cfg.OpenAIAPIKey
		c.model = cfg.OpenAIModel
		slog.Info("evaluation backend selected", slog.String("backend", "openai"), slog.String("model", c.model))
	}
	return c
}

// Model returns the identifier of the configured backend model.
func (c *Client) Model() string { return c.model }

// Evaluate scores the resume against the job description. It retries up
// to the configured bound on decode, validation, and transport errors;
// a quota signal fails immediately with domain.ErrQuotaExceeded, and
// exhausting attempts fails with domain.ErrEvaluationFailed.
func (c *Client) Evaluate(ctx domain.Context, candidateID, rawText string, profile domain.StructuredProfile, jobDescription string) (domain.Evaluation, error) {
	if c.apiKey == "" {
		return domain.Evaluation{}, fmt.Errorf("%w: no evaluation backend configured", domain.ErrEvaluationFailed)
	}
	prompt := buildUserPrompt(jobDescription, rawText, profile, c.textLimit)

	var payload evalPayload
	op := func() error {
		p, kind, err := c.callOnce(ctx, prompt)
		observability.AIRequestsTotal.WithLabelValues(c.backendName(), kind.String()).Inc()
		switch kind {
		case outcomeSuccess:
			payload = p
			return nil
		case outcomeQuota:
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err))
		default:
			slog.Warn("evaluation attempt failed",
				slog.String("candidate_id", candidateID),
				slog.String("kind", kind.String()),
				slog.Any("error", err))
			return err
		}
	}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.maxRetries)), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return domain.Evaluation{}, err
		}
		return domain.Evaluation{}, fmt.Errorf("%w: retries exhausted: %w", domain.ErrEvaluationFailed, err)
	}

	return domain.Evaluation{
		CandidateID:    candidateID,
		FitScore:       *payload.FitScore,
		Recommendation: *payload.Recommendation,
		Strengths:      payload.Strengths,
		Weaknesses:     payload.Weaknesses,
		SummaryText:    *payload.SummaryText,
		ModelUsed:      c.model,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (c *Client) backendName() string {
	if c.useAzure {
		return "azure"
	}
	return "openai"
}

// callOnce performs exactly one backend request and classifies the result.
func (c *Client) callOnce(ctx context.Context, prompt string) (evalPayload, outcome, error) {
	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	// Enterprise deployments pin a default temperature; only the public
	// path accepts a custom one.
	if !c.useAzure {
		body["temperature"] = 0.7
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return evalPayload{}, outcomeTransient, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	observability.AIRequestDuration.WithLabelValues(c.backendName()).Observe(time.Since(start).Seconds())
	if err != nil {
		return evalPayload{}, outcomeTransient, err
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return evalPayload{}, outcomeTransient, err
	}

	if kind := classifyStatus(resp.StatusCode, snippet(respBody, 512)); kind != outcomeSuccess {
		return evalPayload{}, kind, fmt.Errorf("chat status %d", resp.StatusCode)
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return evalPayload{}, outcomeValidation, fmt.Errorf("decode response envelope: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return evalPayload{}, outcomeValidation, fmt.Errorf("empty choices")
	}

	var payload evalPayload
	if err := json.Unmarshal([]byte(envelope.Choices[0].Message.Content), &payload); err != nil {
		return evalPayload{}, outcomeValidation, fmt.Errorf("decode evaluation json: %w", err)
	}
	if err := c.vld.Struct(payload); err != nil {
		return evalPayload{}, outcomeValidation, fmt.Errorf("invalid evaluation schema: %w", err)
	}
	return payload, outcomeSuccess, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
