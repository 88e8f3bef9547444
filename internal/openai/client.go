// Package openai wraps the OpenAI Responses API for structured pick analysis.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/edgestake/pickwire/pkg/models"
)

const responsesPath = "/v1/responses"

// Output token budgets: the first request uses the base budget; a response
// truncated by max_output_tokens is retried once with the budget doubled.
var outputTokenBudgets = []int{900, 1800}

// maxTimeoutAttempts bounds transport-level retries per budget. Backoff grows
// linearly: attempt n sleeps n seconds before the next try.
const maxTimeoutAttempts = 3

// maxErrorBodyBytes limits how much of an upstream error body is carried in
// error messages.
const maxErrorBodyBytes = 512

// HTTPClient implements models.ReasoningClient against the Responses API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	sleep   func(time.Duration)
}

// NewHTTPClient creates a reasoning client. baseURL is overridable for tests;
// timeout covers a single HTTP round trip, not the whole retry protocol.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		sleep:   time.Sleep,
	}
}

// RequestPick sends the analysis payload and returns the parsed structured
// pick plus the raw response body for audit. All failures are tagged
// models.Failure values; only transport timeouts and truncated output are
// retried here; everything else is terminal for this call and left to the
// job-level retry policy.
func (c *HTTPClient) RequestPick(ctx context.Context, req models.PickRequest, snap models.SettingsSnapshot) (*models.PickResult, string, error) {
	if snap.APIKey == "" {
		return nil, "", models.NewFailure(models.FailConfig, "missing OpenAI API key")
	}

	for i, budget := range outputTokenBudgets {
		envelope, raw, err := c.post(ctx, req, snap, budget)
		if err != nil {
			return nil, "", err
		}

		// A response cut off by max_output_tokens usually still carries the
		// partial text generated so far; it must never be parsed. Retry with
		// the next budget instead.
		if envelope.truncatedByTokenLimit() {
			if i < len(outputTokenBudgets)-1 {
				continue
			}
			return nil, "", models.NewFailure(models.FailUpstreamSchema,
				"output truncated by max_output_tokens at budget %d", budget)
		}

		text := envelope.outputText()
		if text == "" {
			return nil, "", models.NewFailure(models.FailUpstreamSchema,
				"response missing output_text (status=%s incomplete_reason=%s)",
				envelope.Status, envelope.IncompleteDetails.Reason)
		}

		var result models.PickResult
		if err := json.Unmarshal([]byte(text), &result); err != nil {
			return nil, "", models.NewFailure(models.FailUpstreamSchema,
				"output text was not valid JSON: %v", err)
		}
		if err := validateResult(&result); err != nil {
			return nil, "", err
		}
		return &result, raw, nil
	}

	// Unreachable: the last budget either returns a result or an error.
	return nil, "", models.NewFailure(models.FailUpstreamSchema, "output token budgets exhausted")
}

// post performs one Responses API call with transport-level timeout retries.
func (c *HTTPClient) post(ctx context.Context, req models.PickRequest, snap models.SettingsSnapshot, budget int) (*responseEnvelope, string, error) {
	body, err := json.Marshal(buildRequestBody(req, snap, budget))
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	for attempt := 1; ; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+responsesPath, bytes.NewReader(body))
		if err != nil {
			return nil, "", fmt.Errorf("building request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+snap.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, "", &models.Failure{Kind: models.FailTimeout, Message: "request canceled", Err: err}
			}
			if !isTransient(err) {
				return nil, "", &models.Failure{Kind: models.FailTimeout,
					Message: fmt.Sprintf("transport error: %v", err), Err: err}
			}
			if attempt >= maxTimeoutAttempts {
				return nil, "", &models.Failure{Kind: models.FailTimeout,
					Message: fmt.Sprintf("request failed after retries due to timeout (%d attempts): %v", attempt, err),
					Err:     err}
			}
			c.sleep(time.Duration(attempt) * time.Second)
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, "", models.NewFailure(models.FailUpstreamSchema, "reading response body: %v", readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, "", models.NewFailure(models.FailUpstreamStatus,
				"openai api error %d: %s", resp.StatusCode, truncate(string(raw), maxErrorBodyBytes))
		}

		var envelope responseEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, "", models.NewFailure(models.FailUpstreamSchema,
				"response body was not valid JSON: %v", err)
		}
		return &envelope, string(raw), nil
	}
}

// validateResult rejects output that parsed as JSON but violates the schema
// contract.
func validateResult(r *models.PickResult) error {
	switch r.Result {
	case models.ResultBet, models.ResultLean, models.ResultNoBet:
	default:
		return models.NewFailure(models.FailUpstreamSchema,
			"result %q is not one of BET, LEAN, NO_BET", r.Result)
	}
	if r.PEst < 0 || r.PEst > 1 {
		return models.NewFailure(models.FailUpstreamSchema,
			"p_est %v outside [0, 1]", r.PEst)
	}
	return nil
}

// isTransient reports whether a transport error is worth retrying: timeouts
// and connection-level failures, per the transient-transport taxonomy.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Responses API request/response types ---

type requestBody struct {
	Model           string          `json:"model"`
	Reasoning       reasoningOpts   `json:"reasoning"`
	Input           []inputMessage  `json:"input"`
	Text            textOpts        `json:"text"`
	MaxOutputTokens int             `json:"max_output_tokens"`
}

type reasoningOpts struct {
	Effort string `json:"effort"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type textOpts struct {
	Format formatOpts `json:"format"`
}

type formatOpts struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

func buildRequestBody(req models.PickRequest, snap models.SettingsSnapshot, budget int) requestBody {
	payload, _ := json.Marshal(req)
	return requestBody{
		Model:     snap.Model,
		Reasoning: reasoningOpts{Effort: snap.ReasoningEffort},
		Input: []inputMessage{
			{
				Role:    "developer",
				Content: []contentBlock{{Type: "input_text", Text: systemPrompt}},
			},
			{
				Role:    "user",
				Content: []contentBlock{{Type: "input_text", Text: string(payload)}},
			},
		},
		Text: textOpts{
			Format: formatOpts{
				Type:   "json_schema",
				Name:   pickSchemaName,
				Schema: json.RawMessage(pickSchema),
			},
		},
		MaxOutputTokens: budget,
	}
}

type responseEnvelope struct {
	Status           string `json:"status"`
	IncompleteDetails struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// outputText returns the model's text output, preferring the top-level
// convenience field and falling back to scanning output content blocks.
func (e *responseEnvelope) outputText() string {
	if e.OutputText != "" {
		return e.OutputText
	}
	for _, item := range e.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" {
				return content.Text
			}
		}
	}
	return ""
}

func (e *responseEnvelope) truncatedByTokenLimit() bool {
	return e.Status == "incomplete" && e.IncompleteDetails.Reason == "max_output_tokens"
}

// Compile-time check that HTTPClient implements ReasoningClient.
var _ models.ReasoningClient = (*HTTPClient)(nil)
