package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key is set for the recommender.
var ErrNotConfigured = errors.New("chart recommender is not configured")

// APIError is a non-2xx answer from the completions endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error: status=%d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " code=%s", e.Code)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " request_id=%s", e.RequestID)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, " message=%s", e.Message)
	}
	return b.String()
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completions endpoint in JSON mode.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

func (c *Client) Recommend(ctx context.Context, req Request) (RawPayload, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if c.model == "" {
		return nil, errors.New("model cannot be empty")
	}

	messages := make([]message, 0, 2)
	if req.System != "" {
		messages = append(messages, message{Role: "system", Content: req.System})
	}
	messages = append(messages, message{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(completionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: response %s has no choices", ErrSchemaViolation, out.ID)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty completion (finish_reason=%s)", ErrSchemaViolation, out.Choices[0].FinishReason)
	}
	return RawPayload(content), nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: extractRequestID(resp)}

	var raw map[string]any
	_ = json.Unmarshal(body, &raw)
	fields := raw
	if nested, ok := raw["error"].(map[string]any); ok {
		fields = nested
	}
	if msg, ok := fields["message"].(string); ok {
		apiErr.Message = msg
	}
	if code, ok := fields["code"].(string); ok {
		apiErr.Code = code
	}
	return apiErr
}

func extractRequestID(resp *http.Response) string {
	for _, k := range []string{"X-Request-Id", "OpenAI-Request-ID"} {
		if v := resp.Header.Get(k); v != "" {
			return v
		}
	}
	return ""
}
