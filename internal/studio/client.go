package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creativestudio/internal/domain"
)

// APIError is a non-2xx answer from the studio API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("studio api: status %d", e.Status)
	}
	return fmt.Sprintf("studio api: status %d: %s", e.Status, e.Message)
}

// SubmitInput is the body of POST /v1/jobs.
type SubmitInput struct {
	Prompt              string                     `json:"prompt"`
	OriginalPrompt      string                     `json:"originalPrompt,omitempty"`
	AssetID             string                     `json:"assetId,omitempty"`
	Settings            *domain.GenerationSettings `json:"settings,omitempty"`
	DeviceID            string                     `json:"deviceId"`
	ConversationHistory []domain.ConversationTurn  `json:"conversationHistory,omitempty"`
	ThoughtSignature    string                     `json:"thoughtSignature,omitempty"`
	IsHD                bool                       `json:"isHD,omitempty"`
	IsToolOperation     bool                       `json:"isToolOperation,omitempty"`
	APIKeyOverride      string                     `json:"apiKeyOverride,omitempty"`
}

type enhanceBody struct {
	Prompt string       `json:"prompt"`
	Style  domain.Style `json:"style,omitempty"`
}

type enhanceResult struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
	OriginalPrompt string `json:"originalPrompt"`
}

type historyResult struct {
	Jobs []domain.Job `json:"jobs"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the studio HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Submit(ctx context.Context, in SubmitInput) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "/v1/jobs", in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// FetchJob reads the job snapshot; it satisfies poller.Fetcher.
func (c *Client) FetchJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(jobID), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) History(ctx context.Context, deviceID string) ([]domain.Job, error) {
	var out historyResult
	q := url.Values{"deviceId": []string{deviceID}}
	if err := c.do(ctx, http.MethodGet, "/v1/history?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) Enhance(ctx context.Context, prompt string, style domain.Style) (string, error) {
	var out enhanceResult
	if err := c.do(ctx, http.MethodPost, "/v1/prompts/enhance", enhanceBody{Prompt: prompt, Style: style}, &out); err != nil {
		return "", err
	}
	return out.EnhancedPrompt, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("studio api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("studio api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("studio api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("studio api: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("studio api: decode response: %w", err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
