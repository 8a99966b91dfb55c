// Package llm provides model integration via a local Ollama server.
//
// Ollama runs vision and text models behind a single HTTP API. We use it for:
// - Screenshot description (vision model, optionally schema-constrained)
// - Activity classification (text model, schema-constrained)
// - Reasoning merges and day summaries (text model, free text)
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Client is an Ollama API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new Ollama client. An empty host means the default
// local instance. Per-call deadlines come from the request context; the
// transport-level timeout is only a backstop.
func NewClient(host string, logger zerolog.Logger) *Client {
	if host == "" {
		host = "http://localhost:11434"
	}
	return &Client{
		baseURL:    host,
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		log:        logger.With().Str("component", "llm").Logger(),
	}
}

// GenerateRequest is the request body for /api/generate.
type GenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"` // base64-encoded
	// Format carries a JSON schema for structured, schema-constrained output.
	Format  json.RawMessage `json:"format,omitempty"`
	Stream  bool            `json:"stream"`
	Think   bool            `json:"think,omitempty"`
	Options Options         `json:"options"`
}

// Options are per-request model options.
type Options struct {
	Temperature float64 `json:"temperature"`
}

// GenerateResponse is the non-streaming response from /api/generate.
type GenerateResponse struct {
	Model              string `json:"model"`
	Response           string `json:"response"`
	Thinking           string `json:"thinking,omitempty"`
	Done               bool   `json:"done"`
	DoneReason         string `json:"done_reason,omitempty"`
	TotalDuration      int64  `json:"total_duration,omitempty"`       // nanoseconds
	LoadDuration       int64  `json:"load_duration,omitempty"`        // nanoseconds
	PromptEvalCount    int    `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64  `json:"prompt_eval_duration,omitempty"` // nanoseconds
	EvalCount          int    `json:"eval_count,omitempty"`
	EvalDuration       int64  `json:"eval_duration,omitempty"`        // nanoseconds
	Error              string `json:"error,omitempty"`
}

// Generate sends a blocking generation request.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("model", req.Model).Int("images", len(req.Images)).
		Bool("structured", len(req.Format) > 0).Msg("sending generate request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w (body: %s)", err, string(respBody))
	}
	if genResp.Error != "" {
		return nil, fmt.Errorf("API error: %s", genResp.Error)
	}

	return &genResp, nil
}

// TextModel binds a client to one text model, giving the plain-text
// generation shape the aggregator and summarizer consume.
type TextModel struct {
	Client *Client
	Model  string

	// Timeout bounds each call. Zero leaves only the transport backstop.
	Timeout time.Duration
}

// GenerateText produces a plain-text completion for a prompt.
func (m TextModel) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	resp, err := m.Client.Generate(ctx, GenerateRequest{
		Model:   m.Model,
		Prompt:  prompt,
		Options: Options{Temperature: temperature},
	})
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// EncodeImageFile reads an image file and encodes it to base64 for the
// images field of a generate request.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
