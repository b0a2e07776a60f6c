// Package summarize wraps the external text-generation service that turns
// raw meeting notes into a short summary plus a coarse sentiment.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error is returned for every summarization failure: transport errors,
// non-2xx upstream replies, and unparseable model output. The workflow
// service treats any Error as fatal to the whole document-meeting operation.
type Error struct {
	cause error
}

func (e *Error) Error() string { return fmt.Sprintf("summarizing notes: %v", e.cause) }
func (e *Error) Unwrap() error { return e.cause }

// NewError wraps cause as a summarization failure.
func NewError(cause error) *Error {
	return &Error{cause: cause}
}

func failed(format string, args ...any) error {
	return &Error{cause: fmt.Errorf(format, args...)}
}

// Result is the structured outcome of a summarization call. Sentiment is
// always one of positive, negative, neutral.
type Result struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
)

// promptTemplate embeds the raw notes and asks for a JSON-shaped reply. The
// model is not guaranteed to return clean JSON, so the reply is scanned for
// the first brace-balanced object before parsing.
const promptTemplate = `You are a financial advisor's AI assistant. Below are meeting notes from a client meeting. Please provide:
1. A concise 2-3 sentence summary of what was discussed
2. The client's sentiment (positive, negative, or neutral)

Meeting Notes:
%s

Respond in this exact JSON format:
{
  "summary": "your summary here",
  "sentiment": "positive/negative/neutral"
}`

// MetricsRecorder is an optional interface for recording call outcomes.
type MetricsRecorder interface {
	ObserveSummarization(seconds float64, outcome string)
}

// Client calls an Anthropic-style messages endpoint.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
	metrics   MetricsRecorder
}

// Config holds the upstream connection settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewClient creates a summarization client. Timeout bounds the whole
// upstream call; expiry surfaces as a summarization Error.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		http:      &http.Client{Timeout: timeout},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// SetMetrics sets the optional metrics recorder.
func (c *Client) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

// Summarize sends the notes to the upstream model and extracts the
// {summary, sentiment} pair from its reply. Every failure mode returns an
// *Error; no partial result is ever returned.
func (c *Client) Summarize(ctx context.Context, notes string) (*Result, error) {
	start := time.Now()
	res, err := c.summarize(ctx, notes)
	if c.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveSummarization(time.Since(start).Seconds(), outcome)
	}
	return res, err
}

func (c *Client) summarize(ctx context.Context, notes string) (*Result, error) {
	reqBody, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, notes)},
		},
	})
	if err != nil {
		return nil, failed("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, failed("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failed("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, failed("reading upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, failed("upstream returned status %d", resp.StatusCode)
	}

	var mr messagesResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, failed("decoding upstream response: %w", err)
	}
	if len(mr.Content) == 0 || mr.Content[0].Text == "" {
		return nil, failed("upstream response has no text content")
	}

	return parseResult(mr.Content[0].Text)
}

// parseResult extracts and validates the result object from free-form model
// output. It fails closed: missing fields or an unknown sentiment are errors,
// never silently defaulted.
func parseResult(text string) (*Result, error) {
	obj, ok := firstJSONObject(text)
	if !ok {
		return nil, failed("no JSON object found in model output")
	}

	var r Result
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return nil, failed("parsing model output: %w", err)
	}
	if r.Summary == "" {
		return nil, failed("model output missing summary")
	}

	r.Sentiment = strings.ToLower(strings.TrimSpace(r.Sentiment))
	switch r.Sentiment {
	case "positive", "negative", "neutral":
	default:
		return nil, failed("model output has invalid sentiment %q", r.Sentiment)
	}

	return &r, nil
}

// firstJSONObject returns the first brace-balanced {...} block in s. Braces
// inside JSON string literals are skipped.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
