// Package llm implements a minimal Perplexity-compatible chat completions
// client with blocking and streaming helpers.
//
// Requires Go 1.23+ for iter.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/plxdev/plx-cli/types"
)

const completionsPath = "/chat/completions"

// Client issues chat completion requests against one resolved configuration.
// Safe for sequential use; at most one request is in flight at a time.
type Client struct {
	config

	httpClient   *http.Client
	streamClient *http.Client
}

type config struct {
	logger  *slog.Logger
	cfg     types.Config
	apiKey  string
	baseURL string
}

// Option configures the client.
type Option func(*config)

// WithAPIKey sets the bearer credential used on every request.
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.apiKey = key
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the given effective configuration.
func NewClient(cfg types.Config, opts ...Option) *Client {
	c := &config{
		logger:  slog.Default(),
		cfg:     cfg,
		apiKey:  cfg.API.Key,
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
	}

	for _, opt := range opts {
		opt(c)
	}

	timeout := time.Duration(cfg.API.Timeout) * time.Millisecond

	return &Client{
		config:     *c,
		httpClient: &http.Client{Timeout: timeout},
		// No global timeout here: it would cap total stream duration.
		// The initial exchange is bounded via a header deadline instead.
		streamClient: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: timeout},
		},
	}
}

// Answer is a complete, non-streamed response.
type Answer struct {
	Text      string
	Citations []string
	Raw       json.RawMessage
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Ask sends a single blocking question and returns the answer text.
//
// It fails with ErrMissingAPIKey before any network call when no key is
// configured. Transport failures are returned as RequestError or APIError
// for classification at the boundary.
func (c *Client) Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := BuildPayload(c.logger, question, c.cfg, opts, false)

	c.logger.Info("ask", "model", payload.Model, "search_mode", payload.SearchMode)

	resp, err := c.post(ctx, c.httpClient, payload, false)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorDetail(raw)}
	}

	return decodeAnswer(raw), nil
}

// decodeAnswer extracts choices[0].message.content. A string content is
// returned trimmed; any other shape falls back to a pretty-printed rendering
// of the whole body rather than failing.
func decodeAnswer(raw []byte) *Answer {
	answer := &Answer{Raw: json.RawMessage(raw)}

	var decoded completionResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && len(decoded.Choices) > 0 {
		var text string
		if err := json.Unmarshal(decoded.Choices[0].Message.Content, &text); err == nil {
			answer.Text = strings.TrimSpace(text)
			answer.Citations = decoded.Citations

			return answer
		}
	}

	answer.Text = stringifyPretty(raw)

	return answer
}

// FragmentIterator yields answer fragments in arrival order. Iteration ends
// after the terminal frame, natural end of input, or an error element.
type FragmentIterator iter.Seq2[string, error]

// AskStreaming sends a single question and streams the answer incrementally.
//
// The returned iterator yields each content fragment exactly once, in
// arrival order. A transport failure mid-stream surfaces as a StreamError
// carrying the original cause.
func (c *Client) AskStreaming(ctx context.Context, question string, opts AskOptions) (FragmentIterator, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload := BuildPayload(c.logger, question, c.cfg, opts, true)

	c.logger.Info("ask streaming", "model", payload.Model, "search_mode", payload.SearchMode)

	resp, err := c.post(ctx, c.streamClient, payload, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorDetail(raw)}
	}

	return func(yield func(string, error) bool) {
		defer func() { _ = resp.Body.Close() }()

		var (
			decoder StreamDecoder
			buf     = make([]byte, 4096)
		)

		for {
			n, err := resp.Body.Read(buf)

			if n > 0 {
				fragments, done := decoder.Feed(buf[:n])

				for _, frag := range fragments {
					if !yield(frag, nil) {
						return
					}
				}

				if done {
					return
				}
			}

			if err != nil {
				if errors.Is(err, io.EOF) {
					if frag, ok := decoder.Finish(); ok {
						yield(frag, nil)
					}

					return
				}

				yield("", &StreamError{Err: wrapTransportError(err)})

				return
			}
		}
	}, nil
}

func (c *Client) post(ctx context.Context, hc *http.Client, payload Payload, streaming bool) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if streaming {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}

	return resp, nil
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorDetail pulls a human-readable detail out of an error response body.
func errorDetail(raw []byte) string {
	var decoded apiErrorBody
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}

	return strings.TrimSpace(string(raw))
}

// stringifyPretty returns an indented JSON rendering of raw, or the raw text
// when it is not valid JSON.
func stringifyPretty(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return strings.TrimSpace(string(raw))
	}

	return buf.String()
}
