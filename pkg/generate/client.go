package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/geometry"
	"github.com/logsmart/designer/pkg/httputil"
	"github.com/logsmart/designer/pkg/observability"
)

// Defaults for a local Ollama install.
const (
	DefaultURL     = "http://127.0.0.1:11434"
	DefaultModel   = "qwen3:4b-instruct"
	DefaultTimeout = 2 * time.Minute
)

// Sampling parameters sent with every request.
const (
	Temperature = 0.2
	TopP        = 0.8
	TopK        = 20
)

// Client calls the Ollama chat API.
type Client struct {
	baseURL  string
	model    string
	http     *http.Client
	logger   *log.Logger
	width    float64
	height   float64
	sizes    map[string]geometry.Size
	attempts int
	backoff  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the Ollama base URL.
func WithURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(c *Client) { c.model = m }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCanvas sets the canvas dimensions described to the model.
func WithCanvas(width, height float64) Option {
	return func(c *Client) { c.width, c.height = width, height }
}

// WithCatalog describes the catalog's component sizes to the model.
func WithCatalog(cat *canvas.Catalog) Option {
	return func(c *Client) { c.sizes = cat.Sizes() }
}

// WithRetry sets the attempt count and initial backoff for transient
// failures.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) { c.attempts, c.backoff = attempts, backoff }
}

// NewClient creates a client for the Ollama server. With no options it talks
// to DefaultURL using DefaultModel, describing the default catalog on a
// default-sized canvas.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultURL,
		model:    DefaultModel,
		http:     &http.Client{Timeout: DefaultTimeout},
		width:    canvas.DefaultWidth,
		height:   canvas.DefaultHeight,
		sizes:    canvas.DefaultCatalog().Sizes(),
		attempts: 3,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Generate sends prompt to the model and decodes its reply. Transport
// failures and 5xx replies are retried. A reply that is not a layout yields
// an empty, non-nil slice.
func (c *Client) Generate(ctx context.Context, prompt string) ([]canvas.Item, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(c.describe(), prompt)},
		},
		Format:  "json",
		Options: chatOptions{Temperature: Temperature, TopP: TopP, TopK: TopK},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint, err := url.JoinPath(c.baseURL, "api", "chat")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid generator url %q", c.baseURL)
	}

	var reply chatResponse
	err = httputil.Retry(ctx, c.attempts, c.backoff, func() error {
		return c.post(ctx, endpoint, body, &reply)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "layout generation cancelled")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "layout generation failed")
	}

	items, err := Decode([]byte(reply.Message.Content))
	if err != nil {
		c.logger.Warn("model reply is not a layout", "model", c.model, "err", err)
		return []canvas.Item{}, nil
	}
	c.logger.Debug("decoded generated layout", "model", c.model, "items", len(items))
	return items, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte, out *chatResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return err
		}
		return httputil.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	return nil
}

// describe is the canvas description prepended to every prompt.
func (c *Client) describe() string {
	return layoutContext(c.width, c.height, c.sizes)
}
