// Package completion sends single non-streaming chat completion requests to
// OpenAI-compatible endpoints and reduces the outcome to a typed Result.
package completion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	loggerpkg "github.com/minhyannv/qwen-pi-go/pkg/logger"
)

// Request describes one completion call.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Params converts r into SDK parameters with exactly one system and one user message.
func (r Request) Params() openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.System),
			openai.UserMessage(r.User),
		},
		MaxTokens:   openai.Int(r.MaxTokens),
		Temperature: openai.Float(r.Temperature),
	}
}

// Endpoint is a single completion endpoint with its bearer token.
type Endpoint struct {
	URL    string
	APIKey string
}

// Caller issues requests against one Endpoint.
type Caller struct {
	name     string
	endpoint Endpoint
	client   openai.Client
	logger   loggerpkg.Logger
	verbose  bool
}

// Option configures a Caller.
type Option func(*callerDeps)

type callerDeps struct {
	logger     loggerpkg.Logger
	verbose    bool
	httpClient *http.Client
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *callerDeps) {
		d.logger = l
	}
}

// WithVerbose enables debug logging of each request.
func WithVerbose(v bool) Option {
	return func(d *callerDeps) {
		d.verbose = v
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *callerDeps) {
		d.httpClient = c
	}
}

// NewCaller builds a Caller. name tags log records (for example "qwen" or "pi").
func NewCaller(name string, endpoint Endpoint, opts ...Option) *Caller {
	deps := callerDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	return &Caller{
		name:     name,
		endpoint: endpoint,
		client:   newOpenAIClient(endpoint, deps.httpClient),
		logger:   loggerpkg.OrNop(deps.logger),
		verbose:  deps.verbose,
	}
}

func newOpenAIClient(endpoint Endpoint, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithBaseURL(endpoint.URL),
		option.WithAPIKey(endpoint.APIKey),
		option.WithMaxRetries(0),
		option.WithMiddleware(exactEndpoint(endpoint.URL)),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...)
}

// exactEndpoint sends every request to rawURL as configured instead of the
// SDK's base URL joined with the operation path.
func exactEndpoint(rawURL string) option.Middleware {
	target, parseErr := url.Parse(rawURL)
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		if parseErr != nil {
			return nil, &url.Error{Op: req.Method, URL: rawURL, Err: parseErr}
		}
		u := *target
		req.URL = &u
		req.Host = u.Host
		return next(req)
	}
}

// Call sends req and returns the first choice's content. Failures are
// logged and reported through Result; Call never returns a Go error.
func (c *Caller) Call(ctx context.Context, req Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	loggerpkg.Debug(c.verbose, c.logger, c.name+" request", map[string]any{
		"url":         c.endpoint.URL,
		"model":       req.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"user_bytes":  len(req.User),
	})

	res := c.call(ctx, req)
	if !res.OK() {
		obj := map[string]any{
			"endpoint": c.name,
			"kind":     res.Failure.String(),
			"error":    res.Err.Error(),
		}
		if res.StatusCode != 0 {
			obj["status"] = res.StatusCode
		}
		loggerpkg.Error(c.logger, res.Failure.diagnostic(), obj)
		return res
	}

	loggerpkg.Debug(c.verbose, c.logger, c.name+" response", map[string]any{
		"bytes": len(res.Content),
	})
	return res
}

func (c *Caller) call(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Failure: FailureOther, Err: panicError{value: r}}
		}
	}()

	resp, err := c.client.Chat.Completions.New(ctx, req.Params())
	if err != nil {
		return failed(err)
	}
	if len(resp.Choices) == 0 {
		return failed(&ShapeError{Field: "choices"})
	}
	message := resp.Choices[0].Message
	if !message.JSON.Content.Valid() {
		return failed(&ShapeError{Field: "content"})
	}
	return Result{Content: message.Content}
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("panic during completion: %v", e.value)
}
