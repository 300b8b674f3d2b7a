package graphgen

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"

	"github.com/matzehuels/kgraph/pkg/cache"
	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/httputil"
	"github.com/matzehuels/kgraph/pkg/observability"
)

// Defaults for a local Ollama server.
const (
	DefaultBaseURL  = "http://localhost:11434/v1"
	DefaultModel    = "gemma3"
	DefaultTimeout  = 5 * time.Minute
	DefaultCacheTTL = 7 * 24 * time.Hour

	maxRetryDelay = 30 * time.Second
)

// Config selects the model server.
type Config struct {
	BaseURL     string        // OpenAI-compatible API root
	APIKey      string        // optional for Ollama
	Model       string        // model name
	Temperature float32       // 0 lets the server decide
	Timeout     time.Duration // per request
	CacheTTL    time.Duration // how long extracted graphs are reused
	Attempts    int           // total tries for transient failures
	RetryDelay  time.Duration // first backoff delay
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
}

// Generator turns documents into graphs. It is safe for concurrent use.
type Generator struct {
	client *openai.Client
	cfg    Config
	host   string
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// New creates a generator. A nil cache disables caching and a nil logger
// uses log.Default().
func New(cfg Config, c cache.Cache, logger *log.Logger) *Generator {
	cfg.setDefaults()
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	host := cfg.BaseURL
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Generator{
		client: openai.NewClientWithConfig(oc),
		cfg:    cfg,
		host:   host,
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.cfg.Model }

// Generate extracts a graph from docs. Cached results are returned without
// contacting the model.
func (g *Generator) Generate(ctx context.Context, docs []Document) (graph.Graph, error) {
	if err := ValidateDocuments(docs); err != nil {
		return graph.Graph{}, err
	}

	done := observability.Begin(ctx, observability.StepGenerate, g.cfg.Model)
	out, err := g.generate(ctx, docs)
	done(len(out.Nodes), err)
	return out, err
}

func (g *Generator) generate(ctx context.Context, docs []Document) (graph.Graph, error) {
	docsJSON, _ := json.Marshal(docs)
	key := g.keyer.GraphgenKey(cache.Hash(docsJSON), cache.GraphgenKeyOpts{Model: g.cfg.Model})

	if data, hit, err := g.cache.Get(ctx, key); err != nil {
		g.logger.Warn("graphgen cache read failed", "error", err)
	} else if hit {
		if cached, err := graph.UnmarshalGraph(data); err == nil {
			observability.RecordCache(ctx, "graphgen", observability.CacheHit, 0)
			g.logger.Debug("graphgen cache hit", "documents", len(docs))
			return cached, nil
		}
	}
	observability.RecordCache(ctx, "graphgen", observability.CacheMiss, 0)

	g.logger.Info("generating graph", "model", g.cfg.Model, "documents", len(docs))
	response, err := g.complete(ctx, BuildPrompt(docs))
	if err != nil {
		return graph.Graph{}, err
	}

	out, err := ParseResponse(response)
	if err != nil {
		g.logger.Debug("unusable model response", "response", response)
		return graph.Graph{}, err
	}
	g.logger.Info("generated graph", "nodes", len(out.Nodes), "edges", len(out.Edges))

	if data, err := graph.MarshalGraph(out); err == nil {
		if err := g.cache.Set(ctx, key, data, g.cfg.CacheTTL); err != nil {
			g.logger.Warn("graphgen cache write failed", "error", err)
		} else {
			observability.RecordCache(ctx, "graphgen", observability.CacheSet, len(data))
		}
	}
	return out, nil
}

// complete sends one chat completion, retrying transient failures.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.cfg.Temperature,
	}

	rec := observability.Get()

	policy := httputil.Policy{
		Attempts: g.cfg.Attempts,
		Delay:    g.cfg.RetryDelay,
		MaxDelay: maxRetryDelay,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			g.logger.Warn("retrying chat completion", "attempt", attempt, "wait", wait, "error", errors.UserMessage(err))
		},
	}

	var content string
	err := policy.Do(ctx, func() error {
		call := observability.CallEvent{Method: http.MethodPost, Host: g.host, Path: "/chat/completions"}
		start := time.Now()

		resp, err := g.client.CreateChatCompletion(ctx, req)
		call.Duration = time.Since(start)
		if err != nil {
			call.Status, call.Err = statusOf(err), err
			rec.Call(ctx, call)
			g.logger.Debug("chat completion failed", "error", err)
			return classify(ctx, err)
		}
		call.Status = http.StatusOK
		rec.Call(ctx, call)

		if len(resp.Choices) == 0 {
			return errors.New(errors.ErrCodeLLMResponse, "model returned no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// statusOf returns the HTTP status carried by a go-openai error, or 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// classify maps a client error to a coded error, marking transient ones
// retryable.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "model request cancelled")
	}

	status := statusOf(err)
	switch {
	case status == http.StatusTooManyRequests:
		return httputil.Retryable(errors.Wrap(errors.ErrCodeRateLimited, err, "model server rate limited"))
	case status != 0 && httputil.TransientStatus(status):
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "model server returned %d", status))
	case status != 0:
		return errors.Wrap(errors.ErrCodeLLMResponse, err, "model server returned %d", status)
	default:
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "model server unreachable"))
	}
}
