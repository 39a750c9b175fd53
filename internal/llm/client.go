package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend can serve requests.
	Available(ctx context.Context) bool
}

// NewClient builds the client for cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// callParams resolves the task defaults and request overrides for one call.
type callParams struct {
	temperature float64
	maxTokens   int
	json        bool
}

func resolveParams(cfg LLMConfig, req GenerateRequest) callParams {
	taskCfg := cfg.Tasks[req.Task]
	p := callParams{
		temperature: taskCfg.Temperature,
		maxTokens:   taskCfg.MaxTokens,
		json:        taskCfg.JSON,
	}
	if req.Temperature != nil {
		p.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.maxTokens = *req.MaxTokens
	}
	return p
}

// attemptFunc performs one provider round trip and returns text and model.
type attemptFunc func(ctx context.Context) (text, model string, err error)

// generateWithRetry runs attempt up to 1+MaxRetries times, each bounded by
// the task timeout, and reports the outcome to observer.
func generateWithRetry(ctx context.Context, cfg LLMConfig, observer Observer, task TaskType, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()
	timeout := time.Duration(cfg.TaskTimeout(task)) * time.Millisecond

	var lastErr error
	attempts := 1 + cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, model, err := attempt(attemptCtx)
		cancel()
		if err == nil {
			if model == "" {
				model = cfg.Model
			}
			latency := time.Since(start).Milliseconds()
			observer.OnCallComplete(LLMCallEvent{
				Task:      task,
				Model:     model,
				LatencyMs: latency,
				Success:   true,
				Attempts:  i + 1,
			})
			return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
		}
		lastErr = err

		// Caller cancellation ends the loop; a per-attempt timeout does not.
		if ctx.Err() != nil {
			break
		}
	}

	var err error
	switch {
	case ctx.Err() != nil, errors.Is(lastErr, context.DeadlineExceeded):
		err = ErrTimeout
	case isConnectionError(lastErr):
		err = ErrOllamaUnavailable
	default:
		err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(err),
		Attempts:  attempts,
	})
	return nil, err
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to a local Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	p := resolveParams(c.cfg, req)

	body := ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: p.temperature,
			NumPredict:  p.maxTokens,
		},
	}
	if p.json {
		body.Format = "json"
	}

	return generateWithRetry(ctx, c.cfg, c.observer, req.Task, func(ctx context.Context) (string, string, error) {
		resp, err := c.doRequest(ctx, body)
		if err != nil {
			return "", "", err
		}
		return resp.Response, resp.Model, nil
	})
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if resp.Response == "" {
		return nil, ErrEmptyResponse
	}

	return &resp, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
