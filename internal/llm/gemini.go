package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiModel is the slice of *genai.GenerativeModel the client uses.
type geminiModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// geminiClient implements LLMClient on the Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	model    func(req GenerateRequest) geminiModel
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by Gemini. The API key comes
// from cfg.APIKey; cfg.Endpoint, when set, overrides the API host.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	c := &geminiClient{cfg: cfg, client: client, observer: observer}
	c.model = c.configuredModel
	return c, nil
}

// configuredModel applies the task parameters to a fresh model handle.
func (c *geminiClient) configuredModel(req GenerateRequest) geminiModel {
	p := resolveParams(c.cfg, req)

	m := c.client.GenerativeModel(c.cfg.Model)
	m.SetTemperature(float32(p.temperature))
	if p.maxTokens > 0 {
		m.SetMaxOutputTokens(int32(p.maxTokens))
	}
	if p.json {
		m.ResponseMIMEType = "application/json"
	}
	if req.SystemPrompt != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}
	return m
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := c.model(req)
	return generateWithRetry(ctx, c.cfg, c.observer, req.Task, func(ctx context.Context) (string, string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
		if err != nil {
			return "", "", err
		}
		text := responseText(resp)
		if text == "" {
			return "", "", ErrEmptyResponse
		}
		return text, c.cfg.Model, nil
	})
}

// Available reports whether a key is configured. Gemini has no cheap
// unauthenticated health endpoint.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}

// Close releases the underlying connection.
func (c *geminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
