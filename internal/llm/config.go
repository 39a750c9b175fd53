package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskSessionPlan TaskType = "session_plan"
	TaskQuiz        TaskType = "quiz"
	TaskToolAdvice  TaskType = "tool_advice"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

const (
	DefaultOllamaModel = "llama3.2"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
	// JSON asks the provider for a JSON response where supported.
	JSON bool
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      DefaultOllamaModel,
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSessionPlan: {Temperature: 0.4, MaxTokens: 4096, TimeoutMs: 60000, JSON: true},
			TaskQuiz:        {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 45000, JSON: true},
			TaskToolAdvice:  {Temperature: 0.5, MaxTokens: 1024, TimeoutMs: 20000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("TRAINHUB_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TRAINHUB_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TRAINHUB_LLM_PROVIDER"); v != "" {
		switch p := Provider(strings.ToLower(strings.TrimSpace(v))); p {
		case ProviderOllama, ProviderGemini:
			cfg.Provider = p
		}
	}
	if cfg.Provider == ProviderGemini {
		cfg.Model = DefaultGeminiModel
		cfg.Endpoint = ""
	}
	if v := os.Getenv("TRAINHUB_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TRAINHUB_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	cfg.APIKey = os.Getenv("TRAINHUB_LLM_API_KEY")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("TRAINHUB_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TRAINHUB_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskSessionPlan, "TRAINHUB_LLM_PLAN_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskQuiz, "TRAINHUB_LLM_QUIZ_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskToolAdvice, "TRAINHUB_LLM_ADVICE_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
