package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_OllamaDisabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, DefaultOllamaModel, cfg.Model)
	assert.True(t, cfg.Tasks[TaskSessionPlan].JSON)
	assert.False(t, cfg.Tasks[TaskToolAdvice].JSON)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("TRAINHUB_LLM_TIMEOUT_MS", "9000")
	t.Setenv("TRAINHUB_LLM_PLAN_TIMEOUT_MS", "90000")
	t.Setenv("TRAINHUB_LLM_QUIZ_TIMEOUT_MS", "7000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 90000, cfg.TaskTimeout(TaskSessionPlan))
	assert.Equal(t, 7000, cfg.TaskTimeout(TaskQuiz))
	assert.Equal(t, 20000, cfg.TaskTimeout(TaskToolAdvice))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("TRAINHUB_LLM_PLAN_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 60000, cfg.TaskTimeout(TaskSessionPlan))
}

func TestLoadConfig_UnknownTaskFallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.TimeoutMs, cfg.TaskTimeout("summarize"))
}

func TestLoadConfig_GeminiProvider(t *testing.T) {
	t.Setenv("TRAINHUB_LLM_ENABLED", "true")
	t.Setenv("TRAINHUB_LLM_PROVIDER", " Gemini ")
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Empty(t, cfg.Endpoint)
	assert.Equal(t, "from-gemini-env", cfg.APIKey)
}

func TestLoadConfig_ExplicitKeyAndModelWin(t *testing.T) {
	t.Setenv("TRAINHUB_LLM_PROVIDER", "gemini")
	t.Setenv("TRAINHUB_LLM_API_KEY", "explicit")
	t.Setenv("GEMINI_API_KEY", "fallback")
	t.Setenv("TRAINHUB_LLM_MODEL", "gemini-2.0-flash")

	cfg := LoadConfig()

	assert.Equal(t, "explicit", cfg.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestLoadConfig_UnknownProviderIgnored(t *testing.T) {
	t.Setenv("TRAINHUB_LLM_PROVIDER", "openai")
	t.Setenv("TRAINHUB_LLM_MAX_RETRIES", "-1")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 1, cfg.MaxRetries)
}
