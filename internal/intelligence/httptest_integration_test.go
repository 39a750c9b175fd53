package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	t.Cleanup(srv.Close)
	return srv
}

// capturedRequest is the subset of the Ollama request body the tests check.
type capturedRequest struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
}

// ollamaReplying serves every /api/generate call with text and records the
// last request body.
func ollamaReplying(t *testing.T, text string, last *capturedRequest) *httptest.Server {
	return newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if last != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(last))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"model":    "test-model",
			"response": text,
		})
	})
}

func ollamaClientFor(srv *httptest.Server) llm.LLMClient {
	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Model = "test-model"
	cfg.MaxRetries = 0
	return llm.NewOllamaClient(cfg, llm.NoopObserver{})
}

// TestPlanGenerator_WithHTTPTestServer runs the whole path from the Ollama
// wire format through JSON extraction to agenda items.
func TestPlanGenerator_WithHTTPTestServer(t *testing.T) {
	var req capturedRequest
	srv := ollamaReplying(t, `{
		"title": "Counselling Clinic",
		"agenda": [
			{"activity_id": "act-open-01", "duration": 10, "justification": "Break the ice."},
			{"activity_id": "act-del-01", "justification": "Core content."}
		]
	}`, &req)

	plan, err := NewPlanGenerator(ollamaClientFor(srv)).Generate(context.Background(), testBrief(), testLibrary())
	require.NoError(t, err)

	assert.Equal(t, "json", req.Format, "plan generation asks for JSON output")
	assert.Equal(t, planSystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "Antibiotic counselling")
	assert.Contains(t, req.Prompt, "act-close-01")

	assert.Equal(t, "Counselling Clinic", plan.Title)
	require.Len(t, plan.Agenda, 2)
	assert.Equal(t, 20, plan.Agenda[1].Duration, "missing duration comes from the library")
	require.NotNil(t, plan.Brief)
	assert.Equal(t, 45, plan.Brief.DurationMinutes)
}

func TestPlanGenerator_WithHTTPTestServer_ProseIsInvalidOutput(t *testing.T) {
	srv := ollamaReplying(t, "Sorry, I can't plan that session.", nil)

	_, err := NewPlanGenerator(ollamaClientFor(srv)).Generate(context.Background(), testBrief(), testLibrary())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanGeneration)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestQuizGenerator_WithHTTPTestServer(t *testing.T) {
	var req capturedRequest
	srv := ollamaReplying(t, `{"questions": [
		{"question": "Warfarin interacts with ___.", "type": "fill-in-the-blank", "options": null, "correctAnswer": "aspirin"},
		{"question": "Ibuprofen is an NSAID.", "type": "true-false", "options": ["True", "False"], "correct_answer": "True"}
	]}`, &req)

	questions, err := NewQuizGenerator(ollamaClientFor(srv)).Generate(context.Background(), domain.QuizRequest{
		Material:     "Warfarin and aspirin raise bleeding risk. Ibuprofen is an NSAID.",
		Difficulty:   domain.DifficultyEasy,
		Distribution: map[domain.QuestionType]int{domain.QuestionFillInBlank: 1, domain.QuestionTrueFalse: 1},
	})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "a total of 2 questions")
	require.Len(t, questions, 2)
	assert.Equal(t, "aspirin", questions[0].CorrectAnswer)
	assert.Empty(t, questions[0].Options)
	assert.Equal(t, domain.QuestionTrueFalse, questions[1].Type)
}

func TestToolAdvisor_WithHTTPTestServer(t *testing.T) {
	var req capturedRequest
	srv := ollamaReplying(t, "  **Open** a new board and share the link.  ", &req)

	tool := domain.Tool{Name: "Padlet", Description: "Online pinboard", UseCase: "Collect case questions"}
	history := []ChatTurn{
		{Role: RoleUser, Content: "Is it free?"},
		{Role: RoleModel, Content: "There is a free tier."},
	}

	answer, updated, err := NewToolAdvisor(ollamaClientFor(srv)).Ask(context.Background(), tool, "How do I start?", history)
	require.NoError(t, err)

	assert.Empty(t, req.Format, "free-text answers do not force JSON")
	assert.Contains(t, req.System, "Padlet")
	assert.True(t, strings.HasPrefix(req.Prompt, "Trainer: Is it free?"))
	assert.True(t, strings.HasSuffix(req.Prompt, "Trainer: How do I start?"))

	assert.Equal(t, "**Open** a new board and share the link.", answer)
	assert.Len(t, updated, 4)
	assert.Len(t, history, 2)
}

// TestPlanGenerator_WithHTTPTestServer_Timeout checks that a stalled model
// surfaces as a plan generation failure wrapping llm.ErrTimeout.
func TestPlanGenerator_WithHTTPTestServer_Timeout(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	})

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0
	cfg.Tasks[llm.TaskSessionPlan] = llm.TaskConfig{TimeoutMs: 100, JSON: true}

	start := time.Now()
	_, err := NewPlanGenerator(llm.NewOllamaClient(cfg, llm.NoopObserver{})).
		Generate(context.Background(), testBrief(), testLibrary())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanGeneration)
	assert.ErrorIs(t, err, llm.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}
