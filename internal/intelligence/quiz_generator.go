package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/llm"
)

var (
	ErrQuizGeneration = errors.New("quiz generation failed")
	ErrInvalidQuiz    = errors.New("invalid quiz request")
)

// QuizGenerator writes quiz questions from pasted training material.
type QuizGenerator interface {
	Generate(ctx context.Context, req domain.QuizRequest) ([]domain.QuizQuestion, error)
}

type llmQuizGenerator struct {
	client llm.LLMClient
}

// NewQuizGenerator creates a QuizGenerator backed by an LLM client.
func NewQuizGenerator(client llm.LLMClient) QuizGenerator {
	return &llmQuizGenerator{client: client}
}

// rawQuestion tolerates the shapes models return: camelCase answers and
// options that are not an array.
type rawQuestion struct {
	Question           string          `json:"question"`
	Type               string          `json:"type"`
	Options            json.RawMessage `json:"options"`
	CorrectAnswer      string          `json:"correct_answer"`
	CorrectAnswerCamel string          `json:"correctAnswer"`
	Explanation        string          `json:"explanation"`
}

func (g *llmQuizGenerator) Generate(ctx context.Context, req domain.QuizRequest) ([]domain.QuizQuestion, error) {
	if err := validateQuizRequest(&req); err != nil {
		return nil, err
	}
	if req.TotalQuestions() == 0 {
		return []domain.QuizQuestion{}, nil
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskQuiz,
		SystemPrompt: quizSystemPrompt,
		UserPrompt:   buildQuizPrompt(req),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuizGeneration, err)
	}

	raw, err := llm.ExtractJSONList[rawQuestion](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuizGeneration, err)
	}
	return normalizeQuestions(raw), nil
}

func validateQuizRequest(req *domain.QuizRequest) error {
	if strings.TrimSpace(req.Material) == "" {
		return fmt.Errorf("%w: material is required", ErrInvalidQuiz)
	}
	if req.Difficulty == "" {
		req.Difficulty = domain.DifficultyMedium
	}
	if !domain.ValidDifficulties[req.Difficulty] {
		return fmt.Errorf("%w: difficulty %q must be Easy, Medium or Hard", ErrInvalidQuiz, req.Difficulty)
	}
	for qt, n := range req.Distribution {
		if n > 0 && !validQuestionType(qt) {
			return fmt.Errorf("%w: unknown question type %q", ErrInvalidQuiz, qt)
		}
	}
	return nil
}

func validQuestionType(qt domain.QuestionType) bool {
	for _, known := range domain.QuestionTypes {
		if qt == known {
			return true
		}
	}
	return false
}

// normalizeQuestions fills defaults: unknown type becomes multiple-choice,
// non-array options become empty.
func normalizeQuestions(raw []rawQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, 0, len(raw))
	for _, r := range raw {
		qt := domain.QuestionType(strings.TrimSpace(r.Type))
		if !validQuestionType(qt) {
			qt = domain.QuestionMultipleChoice
		}

		var options []string
		if err := json.Unmarshal(r.Options, &options); err != nil || options == nil {
			options = []string{}
		}

		answer := r.CorrectAnswer
		if answer == "" {
			answer = r.CorrectAnswerCamel
		}

		out = append(out, domain.QuizQuestion{
			Question:      r.Question,
			Type:          qt,
			Options:       options,
			CorrectAnswer: answer,
			Explanation:   r.Explanation,
		})
	}
	return out
}

const quizSystemPrompt = `You are an assessment designer for pharmaceutical training. You write clear, unambiguous quiz questions grounded strictly in the material you are given.

You MUST output ONLY a JSON array. Each element has exactly these fields:
{
  "question": "question text; fill-in-the-blank questions contain ___ for the blank",
  "type": "multiple-choice" | "true-false" | "fill-in-the-blank",
  "options": ["..."],
  "correct_answer": "text of the correct option, True/False, or the missing word",
  "explanation": "optional short explanation"
}`

func buildQuizPrompt(req domain.QuizRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following training material, generate a quiz with a total of %d questions.\n", req.TotalQuestions())
	fmt.Fprintf(&b, "The difficulty level should be %q. The questions should be in English.\n\n", req.Difficulty)

	b.WriteString("The quiz must have the following composition:\n")
	for _, qt := range domain.QuestionTypes {
		if n := req.Distribution[qt]; n > 0 {
			fmt.Fprintf(&b, "- %d %s questions\n", n, strings.ReplaceAll(string(qt), "-", " "))
		}
	}

	b.WriteString("\nFor multiple-choice, provide 4 distinct options.\n")
	b.WriteString("For true-false, the options array MUST contain only \"True\" and \"False\".\n")
	b.WriteString("For fill-in-the-blank, the question text must contain \"___\" and the options array must be empty.\n\n")

	objectives := strings.TrimSpace(req.Objectives)
	if objectives == "" {
		objectives = "General understanding of the material."
	}
	fmt.Fprintf(&b, "Key learning objectives to focus on:\n---\n%s\n---\n\n", objectives)

	if req.IncludeExplanations {
		b.WriteString("For each question you MUST also provide a brief explanation of why the correct answer is correct, based on the material.\n\n")
	}

	fmt.Fprintf(&b, "Training material:\n---\n%s\n---\n", strings.TrimSpace(req.Material))
	return b.String()
}
