package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/llm"
)

var ErrToolAdvice = errors.New("tool advice failed")

// ChatTurn records a single exchange with the tool advisor.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ToolAdvisor answers practical questions about one catalog tool.
type ToolAdvisor interface {
	// Ask returns the answer and history extended with the question and
	// answer. The input history is not modified.
	Ask(ctx context.Context, tool domain.Tool, question string, history []ChatTurn) (string, []ChatTurn, error)
}

type toolAdvisor struct {
	client llm.LLMClient
}

// NewToolAdvisor creates a ToolAdvisor backed by an LLM client.
func NewToolAdvisor(client llm.LLMClient) ToolAdvisor {
	return &toolAdvisor{client: client}
}

func (a *toolAdvisor) Ask(ctx context.Context, tool domain.Tool, question string, history []ChatTurn) (string, []ChatTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", history, fmt.Errorf("%w: question is empty", ErrToolAdvice)
	}

	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskToolAdvice,
		SystemPrompt: toolSystemPrompt(tool),
		UserPrompt:   buildChatPrompt(history, question),
	})
	if err != nil {
		return "", history, fmt.Errorf("%w: %w", ErrToolAdvice, err)
	}

	answer := strings.TrimSpace(resp.Text)
	updated := make([]ChatTurn, len(history), len(history)+2)
	copy(updated, history)
	updated = append(updated,
		ChatTurn{Role: RoleUser, Content: question},
		ChatTurn{Role: RoleModel, Content: answer},
	)
	return answer, updated, nil
}

func toolSystemPrompt(tool domain.Tool) string {
	return fmt.Sprintf(`You are an expert in training technologies and instructional design, acting as a helpful expert for pharmaceutical trainers.
The trainer is asking about a specific tool. Keep answers clear, concise and highly practical.
Use markdown lists and bold text to make steps easy to follow.

Tool context:
- Tool name: %s
- Description: %s
- Use case in pharma training: %s
- Quick start: %s
`, tool.Name, tool.Description, tool.UseCase, tool.QuickStart)
}

func buildChatPrompt(history []ChatTurn, question string) string {
	var b strings.Builder
	for _, turn := range history {
		if turn.Role == RoleModel {
			b.WriteString("Expert: ")
		} else {
			b.WriteString("Trainer: ")
		}
		b.WriteString(turn.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("Trainer: ")
	b.WriteString(question)
	return b.String()
}
