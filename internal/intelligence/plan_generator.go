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
	// ErrPlanGeneration wraps every failure to obtain a usable plan from the
	// generator. No partial plan accompanies it.
	ErrPlanGeneration = errors.New("session plan generation failed")

	// ErrInvalidBrief is returned before any model call when the brief is
	// incomplete.
	ErrInvalidBrief = domain.ErrInvalidBrief
)

// PlanGenerator drafts an initial session plan from a brief and the activity
// library it may choose from. Returned plans carry agenda items only; derived
// timing and tool fields must be recalculated by the caller.
type PlanGenerator interface {
	Generate(ctx context.Context, brief domain.PlanBrief, activities []domain.Activity) (*domain.SessionPlan, error)
}

// GenerateFunc adapts a function to PlanGenerator.
type GenerateFunc func(ctx context.Context, brief domain.PlanBrief, activities []domain.Activity) (*domain.SessionPlan, error)

func (f GenerateFunc) Generate(ctx context.Context, brief domain.PlanBrief, activities []domain.Activity) (*domain.SessionPlan, error) {
	return f(ctx, brief, activities)
}

// planResponse is the JSON structure the LLM outputs. The camelCase ids are
// accepted because hosted models drift toward them.
type planResponse struct {
	Title  string             `json:"title"`
	Agenda []planResponseItem `json:"agenda"`
}

type planResponseItem struct {
	ActivityID      string `json:"activity_id"`
	ActivityIDCamel string `json:"activityId"`
	Duration        int    `json:"duration"`
	Justification   string `json:"justification"`
}

func (i planResponseItem) activityID() string {
	if i.ActivityID != "" {
		return strings.TrimSpace(i.ActivityID)
	}
	return strings.TrimSpace(i.ActivityIDCamel)
}

type llmPlanGenerator struct {
	client llm.LLMClient
}

// NewPlanGenerator creates a PlanGenerator backed by an LLM client.
func NewPlanGenerator(client llm.LLMClient) PlanGenerator {
	return &llmPlanGenerator{client: client}
}

func (g *llmPlanGenerator) Generate(ctx context.Context, brief domain.PlanBrief, activities []domain.Activity) (*domain.SessionPlan, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: activity library is empty", ErrPlanGeneration)
	}

	prompt, err := buildPlanPrompt(brief, activities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSessionPlan,
		SystemPrompt: planSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}

	parsed, err := llm.ExtractJSON[planResponse](resp.Text, validatePlanResponse)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}

	plan, err := toSessionPlan(parsed, brief, activities)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanGeneration, err)
	}
	return plan, nil
}

// toSessionPlan converts model output into an agenda. Missing durations are
// filled from the library; ids outside the library are kept as-is.
func toSessionPlan(resp planResponse, brief domain.PlanBrief, activities []domain.Activity) (*domain.SessionPlan, error) {
	durations := make(map[string]int, len(activities))
	for _, a := range activities {
		durations[a.ID] = a.Duration
	}

	items := make([]domain.AgendaItem, 0, len(resp.Agenda))
	for i, it := range resp.Agenda {
		id := it.activityID()
		d := it.Duration
		if d <= 0 {
			d = durations[id]
		}
		if d <= 0 {
			return nil, fmt.Errorf("agenda item %d (%s) has no duration", i, id)
		}
		items = append(items, domain.AgendaItem{
			ActivityID:    id,
			Duration:      d,
			Justification: strings.TrimSpace(it.Justification),
		})
	}

	b := brief
	return &domain.SessionPlan{
		Title:  strings.TrimSpace(resp.Title),
		Agenda: items,
		Brief:  &b,
	}, nil
}

func validatePlanResponse(resp planResponse) error {
	if strings.TrimSpace(resp.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(resp.Agenda) == 0 {
		return fmt.Errorf("agenda must contain at least one activity")
	}
	for i, it := range resp.Agenda {
		if it.activityID() == "" {
			return fmt.Errorf("agenda item %d is missing activity_id", i)
		}
		if it.Duration < 0 {
			return fmt.Errorf("agenda item %d has negative duration %d", i, it.Duration)
		}
	}
	return nil
}

// UnknownActivityIDs lists agenda ids absent from activities, in agenda order.
func UnknownActivityIDs(plan *domain.SessionPlan, activities []domain.Activity) []string {
	known := make(map[string]bool, len(activities))
	for _, a := range activities {
		known[a.ID] = true
	}
	var unknown []string
	for _, it := range plan.Agenda {
		if !known[it.ActivityID] {
			unknown = append(unknown, it.ActivityID)
		}
	}
	return unknown
}

func marshalLibrary(activities []domain.Activity) (string, error) {
	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding activity library: %w", err)
	}
	return string(data), nil
}
