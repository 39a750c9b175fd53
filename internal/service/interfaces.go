package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/alexanderramin/trainhub/internal/repository"
)

// GenerateResult is a freshly generated and saved plan. UnknownActivityIDs
// lists agenda ids the generator returned that the catalog does not know;
// they stay in the plan and render with fallback text.
type GenerateResult struct {
	Plan               *domain.SessionPlan
	UnknownActivityIDs []string
}

// PlanService owns the lifecycle of saved session plans. Plan ids accept a
// unique prefix. Every edit loads, mutates through the agenda planner and
// saves inside one transaction.
type PlanService interface {
	Generate(ctx context.Context, brief domain.PlanBrief) (*GenerateResult, error)
	// Regenerate replaces the agenda using the plan's stored brief. On
	// failure the saved plan is left as it was.
	Regenerate(ctx context.Context, id string) (*GenerateResult, error)
	Get(ctx context.Context, id string) (*domain.SessionPlan, error)
	List(ctx context.Context) ([]repository.PlanSummary, error)
	Delete(ctx context.Context, id string) error

	AddActivity(ctx context.Context, id, activityID string) (*domain.SessionPlan, error)
	RemoveActivity(ctx context.Context, id string, index int) (*domain.SessionPlan, error)
	MoveActivity(ctx context.Context, id string, from, to int) (*domain.SessionPlan, error)
	// SetDuration parses raw the way a number field does; junk reads as 0.
	SetDuration(ctx context.Context, id string, index int, raw string) (*domain.SessionPlan, error)
	Rename(ctx context.Context, id, title string) (*domain.SessionPlan, error)
	// Save replaces a plan's title and agenda with an edited copy, for
	// editors that batch several changes. Derived fields are recomputed.
	Save(ctx context.Context, plan *domain.SessionPlan) (*domain.SessionPlan, error)

	ExportText(ctx context.Context, id string) (string, error)
	ExportCalendar(ctx context.Context, id string, start time.Time) (string, error)
}

// QuizService writes quizzes from training material.
type QuizService interface {
	Generate(ctx context.Context, req domain.QuizRequest) ([]domain.QuizQuestion, error)
}

// AdviceService answers questions about a catalog tool.
type AdviceService interface {
	Ask(ctx context.Context, toolIDOrName, question string, history []intelligence.ChatTurn) (string, []intelligence.ChatTurn, error)
}
