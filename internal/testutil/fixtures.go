package testutil

import (
	"time"

	"github.com/alexanderramin/trainhub/internal/agenda"
	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/google/uuid"
)

// TestActivities is a small library covering every category used in tests.
var TestActivities = []domain.Activity{
	{ID: "act-open-01", Title: "Two Truths and a Lie", Category: domain.CategoryOpeners, Objective: "Break the ice.", Duration: 10, Tools: "Flipchart, markers", GroupSize: domain.GroupSmall},
	{ID: "act-del-01", Title: "Product Mini-Lecture", Category: domain.CategoryDelivery, Objective: "Deliver product facts.", Duration: 20, Tools: "PowerPoint slides on the projector", GroupSize: domain.GroupBig},
	{ID: "act-prac-01", Title: "Counselling Role-Play", Category: domain.CategoryPractice, Objective: "Practise counselling.", Duration: 25, Tools: "Printed case cards", GroupSize: domain.GroupSmall},
	{ID: "act-close-01", Title: "Kahoot Recap", Category: domain.CategoryClosing, Objective: "Check learning.", Duration: 10, Tools: "Kahoot! on trainee phones", GroupSize: domain.GroupBoth},
}

// TestTools is the toolbox matching TestActivities.
var TestTools = []domain.Tool{
	{ID: "tool-flip", Name: "Flipchart", Description: "Paper pad on an easel.", Category: domain.ToolCollaboration},
	{ID: "tool-ppt", Name: "PowerPoint", Description: "Slide decks.", Category: domain.ToolPresentation},
	{ID: "tool-kahoot", Name: "Kahoot", Description: "Game-based quizzes.", UseCase: "Recap dosing rules.", QuickStart: "Create a kahoot and share the PIN.", Category: domain.ToolAssessment},
}

// NewTestCatalog returns a catalog built from TestActivities and TestTools.
func NewTestCatalog() *catalog.Catalog {
	c, err := catalog.New(TestActivities, TestTools)
	if err != nil {
		panic(err)
	}
	return c
}

// PlanOption customizes a test plan.
type PlanOption func(*domain.SessionPlan)

// WithItem appends an agenda item.
func WithItem(activityID string, duration int) PlanOption {
	return func(p *domain.SessionPlan) {
		p.Agenda = append(p.Agenda, domain.AgendaItem{
			ActivityID:    activityID,
			Duration:      duration,
			Justification: "Fits the objectives.",
		})
	}
}

func WithBrief(b domain.PlanBrief) PlanOption {
	return func(p *domain.SessionPlan) {
		p.Brief = &b
	}
}

func WithUpdatedAt(t time.Time) PlanOption {
	return func(p *domain.SessionPlan) {
		p.UpdatedAt = t
	}
}

// NewTestPlan builds a plan with derived fields computed against the test
// catalog.
func NewTestPlan(title string, opts ...PlanOption) *domain.SessionPlan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.SessionPlan{
		ID:        uuid.New().String(),
		Title:     title,
		Agenda:    []domain.AgendaItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	cat := NewTestCatalog()
	return agenda.Apply(p, cat.Tools(), cat)
}

// TestBrief is a valid brief for a small onboarding session.
func TestBrief() domain.PlanBrief {
	return domain.PlanBrief{
		Topic:           "Antibiotic counselling",
		Objectives:      "Explain adherence and common side effects.",
		TrainingType:    domain.TrainingOnboarding,
		TraineeCount:    8,
		DurationMinutes: 60,
	}
}
