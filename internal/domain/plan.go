package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AgendaItem is one timed slot in a session agenda. StartTime and EndTime are
// minutes from session start and are derived by the agenda engine.
type AgendaItem struct {
	ActivityID    string `json:"activity_id"`
	Duration      int    `json:"duration"`
	Justification string `json:"justification"`
	StartTime     int    `json:"start_time"`
	EndTime       int    `json:"end_time"`
}

// SessionPlan is a timed training session agenda.
// TotalDuration and RequiredTools are derived from Agenda.
type SessionPlan struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	TotalDuration int          `json:"total_duration"`
	Agenda        []AgendaItem `json:"agenda"`
	RequiredTools []string     `json:"required_tools"`
	Brief         *PlanBrief   `json:"brief,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Clone returns a deep copy so callers can derive a new plan without
// aliasing the agenda or tool slices of the original.
func (p *SessionPlan) Clone() *SessionPlan {
	if p == nil {
		return nil
	}
	c := *p
	c.Agenda = append([]AgendaItem(nil), p.Agenda...)
	c.RequiredTools = append([]string(nil), p.RequiredTools...)
	if p.Brief != nil {
		b := *p.Brief
		c.Brief = &b
	}
	return &c
}

// DisplayID returns the first 8 characters of the plan ID.
func (p *SessionPlan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// ErrInvalidBrief is returned when a plan brief is missing required fields.
var ErrInvalidBrief = errors.New("invalid plan brief")

// PlanBrief is the trainer's request from which a plan is generated.
type PlanBrief struct {
	Topic           string       `json:"topic"`
	Objectives      string       `json:"objectives"`
	TrainingType    TrainingType `json:"training_type"`
	TraineeCount    int          `json:"trainee_count"`
	DurationMinutes int          `json:"duration_minutes"`
	Instructions    string       `json:"instructions,omitempty"`
}

// Validate reports every missing or malformed field at once.
func (b *PlanBrief) Validate() error {
	var problems []string
	if strings.TrimSpace(b.Topic) == "" {
		problems = append(problems, "topic is required")
	}
	if strings.TrimSpace(b.Objectives) == "" {
		problems = append(problems, "objectives are required")
	}
	if !ValidTrainingTypes[b.TrainingType] {
		problems = append(problems, fmt.Sprintf("training type %q must be Summer, Onboarding or Regular", b.TrainingType))
	}
	if b.TraineeCount <= 0 {
		problems = append(problems, "trainee count must be positive")
	}
	if b.DurationMinutes <= 0 {
		problems = append(problems, "duration must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBrief, strings.Join(problems, "; "))
	}
	return nil
}

// GroupSize returns the session group size implied by the trainee count.
func (b *PlanBrief) GroupSize() GroupSize {
	return GroupSizeFor(b.TraineeCount)
}
