package agenda

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
)

// ErrInvalidIndex is returned when an agenda position is out of range.
// The plan is left unchanged.
var ErrInvalidIndex = errors.New("agenda index out of range")

// DefaultJustification is attached to items the trainer adds by hand.
const DefaultJustification = "Added by trainer."

// Planner applies mutations to session plans against a fixed catalog. Every
// method returns a new, fully recalculated plan; the input is never modified.
type Planner struct {
	tools      []domain.Tool
	activities catalog.ActivityLookup
}

// NewPlanner binds the mutation operations to a tool list and activity lookup.
func NewPlanner(tools []domain.Tool, activities catalog.ActivityLookup) *Planner {
	return &Planner{
		tools:      append([]domain.Tool(nil), tools...),
		activities: activities,
	}
}

// Recalculate returns plan with its derived fields recomputed. Externally
// generated plans must pass through here before their timings are trusted.
func (p *Planner) Recalculate(plan *domain.SessionPlan) *domain.SessionPlan {
	return Apply(plan, p.tools, p.activities)
}

// AddActivity appends the activity with its catalog duration. There is no
// budget check; a trainer may overshoot the requested session length.
func (p *Planner) AddActivity(plan *domain.SessionPlan, activity domain.Activity) *domain.SessionPlan {
	next := plan.Clone()
	next.Agenda = append(next.Agenda, domain.AgendaItem{
		ActivityID:    activity.ID,
		Duration:      activity.Duration,
		Justification: DefaultJustification,
	})
	return p.Recalculate(next)
}

// RemoveActivity deletes the item at index.
func (p *Planner) RemoveActivity(plan *domain.SessionPlan, index int) (*domain.SessionPlan, error) {
	if err := checkIndex(plan, index); err != nil {
		return plan, err
	}
	next := plan.Clone()
	next.Agenda = append(next.Agenda[:index], next.Agenda[index+1:]...)
	return p.Recalculate(next), nil
}

// ReorderActivity moves the item at from so that it ends up at position to.
// Items in between shift by one. Equal indices leave the order unchanged.
func (p *Planner) ReorderActivity(plan *domain.SessionPlan, from, to int) (*domain.SessionPlan, error) {
	if err := checkIndex(plan, from); err != nil {
		return plan, err
	}
	if err := checkIndex(plan, to); err != nil {
		return plan, err
	}
	next := plan.Clone()
	next.Agenda = move(next.Agenda, from, to)
	return p.Recalculate(next), nil
}

// SetItemDuration parses raw trainer input and applies it as the item's
// duration. Unparsable or negative input becomes zero.
func (p *Planner) SetItemDuration(plan *domain.SessionPlan, index int, raw string) (*domain.SessionPlan, error) {
	return p.SetItemMinutes(plan, index, ParseDuration(raw))
}

// SetItemMinutes sets the item's duration, clamping negative values to zero.
func (p *Planner) SetItemMinutes(plan *domain.SessionPlan, index, minutes int) (*domain.SessionPlan, error) {
	if err := checkIndex(plan, index); err != nil {
		return plan, err
	}
	if minutes < 0 {
		minutes = 0
	}
	next := plan.Clone()
	next.Agenda[index].Duration = minutes
	return p.Recalculate(next), nil
}

// Rename replaces the plan title. Timing is unaffected so nothing is
// recalculated.
func Rename(plan *domain.SessionPlan, title string) *domain.SessionPlan {
	next := plan.Clone()
	next.Title = title
	return next
}

// ParseDuration reads a leading integer from raw the way a number field does:
// surrounding space is ignored, trailing junk after the digits is dropped
// ("12.5" and "12min" read as 12) and anything without digits, negative, or
// out of range reads as 0.
func ParseDuration(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	sign := ""
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func checkIndex(plan *domain.SessionPlan, index int) error {
	if index < 0 || index >= len(plan.Agenda) {
		return fmt.Errorf("%w: %d (agenda has %d items)", ErrInvalidIndex, index, len(plan.Agenda))
	}
	return nil
}

// move splices items[from] out and back in at to, in place.
func move(items []domain.AgendaItem, from, to int) []domain.AgendaItem {
	if from == to {
		return items
	}
	item := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = item
	return items
}
