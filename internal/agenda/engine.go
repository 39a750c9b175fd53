// Package agenda keeps a session agenda internally consistent. Recalculate is
// the only code that writes start/end times, total duration and required
// tools; every plan mutation in this package routes through it.
package agenda

import (
	"strings"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
)

// Result holds the derived state for an agenda.
type Result struct {
	Agenda        []domain.AgendaItem
	TotalDuration int
	RequiredTools []string
}

// Recalculate lays the items out back to back from minute zero and derives
// the required tool set. The input slice is not modified.
//
// Durations are authoritative; a negative duration is treated as zero so the
// timeline never runs backwards.
func Recalculate(items []domain.AgendaItem, tools []domain.Tool, activities catalog.ActivityLookup) Result {
	out := make([]domain.AgendaItem, len(items))
	clock := 0
	for i, item := range items {
		if item.Duration < 0 {
			item.Duration = 0
		}
		item.StartTime = clock
		item.EndTime = clock + item.Duration
		clock = item.EndTime
		out[i] = item
	}

	return Result{
		Agenda:        out,
		TotalDuration: clock,
		RequiredTools: RequiredTools(out, tools, activities),
	}
}

// RequiredTools returns the names of catalog tools mentioned by any resolved
// agenda activity, deduplicated in first-seen order. Items whose activity
// cannot be resolved contribute nothing.
func RequiredTools(items []domain.AgendaItem, tools []domain.Tool, activities catalog.ActivityLookup) []string {
	required := []string{}
	if activities == nil {
		return required
	}

	lowered := make([]string, len(tools))
	for i, t := range tools {
		lowered[i] = strings.ToLower(t.Name)
	}

	seen := make(map[string]bool, len(tools))
	for _, item := range items {
		a, ok := activities.Activity(item.ActivityID)
		if !ok {
			continue
		}
		text := strings.ToLower(a.Tools)
		for i, t := range tools {
			if seen[t.Name] || lowered[i] == "" {
				continue
			}
			if strings.Contains(text, lowered[i]) {
				seen[t.Name] = true
				required = append(required, t.Name)
			}
		}
	}
	return required
}

// Apply returns a copy of plan with every derived field recomputed.
func Apply(plan *domain.SessionPlan, tools []domain.Tool, activities catalog.ActivityLookup) *domain.SessionPlan {
	out := plan.Clone()
	r := Recalculate(out.Agenda, tools, activities)
	out.Agenda = r.Agenda
	out.TotalDuration = r.TotalDuration
	out.RequiredTools = r.RequiredTools
	return out
}
