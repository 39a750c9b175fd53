// Package export renders session plans and quizzes as downloadable documents.
// Transforms never recalculate; they trust the plan's derived fields.
package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
)

// Fallback literals for agenda items whose activity cannot be resolved.
const (
	UnknownActivity  = "Unknown Activity"
	UnknownCategory  = "N/A"
	UntitledActivity = "Training Activity"
	NoToolsRequired  = "No specific tools required."
)

const rule = "--------------------"

// CategoryLabel maps a category to its display text.
type CategoryLabel func(domain.ActivityCategory) string

// DefaultCategoryLabel displays the category name as stored.
func DefaultCategoryLabel(c domain.ActivityCategory) string {
	return string(c)
}

// resolved is an agenda item joined with its activity, or with fallbacks.
type resolved struct {
	title    string
	category string
	found    bool
}

func resolve(item domain.AgendaItem, activities catalog.ActivityLookup, label CategoryLabel, missingTitle string) resolved {
	if label == nil {
		label = DefaultCategoryLabel
	}
	if activities != nil {
		if a, ok := activities.Activity(item.ActivityID); ok {
			title := a.Title
			if title == "" {
				title = missingTitle
			}
			return resolved{title: title, category: label(a.Category), found: true}
		}
	}
	return resolved{title: missingTitle, category: UnknownCategory}
}

// PlainText renders plan as a line-oriented agenda document.
func PlainText(plan *domain.SessionPlan, activities catalog.ActivityLookup, label CategoryLabel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session Plan: %s\n", plan.Title)
	fmt.Fprintf(&b, "Total Duration: %d minutes\n\n", plan.TotalDuration)

	b.WriteString(rule + "\n")
	b.WriteString("Required Tools:\n")
	if len(plan.RequiredTools) == 0 {
		b.WriteString(NoToolsRequired + "\n")
	}
	for _, name := range plan.RequiredTools {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString(rule + "\n\n")

	b.WriteString("Agenda:\n\n")
	for _, item := range plan.Agenda {
		r := resolve(item, activities, label, UnknownActivity)
		fmt.Fprintf(&b, "(%d-%d min | Duration: %d min) - %s\n", item.StartTime, item.EndTime, item.Duration, r.title)
		fmt.Fprintf(&b, "  Category: %s\n", r.category)
		fmt.Fprintf(&b, "  Justification: %s\n\n", item.Justification)
	}

	return b.String()
}
