package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/alexanderramin/trainhub/internal/repository"
)

const (
	budgetBarWidth   = 20
	activityColWidth = 36
)

// FormatPlan renders a saved plan: summary line, budget against the brief,
// the timed agenda, justifications and the derived tool list.
func FormatPlan(plan *domain.SessionPlan, activities catalog.ActivityLookup) string {
	var b strings.Builder

	b.WriteString(Bold(plan.Title) + "\n")
	meta := []string{
		plan.DisplayID(),
		fmt.Sprintf("%d min", plan.TotalDuration),
		pluralize(len(plan.Agenda), "activity", "activities"),
	}
	b.WriteString(Dim(strings.Join(meta, " · ")) + "\n")
	if plan.Brief != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("Budget"), RenderBudget(plan.TotalDuration, plan.Brief.DurationMinutes, budgetBarWidth))
		fmt.Fprintf(&b, "%s %s · %s\n", Dim("Brief "), plan.Brief.TrainingType, pluralize(plan.Brief.TraineeCount, "trainee", "trainees"))
	}
	b.WriteString("\n")

	b.WriteString(Header("Agenda") + "\n")
	if len(plan.Agenda) == 0 {
		b.WriteString(Dim("No activities yet. Add one with 'trainhub plan add'.") + "\n")
	} else {
		b.WriteString(FormatAgenda(plan.Agenda, activities, -1))

		b.WriteString("\n" + Header("Why") + "\n")
		for i, item := range plan.Agenda {
			note := item.Justification
			if note == "" {
				note = Dim("--")
			}
			fmt.Fprintf(&b, "%2d. %s\n", i+1, note)
		}
	}

	b.WriteString("\n" + Header("Required tools") + "\n")
	if len(plan.RequiredTools) == 0 {
		b.WriteString(Dim(export.NoToolsRequired) + "\n")
	}
	for _, name := range plan.RequiredTools {
		fmt.Fprintf(&b, "• %s\n", name)
	}

	return b.String()
}

// FormatAgenda renders agenda items as a table. The row at selected, if
// any, is marked with a cursor.
func FormatAgenda(items []domain.AgendaItem, activities catalog.ActivityLookup, selected int) string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		title, category := export.UnknownActivity, domain.ActivityCategory("")
		if activities != nil {
			if a, ok := activities.Activity(item.ActivityID); ok {
				title, category = a.Title, a.Category
			}
		}
		row := []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%d-%d", item.StartTime, item.EndTime),
			strconv.Itoa(item.Duration),
			Truncate(title, activityColWidth),
			CategoryLabel(category),
		}
		if selected >= 0 {
			marker := " "
			if i == selected {
				marker = StyleHeader.Render("▸")
			}
			row = append([]string{marker}, row...)
		}
		rows = append(rows, row)
	}
	headers := []string{"#", "TIME", "MIN", "ACTIVITY", "CATEGORY"}
	if selected >= 0 {
		return RenderTable(append([]string{" "}, headers...), rows, 1, 3)
	}
	return RenderTable(headers, rows, 0, 2)
}

// FormatPlanList renders saved plan summaries, newest first as returned by
// the repository.
func FormatPlanList(plans []repository.PlanSummary, now time.Time) string {
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		updated := "--"
		if t, err := time.Parse(time.RFC3339Nano, p.UpdatedAt); err == nil {
			updated = HumanTimestampFrom(t, now)
		} else if p.UpdatedAt != "" {
			updated = p.UpdatedAt
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Truncate(p.Title, activityColWidth),
			strconv.Itoa(p.ItemCount),
			FormatMinutes(p.TotalDuration),
			Dim(updated),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "ITEMS", "LENGTH", "UPDATED"}, rows, 2, 3)
}

// FormatUnknownActivities warns about agenda ids the catalog could not
// resolve. It returns "" when there are none.
func FormatUnknownActivities(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return StyleYellow.Render(fmt.Sprintf("⚠ %s not in the library: %s",
		pluralize(len(ids), "activity", "activities"), strings.Join(ids, ", ")))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
