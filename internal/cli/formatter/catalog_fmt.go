package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
)

// FormatActivityList renders library activities as a table.
func FormatActivityList(activities []domain.Activity) string {
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{
			Dim(a.ID),
			Truncate(a.Title, activityColWidth),
			CategoryLabel(a.Category),
			strconv.Itoa(a.Duration),
			string(a.GroupSize),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "CATEGORY", "MIN", "GROUP"}, rows, 3)
}

// FormatActivity renders one activity card.
func FormatActivity(a *domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", CategoryLabel(a.Category), Dim(a.ID))
	fmt.Fprintf(&b, "%s · %s\n\n", FormatMinutes(a.Duration), a.GroupSize)

	section(&b, "Objective", a.Objective)
	section(&b, "Tools", a.Tools)
	section(&b, "Instructions", a.Instructions)
	section(&b, "Pharma example", a.PharmaExample)
	if len(a.Tags) > 0 {
		section(&b, "Tags", strings.Join(a.Tags, ", "))
	}
	return RenderBox(a.Title, strings.TrimRight(b.String(), "\n"))
}

// FormatToolList renders toolbox entries as a table.
func FormatToolList(tools []domain.Tool) string {
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		rows = append(rows, []string{
			Dim(t.ID),
			t.Name,
			string(t.Category),
			Truncate(t.Description, 48),
		})
	}
	return RenderTable([]string{"ID", "NAME", "CATEGORY", "DESCRIPTION"}, rows)
}

// FormatTool renders one tool with the activities that mention it.
func FormatTool(t *domain.Tool, related []domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", StyleBlue.Render(string(t.Category)), Dim(t.ID))

	section(&b, "Description", t.Description)
	section(&b, "Use in training", t.UseCase)
	section(&b, "Quick start", t.QuickStart)

	b.WriteString(StyleHeader.Render("Used by") + "\n")
	if len(related) == 0 {
		b.WriteString(Dim("No library activity mentions this tool.") + "\n")
	}
	for _, a := range related {
		fmt.Fprintf(&b, "• %s %s\n", a.Title, Dim("("+a.ID+")"))
	}
	return RenderBox(t.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatAdvice renders a tool advisor answer.
func FormatAdvice(toolName, answer string) string {
	return fmt.Sprintf("%s %s\n\n%s\n", StylePurple.Render("◆"), Bold(toolName+" expert"), answer)
}

func section(b *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "%s\n%s\n\n", StyleHeader.Render(title), body)
}
