package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBudget renders how much of the requested session length the agenda
// uses, like [██████░░] 45/60 min. An agenda past the budget fills the bar
// and turns red; one well short of it is yellow.
func RenderBudget(total, budget, width int) string {
	if width < 2 {
		width = 2
	}
	if budget <= 0 {
		return Dim(fmt.Sprintf("%d min (no target)", total))
	}

	pct := float64(total) / float64(budget)
	filled := min(int(pct*float64(width)), width)
	filled = max(filled, 0)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case total > budget:
		style = StyleRed
	case pct < 0.8:
		style = StyleYellow
	}

	label := fmt.Sprintf("%d/%d min", total, budget)
	if over := total - budget; over > 0 {
		label += fmt.Sprintf(" (+%d over)", over)
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), label)
}
