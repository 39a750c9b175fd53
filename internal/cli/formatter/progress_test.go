package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBudget(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		budget int
		width  int
		want   string
	}{
		{"exact", 60, 60, 4, "[████] 60/60 min"},
		{"half", 30, 60, 4, "[██░░] 30/60 min"},
		{"empty agenda", 0, 60, 4, "[░░░░] 0/60 min"},
		{"over budget clamps the bar", 75, 60, 4, "[████] 75/60 min (+15 over)"},
		{"tiny width clamps to 2", 30, 60, 1, "[█░] 30/60 min"},
		{"no budget", 45, 0, 4, "45 min (no target)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderBudget(tt.total, tt.budget, tt.width)))
		})
	}
}

func TestRenderBudget_BarWidthIsStable(t *testing.T) {
	for total := 0; total <= 200; total += 7 {
		bar := stripANSI(RenderBudget(total, 90, 10))
		inner := bar[strings.Index(bar, "[")+1 : strings.Index(bar, "]")]
		assert.Equal(t, 10, strings.Count(inner, filledBlock)+strings.Count(inner, emptyBlock), "total=%d", total)
	}
}
