package agenda

import (
	"testing"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlanner() *Planner {
	return NewPlanner(testTools, testLookup())
}

func planOf(durations ...int) *domain.SessionPlan {
	return testPlanner().Recalculate(&domain.SessionPlan{
		ID:     "plan-1",
		Title:  "Antibiotic counselling",
		Agenda: items(durations...),
	})
}

func activityIDs(p *domain.SessionPlan) []string {
	ids := make([]string, len(p.Agenda))
	for i, it := range p.Agenda {
		ids[i] = it.ActivityID
	}
	return ids
}

func TestPlanner_RemoveThenAdd(t *testing.T) {
	p := testPlanner()
	a := planOf(10, 15)

	b, err := p.RemoveActivity(a, 0)
	require.NoError(t, err)
	require.Len(t, b.Agenda, 1)
	assert.Equal(t, "b", b.Agenda[0].ActivityID)
	assert.Equal(t, 0, b.Agenda[0].StartTime)
	assert.Equal(t, 15, b.Agenda[0].EndTime)
	assert.Equal(t, 15, b.TotalDuration)

	c := p.AddActivity(b, testActivities["c"])
	require.Len(t, c.Agenda, 2)
	assert.Equal(t, 0, c.Agenda[0].StartTime)
	assert.Equal(t, 15, c.Agenda[0].EndTime)
	assert.Equal(t, 15, c.Agenda[1].StartTime)
	assert.Equal(t, 35, c.Agenda[1].EndTime)
	assert.Equal(t, 35, c.TotalDuration)
}

func TestPlanner_NegativeDurationInputBecomesZero(t *testing.T) {
	p := testPlanner()
	plan := planOf(10, 15)

	out, err := p.SetItemDuration(plan, 0, "-5")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Agenda[0].Duration)
	assert.Equal(t, 0, out.Agenda[1].StartTime)
	assert.Equal(t, 15, out.TotalDuration)
}

func TestPlanner_AddActivity(t *testing.T) {
	p := testPlanner()
	plan := planOf(10)

	out := p.AddActivity(plan, testActivities["b"])

	require.Len(t, out.Agenda, 2)
	added := out.Agenda[1]
	assert.Equal(t, "b", added.ActivityID)
	assert.Equal(t, 15, added.Duration)
	assert.Equal(t, DefaultJustification, added.Justification)
	assert.Equal(t, 25, out.TotalDuration)
	assert.Contains(t, out.RequiredTools, "Kahoot")

	assert.Len(t, plan.Agenda, 1, "input plan untouched")
	assert.NotContains(t, plan.RequiredTools, "Kahoot")
}

func TestPlanner_AddActivity_NoBudgetCheck(t *testing.T) {
	p := testPlanner()
	plan := planOf(10)
	plan.Brief = &domain.PlanBrief{DurationMinutes: 10}

	out := p.AddActivity(plan, testActivities["c"])
	assert.Equal(t, 30, out.TotalDuration)
}

func TestPlanner_AddActivity_EmptyPlan(t *testing.T) {
	out := testPlanner().AddActivity(&domain.SessionPlan{Title: "New"}, testActivities["a"])
	require.Len(t, out.Agenda, 1)
	assert.Equal(t, 10, out.TotalDuration)
	assert.Equal(t, []string{"Flipchart"}, out.RequiredTools)
}

func TestPlanner_RemoveActivity_RecomputesTools(t *testing.T) {
	p := testPlanner()
	plan := planOf(10, 15)
	require.Contains(t, plan.RequiredTools, "Kahoot")

	out, err := p.RemoveActivity(plan, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flipchart"}, out.RequiredTools)
}

func TestPlanner_RemoveActivity_LastItem(t *testing.T) {
	out, err := testPlanner().RemoveActivity(planOf(10), 0)
	require.NoError(t, err)
	assert.Empty(t, out.Agenda)
	assert.Equal(t, 0, out.TotalDuration)
	assert.Empty(t, out.RequiredTools)
}

func TestPlanner_InvalidIndexLeavesPlanUnchanged(t *testing.T) {
	p := testPlanner()
	plan := planOf(10, 15, 20)

	tests := []struct {
		name string
		run  func() (*domain.SessionPlan, error)
	}{
		{"remove negative", func() (*domain.SessionPlan, error) { return p.RemoveActivity(plan, -1) }},
		{"remove past end", func() (*domain.SessionPlan, error) { return p.RemoveActivity(plan, 3) }},
		{"reorder bad from", func() (*domain.SessionPlan, error) { return p.ReorderActivity(plan, 5, 0) }},
		{"reorder bad to", func() (*domain.SessionPlan, error) { return p.ReorderActivity(plan, 0, 3) }},
		{"duration bad index", func() (*domain.SessionPlan, error) { return p.SetItemDuration(plan, 9, "10") }},
		{"minutes bad index", func() (*domain.SessionPlan, error) { return p.SetItemMinutes(plan, -2, 10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.run()
			require.ErrorIs(t, err, ErrInvalidIndex)
			assert.Same(t, plan, out)
			assert.Equal(t, []string{"a", "b", "c"}, activityIDs(plan))
			assert.Equal(t, 45, plan.TotalDuration)
		})
	}
}

func TestPlanner_InvalidIndexOnEmptyPlan(t *testing.T) {
	_, err := testPlanner().ReorderActivity(&domain.SessionPlan{}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestPlanner_ReorderActivity(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"same index is a no-op", 1, 1, []string{"a", "b", "c", "d"}},
		{"first to last", 0, 3, []string{"b", "c", "d", "a"}},
		{"last to first", 3, 0, []string{"d", "a", "b", "c"}},
		{"forward one", 1, 2, []string{"a", "c", "b", "d"}},
		{"backward two", 3, 1, []string{"a", "d", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planOf(10, 15, 20, 5)
			out, err := testPlanner().ReorderActivity(plan, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, activityIDs(out))
			assert.Equal(t, []string{"a", "b", "c", "d"}, activityIDs(plan), "input untouched")
			assert.Equal(t, 50, out.TotalDuration)
			assertPartition(t, Result{Agenda: out.Agenda, TotalDuration: out.TotalDuration})
		})
	}
}

func TestPlanner_SetItemMinutes(t *testing.T) {
	p := testPlanner()
	plan := planOf(10, 15)

	out, err := p.SetItemMinutes(plan, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Agenda[0].EndTime)
	assert.Equal(t, 30, out.Agenda[1].StartTime)
	assert.Equal(t, 45, out.TotalDuration)

	out, err = p.SetItemMinutes(plan, 1, -8)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Agenda[1].Duration)
	assert.Equal(t, 10, out.TotalDuration)
}

func TestPlanner_SetItemDurationUnparsable(t *testing.T) {
	out, err := testPlanner().SetItemDuration(planOf(10, 15), 1, "soon")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Agenda[1].Duration)
	assert.Equal(t, 10, out.TotalDuration)
}

func TestRename(t *testing.T) {
	plan := planOf(10, 15)
	out := Rename(plan, "Asthma inhalers")

	assert.Equal(t, "Asthma inhalers", out.Title)
	assert.Equal(t, "Antibiotic counselling", plan.Title)
	assert.Equal(t, plan.Agenda, out.Agenda)
	assert.Equal(t, plan.TotalDuration, out.TotalDuration)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"15", 15},
		{" 20 ", 20},
		{"+7", 7},
		{"12.5", 12},
		{"12min", 12},
		{"007", 7},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"min12", 0},
		{"-5", 0},
		{"-0", 0},
		{"+", 0},
		{"99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.raw))
		})
	}
}
