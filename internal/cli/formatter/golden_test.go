package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/repository"
	"github.com/alexanderramin/trainhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes from a string so golden files
// are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against a golden file in testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")
	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func TestFormatPlan_Golden_WithBrief(t *testing.T) {
	plan := testutil.NewTestPlan("Antibiotic Counselling",
		testutil.WithItem("act-open-01", 10),
		testutil.WithItem("act-del-01", 20),
		testutil.WithItem("retired-activity", 5),
		testutil.WithItem("act-close-01", 10),
		testutil.WithBrief(testutil.TestBrief()),
	)
	plan.ID = "3f2a9c10-5b1e-4c7a-9d2f-7e8a1b2c3d4e"

	goldenTest(t, "plan_with_brief", FormatPlan(plan, testutil.NewTestCatalog()))
}

func TestFormatPlan_Golden_Empty(t *testing.T) {
	plan := testutil.NewTestPlan("Draft")
	plan.ID = "0b7e44d1-0000-4000-8000-000000000000"

	goldenTest(t, "plan_empty", FormatPlan(plan, testutil.NewTestCatalog()))
}

func TestFormatPlanList_Golden(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plans := []repository.PlanSummary{
		{ID: "3f2a9c10-5b1e-4c7a-9d2f-7e8a1b2c3d4e", Title: "Antibiotic Counselling", TotalDuration: 45, ItemCount: 4,
			UpdatedAt: now.Add(-5 * time.Minute).Format(time.RFC3339Nano)},
		{ID: "0b7e44d1-0000-4000-8000-000000000000", Title: "Diabetes Refresher", TotalDuration: 90, ItemCount: 7,
			UpdatedAt: now.AddDate(0, 0, -3).Format(time.RFC3339Nano)},
		{ID: "9c1d2e3f-0000-4000-8000-000000000000", Title: "Draft"},
	}

	goldenTest(t, "plan_list", FormatPlanList(plans, now))
}

func TestFormatActivityList_Golden(t *testing.T) {
	goldenTest(t, "activity_list", FormatActivityList(testutil.TestActivities))
}

func TestFormatToolList_Golden(t *testing.T) {
	goldenTest(t, "tool_list", FormatToolList(testutil.TestTools))
}

func TestFormatQuiz_Golden(t *testing.T) {
	questions := []domain.QuizQuestion{
		{
			Question:      "Which class does amoxicillin belong to?",
			Type:          domain.QuestionMultipleChoice,
			Options:       []string{"Macrolides", "Penicillins", "Tetracyclines"},
			CorrectAnswer: "Penicillins",
			Explanation:   "Amoxicillin is an aminopenicillin.",
		},
		{
			Question:      "Amoxicillin should be taken with food to avoid stomach upset.",
			Type:          domain.QuestionTrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
		},
		{
			Question:      "A common side effect of antibiotics is ____.",
			Type:          domain.QuestionFillInBlank,
			Options:       []string{},
			CorrectAnswer: "diarrhoea",
		},
	}

	goldenTest(t, "quiz", FormatQuiz(questions))
}

func TestFormatAgenda_MarksSelectedRow(t *testing.T) {
	plan := testutil.NewTestPlan("Editor",
		testutil.WithItem("act-open-01", 10),
		testutil.WithItem("act-close-01", 10),
	)

	got := stripANSI(FormatAgenda(plan.Agenda, testutil.NewTestCatalog(), 1))

	assert.Contains(t, got, "   1  0-10")
	assert.Contains(t, got, "▸  2  10-20")
}

func TestFormatUnknownActivities(t *testing.T) {
	assert.Empty(t, FormatUnknownActivities(nil))
	assert.Equal(t, "⚠ 1 activity not in the library: ghost", stripANSI(FormatUnknownActivities([]string{"ghost"})))
	assert.Equal(t, "⚠ 2 activities not in the library: a, b", stripANSI(FormatUnknownActivities([]string{"a", "b"})))
}

func TestFormatTool_ListsRelatedActivities(t *testing.T) {
	cat := testutil.NewTestCatalog()
	tool, err := cat.GetTool("Kahoot")
	require.NoError(t, err)

	got := stripANSI(FormatTool(tool, cat.RelatedActivities(tool.Name)))

	assert.Contains(t, got, "KAHOOT")
	assert.Contains(t, got, "Create a kahoot and share the PIN.")
	assert.Contains(t, got, "• Kahoot Recap (act-close-01)")
}

func TestFormatActivity_SkipsEmptySections(t *testing.T) {
	a := testutil.TestActivities[2]

	got := stripANSI(FormatActivity(&a))

	assert.Contains(t, got, "COUNSELLING ROLE-PLAY")
	assert.Contains(t, got, "Practise counselling.")
	assert.NotContains(t, got, "Pharma example")
	assert.NotContains(t, got, "Tags")
}
