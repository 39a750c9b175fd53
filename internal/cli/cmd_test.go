package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/trainhub/internal/agenda"
	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/alexanderramin/trainhub/internal/repository"
	"github.com/alexanderramin/trainhub/internal/service"
	"github.com/alexanderramin/trainhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubQuizzes struct{ last domain.QuizRequest }

func (s *stubQuizzes) Generate(_ context.Context, req domain.QuizRequest) ([]domain.QuizQuestion, error) {
	s.last = req
	return []domain.QuizQuestion{{
		Question:      "Amoxicillin is a penicillin.",
		Type:          domain.QuestionTrueFalse,
		Options:       []string{"True", "False"},
		CorrectAnswer: "True",
	}}, nil
}

type echoAdvisor struct{ turns []int }

func (a *echoAdvisor) Ask(_ context.Context, tool domain.Tool, question string, history []intelligence.ChatTurn) (string, []intelligence.ChatTurn, error) {
	a.turns = append(a.turns, len(history))
	answer := "Use " + tool.Name + " for: " + question
	return answer, append(history,
		intelligence.ChatTurn{Role: intelligence.RoleUser, Content: question},
		intelligence.ChatTurn{Role: intelligence.RoleModel, Content: answer}), nil
}

type testEnv struct {
	app     *App
	repo    *repository.SQLitePlanRepo
	quizzes *stubQuizzes
	advisor *echoAdvisor
}

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. The plan generator returns a fixed agenda.
func testApp(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLitePlanRepo(database)
	cat := testutil.NewTestCatalog()

	gen := intelligence.GenerateFunc(func(_ context.Context, brief domain.PlanBrief, _ []domain.Activity) (*domain.SessionPlan, error) {
		return &domain.SessionPlan{Title: brief.Topic, Agenda: []domain.AgendaItem{
			{ActivityID: "act-open-01", Duration: 10, Justification: "Warm up."},
			{ActivityID: "act-prac-01", Duration: 25, Justification: "Practise."},
			{ActivityID: "act-close-01", Duration: 10, Justification: "Recap."},
		}}, nil
	})

	quizzes := &stubQuizzes{}
	advisor := &echoAdvisor{}
	return &testEnv{
		app: &App{
			Plans:    service.NewPlanService(repo, testutil.NewTestUoW(database), cat, gen),
			Quizzes:  service.NewQuizService(quizzes),
			Advice:   service.NewAdviceService(cat, advisor),
			Catalog:  cat,
			Location: time.UTC,
			Now:      func() time.Time { return cliNow },
		},
		repo:    repo,
		quizzes: quizzes,
		advisor: advisor,
	}
}

func (e *testEnv) seed(t *testing.T, opts ...testutil.PlanOption) *domain.SessionPlan {
	t.Helper()
	plan := testutil.NewTestPlan("Seeded", opts...)
	require.NoError(t, e.repo.Create(context.Background(), plan))
	return plan
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, app, "", args...)
}

func executeWithInput(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// --- Root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app)
	require.NoError(t, err)
	assert.Contains(t, output, "trainhub")
	assert.Contains(t, output, "plan")
}

// --- Catalog ---

func TestActivityList_Filters(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "activity", "list", "--category", "Practice")
	require.NoError(t, err)
	assert.Contains(t, output, "act-prac-01")
	assert.NotContains(t, output, "act-open-01")

	output, err = executeCmd(t, env.app, "activity", "list", "-q", "nothing-here")
	require.NoError(t, err)
	assert.Contains(t, output, "No activities match.")
}

func TestActivityShow(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "activity", "show", "act-del-01")
	require.NoError(t, err)
	assert.Contains(t, output, "PRODUCT MINI-LECTURE")

	_, err = executeCmd(t, env.app, "activity", "show", "act-none")
	assert.ErrorIs(t, err, catalog.ErrActivityNotFound)
}

func TestToolShow_ByName(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "tool", "show", "kahoot")
	require.NoError(t, err)
	assert.Contains(t, output, "Kahoot Recap (act-close-01)")
}

func TestToolList_JSON(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "tool", "list", "--category", "Assessment", "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"id": "tool-kahoot"`)
	assert.NotContains(t, output, "tool-ppt")
}

func TestToolAsk_SingleQuestion(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "tool", "ask", "Flipchart", "how", "to", "start?")
	require.NoError(t, err)
	assert.Contains(t, output, "Use Flipchart for: how to start?")

	_, err = executeCmd(t, env.app, "tool", "ask", "Flipchart")
	assert.Error(t, err)
}

func TestToolAsk_ChatKeepsHistory(t *testing.T) {
	env := testApp(t)

	output, err := executeWithInput(t, env.app, "follow up\nand another\n\n", "tool", "ask", "tool-ppt", "first", "--chat")
	require.NoError(t, err)
	assert.Contains(t, output, "Use PowerPoint for: and another")
	assert.Equal(t, []int{0, 2, 4}, env.advisor.turns)
}

// --- Plans ---

func TestPlanGenerate_FromFlags(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "plan", "generate",
		"--topic", "Antibiotic counselling",
		"--objectives", "Explain side effects",
		"--type", "Regular",
		"--trainees", "10",
		"--duration", "45",
	)
	require.NoError(t, err)
	assert.Contains(t, output, "Created plan")
	assert.Contains(t, output, "Antibiotic counselling")
	assert.Contains(t, output, "45/45 min")

	plans, err := env.app.Plans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 45, plans[0].TotalDuration)
}

func TestPlanGenerate_InvalidBriefWithoutTerminal(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "plan", "generate", "--topic", "Only a topic")
	assert.ErrorIs(t, err, domain.ErrInvalidBrief)
}

func TestPlanList(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No plans yet")

	env.seed(t, testutil.WithItem("act-open-01", 10), testutil.WithUpdatedAt(cliNow.Add(-2*time.Hour)))
	output, err = executeCmd(t, env.app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Seeded")
	assert.Contains(t, output, "2h ago")
}

func TestPlanShow_ByPrefix(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t, testutil.WithItem("act-open-01", 10), testutil.WithItem("act-del-01", 20))

	output, err := executeCmd(t, env.app, "plan", "show", plan.ID[:6])
	require.NoError(t, err)
	assert.Contains(t, output, "Two Truths and a Lie")
	assert.Contains(t, output, "• PowerPoint")

	_, err = executeCmd(t, env.app, "plan", "show", "zzzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanEdits_UseOneBasedPositions(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t,
		testutil.WithItem("act-open-01", 10),
		testutil.WithItem("act-del-01", 20),
		testutil.WithItem("act-close-01", 10),
	)
	ctx := context.Background()

	_, err := executeCmd(t, env.app, "plan", "move", plan.ID, "3", "1")
	require.NoError(t, err)
	got, err := env.app.Plans.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "act-close-01", got.Agenda[0].ActivityID)

	output, err := executeCmd(t, env.app, "plan", "duration", plan.ID, "2", "15.5")
	require.NoError(t, err)
	assert.Contains(t, output, "Total 45m")

	_, err = executeCmd(t, env.app, "plan", "remove", plan.ID, "1")
	require.NoError(t, err)

	_, err = executeCmd(t, env.app, "plan", "add", plan.ID, "act-prac-01")
	require.NoError(t, err)

	got, err = env.app.Plans.Get(ctx, plan.ID)
	require.NoError(t, err)
	ids := []string{}
	for _, item := range got.Agenda {
		ids = append(ids, item.ActivityID)
	}
	assert.Equal(t, []string{"act-open-01", "act-del-01", "act-prac-01"}, ids)
	assert.Equal(t, 15+20+25, got.TotalDuration)
	assert.Equal(t, agenda.DefaultJustification, got.Agenda[2].Justification)
}

func TestPlanEdits_Errors(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t, testutil.WithItem("act-open-01", 10))

	_, err := executeCmd(t, env.app, "plan", "remove", plan.ID, "first")
	assert.ErrorIs(t, err, errBadPosition)

	_, err = executeCmd(t, env.app, "plan", "remove", plan.ID, "0")
	assert.ErrorIs(t, err, agenda.ErrInvalidIndex)

	_, err = executeCmd(t, env.app, "plan", "move", plan.ID, "1", "2")
	assert.ErrorIs(t, err, agenda.ErrInvalidIndex)

	_, err = executeCmd(t, env.app, "plan", "add", plan.ID, "act-x")
	assert.ErrorIs(t, err, catalog.ErrActivityNotFound)
}

func TestPlanRename(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t)

	output, err := executeCmd(t, env.app, "plan", "rename", plan.ID, "Metformin", "basics")
	require.NoError(t, err)
	assert.Contains(t, output, `"Metformin basics"`)

	_, err = executeCmd(t, env.app, "plan", "rename", plan.ID, "  ")
	assert.ErrorIs(t, err, service.ErrEmptyTitle)
}

func TestPlanDelete_NonInteractiveSkipsPrompt(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t)

	output, err := executeCmd(t, env.app, "plan", "delete", plan.DisplayID())
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted plan "+plan.DisplayID())

	_, err = env.app.Plans.Get(context.Background(), plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanRegenerate(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t, testutil.WithItem("act-del-01", 20), testutil.WithBrief(testutil.TestBrief()))

	output, err := executeCmd(t, env.app, "plan", "regenerate", plan.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Counselling Role-Play")

	bare := env.seed(t)
	_, err = executeCmd(t, env.app, "plan", "regenerate", bare.ID)
	assert.ErrorIs(t, err, service.ErrNoBrief)
}

func TestPlanExport_Text(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t, testutil.WithItem("act-open-01", 10))

	output, err := executeCmd(t, env.app, "plan", "export", plan.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "Session Plan: Seeded\n"))
}

func TestPlanExport_CalendarToFile(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t, testutil.WithItem("act-open-01", 10), testutil.WithItem("act-del-01", 20))
	path := filepath.Join(t.TempDir(), "session.ics")

	_, err := executeCmd(t, env.app, "plan", "export", plan.ID, "-f", "ics", "--date", "2026-03-02", "--time", "09:30", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, ics, "DTSTART:20260302T093000Z\r\n")
	assert.Contains(t, ics, "DTEND:20260302T100000Z\r\n")
}

func TestPlanExport_Errors(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t)

	_, err := executeCmd(t, env.app, "plan", "export", plan.ID, "-f", "ics")
	assert.ErrorIs(t, err, export.ErrInvalidStart)

	_, err = executeCmd(t, env.app, "plan", "export", plan.ID, "-f", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestPlanEdit_RequiresTerminal(t *testing.T) {
	env := testApp(t)
	plan := env.seed(t)

	_, err := executeCmd(t, env.app, "plan", "edit", plan.ID)
	assert.ErrorIs(t, err, errNotInteractive)
}

// --- Quiz ---

func TestQuizGenerate_FromStdin(t *testing.T) {
	env := testApp(t)

	output, err := executeWithInput(t, env.app, "  Amoxicillin is a penicillin.\n", "quiz", "generate", "--file", "-", "--mc", "0", "--tf", "2")
	require.NoError(t, err)
	assert.Contains(t, output, "Q1 [true-false] Amoxicillin is a penicillin.")

	assert.Equal(t, "Amoxicillin is a penicillin.", env.quizzes.last.Material)
	assert.Equal(t, 2, env.quizzes.last.TotalQuestions())
	assert.Equal(t, domain.DifficultyMedium, env.quizzes.last.Difficulty)
}

func TestQuizGenerate_WritesPrintableFile(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "quiz.txt")

	output, err := executeCmd(t, env.app, "quiz", "generate", "--material", "Penicillins", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote 1 questions to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), export.DefaultQuizHeading))
}

func TestQuizGenerate_MissingFile(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "quiz", "generate", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestChatLoop_StopsOnEmptyLine(t *testing.T) {
	var asked []string
	out := new(bytes.Buffer)
	err := chatLoop(strings.NewReader("one\n\ntwo\n"), out, func(q string) error {
		asked = append(asked, q)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, asked)
}
