package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/agenda"
	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/cli/formatter"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// durationStep is how many minutes +/- change an item by.
const durationStep = 5

type editorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Longer   key.Binding
	Shorter  key.Binding
	Delete   key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Longer, k.Shorter, k.Delete, k.Save, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var editorKeys = editorKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Longer:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", fmt.Sprintf("+%d min", durationStep))),
	Shorter:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", fmt.Sprintf("-%d min", durationStep))),
	Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// saveFunc persists an edited plan and returns the stored version.
type saveFunc func(ctx context.Context, plan *domain.SessionPlan) (*domain.SessionPlan, error)

// planSavedMsg reports the result of a save command.
type planSavedMsg struct {
	plan *domain.SessionPlan
	err  error
}

// editorModel edits a working copy of a plan's agenda. Changes go through
// the agenda planner so timings stay contiguous, and reach the database
// only on save.
type editorModel struct {
	plan       *domain.SessionPlan
	planner    *agenda.Planner
	activities catalog.ActivityLookup
	save       saveFunc
	help       help.Model

	cursor      int
	dirty       bool
	saving      bool
	confirmQuit bool
	quitting    bool
	saved       bool
	status      string
	err         error
}

func newEditorModel(plan *domain.SessionPlan, cat *catalog.Catalog, save saveFunc) *editorModel {
	return &editorModel{
		plan:       plan,
		planner:    agenda.NewPlanner(cat.Tools(), cat),
		activities: cat,
		save:       save,
		help:       help.New(),
	}
}

func (m *editorModel) Init() tea.Cmd { return nil }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.plan = msg.plan
		m.dirty = false
		m.saved = true
		m.err = nil
		m.status = "Saved."
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.saving {
		return m, nil
	}

	if key.Matches(msg, editorKeys.Quit) {
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "Unsaved changes. Press q again to discard, s to save."
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	m.confirmQuit = false
	m.err = nil
	m.status = ""

	n := len(m.plan.Agenda)
	switch {
	case key.Matches(msg, editorKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, editorKeys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, editorKeys.MoveUp):
		if m.cursor > 0 {
			m.apply(m.planner.ReorderActivity(m.plan, m.cursor, m.cursor-1))
			m.cursor--
		}
	case key.Matches(msg, editorKeys.MoveDown):
		if m.cursor < n-1 {
			m.apply(m.planner.ReorderActivity(m.plan, m.cursor, m.cursor+1))
			m.cursor++
		}
	case key.Matches(msg, editorKeys.Longer):
		if n > 0 {
			m.apply(m.planner.SetItemMinutes(m.plan, m.cursor, m.plan.Agenda[m.cursor].Duration+durationStep))
		}
	case key.Matches(msg, editorKeys.Shorter):
		if n > 0 {
			m.apply(m.planner.SetItemMinutes(m.plan, m.cursor, m.plan.Agenda[m.cursor].Duration-durationStep))
		}
	case key.Matches(msg, editorKeys.Delete):
		if n > 0 {
			m.apply(m.planner.RemoveActivity(m.plan, m.cursor))
			if m.cursor >= len(m.plan.Agenda) && m.cursor > 0 {
				m.cursor--
			}
		}
	case key.Matches(msg, editorKeys.Save):
		if !m.dirty {
			m.status = "Nothing to save."
			return m, nil
		}
		m.saving = true
		m.status = "Saving..."
		return m, m.saveCmd()
	}
	return m, nil
}

// apply adopts the result of a planner operation.
func (m *editorModel) apply(next *domain.SessionPlan, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.plan = next
	m.dirty = true
}

func (m *editorModel) saveCmd() tea.Cmd {
	plan := m.plan.Clone()
	save := m.save
	return func() tea.Msg {
		stored, err := save(context.Background(), plan)
		return planSavedMsg{plan: stored, err: err}
	}
}

func (m *editorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := m.plan.Title
	if m.dirty {
		title += " *"
	}
	b.WriteString(formatter.Bold(title) + "\n")

	meta := formatter.FormatMinutes(m.plan.TotalDuration)
	if m.plan.Brief != nil {
		meta = formatter.RenderBudget(m.plan.TotalDuration, m.plan.Brief.DurationMinutes, 20)
	}
	b.WriteString(meta + "\n\n")

	if len(m.plan.Agenda) == 0 {
		b.WriteString(formatter.Dim("Agenda is empty.") + "\n")
	} else {
		b.WriteString(formatter.FormatAgenda(m.plan.Agenda, m.activities, m.cursor))
	}

	tools := formatter.Dim("none")
	if len(m.plan.RequiredTools) > 0 {
		tools = strings.Join(m.plan.RequiredTools, ", ")
	}
	fmt.Fprintf(&b, "\n%s %s\n", formatter.Dim("Tools:"), tools)

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(formatter.StyleYellow.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(editorKeys))
	return b.String()
}

var errNotInteractive = errors.New("the editor needs an interactive terminal")

func newPlanEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a plan's agenda in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			plan, err := app.Plans.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			m := newEditorModel(plan, app.Catalog, app.Plans.Save)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if em, ok := final.(*editorModel); ok {
				switch {
				case em.dirty:
					fmt.Fprintln(cmd.OutOrStdout(), "Discarded unsaved changes.")
				case em.saved:
					fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %s (%s)\n", em.plan.DisplayID(), formatter.FormatMinutes(em.plan.TotalDuration))
				}
			}
			return nil
		},
	}
}
