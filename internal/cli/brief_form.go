package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/trainhub/internal/cli/formatter"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// trainhubHuhTheme returns a custom huh theme using the formatter palette.
func trainhubHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// briefInput holds the brief form's raw field values. Numbers stay strings
// until the form is submitted.
type briefInput struct {
	Topic        string
	Objectives   string
	TrainingType string
	Trainees     string
	Duration     string
	Instructions string
}

func newBriefInput(b domain.PlanBrief) *briefInput {
	in := &briefInput{
		Topic:        b.Topic,
		Objectives:   b.Objectives,
		TrainingType: string(b.TrainingType),
		Instructions: b.Instructions,
	}
	if in.TrainingType == "" {
		in.TrainingType = string(domain.TrainingOnboarding)
	}
	if b.TraineeCount > 0 {
		in.Trainees = strconv.Itoa(b.TraineeCount)
	}
	if b.DurationMinutes > 0 {
		in.Duration = strconv.Itoa(b.DurationMinutes)
	}
	return in
}

// brief converts the form values. Callers validate the result with
// PlanBrief.Validate.
func (in *briefInput) brief() domain.PlanBrief {
	trainees, _ := strconv.Atoi(strings.TrimSpace(in.Trainees))
	duration, _ := strconv.Atoi(strings.TrimSpace(in.Duration))
	return domain.PlanBrief{
		Topic:           strings.TrimSpace(in.Topic),
		Objectives:      strings.TrimSpace(in.Objectives),
		TrainingType:    domain.TrainingType(in.TrainingType),
		TraineeCount:    trainees,
		DurationMinutes: duration,
		Instructions:    strings.TrimSpace(in.Instructions),
	}
}

// briefForm asks for the fields of a plan brief. Values already set on in
// are shown as defaults.
func briefForm(in *briefInput) *huh.Form {
	types := []huh.Option[string]{
		huh.NewOption("Onboarding (newly hired pharmacists)", string(domain.TrainingOnboarding)),
		huh.NewOption("Regular (experienced pharmacists)", string(domain.TrainingRegular)),
		huh.NewOption("Summer (pharmacy students)", string(domain.TrainingSummer)),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Topic").
				Placeholder("Antibiotic counselling").
				Value(&in.Topic).
				Validate(validateRequired("topic")),
			huh.NewText().
				Title("Learning objectives").
				Placeholder("What should trainees be able to do afterwards?").
				Value(&in.Objectives).
				Validate(validateRequired("objectives")),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Training type").
				Options(types...).
				Value(&in.TrainingType),
			huh.NewInput().
				Title("Trainees").
				Placeholder("8").
				Value(&in.Trainees).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Session length (minutes)").
				Placeholder("60").
				Value(&in.Duration).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Extra instructions").
				Description("Optional, e.g. 'no role-plays' or 'end with a quiz'.").
				Value(&in.Instructions),
		),
	).WithTheme(trainhubHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(trainhubHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validatePositiveInt requires a whole number above zero.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
