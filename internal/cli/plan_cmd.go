package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/trainhub/internal/cli/formatter"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Generate, edit and export session plans",
		Long: "Generate, edit and export session plans.\n\n" +
			"Plans are addressed by id or any unique id prefix. Agenda positions\n" +
			"are 1-based, as shown in 'plan show'.",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanRegenerateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanAddCmd(app),
		newPlanRemoveCmd(app),
		newPlanMoveCmd(app),
		newPlanDurationCmd(app),
		newPlanRenameCmd(app),
		newPlanDeleteCmd(app),
		newPlanEditCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var brief domain.PlanBrief
	var trainingType string
	var useForm bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a session plan from a brief",
		Long: "Generate a session plan from a brief. On a terminal, missing fields\n" +
			"are asked for in a form; otherwise every field must be given as a flag.",
		RunE: func(cmd *cobra.Command, args []string) error {
			brief.TrainingType = domain.TrainingType(trainingType)
			if app.interactive() && (useForm || brief.Validate() != nil) {
				in := newBriefInput(brief)
				if err := briefForm(in).Run(); err != nil {
					return err
				}
				brief = in.brief()
			}

			stop := app.spinner(cmd, "Designing your session...")
			res, err := app.Plans.Generate(cmd.Context(), brief)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created plan %s\n\n", res.Plan.DisplayID())
			fmt.Fprint(out, formatter.FormatPlan(res.Plan, app.Catalog))
			if warn := formatter.FormatUnknownActivities(res.UnknownActivityIDs); warn != "" {
				fmt.Fprintln(out, "\n"+warn)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&brief.Topic, "topic", "", "Session topic")
	cmd.Flags().StringVar(&brief.Objectives, "objectives", "", "Learning objectives")
	cmd.Flags().StringVar(&trainingType, "type", string(domain.TrainingOnboarding), "Training type: Onboarding, Regular or Summer")
	cmd.Flags().IntVar(&brief.TraineeCount, "trainees", 0, "Number of trainees")
	cmd.Flags().IntVar(&brief.DurationMinutes, "duration", 0, "Session length in minutes")
	cmd.Flags().StringVar(&brief.Instructions, "instructions", "", "Extra instructions for the planner")
	cmd.Flags().BoolVar(&useForm, "form", false, "Always open the brief form (terminal only)")

	return cmd
}

func newPlanRegenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate ID",
		Short: "Replace a plan's agenda using its saved brief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.spinner(cmd, "Redesigning your session...")
			res, err := app.Plans.Regenerate(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatPlan(res.Plan, app.Catalog))
			if warn := formatter.FormatUnknownActivities(res.UnknownActivityIDs); warn != "" {
				fmt.Fprintln(out, "\n"+warn)
			}
			return nil
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plans)
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans yet. Create one with 'trainhub plan generate'.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a plan's agenda",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(plan, app.Catalog))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add ID ACTIVITY_ID",
		Short: "Append a library activity with its default duration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.AddActivity(cmd.Context(), args[0], args[1])
			return app.printEdited(cmd, plan, err)
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID POSITION",
		Short: "Remove the agenda item at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			plan, err := app.Plans.RemoveActivity(cmd.Context(), args[0], index)
			return app.printEdited(cmd, plan, err)
		},
	}
}

func newPlanMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID FROM TO",
		Short: "Move an agenda item to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			plan, err := app.Plans.MoveActivity(cmd.Context(), args[0], from, to)
			return app.printEdited(cmd, plan, err)
		},
	}
}

func newPlanDurationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duration ID POSITION MINUTES",
		Short: "Set the minutes of an agenda item",
		Long: "Set the minutes of an agenda item. Input is read like a number field:\n" +
			"leading digits count, anything unparsable or negative becomes 0.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			plan, err := app.Plans.SetDuration(cmd.Context(), args[0], index, args[2])
			return app.printEdited(cmd, plan, err)
		},
	}
}

func newPlanRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Change a plan's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Rename(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed plan %s to %q\n", plan.DisplayID(), plan.Title)
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %q?", plan.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}
			if err := app.Plans.Delete(cmd.Context(), plan.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", plan.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newPlanExportCmd(app *App) *cobra.Command {
	var format, date, clock, output string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a plan as text or an iCalendar file",
		Long: "Export a plan as text or an iCalendar file.\n\n" +
			"The calendar format needs a start: --date YYYY-MM-DD --time HH:MM in local\n" +
			"time, or --date with a full RFC 3339 timestamp.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc string
				err error
			)
			switch format {
			case "text", "txt":
				doc, err = app.Plans.ExportText(cmd.Context(), args[0])
			case "ics", "calendar":
				start, perr := export.ParseSessionStart(date, clock, app.Location)
				if perr != nil {
					return perr
				}
				doc, err = app.Plans.ExportCalendar(cmd.Context(), args[0], start)
			default:
				return fmt.Errorf("unknown export format %q (want text or ics)", format)
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Export format: text or ics")
	cmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD) or RFC 3339 start, for ics")
	cmd.Flags().StringVar(&clock, "time", "", "Session start time (HH:MM), for ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// printEdited prints the agenda after a single edit.
func (a *App) printEdited(cmd *cobra.Command, plan *domain.SessionPlan, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgenda(plan.Agenda, a.Catalog, -1))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", formatter.Dim("Total"), formatter.FormatMinutes(plan.TotalDuration))
	return nil
}

var errBadPosition = errors.New("position must be a whole number starting at 1")

// parsePosition converts a 1-based agenda position to an index. Range
// checks are left to the agenda engine.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadPosition, s)
	}
	return n - 1, nil
}
