package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/cli/formatter"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities"},
		Short:   "Browse the activity library",
	}
	cmd.AddCommand(newActivityListCmd(app), newActivityShowCmd(app))
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var query, category, group string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			activities := app.Catalog.SearchActivities(catalog.ActivityFilter{
				Query:     query,
				Category:  domain.ActivityCategory(category),
				GroupSize: domain.GroupSize(group),
			})
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), activities)
			}
			if len(activities) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activities match.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(activities))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search title, objective and tags")
	cmd.Flags().StringVar(&category, "category", "", "Only this category (e.g. Openers, Delivery)")
	cmd.Flags().StringVar(&group, "group", "", "Only activities suited to this group size (Small Groups, Big Groups)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newActivityShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an activity card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Catalog.GetActivity(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivity(a))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newToolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tool",
		Aliases: []string{"tools"},
		Short:   "Browse the training toolbox and ask about tools",
	}
	cmd.AddCommand(newToolListCmd(app), newToolShowCmd(app), newToolAskCmd(app))
	return cmd
}

func newToolListCmd(app *App) *cobra.Command {
	var query, category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List toolbox entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := app.Catalog.SearchTools(query, domain.ToolCategory(category))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tools)
			}
			if len(tools) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tools match.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToolList(tools))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search name and description")
	cmd.Flags().StringVar(&category, "category", "", "Only this category (e.g. Assessment)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newToolShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Show a tool and the activities that use it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Catalog.GetTool(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTool(t, app.Catalog.RelatedActivities(t.Name)))
			return nil
		},
	}
}

func newToolAskCmd(app *App) *cobra.Command {
	var chat bool

	cmd := &cobra.Command{
		Use:   "ask ID|NAME [QUESTION...]",
		Short: "Ask the tool expert a question",
		Long: "Ask the tool expert a question. With --chat, keep asking follow-ups\n" +
			"from stdin until an empty line or EOF; the conversation history is kept.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := app.Catalog.GetTool(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			question := strings.TrimSpace(strings.Join(args[1:], " "))

			var history []intelligence.ChatTurn
			ask := func(q string) error {
				stop := app.spinner(cmd, "Asking the "+tool.Name+" expert...")
				answer, next, err := app.Advice.Ask(cmd.Context(), tool.ID, q, history)
				stop()
				if err != nil {
					return err
				}
				history = next
				fmt.Fprintln(out, formatter.FormatAdvice(tool.Name, answer))
				return nil
			}

			if question != "" {
				if err := ask(question); err != nil {
					return err
				}
			}
			if !chat {
				if question == "" {
					return fmt.Errorf("a question is required (or use --chat)")
				}
				return nil
			}
			return chatLoop(cmd.InOrStdin(), out, ask)
		},
	}

	cmd.Flags().BoolVar(&chat, "chat", false, "Keep the conversation going from stdin")
	return cmd
}

// chatLoop reads one question per line and stops at an empty line or EOF.
func chatLoop(in io.Reader, out io.Writer, ask func(string) error) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, formatter.Dim("you › "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			return nil
		}
		if err := ask(q); err != nil {
			return err
		}
	}
}

// spinner starts a stderr spinner on interactive terminals and returns its
// stop function.
func (a *App) spinner(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
