package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/trainhub/internal/cli/formatter"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/spf13/cobra"
)

func newQuizCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate quizzes from training material",
	}
	cmd.AddCommand(newQuizGenerateCmd(app))
	return cmd
}

func newQuizGenerateCmd(app *App) *cobra.Command {
	var (
		req                 domain.QuizRequest
		file, output        string
		difficulty          string
		multiple, trueFalse int
		fillIn              int
		asJSON              bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write quiz questions from material",
		Long: "Write quiz questions from material. Material comes from --material,\n" +
			"--file, or stdin when --file is '-'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				material, err := readMaterial(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				req.Material = material
			}
			req.Difficulty = domain.Difficulty(difficulty)
			req.Distribution = map[domain.QuestionType]int{
				domain.QuestionMultipleChoice: multiple,
				domain.QuestionTrueFalse:      trueFalse,
				domain.QuestionFillInBlank:    fillIn,
			}

			stop := app.spinner(cmd, fmt.Sprintf("Writing %d questions...", req.TotalQuestions()))
			questions, err := app.Quizzes.Generate(cmd.Context(), req)
			stop()
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return writeJSON(cmd.OutOrStdout(), questions)
			case output != "":
				doc := export.QuizText(export.DefaultQuizHeading, questions)
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("writing quiz: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(questions), output)
				return nil
			default:
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuiz(questions))
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&req.Material, "material", "", "Training material text")
	cmd.Flags().StringVar(&file, "file", "", "Read material from a file ('-' for stdin)")
	cmd.Flags().IntVar(&multiple, "mc", 3, "Multiple-choice questions")
	cmd.Flags().IntVar(&trueFalse, "tf", 0, "True/false questions")
	cmd.Flags().IntVar(&fillIn, "fib", 0, "Fill-in-the-blank questions")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyMedium), "Easy, Medium or Hard")
	cmd.Flags().StringVar(&req.Objectives, "objectives", "", "Learning objectives the quiz should check")
	cmd.Flags().BoolVar(&req.IncludeExplanations, "explain", false, "Ask for an explanation per answer")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a printable quiz to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func readMaterial(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading material: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
