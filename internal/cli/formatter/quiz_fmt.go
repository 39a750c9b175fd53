package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
)

// FormatQuiz renders generated questions for the terminal. The plain-text
// download format lives in the export package.
func FormatQuiz(questions []domain.QuizQuestion) string {
	if len(questions) == 0 {
		return Dim("No questions generated.") + "\n"
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%s %s %s\n", StyleHeader.Render(fmt.Sprintf("Q%d", i+1)), Dim("["+string(q.Type)+"]"), q.Question)

		options := q.Options
		if q.Type == domain.QuestionTrueFalse && len(options) == 0 {
			options = []string{"True", "False"}
		}
		for j, opt := range options {
			line := fmt.Sprintf("   %c. %s", 'A'+j, opt)
			if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.CorrectAnswer)) {
				line = StyleGreen.Render(line + " ✔")
			}
			b.WriteString(line + "\n")
		}
		if q.Type == domain.QuestionFillInBlank {
			fmt.Fprintf(&b, "   %s %s\n", Dim("Answer:"), StyleGreen.Render(q.CorrectAnswer))
		}
		if q.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", Dim(q.Explanation))
		}
		if i < len(questions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
