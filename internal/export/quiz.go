package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
)

// DefaultQuizHeading heads QuizText output when no heading is given.
const DefaultQuizHeading = "Quiz Results"

// QuizText renders questions as a copyable text document. Multiple-choice
// options are lettered from A; true/false questions always list True and False.
func QuizText(heading string, questions []domain.QuizQuestion) string {
	if heading == "" {
		heading = DefaultQuizHeading
	}

	var b strings.Builder
	b.WriteString(heading + "\n\n")
	b.WriteString(rule + "\n\n")

	for i, q := range questions {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, q.Question)
		switch q.Type {
		case domain.QuestionMultipleChoice:
			for j, opt := range q.Options {
				fmt.Fprintf(&b, "  %s. %s\n", optionLetter(j), opt)
			}
		case domain.QuestionTrueFalse:
			b.WriteString("  A. True\n")
			b.WriteString("  B. False\n")
		}
		fmt.Fprintf(&b, "\nCorrect Answer: %s\n", q.CorrectAnswer)
		if q.Explanation != "" {
			fmt.Fprintf(&b, "Explanation: %s\n", q.Explanation)
		}
		b.WriteString("\n" + rule + "\n\n")
	}
	return b.String()
}

// optionLetter labels option i as A..Z, then AA, AB, and so on.
func optionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return optionLetter(i/26-1) + optionLetter(i%26)
}
