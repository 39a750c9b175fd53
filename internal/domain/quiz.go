package domain

// QuizQuestion is a single generated quiz question. Options is empty for
// fill-in-the-blank questions.
type QuizQuestion struct {
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// QuizRequest describes the quiz a trainer wants generated from material.
type QuizRequest struct {
	Material            string               `json:"material"`
	Distribution        map[QuestionType]int `json:"distribution"`
	Difficulty          Difficulty           `json:"difficulty"`
	Objectives          string               `json:"objectives,omitempty"`
	IncludeExplanations bool                 `json:"include_explanations"`
}

// TotalQuestions sums the non-negative counts of the distribution.
func (r *QuizRequest) TotalQuestions() int {
	total := 0
	for _, n := range r.Distribution {
		if n > 0 {
			total += n
		}
	}
	return total
}
