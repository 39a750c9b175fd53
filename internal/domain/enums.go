package domain

type ActivityCategory string

const (
	CategoryOpeners   ActivityCategory = "Openers"
	CategoryLinking   ActivityCategory = "Linking & Summarizing"
	CategoryDelivery  ActivityCategory = "Delivery"
	CategoryEnergizer ActivityCategory = "Energizers"
	CategoryPractice  ActivityCategory = "Practice"
	CategoryClosing   ActivityCategory = "Closing"
)

// ActivityCategories lists the categories in the order they are presented.
var ActivityCategories = []ActivityCategory{
	CategoryOpeners,
	CategoryLinking,
	CategoryDelivery,
	CategoryEnergizer,
	CategoryPractice,
	CategoryClosing,
}

// Valid reports whether c is one of the fixed activity categories.
func (c ActivityCategory) Valid() bool {
	for _, known := range ActivityCategories {
		if c == known {
			return true
		}
	}
	return false
}

type GroupSize string

const (
	GroupSmall GroupSize = "Small Groups"
	GroupBig   GroupSize = "Big Groups"
	GroupBoth  GroupSize = "Both"
)

// ValidGroupSizes is the canonical set of accepted group size strings.
var ValidGroupSizes = map[GroupSize]bool{
	GroupSmall: true, GroupBig: true, GroupBoth: true,
}

// Accepts reports whether an activity suited to g can run with a session of
// the given size. "Both" activities fit any session.
func (g GroupSize) Accepts(session GroupSize) bool {
	return g == GroupBoth || session == GroupBoth || g == session
}

// SmallGroupMaxTrainees is the largest trainee count still treated as a
// small-group session.
const SmallGroupMaxTrainees = 12

// GroupSizeFor returns the session group size for a trainee count.
func GroupSizeFor(traineeCount int) GroupSize {
	if traineeCount <= SmallGroupMaxTrainees {
		return GroupSmall
	}
	return GroupBig
}

type ToolCategory string

const (
	ToolCommunication ToolCategory = "Communication"
	ToolCollaboration ToolCategory = "Collaboration"
	ToolAssessment    ToolCategory = "Assessment"
	ToolPresentation  ToolCategory = "Presentation"
)

// ValidToolCategories is the canonical set of accepted tool categories.
var ValidToolCategories = map[ToolCategory]bool{
	ToolCommunication: true, ToolCollaboration: true,
	ToolAssessment: true, ToolPresentation: true,
}

type TrainingType string

const (
	TrainingSummer     TrainingType = "Summer"
	TrainingOnboarding TrainingType = "Onboarding"
	TrainingRegular    TrainingType = "Regular"
)

// ValidTrainingTypes is the canonical set of accepted training types.
var ValidTrainingTypes = map[TrainingType]bool{
	TrainingSummer: true, TrainingOnboarding: true, TrainingRegular: true,
}

// Audience describes who attends a session of this training type.
func (t TrainingType) Audience() string {
	switch t {
	case TrainingSummer:
		return "pharmacy students on a summer internship"
	case TrainingRegular:
		return "current, experienced pharmacists"
	default:
		return "newly hired pharmacists"
	}
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionFillInBlank    QuestionType = "fill-in-the-blank"
)

// QuestionTypes lists question types in prompt order.
var QuestionTypes = []QuestionType{QuestionMultipleChoice, QuestionTrueFalse, QuestionFillInBlank}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ValidDifficulties is the canonical set of accepted quiz difficulties.
var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy: true, DifficultyMedium: true, DifficultyHard: true,
}
