package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
)

const planSystemPrompt = `You are an expert instructional designer specializing in pharmaceutical training. Your task is to create a detailed, timed training session plan based on the trainer's requirements and a provided library of activities.

Rules:
- You MUST ONLY select activities from the provided library. Do not invent activities.
- Start with an opener, move through delivery and practice activities, and end with a summary or closing activity.
- The total duration of the selected activities must not exceed the requested session duration.
- Only choose activities whose group_size is compatible with the session group size.
- For each agenda item copy the duration field from the selected activity.

You MUST output ONLY a JSON object with exactly these fields:
{
  "title": "session title",
  "agenda": [
    {
      "activity_id": "id of the chosen activity from the library",
      "duration": 10,
      "justification": "one sentence on why this activity fits the session"
    }
  ]
}
Do not include start or end times; they are computed by the planner.`

// typeGuidance steers category mix per training type.
var typeGuidance = map[domain.TrainingType]string{
	domain.TrainingSummer:     "Summer training for students should focus on foundational Practice and Openers.",
	domain.TrainingOnboarding: "Onboarding for new hires should mix Delivery (product knowledge, consultation) with Practice (skills).",
	domain.TrainingRegular:    "Regular training for existing staff can include advanced topics, Linking & Summarizing to build on existing knowledge, and cross-selling or up-selling activities if the topic allows.",
}

func buildPlanPrompt(brief domain.PlanBrief, activities []domain.Activity) (string, error) {
	library, err := marshalLibrary(activities)
	if err != nil {
		return "", err
	}
	group := brief.GroupSize()

	var b strings.Builder
	b.WriteString("Please create a session plan with the following details:\n")
	fmt.Fprintf(&b, "- Training Type: %s Training\n", brief.TrainingType)
	fmt.Fprintf(&b, "- Target Audience: %s\n", brief.TrainingType.Audience())
	fmt.Fprintf(&b, "- Topic: %s\n", strings.TrimSpace(brief.Topic))
	fmt.Fprintf(&b, "- Objectives: %s\n", strings.TrimSpace(brief.Objectives))
	fmt.Fprintf(&b, "- Number of Trainees: %d (a '%s' session: select activities whose group_size is '%s' or '%s')\n",
		brief.TraineeCount, group, group, domain.GroupBoth)
	fmt.Fprintf(&b, "- Total Duration: %d minutes\n\n", brief.DurationMinutes)

	b.WriteString(typeGuidance[brief.TrainingType])
	b.WriteString("\n\n")

	if instr := strings.TrimSpace(brief.Instructions); instr != "" {
		fmt.Fprintf(&b, "Additional instructions from the trainer: %s\n\n", instr)
	}

	b.WriteString("Activity library (JSON) you MUST choose from:\n---\n")
	b.WriteString(library)
	b.WriteString("\n---\n")
	return b.String(), nil
}
