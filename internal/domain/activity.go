package domain

import (
	"fmt"
	"strings"
)

// Activity is a reusable training activity from the activity library.
type Activity struct {
	ID            string           `json:"id" yaml:"id"`
	Title         string           `json:"title" yaml:"title"`
	Category      ActivityCategory `json:"category" yaml:"category"`
	Objective     string           `json:"objective" yaml:"objective"`
	Duration      int              `json:"duration" yaml:"duration"`
	Tools         string           `json:"tools" yaml:"tools"`
	Instructions  string           `json:"instructions" yaml:"instructions"`
	PharmaExample string           `json:"pharma_example" yaml:"pharma_example"`
	GroupSize     GroupSize        `json:"group_size" yaml:"group_size"`
	Tags          []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Validate checks the fields the planner relies on.
func (a *Activity) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("activity %s: title is required", a.ID)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("activity %s: unknown category %q", a.ID, a.Category)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("activity %s: duration must be positive, got %d", a.ID, a.Duration)
	}
	if !ValidGroupSizes[a.GroupSize] {
		return fmt.Errorf("activity %s: unknown group size %q", a.ID, a.GroupSize)
	}
	return nil
}

// UsesTool reports whether the activity's free-text tools description names
// the tool. Matching is a case-insensitive substring test.
func (a *Activity) UsesTool(toolName string) bool {
	if toolName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(a.Tools), strings.ToLower(toolName))
}

// Tool is a named training tool from the toolbox.
type Tool struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	UseCase     string       `json:"use_case" yaml:"use_case"`
	QuickStart  string       `json:"quick_start" yaml:"quick_start"`
	Category    ToolCategory `json:"category" yaml:"category"`
}

// Validate checks the tool has an id, a name and a known category.
func (t *Tool) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tool id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tool %s: name is required", t.ID)
	}
	if t.Category != "" && !ValidToolCategories[t.Category] {
		return fmt.Errorf("tool %s: unknown category %q", t.ID, t.Category)
	}
	return nil
}
