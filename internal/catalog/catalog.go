// Package catalog holds the read-only activity and tool libraries the planner
// resolves agenda items against.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrToolNotFound     = errors.New("tool not found")
)

// ActivityLookup resolves an activity by id. The second return value is false
// when the id is unknown.
type ActivityLookup interface {
	Activity(id string) (*domain.Activity, bool)
}

// ActivityLookupFunc adapts a function to ActivityLookup.
type ActivityLookupFunc func(id string) (*domain.Activity, bool)

func (f ActivityLookupFunc) Activity(id string) (*domain.Activity, bool) { return f(id) }

// Catalog is an immutable, indexed pair of activity and tool libraries.
// Catalog order is preserved; it drives required-tool ordering.
type Catalog struct {
	activities []domain.Activity
	tools      []domain.Tool
	activityIx map[string]int
	toolIx     map[string]int
}

// New validates and indexes the given libraries. Duplicate activity ids,
// duplicate tool ids and duplicate tool names (case-insensitive) are rejected.
func New(activities []domain.Activity, tools []domain.Tool) (*Catalog, error) {
	c := &Catalog{
		activities: append([]domain.Activity(nil), activities...),
		tools:      append([]domain.Tool(nil), tools...),
		activityIx: make(map[string]int, len(activities)),
		toolIx:     make(map[string]int, len(tools)),
	}

	var errs []error
	for i := range c.activities {
		a := &c.activities[i]
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.activityIx[a.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate activity id %q", a.ID))
			continue
		}
		c.activityIx[a.ID] = i
	}

	names := make(map[string]bool, len(tools))
	for i := range c.tools {
		t := &c.tools[i]
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.toolIx[t.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate tool id %q", t.ID))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if names[key] {
			errs = append(errs, fmt.Errorf("duplicate tool name %q", t.Name))
			continue
		}
		names[key] = true
		c.toolIx[t.ID] = i
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// Activity returns a copy of the activity with the given id.
func (c *Catalog) Activity(id string) (*domain.Activity, bool) {
	i, ok := c.activityIx[id]
	if !ok {
		return nil, false
	}
	a := c.activities[i]
	return &a, true
}

// GetActivity is Activity with a not-found error, for callers that require
// the id to resolve.
func (c *Catalog) GetActivity(id string) (*domain.Activity, error) {
	a, ok := c.Activity(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	return a, nil
}

// Activities returns all activities in catalog order.
func (c *Catalog) Activities() []domain.Activity {
	return append([]domain.Activity(nil), c.activities...)
}

// Tools returns all tools in catalog order.
func (c *Catalog) Tools() []domain.Tool {
	return append([]domain.Tool(nil), c.tools...)
}

// GetTool looks a tool up by id, falling back to a case-insensitive name match.
func (c *Catalog) GetTool(idOrName string) (*domain.Tool, error) {
	if i, ok := c.toolIx[idOrName]; ok {
		t := c.tools[i]
		return &t, nil
	}
	if t, ok := c.ToolByName(idOrName); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, idOrName)
}

// ToolByName matches a tool name case-insensitively, ignoring surrounding space.
func (c *Catalog) ToolByName(name string) (*domain.Tool, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range c.tools {
		if strings.ToLower(t.Name) == want {
			return &t, true
		}
	}
	return nil, false
}

// RelatedActivities lists the activities whose tools text mentions the tool.
func (c *Catalog) RelatedActivities(toolName string) []domain.Activity {
	var out []domain.Activity
	for _, a := range c.activities {
		if a.UsesTool(toolName) {
			out = append(out, a)
		}
	}
	return out
}

// ActivityFilter narrows an activity search. Zero values match everything.
type ActivityFilter struct {
	Query     string
	Category  domain.ActivityCategory
	GroupSize domain.GroupSize
}

// SearchActivities returns activities matching the filter, in catalog order.
// Query matches title, objective or tags case-insensitively.
func (c *Catalog) SearchActivities(f ActivityFilter) []domain.Activity {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []domain.Activity
	for _, a := range c.activities {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.GroupSize != "" && !a.GroupSize.Accepts(f.GroupSize) {
			continue
		}
		if q != "" && !activityMatches(a, q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func activityMatches(a domain.Activity, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Objective), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SearchTools returns tools whose name or description contains the query,
// optionally restricted to a category. Results are sorted by name.
func (c *Catalog) SearchTools(query string, category domain.ToolCategory) []domain.Tool {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.Tool
	for _, t := range c.tools {
		if category != "" && t.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
