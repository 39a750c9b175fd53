package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// It handles markdown code fences, leading/trailing text, and nested braces.
// If validator is non-nil, the extracted value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	return extract(raw, '{', '}', validator)
}

// ExtractJSONList extracts the first JSON array of T. An array wrapped in an
// object such as {"questions": [...]} is found as well.
func ExtractJSONList[T any](raw string, validator SchemaValidator[[]T]) ([]T, error) {
	return extract(raw, '[', ']', validator)
}

func extract[T any](raw string, opening, closing byte, validator SchemaValidator[T]) (T, error) {
	var zero T

	cleaned := stripCodeFences(raw)
	jsonStr := extractJSONBlock(cleaned, opening, closing)
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no JSON %s found in response", ErrInvalidOutput, blockName(opening))
	}
	jsonStr = stripJSONComments(jsonStr)

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

func blockName(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}

// stripCodeFences drops markdown fence lines (```json, ```) and keeps the
// text between them.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock returns the first balanced opening...closing block of s.
// Delimiters inside string literals do not count.
func extractJSONBlock(s string, opening, closing byte) string {
	start := strings.IndexByte(s, opening)
	if start == -1 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == opening:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripJSONComments removes // and /* */ comments outside string literals.
// Models add them to plan JSON despite being told not to.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString && c == '/' && i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '*') {
			i = commentEnd(s, i)
			continue
		}
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		}
		b.WriteByte(c)
	}
	return b.String()
}

// commentEnd returns the index of the last byte of the comment starting at
// s[i]. A line comment ends before its newline; an unterminated comment runs
// to the end of s.
func commentEnd(s string, i int) int {
	if s[i+1] == '/' {
		if n := strings.IndexByte(s[i:], '\n'); n >= 0 {
			return i + n - 1
		}
		return len(s) - 1
	}
	if n := strings.Index(s[i+2:], "*/"); n >= 0 {
		return i + 2 + n + 1
	}
	return len(s) - 1
}
