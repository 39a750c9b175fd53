package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title    string  `json:"title"`
	Coverage float64 `json:"coverage"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"title":"Warfarin basics","coverage":0.95}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Warfarin basics", result.Title)
	assert.Equal(t, 0.95, result.Coverage)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"title\":\"OTC analgesics\",\"coverage\":0.88}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "OTC analgesics", result.Title)
	assert.Equal(t, 0.88, result.Coverage)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is the session plan:\n{\"title\":\"Inhaler technique\",\"coverage\":0.72}\nHope that helps!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Inhaler technique", result.Title)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type nested struct {
		Title string            `json:"title"`
		Meta  map[string]string `json:"meta"`
	}
	raw := `{"title":"Antibiotics","meta":{"audience":"new hires"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Antibiotics", result.Title)
	assert.Equal(t, "new hires", result.Meta["audience"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	raw := "I don't know what you mean."
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	raw := `{"title":"Warfarin basics", broken}`
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	raw := `{"title":"Warfarin basics","coverage":1.5}`
	validator := func(p testPayload) error {
		if p.Coverage < 0 || p.Coverage > 1 {
			return fmt.Errorf("coverage must be in [0,1], got %f", p.Coverage)
		}
		return nil
	}
	_, err := ExtractJSON(raw, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_ValidationSuccess(t *testing.T) {
	raw := `{"title":"OTC analgesics","coverage":0.9}`
	validator := func(p testPayload) error {
		if p.Coverage < 0 || p.Coverage > 1 {
			return fmt.Errorf("coverage out of range")
		}
		return nil
	}
	result, err := ExtractJSON(raw, validator)
	require.NoError(t, err)
	assert.Equal(t, "OTC analgesics", result.Title)
}

func TestExtractJSON_EscapedBracesInString(t *testing.T) {
	raw := `{"title":"Dosing {mg} \"per\" kg}","coverage":0.9}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `Dosing {mg} "per" kg}`, result.Title)
}

func TestExtractJSON_StripsComments(t *testing.T) {
	raw := "{\n  // model chatter\n  \"title\": \"Statins\", /* note */\n  \"coverage\": 0.75\n}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Statins", result.Title)
	assert.Equal(t, 0.75, result.Coverage)
}

func TestExtractJSON_CommentMarkersInsideStringsKept(t *testing.T) {
	raw := `{"title":"See https://padlet.com /* not a comment */ \"//x\"","coverage":1} // trailing`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `See https://padlet.com /* not a comment */ "//x"`, result.Title)
}

func TestExtractJSON_UnterminatedBlockCommentIsInvalid(t *testing.T) {
	_, err := ExtractJSON[testPayload]("{\"title\":\"Statins\" /* never closed }", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

type listItem struct {
	Question string `json:"question"`
}

func TestExtractJSONList_BareArray(t *testing.T) {
	raw := "```json\n[{\"question\":\"Q1\"},{\"question\":\"Q2 [hard]\"}]\n```"
	items, err := ExtractJSONList[listItem](raw, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Q2 [hard]", items[1].Question)
}

func TestExtractJSONList_WrappedInObject(t *testing.T) {
	raw := `{"questions":[{"question":"Q1"}]}`
	items, err := ExtractJSONList[listItem](raw, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Q1", items[0].Question)
}

func TestExtractJSONList_NoArray(t *testing.T) {
	_, err := ExtractJSONList[listItem](`{"question":"Q1"}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "no JSON array")
}

func TestExtractJSONList_Validator(t *testing.T) {
	nonEmpty := func(items []listItem) error {
		if len(items) == 0 {
			return fmt.Errorf("empty")
		}
		return nil
	}
	_, err := ExtractJSONList(`[]`, nonEmpty)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_MultipleFences(t *testing.T) {
	raw := "Some text\n```\n{\"title\":\"OTC analgesics\",\"coverage\":0.8}\n```\nMore text"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "OTC analgesics", result.Title)
}
