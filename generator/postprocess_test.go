package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBalanced(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounded by prose", in: "Sure! {\"a\":[\"x\"]} Hope that helps!", want: `{"a":["x"]}`},
		{name: "code fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "braces inside strings", in: `note {"a":"use { and } freely","b":"\"}"} end`, want: `{"a":"use { and } freely","b":"\"}"}`},
		{name: "nested objects", in: `x {"a":{"b":{}}} y`, want: `{"a":{"b":{}}}`},
		{name: "second object ignored", in: `{"a":1} and also {"b":2}`, want: `{"a":1}`},
		{name: "skips non-JSON brace group", in: `Use {placeholders} like this: {"a":1}`, want: `{"a":1}`},
		{name: "skips unclosed brace in prose", in: `Here is the plan (replace {brand with your name): {"a":1} Enjoy!`, want: `{"a":1}`},
		{name: "skips unclosed brace with stray quote", in: `Tip: {use "quotes} then {"a":1}`, want: `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.in, ExtractBalanced)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONBalancedErrors(t *testing.T) {
	_, err := ExtractJSON("no json here", ExtractBalanced)
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = ExtractJSON(`{"a": ["b", 1]`, ExtractBalanced)
	assert.ErrorIs(t, err, ErrUnbalancedJSON)

	_, err = ExtractJSON(`{first {second`, ExtractBalanced)
	assert.ErrorIs(t, err, ErrUnbalancedJSON)

	_, err = ExtractJSON(`} backwards {`, ExtractBalanced)
	assert.ErrorIs(t, err, ErrUnbalancedJSON)

	_, err = ExtractJSON(`{not json}`, ExtractBalanced)
	assert.Error(t, err)
}

func TestExtractJSONLenient(t *testing.T) {
	got, err := ExtractJSON("Sure! {\"a\":1} Hope that helps!", ExtractLenient)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	// First '{' to last '}' spans both fragments.
	got, err = ExtractJSON(`{"a":1} and {"b":2}`, ExtractLenient)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1} and {"b":2}`, got)

	got, err = ExtractJSON("  nothing  ", ExtractLenient)
	require.NoError(t, err)
	assert.Equal(t, "nothing", got)

	got, err = ExtractJSON("} {", ExtractLenient)
	require.NoError(t, err)
	assert.Equal(t, "} {", got)
}

func TestParseExtractMode(t *testing.T) {
	m, err := ParseExtractMode("")
	require.NoError(t, err)
	assert.Equal(t, ExtractBalanced, m)

	m, err = ParseExtractMode("Lenient")
	require.NoError(t, err)
	assert.Equal(t, ExtractLenient, m)

	_, err = ParseExtractMode("greedy")
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	res, err := ParseStrategy(exampleResponse)
	require.NoError(t, err)
	assert.Equal(t, exampleResult, res)

	res, err = ParseStrategy(`{"metrics": [], "extra": ["ignored"]}`)
	require.NoError(t, err)
	items, ok := res.Items(SectionMetrics)
	assert.True(t, ok)
	assert.Empty(t, items)
	assert.Len(t, res.Missing(), 5)

	_, err = ParseStrategy(`null`)
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = ParseStrategy(`{"a":1} and {"b":2}`)
	assert.Error(t, err)
}

func TestCheckShape(t *testing.T) {
	assert.NoError(t, CheckShape(exampleResult))

	partial := exampleResult
	partial.ContentPillars = nil
	err := CheckShape(partial)
	assert.ErrorIs(t, err, ErrMissingSection)
	assert.Contains(t, err.Error(), "content_pillars")
}
