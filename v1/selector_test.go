package builder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	cases := []struct {
		raw    string
		ids    []string
		ok     bool
		reason string
	}{
		{raw: `["a","b"]`, ids: []string{"a", "b"}, ok: true},
		{raw: "  [\"A\", \"A\", \"Z\"]\n", ids: []string{"A", "A", "Z"}, ok: true},
		{raw: `[]`, ids: []string{}, ok: true},
		{raw: `["a", 1, null]`, ids: []string{"a"}, ok: true, reason: "dropped 2 non-string items"},
		{raw: `{"a":1}`, ids: []string{}, reason: "not a list"},
		{raw: `"a"`, ids: []string{}, reason: "not a list"},
		{raw: `not valid json`, ids: []string{}},
		{raw: "```json\n[\"a\"]\n```", ids: []string{}},
		{raw: ``, ids: []string{}},
	}
	for _, c := range cases {
		result := ParseSelection(c.raw)
		assert.Equal(t, c.ids, result.IDs, c.raw)
		assert.Equal(t, c.ok, result.OK, c.raw)
		if c.ok && c.reason == "" {
			assert.Empty(t, result.Reason, c.raw)
		} else {
			assert.NotEmpty(t, result.Reason, c.raw)
		}
		if c.reason != "" {
			assert.Equal(t, c.reason, result.Reason, c.raw)
		}
	}
}

func TestParseSelectionMode(t *testing.T) {
	mode, err := ParseSelectionMode("")
	require.NoError(t, err)
	assert.Equal(t, SelectionModeTitles, mode)

	mode, err = ParseSelectionMode("full")
	require.NoError(t, err)
	assert.Equal(t, SelectionModeFull, mode)

	_, err = ParseSelectionMode("vector")
	assert.Error(t, err)
}

func TestSelectorSendsTitles(t *testing.T) {
	var got Request
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		got = req
		return `["B", "A"]`, nil
	})

	sel := NewSelector(r, SelectionModeTitles).Select(context.Background(), sampleCatalogue(t), "what is bar?")
	assert.True(t, sel.OK)
	assert.Equal(t, []string{"B", "A"}, sel.IDs)
	assert.Equal(t, `["B", "A"]`, sel.Raw)

	assert.Equal(t, "You are a system that selects the minimal set of catalogue items that best answer the user query.", got.System)
	assert.Contains(t, got.User, "User request: what is bar?")
	assert.Contains(t, got.User, "0. TITLE: A\n1. TITLE: B\n2. TITLE: C\n")
	assert.NotContains(t, got.User, "foo")
	assert.Equal(t, 0.0, got.Temperature)
	assert.Equal(t, 500, got.MaxTokens)
}

func TestSelectorSendsFullText(t *testing.T) {
	var got Request
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		got = req
		return `[]`, nil
	})

	sel := NewSelector(r, SelectionModeFull).Select(context.Background(), sampleCatalogue(t), "q")
	assert.True(t, sel.OK)
	assert.Empty(t, sel.IDs)
	assert.Contains(t, got.User, "0. TITLE: A\nfoo")
	assert.Contains(t, got.User, "2. TITLE: C\nbaz")
}

func TestSelectorDegradesOnMalformedResponse(t *testing.T) {
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return "I would pick A and B.", nil
	})

	sel := NewSelector(r, SelectionModeTitles).Select(context.Background(), sampleCatalogue(t), "q")
	assert.False(t, sel.OK)
	assert.Empty(t, sel.IDs)
	assert.NotEmpty(t, sel.Reason)
	assert.Equal(t, "I would pick A and B.", sel.Raw)
}

func TestSelectorDegradesOnRequestFailure(t *testing.T) {
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("connection refused")
	})

	sel := NewSelector(r, SelectionModeTitles).Select(context.Background(), sampleCatalogue(t), "q")
	assert.False(t, sel.OK)
	assert.Empty(t, sel.IDs)
	assert.True(t, strings.HasPrefix(sel.Reason, "request failed: "), sel.Reason)
	assert.Contains(t, sel.Reason, "connection refused")
}

func TestSelectorDegradesOnTimeout(t *testing.T) {
	slow := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		ctx, cancel := withTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		<-ctx.Done()
		return "", ctx.Err()
	})

	sel := NewSelector(slow, SelectionModeTitles).Select(context.Background(), sampleCatalogue(t), "q")
	assert.Empty(t, sel.IDs)
	assert.Contains(t, sel.Reason, "request failed")
	assert.Contains(t, sel.Reason, context.DeadlineExceeded.Error())
}

func TestSelectorIgnoresNonStringItems(t *testing.T) {
	c, err := NewCatalogue([]Chunk{{ID: "1", Text: "one"}, {ID: "true", Text: "yes"}})
	require.NoError(t, err)
	r := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return `[1, true, "1"]`, nil
	})

	sel := NewSelector(r, SelectionModeTitles).Select(context.Background(), c, "q")
	assert.True(t, sel.OK)
	assert.Equal(t, []string{"1"}, sel.IDs)
	assert.Equal(t, "dropped 2 non-string items", sel.Reason)
	assert.Equal(t, "one\n", Reconstruct(c, sel.IDs))
}
