package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstorm/internal/model"
)

func raw(text string, correct int, opts ...string) RawQuestion {
	return RawQuestion{Text: text, Options: opts, Correct: correct, HasCorrect: true}
}

func TestFixIndexing_ShiftsOneBasedBatch(t *testing.T) {
	items := []RawQuestion{
		raw("q1", 1), raw("q2", 2), raw("q3", 4), {Text: "q4"},
	}
	assert.True(t, FixIndexing(items, 4))
	assert.Equal(t, 0, items[0].Correct)
	assert.Equal(t, 1, items[1].Correct)
	assert.Equal(t, 3, items[2].Correct)
	assert.False(t, items[3].HasCorrect)
}

func TestFixIndexing_LeavesZeroBasedBatch(t *testing.T) {
	items := []RawQuestion{raw("q1", 0), raw("q2", 2)}
	assert.False(t, FixIndexing(items, 4))
	assert.Equal(t, 0, items[0].Correct)
	assert.Equal(t, 2, items[1].Correct)
}

func TestFixIndexing_OutOfRangeBlocksShift(t *testing.T) {
	items := []RawQuestion{raw("q1", 1), raw("q2", 5)}
	assert.False(t, FixIndexing(items, 4))
	assert.Equal(t, 1, items[0].Correct)
}

func TestFixIndexing_SkipsTextMatchedAnswers(t *testing.T) {
	matched := raw("q1", 1)
	matched.FromText = true
	items := []RawQuestion{matched, raw("q2", 2), raw("q3", 4)}

	assert.True(t, FixIndexing(items, 4))
	assert.Equal(t, 1, items[0].Correct)
	assert.Equal(t, 1, items[1].Correct)
	assert.Equal(t, 3, items[2].Correct)
}

func TestFixIndexing_OnlyTextMatchedAnswers(t *testing.T) {
	a, b := raw("q1", 1), raw("q2", 3)
	a.FromText, b.FromText = true, true
	items := []RawQuestion{a, b}

	assert.False(t, FixIndexing(items, 4))
	assert.Equal(t, 1, items[0].Correct)
	assert.Equal(t, 3, items[1].Correct)
}

func TestFixIndexing_NoCorrectValues(t *testing.T) {
	assert.False(t, FixIndexing([]RawQuestion{{Text: "q"}}, 4))
	assert.False(t, FixIndexing(nil, 4))
}

func TestRepair_PadsShortOptionList(t *testing.T) {
	q, ok := Repair(raw("Which is a primary colour?", 1, "Green", "Red"), 4)
	require.True(t, ok)
	assert.Equal(t, []string{"Green", "Red", "Option C", "Option D"}, q.Options)
	assert.Equal(t, 1, q.CorrectIndex)
}

func TestRepair_TruncatesLongOptionList(t *testing.T) {
	q, ok := Repair(raw("Which number is the largest?", 2, "1", "2", "9", "3", "4", "5"), 3)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "9"}, q.Options)
	assert.Equal(t, 2, q.CorrectIndex)
}

func TestRepair_DropsBlankOptions(t *testing.T) {
	q, ok := Repair(raw("  What is the capital of Italy?  ", 0, " Rome ", "  ", "Milan", ""), 2)
	require.True(t, ok)
	assert.Equal(t, "What is the capital of Italy?", q.Text)
	assert.Equal(t, []string{"Rome", "Milan"}, q.Options)
}

func TestRepair_ClampsCorrectIndex(t *testing.T) {
	for _, c := range []int{-1, 4, 99} {
		q, ok := Repair(raw("Which planet is the hottest?", c, "Venus", "Mars", "Earth", "Pluto"), 4)
		require.True(t, ok)
		assert.Equal(t, 0, q.CorrectIndex, c)
	}

	q, ok := Repair(RawQuestion{Text: "Which planet is the hottest?", Options: []string{"Venus", "Mars"}}, 2)
	require.True(t, ok)
	assert.Equal(t, 0, q.CorrectIndex)
}

func TestRepair_Rejects(t *testing.T) {
	cases := map[string]RawQuestion{
		"blank text":        raw("   ", 0, "a", "b"),
		"short text":        raw("Why not?", 0, "Yes", "No"),
		"placeholder text":  raw("Question 3:", 0, "Yes", "No"),
		"ellipsis":          raw("..........", 0, "Yes", "No"),
		"one option":        raw("What is the capital of Spain?", 0, "Madrid", "  "),
		"duplicate options": raw("What is the capital of France?", 0, "Paris", "PARIS", "Rome"),
	}
	for name, item := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := Repair(item, 3)
			assert.False(t, ok)
		})
	}
}

func TestIsBad(t *testing.T) {
	good := model.Question{Text: "What is the capital of France?", Options: []string{"Paris", "Rome"}}
	assert.False(t, IsBad(good))

	blank := model.Question{Text: "What is the capital of France?", Options: []string{"Paris", " "}}
	assert.True(t, IsBad(blank))

	folded := model.Question{Text: "Which German word means street?", Options: []string{"Straße", "STRASSE"}}
	assert.True(t, IsBad(folded))
}
