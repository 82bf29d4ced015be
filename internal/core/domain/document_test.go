package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedName(t *testing.T) {
	docs := []Document{
		{ID: "a", Name: "one.pdf", Text: "first"},
		{ID: "b", Name: "two.pdf", Text: "second"},
	}

	assert.Equal(t, "one.pdf + two.pdf", CombinedName(docs))
	assert.Equal(t, "one.pdf", CombinedName(docs[:1]))
}

func TestDefaultQuestionSet(t *testing.T) {
	set := DefaultQuestionSet()

	require.Equal(t, 30, set.Len())
	require.NoError(t, set.Validate())
	assert.Equal(t, DefaultQuestionSetName, set.Name)
	assert.Equal(t, "At what time did the incident occur?", set.Questions[0].Text)
	assert.Equal(t, 1, set.Questions[0].Index)
	assert.Equal(t, 30, set.Questions[29].Index)
	assert.Len(t, set.Texts(), 30)
}

func TestQuestionSet_Validate(t *testing.T) {
	assert.ErrorIs(t, QuestionSet{}.Validate(), ErrInvalidInput)

	gap := QuestionSet{Questions: []Question{{Index: 1, Text: "a"}, {Index: 3, Text: "b"}}}
	assert.ErrorIs(t, gap.Validate(), ErrInvalidInput)

	blank := NewQuestionSet("x", []string{"a", ""})
	assert.ErrorIs(t, blank.Validate(), ErrInvalidInput)
}

func TestBuildAnswers_FillsSentinel(t *testing.T) {
	set := NewQuestionSet("t", []string{"q1", "q2", "q3"})
	answers := BuildAnswers(set, AnswerMap{1: "Paris", 3: ""})

	require.Len(t, answers, 3)
	assert.Equal(t, Answer{Index: 1, Question: "q1", Text: "Paris"}, answers[0])
	assert.Equal(t, NoAnswer, answers[1].Text)
	assert.Equal(t, NoAnswer, answers[2].Text)
}

func TestAnswerMap_Merge(t *testing.T) {
	m := AnswerMap{1: "a"}
	m.Merge(AnswerMap{2: "b", 1: "c"})
	assert.Equal(t, AnswerMap{1: "c", 2: "b"}, m)
}

func TestResult_Helpers(t *testing.T) {
	r := &Result{Answers: []Answer{
		{Index: 1, Question: "q1", Text: "yes"},
		{Index: 2, Question: "q2", Text: NoAnswer},
	}}

	assert.Equal(t, 1, r.Answered())
	assert.Equal(t, map[string]string{"q1": "yes", "q2": NoAnswer}, r.AnswerByQuestion())
}

func TestBatch_IndexRange(t *testing.T) {
	b := Batch{Questions: []Question{{Index: 11}, {Index: 12}, {Index: 13}}}
	lo, hi := b.IndexRange()
	assert.Equal(t, 11, lo)
	assert.Equal(t, 13, hi)

	lo, hi = Batch{}.IndexRange()
	assert.Greater(t, lo, hi)
}

func TestStage_IsTerminal(t *testing.T) {
	assert.True(t, StageComplete.IsTerminal())
	assert.True(t, StageFailed.IsTerminal())
	assert.False(t, StageParsing.IsTerminal())
	assert.Equal(t, "indexed", StageIndexed.String())
}
