package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func writeQuestions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestQuestionLoader_BuiltIn(t *testing.T) {
	set, err := NewQuestionLoader("").Questions()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultQuestionSetName, set.Name)
	assert.Equal(t, 30, set.Len())
}

func TestQuestionLoader_File(t *testing.T) {
	path := writeQuestions(t, `
name: collision
questions:
  - "Which vessels were involved?"
  - "  What was the closest point of approach?  "
  - Was a lookout posted?
`)

	set, err := NewQuestionLoader(path).Questions()

	require.NoError(t, err)
	assert.Equal(t, "collision", set.Name)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, domain.Question{Index: 1, Text: "Which vessels were involved?"}, set.Questions[0])
	assert.Equal(t, "What was the closest point of approach?", set.Questions[1].Text)
	assert.Equal(t, 3, set.Questions[2].Index)
}

func TestQuestionLoader_NameFromFile(t *testing.T) {
	path := writeQuestions(t, "questions: [one, two]\n")

	set, err := NewQuestionLoader(path).Questions()

	require.NoError(t, err)
	assert.Equal(t, "battery", set.Name)
}

func TestQuestionLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no questions", content: "name: empty\n"},
		{name: "blank question", content: "questions: [one, '  ']\n"},
		{name: "not yaml", content: "questions: [unterminated\n"},
		{name: "wrong shape", content: "questions: {a: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionLoader(writeQuestions(t, tt.content)).Questions()

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestQuestionLoader_MissingFile(t *testing.T) {
	_, err := NewQuestionLoader(filepath.Join(t.TempDir(), "nope.yaml")).Questions()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveQuestionSet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "set.yaml")
	want := domain.DefaultQuestionSet()

	require.NoError(t, SaveQuestionSet(path, want))
	got, err := NewQuestionLoader(path).Questions()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
