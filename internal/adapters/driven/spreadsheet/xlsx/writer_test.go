package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// readRows returns every row of the results sheet, header included.
func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(SheetName)
}

func testSet() domain.QuestionSet {
	return domain.NewQuestionSet("t", []string{"When?", "Where?", "Who?"})
}

func result(name string, answers domain.AnswerMap) domain.Result {
	return domain.Result{
		DocumentName: name,
		ModelID:      "llama-3.1-8b",
		Answers:      domain.BuildAnswers(testSet(), answers),
	}
}

func TestWriter_CreatesWorkbookWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.xlsx")
	w := NewWriter(path)

	err := w.Append(context.Background(), testSet(),
		result("a.pdf", domain.AnswerMap{1: "03:10", 3: "Owner Ltd"}))
	require.NoError(t, err)

	rows, err := readRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name", "IA_model", "When?", "Where?", "Who?"}, rows[0])
	assert.Equal(t, []string{"1", "a.pdf", "llama-3.1-8b", "03:10", "-", "Owner Ltd"}, rows[1])
	assert.Equal(t, path, w.Path())
}

func TestWriter_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	ctx := context.Background()

	require.NoError(t, NewWriter(path).Append(ctx, testSet(), result("a.pdf", nil)))
	require.NoError(t, NewWriter(path).Append(ctx, testSet(),
		result("b.pdf", domain.AnswerMap{2: "North Sea"}),
		result("c.txt", nil)))

	rows, err := readRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, []string{"2", "b.pdf", "llama-3.1-8b", "-", "North Sea", "-"}, rows[2])
	assert.Equal(t, "3", rows[3][0])
	assert.Equal(t, "c.txt", rows[3][1])
}

func TestWriter_HeaderMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	ctx := context.Background()
	require.NoError(t, NewWriter(path).Append(ctx, testSet(), result("a.pdf", nil)))

	other := domain.NewQuestionSet("other", []string{"Why?"})
	err := NewWriter(path).Append(ctx, other, domain.Result{DocumentName: "b.pdf"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWriter_NoResultsWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	require.NoError(t, NewWriter(path).Append(context.Background(), testSet()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWriter(filepath.Join(t.TempDir(), "r.xlsx")).Append(ctx, testSet(), result("a.pdf", nil))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRow_MissingAnswersUseSentinel(t *testing.T) {
	row := Row(7, testSet(), domain.Result{DocumentName: "x.pdf", ModelID: "m",
		Answers: []domain.Answer{{Index: 2, Text: "Bay of Biscay"}, {Index: 3, Text: ""}}})

	assert.Equal(t, []string{"7", "x.pdf", "m", "-", "Bay of Biscay", "-"}, row)
}
