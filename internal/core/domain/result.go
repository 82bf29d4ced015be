package domain

import "time"

// NoAnswer is written for every question the model did not answer.
const NoAnswer = "-"

// AnswerMap maps a global question index to its answer text.
// A missing key means the model gave no answer.
type AnswerMap map[int]string

// Merge copies every entry of other into m, overwriting duplicates.
func (m AnswerMap) Merge(other AnswerMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Answer is one question/answer pair of a Result.
type Answer struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Text     string `json:"answer"`
}

// Result is the output record for one analysed document.
type Result struct {
	ID             string        `json:"id"`
	DocumentName   string        `json:"document_name"`
	ModelID        string        `json:"model"`
	EmbeddingModel string        `json:"embedding_model,omitempty"`
	QuestionSet    string        `json:"question_set,omitempty"`
	Answers        []Answer      `json:"answers"`
	CreatedAt      time.Time     `json:"created_at"`
	Duration       time.Duration `json:"duration"`
}

// BuildAnswers produces one Answer per question in order,
// substituting NoAnswer for indices absent from m.
func BuildAnswers(set QuestionSet, m AnswerMap) []Answer {
	out := make([]Answer, len(set.Questions))
	for i, q := range set.Questions {
		text, ok := m[q.Index]
		if !ok || text == "" {
			text = NoAnswer
		}
		out[i] = Answer{Index: q.Index, Question: q.Text, Text: text}
	}
	return out
}

// AnswerByQuestion returns the answers keyed by question text.
func (r *Result) AnswerByQuestion() map[string]string {
	out := make(map[string]string, len(r.Answers))
	for _, a := range r.Answers {
		out[a.Question] = a.Text
	}
	return out
}

// Answered counts answers that are not the sentinel.
func (r *Result) Answered() int {
	n := 0
	for _, a := range r.Answers {
		if a.Text != NoAnswer {
			n++
		}
	}
	return n
}

// Batch is a contiguous slice of the question list with its own context.
type Batch struct {
	// Number is the 0-based batch position.
	Number int

	// Questions carry their global indices.
	Questions []Question

	// Context holds the deduplicated retrieved chunk texts.
	Context []string

	// Prompt is the rendered completion prompt.
	Prompt string
}

// IndexRange returns the first and last global index covered by the batch.
func (b Batch) IndexRange() (lo, hi int) {
	if len(b.Questions) == 0 {
		return 0, -1
	}
	return b.Questions[0].Index, b.Questions[len(b.Questions)-1].Index
}
