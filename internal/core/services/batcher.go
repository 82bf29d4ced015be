package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

// Batches partitions questions into consecutive groups of size.
// The last group may be shorter. Indices are kept as they are.
func Batches(questions []domain.Question, size int) [][]domain.Question {
	if size <= 0 {
		size = domain.DefaultBatchSize
	}
	out := make([][]domain.Question, 0, (len(questions)+size-1)/size)
	for start := 0; start < len(questions); start += size {
		end := min(start+size, len(questions))
		out = append(out, questions[start:end])
	}
	return out
}

// QuestionBatcher retrieves context for a batch of questions
// and renders the completion prompt.
type QuestionBatcher struct {
	embedder       driven.EmbeddingProvider
	prompts        driven.PromptStore
	topK           int
	embedBatchSize int
	language       string
}

// NewQuestionBatcher creates a batcher. prompts may be nil, in which case
// the built-in templates are used.
func NewQuestionBatcher(
	embedder driven.EmbeddingProvider,
	prompts driven.PromptStore,
	pipeline domain.PipelineSettings,
) *QuestionBatcher {
	b := &QuestionBatcher{
		embedder:       embedder,
		prompts:        prompts,
		topK:           pipeline.TopK,
		embedBatchSize: pipeline.EmbedBatchSize,
		language:       pipeline.Language,
	}
	if b.topK <= 0 {
		b.topK = domain.DefaultTopK
	}
	if b.language == "" {
		b.language = domain.DefaultLanguage
	}
	return b
}

// Prepare embeds the questions, retrieves the top-k chunks for each,
// deduplicates them by exact text and renders the prompt.
// number is the 0-based batch position.
func (b *QuestionBatcher) Prepare(
	ctx context.Context,
	caller *RetryingCaller,
	index *ChunkIndex,
	number int,
	questions []domain.Question,
) (domain.Batch, error) {
	batch := domain.Batch{Number: number, Questions: questions}

	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}

	vectors, err := embedAll(ctx, caller, b.embedder, texts, b.embedBatchSize)
	if err != nil {
		return batch, fmt.Errorf("embed questions: %w", err)
	}

	var retrieved [][]string
	for i, v := range vectors {
		hits, err := index.Search(v, b.topK)
		if err != nil {
			return batch, fmt.Errorf("retrieve for question %d: %w", questions[i].Index, err)
		}
		texts := make([]string, len(hits))
		for j, h := range hits {
			texts[j] = h.Chunk.Content
		}
		retrieved = append(retrieved, texts)
	}
	batch.Context = dedupContext(retrieved)
	logger.Debug("batch %d: %d questions, %d context chunks", number+1, len(questions), len(batch.Context))

	header, footer := b.templates()
	batch.Prompt = RenderPrompt(header, footer, b.language, number+1, batch.Context, questions)
	return batch, nil
}

func (b *QuestionBatcher) templates() (header, footer string) {
	header, footer = domain.DefaultBatchHeader, domain.DefaultBatchFooter
	if b.prompts == nil {
		return header, footer
	}
	if h, err := b.prompts.Load(driven.PromptBatchHeader); err == nil && h != "" {
		header = h
	} else if err != nil {
		logger.Warn("load prompt %s: %v", driven.PromptBatchHeader, err)
	}
	if f, err := b.prompts.Load(driven.PromptBatchFooter); err == nil && f != "" {
		footer = f
	} else if err != nil {
		logger.Warn("load prompt %s: %v", driven.PromptBatchFooter, err)
	}
	return header, footer
}

// dedupContext flattens per-question results in question then rank order,
// keeping the first occurrence of each text.
func dedupContext(retrieved [][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, texts := range retrieved {
		for _, t := range texts {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// RenderPrompt assembles the batch prompt: header, CONTEXTO block,
// numbered questions with their global indices, then the footer.
// batchNumber is 1-based.
func RenderPrompt(header, footer, language string, batchNumber int, context []string, questions []domain.Question) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(header, language, batchNumber))
	sb.WriteString("\n\nCONTEXTO:\n")
	sb.WriteString(strings.Join(context, "\n"))
	sb.WriteString("\n\n")

	for _, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", q.Index, q.Text)
	}

	sb.WriteString("\n")
	sb.WriteString(footer)
	sb.WriteString("\n")
	return sb.String()
}

// renderHeader fills the language (%s) and batch number (%d) placeholders.
// A template without them is used as written.
func renderHeader(header, language string, batchNumber int) string {
	r := strings.NewReplacer("%s", language, "%d", strconv.Itoa(batchNumber))
	return r.Replace(header)
}
