package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService drives the per-document pipeline: chunk, embed, index,
// then answer the question battery one batch at a time.
type AnalysisService struct {
	embedder  driven.EmbeddingProvider
	completer driven.CompletionProvider
	chunker   driven.PostProcessor
	newIndex  func() driven.VectorIndex
	questions domain.QuestionSet
	pipeline  domain.PipelineSettings
	retry     domain.RetrySettings

	prompts driven.PromptStore
	loader  driven.DocumentLoader
	writer  driven.ResultWriter
	store   driven.ResultStore

	sleep SleepFunc
	now   func() time.Time
}

// NewAnalysisService creates an analysis service.
// newIndex is called once per analysis so no index is shared between documents.
func NewAnalysisService(
	embedder driven.EmbeddingProvider,
	completer driven.CompletionProvider,
	chunker driven.PostProcessor,
	newIndex func() driven.VectorIndex,
	questions domain.QuestionSet,
	settings domain.AppSettings,
) *AnalysisService {
	pipeline := settings.Pipeline
	if pipeline.BatchSize <= 0 {
		pipeline.BatchSize = domain.DefaultBatchSize
	}
	if pipeline.BatchPause < 0 {
		pipeline.BatchPause = 0
	}

	return &AnalysisService{
		embedder:  embedder,
		completer: completer,
		chunker:   chunker,
		newIndex:  newIndex,
		questions: questions,
		pipeline:  pipeline,
		retry:     settings.Retry,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// SetPromptStore sets the source of prompt templates.
func (s *AnalysisService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetLoader sets the loader used by AnalyzeFiles and AnalyzeRaw.
func (s *AnalysisService) SetLoader(loader driven.DocumentLoader) {
	s.loader = loader
}

// SetResultWriter sets the spreadsheet sink. Nil disables it.
func (s *AnalysisService) SetResultWriter(writer driven.ResultWriter) {
	s.writer = writer
}

// SetResultStore sets the result store sink. Nil disables it.
func (s *AnalysisService) SetResultStore(store driven.ResultStore) {
	s.store = store
}

// SetSleep replaces the wait used between batches and retries.
func (s *AnalysisService) SetSleep(fn SleepFunc) {
	if fn != nil {
		s.sleep = fn
	}
}

// Questions returns the question set used for every analysis.
func (s *AnalysisService) Questions() domain.QuestionSet {
	return s.questions
}

// Analyze answers every question about doc.
func (s *AnalysisService) Analyze(
	ctx context.Context, doc domain.Document, progress domain.ProgressFunc,
) (*domain.Result, error) {
	return s.analyze(ctx, doc.Name, []domain.Document{doc}, progress)
}

// analyze answers every question about parts as one input named name.
// Each part is chunked on its own so no chunk spans two documents.
func (s *AnalysisService) analyze(
	ctx context.Context, name string, parts []domain.Document, progress domain.ProgressFunc,
) (*domain.Result, error) {
	start := s.now()
	run := &analysisRun{doc: name, progress: progress, batch: -1}

	logger.Section("Analysis: " + name)
	run.enter(domain.StageUploaded)

	if err := s.questions.Validate(); err != nil {
		return nil, run.fail(fmt.Errorf("question set: %w", err))
	}
	if s.embedder == nil {
		return nil, run.fail(domain.ErrEmbeddingUnavailable)
	}
	if s.completer == nil {
		return nil, run.fail(domain.ErrCompletionUnavailable)
	}

	chunks, err := s.chunkParts(ctx, parts)
	if err != nil {
		return nil, run.fail(err)
	}
	run.enter(domain.StageChunked)
	logger.Debug("%d chunks", len(chunks))

	caller := NewRetryingCaller(s.retry, WithSleep(s.sleep), WithRetryHook(run.retried))

	index := NewChunkIndex(s.newIndex())
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := embedAll(ctx, caller, s.embedder, texts, s.pipeline.EmbedBatchSize)
	if err != nil {
		return nil, run.fail(fmt.Errorf("embed chunks: %w", err))
	}
	if err := index.Build(chunks, vectors); err != nil {
		return nil, run.fail(fmt.Errorf("build index: %w", err))
	}
	run.enter(domain.StageIndexed)

	batcher := NewQuestionBatcher(s.embedder, s.prompts, s.pipeline)
	parser := NewAnswerParser(s.pipeline.JoinContinuations)
	batches := Batches(s.questions.Questions, s.pipeline.BatchSize)
	run.total = len(batches)

	answers := make(domain.AnswerMap)
	var modelID string

	for n, questions := range batches {
		if n > 0 && s.pipeline.BatchPause > 0 {
			if err := s.sleep(ctx, s.pipeline.BatchPause); err != nil {
				return nil, run.fail(err)
			}
		}
		run.batch = n

		run.enter(domain.StageEmbedding)
		batch, err := batcher.Prepare(ctx, caller, index, n, questions)
		if err != nil {
			return nil, run.fail(err)
		}
		run.enter(domain.StageRetrieving)
		run.enter(domain.StagePrompting)

		run.enter(domain.StageCompleting)
		var text string
		err = caller.Call(ctx, func(ctx context.Context) error {
			var cerr error
			text, modelID, cerr = s.completer.Complete(ctx, batch.Prompt)
			return cerr
		})
		if err != nil {
			return nil, run.fail(fmt.Errorf("complete: %w", err))
		}

		run.enter(domain.StageParsing)
		lo, hi := batch.IndexRange()
		parsed := parser.Parse(text, lo, hi)
		logger.Debug("batch %d/%d: %d of %d answers parsed", n+1, len(batches), len(parsed), len(questions))
		answers.Merge(parsed)
	}

	if modelID == "" {
		modelID = s.completer.ModelName()
	}

	result := &domain.Result{
		ID:             uuid.New().String(),
		DocumentName:   name,
		ModelID:        modelID,
		EmbeddingModel: s.embedder.ModelName(),
		QuestionSet:    s.questions.Name,
		Answers:        domain.BuildAnswers(s.questions, answers),
		CreatedAt:      start,
		Duration:       s.now().Sub(start),
	}

	run.batch = -1
	run.enter(domain.StageComplete)
	logger.Info("%s: %d/%d questions answered", name, result.Answered(), len(result.Answers))
	return result, nil
}

// chunkParts chunks every part and numbers the chunks across all of them.
func (s *AnalysisService) chunkParts(ctx context.Context, parts []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for i := range parts {
		part, err := s.chunker.Process(ctx, &parts[i])
		if err != nil {
			return nil, err
		}
		for _, c := range part {
			c.Position = len(chunks)
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// AnalyzeFiles loads each path and analyses it.
func (s *AnalysisService) AnalyzeFiles(
	ctx context.Context, paths []string, opts driving.AnalyzeOptions,
) ([]domain.Result, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: no document loader configured", domain.ErrInvalidInput)
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := s.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return s.analyzeDocuments(ctx, docs, opts)
}

// AnalyzeRaw analyses file bodies already held in memory.
func (s *AnalysisService) AnalyzeRaw(
	ctx context.Context, raws []domain.RawDocument, opts driving.AnalyzeOptions,
) ([]domain.Result, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: no document loader configured", domain.ErrInvalidInput)
	}

	docs := make([]domain.Document, 0, len(raws))
	for i := range raws {
		doc, err := s.loader.LoadRaw(ctx, &raws[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return s.analyzeDocuments(ctx, docs, opts)
}

// analyzeDocuments runs documents one at a time, recording each result
// before moving on. With Combine set, all documents form one input.
// A sink failure does not stop the run; sink errors are joined and
// returned alongside every result produced.
func (s *AnalysisService) analyzeDocuments(
	ctx context.Context, docs []domain.Document, opts driving.AnalyzeOptions,
) ([]domain.Result, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents", domain.ErrInvalidInput)
	}

	inputs := make([][]domain.Document, 0, len(docs))
	if opts.Combine && len(docs) > 1 {
		inputs = append(inputs, docs)
	} else {
		for i := range docs {
			inputs = append(inputs, docs[i:i+1])
		}
	}

	results := make([]domain.Result, 0, len(inputs))
	var sinkErrs []error
	for _, parts := range inputs {
		result, err := s.analyze(ctx, domain.CombinedName(parts), parts, opts.Progress)
		if err != nil {
			return results, errors.Join(append(sinkErrs, err)...)
		}
		results = append(results, *result)
		if err := s.record(ctx, result); err != nil {
			logger.Warn("%s: %v", result.DocumentName, err)
			sinkErrs = append(sinkErrs, err)
		}
	}
	return results, errors.Join(sinkErrs...)
}

// record hands a result to the configured sinks.
func (s *AnalysisService) record(ctx context.Context, result *domain.Result) error {
	var errs []error
	if s.store != nil {
		if err := s.store.Save(ctx, result); err != nil {
			errs = append(errs, fmt.Errorf("save result: %w", err))
		}
	}
	if s.writer != nil {
		if err := s.writer.Append(ctx, s.questions, *result); err != nil {
			errs = append(errs, fmt.Errorf("write spreadsheet %s: %w", s.writer.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// analysisRun tracks the position of one analysis for progress and errors.
type analysisRun struct {
	doc      string
	progress domain.ProgressFunc
	stage    domain.Stage
	batch    int
	total    int
}

func (r *analysisRun) enter(stage domain.Stage) {
	r.stage = stage
	r.emit(domain.Progress{})
}

func (r *analysisRun) retried(attempt int, delay time.Duration, err error) {
	r.emit(domain.Progress{Attempt: attempt, Delay: delay, Err: err})
}

// fail reports the failure and wraps err with the current position.
func (r *analysisRun) fail(err error) error {
	failedAt := r.stage
	r.stage = domain.StageFailed
	r.emit(domain.Progress{Err: err})
	logger.Error("%s: %s failed: %v", r.doc, failedAt, err)

	return &domain.AnalysisError{Document: r.doc, Batch: r.batch, Stage: failedAt, Err: err}
}

func (r *analysisRun) emit(p domain.Progress) {
	if r.progress == nil {
		return
	}
	p.Document = r.doc
	if p.Stage == "" {
		p.Stage = r.stage
	}
	p.Batch = r.batch
	p.TotalBatches = r.total
	r.progress(p)
}
