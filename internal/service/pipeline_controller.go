package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"trivia-gen/internal/domain"

	"go.uber.org/zap"
)

// PipelineOptions bounds each backend stage. Zero means the stage only ends
// with the caller's context.
type PipelineOptions struct {
	ExtractTimeout  time.Duration
	GenerateTimeout time.Duration
}

// PipelineController drives one session's upload-then-generate sequence and
// owns its PipelineState. Readers only ever see copies via Snapshot.
type PipelineController struct {
	extractor domain.TextExtractor
	generator domain.QuestionGenerator
	opts      PipelineOptions
	logger    *zap.Logger

	inFlight atomic.Bool

	mu    sync.RWMutex
	state domain.PipelineState
}

// NewPipelineController creates a controller with a fresh, idle state.
func NewPipelineController(
	extractor domain.TextExtractor,
	generator domain.QuestionGenerator,
	opts PipelineOptions,
	logger *zap.Logger,
) *PipelineController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineController{
		extractor: extractor,
		generator: generator,
		opts:      opts,
		logger:    logger,
		state:     domain.NewPipelineState(),
	}
}

// Snapshot returns a copy of the current state.
func (c *PipelineController) Snapshot() domain.PipelineState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SelectFile replaces the selected file. A submission already running keeps
// the file it started with.
func (c *PipelineController) SelectFile(file *domain.UploadRequest) {
	c.mu.Lock()
	c.state.SelectedFile = file
	c.mu.Unlock()
}

// Submit runs both stages for file and blocks until they resolve. A nil file
// yields a MISSING_INPUT error without touching state; a concurrent call
// while busy yields SUBMIT_IN_PROGRESS. Stage failures are reported in the
// outcome, never as an error.
func (c *PipelineController) Submit(ctx context.Context, file *domain.UploadRequest) (*domain.PipelineOutcome, error) {
	if err := c.begin(file); err != nil {
		return nil, err
	}
	return c.run(ctx, file), nil
}

// SubmitSelected is Submit with the currently selected file.
func (c *PipelineController) SubmitSelected(ctx context.Context) (*domain.PipelineOutcome, error) {
	return c.Submit(ctx, c.Snapshot().SelectedFile)
}

// Start performs Submit's checks and marks the state busy before returning,
// then runs the stages in the background. The channel yields the outcome
// once and is closed.
func (c *PipelineController) Start(ctx context.Context, file *domain.UploadRequest) (<-chan *domain.PipelineOutcome, error) {
	if err := c.begin(file); err != nil {
		return nil, err
	}
	done := make(chan *domain.PipelineOutcome, 1)
	go func() {
		defer close(done)
		done <- c.run(ctx, file)
	}()
	return done, nil
}

func (c *PipelineController) begin(file *domain.UploadRequest) error {
	if file == nil {
		return domain.NewMissingInputError()
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return domain.NewSubmitInProgressError()
	}
	c.update(func(s *domain.PipelineState) {
		s.Busy = true
		s.Status = domain.StatusMessage{Kind: domain.StatusProcessing, Text: domain.MsgProcessing}
	})
	return nil
}

// run must only be called after a successful begin. The busy flag is
// released on every exit path, panics included.
func (c *PipelineController) run(ctx context.Context, file *domain.UploadRequest) *domain.PipelineOutcome {
	defer c.finish()

	outcome := &domain.PipelineOutcome{}
	log := c.logger.With(zap.String("file_name", file.FileName), zap.Int64("size", file.Size()))

	log.Info("Extracting text from document")
	text, err := c.extract(ctx, file)
	if err != nil {
		log.Warn("Text extraction failed", zap.Error(err))
		outcome.Failure = &domain.StageFailure{Stage: domain.StageExtraction, Cause: err}
		c.setStatus(domain.StatusFailed, domain.MsgExtractionFailed)
		return outcome
	}
	outcome.Context = &text
	c.update(func(s *domain.PipelineState) {
		s.ExtractedContext = &text
		s.Status = domain.StatusMessage{Kind: domain.StatusSucceeded, Text: domain.MsgTextExtracted}
	})
	log.Info("Text extracted", zap.Int("context_length", len(text)))

	questions, err := c.generate(ctx, text)
	if err != nil {
		log.Warn("Question generation failed", zap.Error(err))
		outcome.Failure = &domain.StageFailure{Stage: domain.StageGeneration, Cause: err}
		c.setStatus(domain.StatusFailed, domain.MsgGenerationFailed)
		return outcome
	}
	outcome.Questions = &questions
	c.update(func(s *domain.PipelineState) {
		s.GeneratedQuestions = &questions
		s.Status = domain.StatusMessage{Kind: domain.StatusSucceeded, Text: domain.MsgQuestionsReady}
	})
	log.Info("Questions generated", zap.Int("questions_length", len(questions)))

	return outcome
}

func (c *PipelineController) extract(ctx context.Context, file *domain.UploadRequest) (text string, err error) {
	defer recoverStage(&err)

	stageCtx, cancel := withStageTimeout(ctx, c.opts.ExtractTimeout)
	defer cancel()

	res, err := c.extractor.ExtractText(stageCtx, file)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", fmt.Errorf("%w: empty extraction result", domain.ErrMalformedResponse)
	}
	if res.Status != domain.TagTextExtracted {
		return "", fmt.Errorf("%w: %q", domain.ErrUnexpectedTag, res.Status)
	}
	return res.Context, nil
}

func (c *PipelineController) generate(ctx context.Context, text string) (questions string, err error) {
	defer recoverStage(&err)

	stageCtx, cancel := withStageTimeout(ctx, c.opts.GenerateTimeout)
	defer cancel()

	res, err := c.generator.GenerateQuestions(stageCtx, text)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", fmt.Errorf("%w: empty generation result", domain.ErrMalformedResponse)
	}
	if res.Status != domain.TagQuestionsGenerated {
		return "", fmt.Errorf("%w: %q", domain.ErrUnexpectedTag, res.Status)
	}
	return res.Questions, nil
}

func (c *PipelineController) finish() {
	c.update(func(s *domain.PipelineState) {
		s.Busy = false
	})
	c.inFlight.Store(false)
}

func (c *PipelineController) setStatus(kind domain.StatusKind, text string) {
	c.update(func(s *domain.PipelineState) {
		s.Status = domain.StatusMessage{Kind: kind, Text: text}
	})
}

func (c *PipelineController) update(fn func(s *domain.PipelineState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

func withStageTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func recoverStage(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", domain.ErrStagePanic, r)
	}
}
