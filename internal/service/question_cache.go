package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trivia-gen/internal/cache"
	"trivia-gen/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedQuestionGenerator memoises successful generations by the SHA-256 of
// the extracted text. Identical texts generated concurrently share one
// backend call. Only results tagged questions_generated are stored.
type CachedQuestionGenerator struct {
	next         domain.QuestionGenerator
	cache        domain.Cache
	ttl          time.Duration
	numQuestions int
	callTimeout  time.Duration
	logger       *zap.Logger
	sfGroup      singleflight.Group
}

// NewCachedQuestionGenerator wraps next. numQuestions is only part of the
// cache key, so changing the configured count does not serve stale sets.
// callTimeout bounds the shared backend call, which outlives any single
// caller's context; zero leaves it unbounded.
func NewCachedQuestionGenerator(next domain.QuestionGenerator, c domain.Cache, ttl time.Duration, numQuestions int, callTimeout time.Duration, logger *zap.Logger) (*CachedQuestionGenerator, error) {
	if next == nil {
		return nil, fmt.Errorf("question generator cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache instance cannot be nil for CachedQuestionGenerator")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedQuestionGenerator{
		next:         next,
		cache:        c,
		ttl:          ttl,
		numQuestions: numQuestions,
		callTimeout:  callTimeout,
		logger:       logger,
	}, nil
}

// WithQuestionCache returns next unchanged when ttl <= 0, so every submission
// reaches the backend. Otherwise it wraps next in a CachedQuestionGenerator.
func WithQuestionCache(next domain.QuestionGenerator, c domain.Cache, ttl time.Duration, numQuestions int, callTimeout time.Duration, logger *zap.Logger) (domain.QuestionGenerator, error) {
	if ttl <= 0 {
		return next, nil
	}
	return NewCachedQuestionGenerator(next, c, ttl, numQuestions, callTimeout, logger)
}

// GenerateQuestions implements domain.QuestionGenerator.
func (g *CachedQuestionGenerator) GenerateQuestions(ctx context.Context, text string) (*domain.GenerationResult, error) {
	key := cache.QuestionsKey(text, g.numQuestions)

	cached, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		g.logger.Debug("Generated questions cache hit", zap.String("key", key))
		return &domain.GenerationResult{Status: domain.TagQuestionsGenerated, Questions: cached}, nil
	case errors.Is(err, domain.ErrCacheMiss):
		g.logger.Debug("Generated questions cache miss", zap.String("key", key))
	default:
		// A broken cache must not fail the stage.
		g.logger.Error("Failed to read generated questions from cache", zap.Error(err), zap.String("key", key))
	}

	// The shared call must not die with whichever caller started it, so it
	// runs detached and every caller waits on its own context.
	ch := g.sfGroup.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := g.detach(ctx)
		defer cancel()

		result, genErr := g.next.GenerateQuestions(callCtx, text)
		if genErr != nil {
			return nil, genErr
		}
		if result != nil && result.Status == domain.TagQuestionsGenerated {
			if setErr := g.cache.Set(callCtx, key, result.Questions, g.ttl); setErr != nil {
				g.logger.Error("Failed to cache generated questions", zap.Error(setErr), zap.String("key", key))
			}
		}
		return result, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		g.logger.Debug("Shared in-flight question generation", zap.String("key", key))
	}

	result, ok := res.Val.(*domain.GenerationResult)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight for question generation: %T", res.Val)
	}
	return result, nil
}

func (g *CachedQuestionGenerator) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if g.callTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, g.callTimeout)
}

var _ domain.QuestionGenerator = (*CachedQuestionGenerator)(nil)
