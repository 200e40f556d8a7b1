// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"company_research/internal/app/config"
	"company_research/internal/feature/research/adapters/gemini"
	"company_research/internal/feature/research/adapters/sheets"
	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/feature/research/usecase"
	"company_research/internal/platform/metrics"
	"company_research/internal/platform/redis"
	"company_research/internal/shared/clock"
	"company_research/internal/shared/ratelimiter"
)

// NewRedis connects to Redis when it is configured.
// It returns nil when Redis is disabled or unreachable, and callers fall back to in-process state.
func NewRedis(ctx context.Context, cfg redis.Config) *redisv9.Client {
	if !cfg.Enabled() {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := redis.NewRedisClient(pingCtx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Using an in-process rate limiter.", "error", err)
		return nil
	}
	return rdb
}

// NewRateLimiter returns a limiter shared through Redis if available, otherwise an in-process sliding window.
func NewRateLimiter(rdb *redisv9.Client, callsPerMinute int, c clock.Clock) ratelimiter.RateLimiterInterface {
	if rdb != nil {
		return ratelimiter.NewRedisWindow(rdb, ratelimiter.DefaultRedisKey, callsPerMinute, time.Minute, c)
	}
	return ratelimiter.NewSlidingWindow(callsPerMinute, time.Minute, c)
}

// NewGenerateUsecase wires the prompt builder, Gemini client, limiter and retry policy into the batch orchestrator.
// A missing prompt template is returned as domain.ErrTemplateNotFound before any company is processed.
func NewGenerateUsecase(ctx context.Context, cfg config.Config, limiter ratelimiter.RateLimiterInterface) (*usecase.GenerateUsecase, error) {
	prompts, err := usecase.NewPromptBuilder(cfg.PromptPath)
	if err != nil {
		return nil, err
	}

	llm, err := gemini.NewClient(ctx, cfg.Gemini, nil)
	if err != nil {
		return nil, err
	}

	c := clock.Real{}
	caller := usecase.NewCallClient(llm, limiter, c, cfg.MaxRetries)
	caller.OnAttempt = metrics.ObserveAttempt

	uc := usecase.NewGenerateUsecase(prompts, caller, c)
	uc.OnResult = func(status entity.Status, elapsed time.Duration) {
		metrics.ObserveResult(string(status), elapsed)
	}
	return uc, nil
}

// NewWorkflow wires the Google Sheets source and sink around the given generator.
func NewWorkflow(ctx context.Context, cfg config.Config, generator usecase.BatchGenerator) (*usecase.WorkflowUsecase, error) {
	svc, err := sheets.NewService(ctx, cfg.Sheets, clock.Real{})
	if err != nil {
		return nil, err
	}
	return usecase.NewWorkflowUsecase(svc, generator, svc, clock.Real{}), nil
}
