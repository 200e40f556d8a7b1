package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"company_research/internal/feature/research/domain"
	"company_research/internal/shared/clock"
	"company_research/internal/shared/ratelimiter"
)

const (
	// DefaultMaxRetries は1社あたりの既定の試行回数です。
	DefaultMaxRetries = 3
	// DefaultRateLimitBackoff はプロバイダーのレート制限時の待機時間です。
	DefaultRateLimitBackoff = 60 * time.Second
	// DefaultErrorBackoff はそれ以外のエラー時の待機時間です。
	DefaultErrorBackoff = 5 * time.Second
)

// 試行結果の分類（OnAttempt に渡される値）
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeAPIError    = "api_error"
	OutcomeError       = "error"
)

// Completer はLLMプロバイダーへの1回のリクエストを抽象化します。
// 実装は失敗の種類に応じて domain.ErrProviderRateLimited / domain.ErrProviderAPI でラップすること。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CallClient はレート制限とリトライを伴ってプロバイダーを呼び出します。
type CallClient struct {
	completer  Completer
	limiter    ratelimiter.RateLimiterInterface
	clock      clock.Clock
	maxRetries int

	RateLimitBackoff time.Duration
	ErrorBackoff     time.Duration

	// OnAttempt は各試行の後に結果の分類を受け取ります。nil の場合は何もしません。
	OnAttempt func(outcome string)
}

// NewCallClient は新しい CallClient を生成します。maxRetries が1未満の場合も最低1回は試行します。
func NewCallClient(completer Completer, limiter ratelimiter.RateLimiterInterface, c clock.Clock, maxRetries int) *CallClient {
	if c == nil {
		c = clock.Real{}
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &CallClient{
		completer:        completer,
		limiter:          limiter,
		clock:            c,
		maxRetries:       maxRetries,
		RateLimitBackoff: DefaultRateLimitBackoff,
		ErrorBackoff:     DefaultErrorBackoff,
	}
}

// Call はプロンプトを送信して生成テキストを返します。
// 各試行の前にレートリミッターで待機し、失敗時は種類に応じた時間だけ待ってから再試行します。
// 試行回数を使い切った場合は最後の失敗の種類に応じて
// domain.ErrRateLimitExceeded / domain.ErrAPI / domain.ErrCallFailed でラップしたエラーを返します。
func (c *CallClient) Call(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.WaitIfNeeded(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %w", domain.ErrCallFailed, err)
		}

		text, err := c.completer.Complete(ctx, prompt)
		if err == nil {
			slog.Info("LLM call succeeded", "attempt", attempt, "max_attempts", c.maxRetries)
			c.observe(OutcomeSuccess)
			return text, nil
		}
		lastErr = err

		backoff := c.ErrorBackoff
		switch {
		case errors.Is(err, domain.ErrProviderRateLimited):
			slog.Warn("rate limit exceeded", "attempt", attempt, "max_attempts", c.maxRetries, "error", err)
			c.observe(OutcomeRateLimited)
			backoff = c.RateLimitBackoff
		case errors.Is(err, domain.ErrProviderAPI):
			slog.Error("provider API error", "attempt", attempt, "max_attempts", c.maxRetries, "error", err)
			c.observe(OutcomeAPIError)
		default:
			slog.Error("unexpected error", "attempt", attempt, "max_attempts", c.maxRetries, "error", err)
			c.observe(OutcomeError)
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.clock.Sleep(ctx, backoff); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrCallFailed, err)
		}
	}

	slog.Error("max retries exceeded", "max_attempts", c.maxRetries, "error", lastErr)
	return "", exhausted(lastErr, c.maxRetries)
}

func (c *CallClient) observe(outcome string) {
	if c.OnAttempt != nil {
		c.OnAttempt(outcome)
	}
}

// exhausted は最後の失敗の種類に応じたエラーに変換します。
func exhausted(err error, attempts int) error {
	switch {
	case errors.Is(err, domain.ErrProviderRateLimited):
		return fmt.Errorf("%w after %d attempts: %w", domain.ErrRateLimitExceeded, attempts, err)
	case errors.Is(err, domain.ErrProviderAPI):
		return fmt.Errorf("%w after %d attempts: %w", domain.ErrAPI, attempts, err)
	default:
		return fmt.Errorf("%w after %d attempts: %w", domain.ErrCallFailed, attempts, err)
	}
}
