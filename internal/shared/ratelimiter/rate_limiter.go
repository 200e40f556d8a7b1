package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"company_research/internal/shared/clock"
)

const (
	// DefaultLimit はウィンドウあたりの既定の呼び出し上限です。
	DefaultLimit = 60
	// DefaultWindow は既定のスライディングウィンドウ幅です。
	DefaultWindow = time.Minute
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
// 上限に達している場合は拒否せず、空きができるまで呼び出し元をブロックします。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// SlidingWindow は直近 window の間の呼び出しを limit 回までに制限します。
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int           // ウィンドウあたりの上限
	window time.Duration // 直近どれだけの期間を数えるか
	clock  clock.Clock
	calls  []time.Time // ウィンドウ内の呼び出し時刻（古い順）
}

var _ RateLimiterInterface = (*SlidingWindow)(nil)

// NewSlidingWindow は新しい SlidingWindow を生成します。
// limit や window が0以下の場合は既定値を使います。
func NewSlidingWindow(limit int, window time.Duration, c clock.Clock) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if c == nil {
		c = clock.Real{}
	}
	return &SlidingWindow{limit: limit, window: window, clock: c}
}

// WaitIfNeeded はウィンドウ内の呼び出し数が上限に達していれば、最も古い呼び出しが
// ウィンドウから外れるまで待機し、その後呼び出しを記録します。
func (rl *SlidingWindow) WaitIfNeeded(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := rl.clock.Now()
		rl.prune(now)
		if len(rl.calls) < rl.limit {
			rl.calls = append(rl.calls, now)
			rl.mu.Unlock()
			return nil
		}
		wait := rl.calls[0].Add(rl.window).Sub(now)
		rl.mu.Unlock()

		slog.Info("[RATE LIMIT] call budget exhausted, waiting", "limit", rl.limit, "window", rl.window, "wait", wait)
		if err := rl.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune はウィンドウ外になった呼び出し記録を取り除きます。mu を保持して呼び出すこと。
func (rl *SlidingWindow) prune(now time.Time) {
	i := 0
	for i < len(rl.calls) && now.Sub(rl.calls[i]) >= rl.window {
		i++
	}
	if i > 0 {
		rl.calls = append(rl.calls[:0], rl.calls[i:]...)
	}
}
