// Package clock は時刻取得と待機を抽象化し、テストで決定的な時間を扱えるようにします。
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock は現在時刻の取得とコンテキスト対応の待機を提供します。
type Clock interface {
	Now() time.Time
	// Sleep は d だけ待機します。ctx がキャンセルされた場合は ctx.Err() を返します。
	Sleep(ctx context.Context, d time.Duration) error
}

// Real は実時間を使う Clock 実装です。
type Real struct{}

// Now は現在時刻を返します。
func (Real) Now() time.Time { return time.Now() }

// Sleep は実時間で d だけ待機します。
func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fake はテスト用の Clock 実装です。Sleep は即座に戻り、内部時刻を進めます。
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewFake は start を現在時刻とする Fake を生成します。
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now は内部時刻を返します。
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep は待機時間を記録し、内部時刻を d だけ進めます。
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
	if d > 0 {
		f.now = f.now.Add(d)
	}
	return nil
}

// Advance は Sleep を記録せずに内部時刻を進めます。
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Sleeps はこれまでに要求された待機時間のコピーを返します。
func (f *Fake) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}
