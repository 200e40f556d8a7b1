package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"company_research/internal/shared/clock"
)

// DefaultRedisKey は呼び出し記録を保持するソート済みセットのキーです。
const DefaultRedisKey = "ratelimit:llm"

// admitScript はウィンドウ外の記録を削除し、空きがあれば呼び出しを記録します。
// スクリプトはアトミックに実行されるため、判定と記録の間に他プロセスの記録は割り込みません。
// 記録した場合は -1 を、上限に達している場合は最古の記録が外れるまでのミリ秒を返します。
//
//	KEYS[1] = ソート済みセットのキー
//	ARGV[1] = 現在時刻 (ms), ARGV[2] = 削除する境界 (ms), ARGV[3] = ウィンドウ幅 (ms)
//	ARGV[4] = 上限, ARGV[5] = メンバー名
var admitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) < tonumber(ARGV[4]) then
	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
	return -1
end
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
if #oldest == 0 then
	return tonumber(ARGV[3])
end
return tonumber(oldest[2]) + tonumber(ARGV[3]) - tonumber(ARGV[1])
`)

// RedisWindow は Redis のソート済みセットに呼び出し時刻を記録するスライディングウィンドウ制限です。
// 同じAPIキーを共有する複数プロセスで1つのクォータを共有できます。
type RedisWindow struct {
	rdb    *redis.Client
	key    string
	limit  int
	window time.Duration
	clock  clock.Clock

	newMember func() string
}

var _ RateLimiterInterface = (*RedisWindow)(nil)

// NewRedisWindow は新しい RedisWindow を生成します。
// key が空の場合は DefaultRedisKey を使います。
func NewRedisWindow(rdb *redis.Client, key string, limit int, window time.Duration, c clock.Clock) *RedisWindow {
	if key == "" {
		key = DefaultRedisKey
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if c == nil {
		c = clock.Real{}
	}
	return &RedisWindow{rdb: rdb, key: key, limit: limit, window: window, clock: c, newMember: uuid.NewString}
}

// WaitIfNeeded はウィンドウ内の呼び出し数が上限未満になるまで待機し、呼び出しを記録します。
func (rl *RedisWindow) WaitIfNeeded(ctx context.Context) error {
	windowMs := rl.window.Milliseconds()
	for {
		nowMs := rl.clock.Now().UnixMilli()

		args := []any{nowMs, nowMs - windowMs, windowMs, rl.limit, rl.newMember()}
		waitMs, err := admitScript.Run(ctx, rl.rdb, []string{rl.key}, args...).Int64()
		if err != nil {
			return fmt.Errorf("admit call: %w", err)
		}
		if waitMs < 0 {
			return nil
		}

		wait := time.Duration(waitMs) * time.Millisecond
		if wait <= 0 {
			wait = time.Millisecond
		}

		slog.Info("[RATE LIMIT] shared call budget exhausted, waiting", "key", rl.key, "limit", rl.limit, "wait", wait)
		if err := rl.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}
