package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_research/internal/shared/clock"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// TestRedisWindow_SharedBudget は同じキーを使う2つのリミッターが1つの上限を共有することを検証します。
func TestRedisWindow_SharedBudget(t *testing.T) {
	rdb, mr := setupRedis(t)
	ctx := context.Background()

	fc := clock.NewFake(testStart)
	first := NewRedisWindow(rdb, "rl:shared", 2, time.Minute, fc)
	second := NewRedisWindow(rdb, "rl:shared", 2, time.Minute, fc)

	require.NoError(t, first.WaitIfNeeded(ctx))
	fc.Advance(10 * time.Second)
	require.NoError(t, second.WaitIfNeeded(ctx))
	assert.Empty(t, fc.Sleeps())

	members, err := mr.ZMembers("rl:shared")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// 3回目は最古の記録（0s）がウィンドウから外れる 60s 地点まで待つ
	require.NoError(t, first.WaitIfNeeded(ctx))
	assert.Equal(t, []time.Duration{50 * time.Second}, fc.Sleeps())
	assert.True(t, mr.Exists("rl:shared"))
}

// TestRedisWindow_CancelledWhileWaiting は待機中のキャンセルで記録を追加せずに戻ることを検証します。
func TestRedisWindow_CancelledWhileWaiting(t *testing.T) {
	rdb, mr := setupRedis(t)

	fc := clock.NewFake(testStart)
	rl := NewRedisWindow(rdb, "rl:cancel", 1, time.Minute, fc)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.WaitIfNeeded(ctx), context.Canceled)

	members, err := mr.ZMembers("rl:cancel")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

// TestRedisWindow_SameInstantAcrossInstances は同じ時刻に複数インスタンスから呼ばれても上限を超えて記録しないことを検証します。
func TestRedisWindow_SameInstantAcrossInstances(t *testing.T) {
	rdb, mr := setupRedis(t)
	ctx := context.Background()

	fc := clock.NewFake(testStart)
	a := NewRedisWindow(rdb, "rl:instant", 2, time.Minute, fc)
	b := NewRedisWindow(rdb, "rl:instant", 2, time.Minute, fc)

	require.NoError(t, a.WaitIfNeeded(ctx))
	require.NoError(t, b.WaitIfNeeded(ctx))

	members, err := mr.ZMembers("rl:instant")
	require.NoError(t, err)
	assert.Len(t, members, 2, "calls in the same millisecond must be recorded separately")
	assert.Empty(t, fc.Sleeps())

	// 3回目はウィンドウ全体が過ぎるまで待ってから記録される
	require.NoError(t, a.WaitIfNeeded(ctx))
	assert.Equal(t, []time.Duration{time.Minute}, fc.Sleeps())

	members, err = mr.ZMembers("rl:instant")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}
