// Package redis は共有レート制限などに使うRedisクライアントの生成を扱います。
package redis

import (
	"context"
	"log/slog"
	"net"
	"os"

	"github.com/redis/go-redis/v9"
)

// DefaultPort は REDIS_PORT が未設定の場合のポートです。
const DefaultPort = "6379"

// Config はRedisへの接続設定です。
type Config struct {
	Host     string
	Port     string
	Password string
}

// ConfigFromEnv は REDIS_HOST / REDIS_PORT / REDIS_PASSWORD から Config を読み込みます。
func ConfigFromEnv() Config {
	return Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// Enabled はRedisを使う設定かどうかを返します。ホスト未設定の場合はプロセス内の制限に切り替えます。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string {
	port := c.Port
	if port == "" {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, port)
}

// NewRedisClient はRedisクライアントを生成し、接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}

// PingCheck はヘルスチェック用に Ping の結果だけを返す関数を作ります。
func PingCheck(rdb redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
