// Package config はアプリケーション全体の設定を環境変数（と任意の .env ファイル）から読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"company_research/internal/feature/research/adapters/gemini"
	"company_research/internal/feature/research/adapters/sheets"
	"company_research/internal/feature/research/usecase"
	jwtmw "company_research/internal/platform/jwt"
	"company_research/internal/platform/redis"
	"company_research/internal/shared/ratelimiter"
)

const (
	// DefaultPromptPath はプロンプトテンプレートの既定パスです。
	DefaultPromptPath = "prompts/company_research.txt"
	// DefaultHTTPAddr は serve サブコマンドの既定の待ち受けアドレスです。
	DefaultHTTPAddr = ":8080"
)

// Config はアプリケーションの設定です。
type Config struct {
	Gemini gemini.Config
	Sheets sheets.Config
	Redis  redis.Config

	MaxRetries              int
	RateLimitCallsPerMinute int
	PromptPath              string

	JWTSecret   string
	HTTPAddr    string
	CORSOrigins []string
}

// LoadDotEnv は path の .env を読み込みます。ファイルがなければ環境変数だけを使います。
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info(".env not found; using system environment variables", "path", path)
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load は環境変数から Config を読み込みます。
// 数値項目は設定されていれば解釈できる必要があり、範囲の検証は行いません。
func Load() (Config, error) {
	gcfg, err := gemini.LoadConfig()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Gemini:     gcfg,
		Sheets:     sheets.ConfigFromEnv(),
		Redis:      redis.ConfigFromEnv(),
		PromptPath: envOr("PROMPT_PATH", DefaultPromptPath),
		JWTSecret:  os.Getenv(jwtmw.EnvKeyJWTSecret),
		HTTPAddr:   envOr("HTTP_ADDR", DefaultHTTPAddr),
	}

	if cfg.MaxRetries, err = envInt("MAX_RETRIES", usecase.DefaultMaxRetries); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitCallsPerMinute, err = envInt("RATE_LIMIT_CALLS_PER_MINUTE", ratelimiter.DefaultLimit); err != nil {
		return Config{}, err
	}

	for _, o := range strings.Split(os.Getenv("CORS_ALLOW_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
