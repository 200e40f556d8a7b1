package gemini

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultMaxTokens は1回の応答の最大出力トークン数の既定値です。
	DefaultMaxTokens = 1500
	// DefaultTimeout は1リクエストあたりのHTTPタイムアウトの既定値です。
	DefaultTimeout = 90 * time.Second
)

// Config はGeminiクライアントの設定です。
type Config struct {
	APIKey           string // 空の場合は GOOGLE_GENAI_USE_VERTEXAI などの環境変数（ADC）に従う
	Model            string
	MaxTokens        int32
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Timeout          time.Duration
}

// DefaultConfig は既定値の Config を返します。
func DefaultConfig() Config {
	return Config{
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: 0.3,
		TopP:        1.0,
		Timeout:     DefaultTimeout,
	}
}

// LoadConfig は環境変数から Config を読み込みます。
// 未設定の項目は既定値を使い、設定されているが解釈できない値はエラーにします。
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("MODEL"); v != "" {
		cfg.Model = v
	}

	if v := os.Getenv("MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = int32(n)
	}

	floats := []struct {
		key string
		dst *float32
	}{
		{"TEMPERATURE", &cfg.Temperature},
		{"TOP_P", &cfg.TopP},
		{"FREQUENCY_PENALTY", &cfg.FrequencyPenalty},
		{"PRESENCE_PENALTY", &cfg.PresencePenalty},
	}
	for _, f := range floats {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", f.key, v, err)
		}
		*f.dst = float32(n)
	}

	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GEMINI_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
