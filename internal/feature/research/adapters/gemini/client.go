// Package gemini はGoogle Gemini APIを使用した要約生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"company_research/internal/feature/research/domain"
	"company_research/internal/feature/research/usecase"
	platformhttp "company_research/internal/platform/http"
)

// SystemPrompt はすべてのリクエストに付与するシステム指示です。
const SystemPrompt = "You are a professional business analyst with expertise in company research and market analysis. " +
	"Provide accurate, well-structured business summaries based on publicly available information. " +
	"Focus on factual information and clearly indicate when information is limited or uncertain."

// contentGenerator は genai.Models のうち本クライアントが使う部分です。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client はGemini APIで要約テキストを生成します。
type Client struct {
	models contentGenerator
	model  string
	config *genai.GenerateContentConfig
}

// ClientがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*Client)(nil)

// NewClient は新しい Client を生成します。
// cfg.APIKey が設定されていれば Gemini API を、空であれば環境変数に従い Vertex AI などを使います。
// httpClient が nil の場合は cfg.Timeout を使った外部API用クライアントを作成します。
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = platformhttp.NewHTTPClient(cfg.Timeout)
	}

	cc := &genai.ClientConfig{HTTPClient: httpClient}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newClient(client.Models, cfg), nil
}

func newClient(models contentGenerator, cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models: models,
		model:  model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
			MaxOutputTokens:   cfg.MaxTokens,
			Temperature:       genai.Ptr(cfg.Temperature),
			TopP:              genai.Ptr(cfg.TopP),
			FrequencyPenalty:  genai.Ptr(cfg.FrequencyPenalty),
			PresencePenalty:   genai.Ptr(cfg.PresencePenalty),
		},
	}
}

// Complete はプロンプトを送信し、前後の空白を除いた生成テキストを返します。
// 失敗は domain.ErrProviderRateLimited / domain.ErrProviderAPI に分類してラップします。
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		return "", classifyError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response from model %s", domain.ErrProviderAPI, c.model)
	}
	return text, nil
}

// classifyError はSDKのエラーをリトライ方針の判断に使うドメインエラーに変換します。
func classifyError(err error) error {
	code, status, ok := apiErrorInfo(err)
	if !ok {
		return fmt.Errorf("gemini API request failed: %w", err)
	}
	if code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" {
		return fmt.Errorf("%w: %w", domain.ErrProviderRateLimited, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderAPI, err)
}

// apiErrorInfo は err の連鎖から genai.APIError を探します。
func apiErrorInfo(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, true
	}
	return 0, "", false
}
