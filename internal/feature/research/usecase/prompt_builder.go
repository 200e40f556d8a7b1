package usecase

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"company_research/internal/feature/research/domain"
)

// CompanyNamePlaceholder はプロンプトテンプレート内で企業名に置換されるプレースホルダーです。
const CompanyNamePlaceholder = "{company_name}"

// PromptBuilder は企業ごとの調査プロンプトを組み立てます。
type PromptBuilder struct {
	template string
}

// NewPromptBuilder は path からテンプレートを読み込みます。
// 読み込めない場合は domain.ErrTemplateNotFound を返し、実行全体を中止させます。
func NewPromptBuilder(path string) (*PromptBuilder, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: PROMPT_PATH is not set", domain.ErrTemplateNotFound)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		slog.Error("prompt file not found", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTemplateNotFound, path, err)
	}
	return NewPromptBuilderFromTemplate(string(b)), nil
}

// NewPromptBuilderFromTemplate はテンプレート文字列から PromptBuilder を生成します。
func NewPromptBuilderFromTemplate(tmpl string) *PromptBuilder {
	if !strings.Contains(tmpl, CompanyNamePlaceholder) {
		slog.Warn("prompt template has no company placeholder", "placeholder", CompanyNamePlaceholder)
	}
	return &PromptBuilder{template: tmpl}
}

// Build はテンプレートのプレースホルダーを企業名で置換したプロンプトを返します。
func (b *PromptBuilder) Build(companyName string) string {
	return strings.ReplaceAll(b.template, CompanyNamePlaceholder, companyName)
}
