package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"company_research/internal/feature/research/domain/entity"
)

// ExtractMetadata は要約テキストから5つの項目を抽出します。
// 純粋関数であり、個々の項目の抽出に失敗しても NotSpecified にフォールバックするだけで失敗しません。
func ExtractMetadata(summary string) entity.ExtractedMetadata {
	md := entity.NewExtractedMetadata()

	md.Confidence = safeExtract("confidence", func() string {
		seg, ok := extractSegment(summary, confidenceField)
		if !ok {
			return entity.NotSpecified
		}
		return normalizeConfidence(seg)
	})
	md.Industry = safeExtract("industry", func() string { return extractField(summary, industryField) })
	md.KeyActivities = safeExtract("key_activities", func() string { return extractField(summary, keyActivitiesField) })
	md.TargetMarket = safeExtract("target_market", func() string { return extractField(summary, targetMarketField) })
	md.BusinessModel = safeExtract("business_model", func() string { return extractField(summary, businessModelField) })

	return md
}

// safeExtract は fn の panic を握りつぶし、NotSpecified を返します。
func safeExtract(field string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("metadata extraction failed", "field", field, "error", fmt.Sprint(r))
			out = entity.NotSpecified
		}
	}()
	return fn()
}

// extractField はマーカー以降の区間を取り出し、前後の空白を除去して切り詰めます。
func extractField(text string, spec fieldSpec) string {
	seg, ok := extractSegment(text, spec)
	if !ok {
		return entity.NotSpecified
	}
	return truncateRunes(seg, spec.maxRunes)
}

// extractSegment はマーカーの直後から終了位置までの区間を、前後の空白を除去して返します。
// マーカーが存在しない場合は false を返します。
func extractSegment(text string, spec fieldSpec) (string, bool) {
	idx := strings.Index(text, spec.marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(spec.marker):]

	if spec.stop == "" {
		if nl := strings.IndexAny(rest, "\r\n"); nl >= 0 {
			rest = rest[:nl]
		}
	} else if end := strings.Index(rest, spec.stop); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// normalizeConfidence は区間に含まれる信頼度を大文字で返します。
func normalizeConfidence(seg string) string {
	upper := strings.ToUpper(seg)
	for _, level := range confidenceLevels {
		if strings.Contains(upper, level) {
			return level
		}
	}
	return entity.NotSpecified
}

// truncateRunes は s を最大 n 文字（rune 単位）に切り詰めます。
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
