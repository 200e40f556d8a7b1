package usecase

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinResponseLength は有効な応答に必要な最小文字数です。
	MinResponseLength = 100
	// MinSectionsFound は有効な応答に必要な見出しの最小数です。
	MinSectionsFound = 2
)

// ValidateResponse は生成された要約の構造的な完全性を簡易チェックします。
// 内容の正しさは判定できず、大きな欠落を検出するだけです。
func ValidateResponse(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < MinResponseLength {
		return false
	}

	found := 0
	for _, section := range requiredSections {
		if strings.Contains(text, section) {
			found++
		}
	}
	return found >= MinSectionsFound
}
