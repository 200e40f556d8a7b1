// Package entity defines the domain models for the research feature.
package entity

import "time"

// Status は1社分の処理結果の状態です。
type Status string

const (
	StatusSuccess       Status = "success"
	StatusWarning       Status = "warning"
	StatusError         Status = "error"
	StatusCriticalError Status = "critical_error"
)

// SummaryResult は1社分の要約生成結果です。生成後は変更しません。
type SummaryResult struct {
	CompanyName string    // 入力リストに記載された企業名
	Summary     string    // AIが生成した要約、または失敗時のエラーメッセージ
	Status      Status    // 処理状態
	Timestamp   time.Time // この企業の処理完了時刻
	Error       string    // 失敗理由（Status が success の場合は空）
}

// Succeeded は結果が success かどうかを返します。
func (r SummaryResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
