package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/shared/clock"
)

const (
	// DefaultCompanyDelay は企業ごとの処理の間に入れる待機時間です。レートリミッターとは別に適用されます。
	DefaultCompanyDelay = time.Second
	// LowQualityMessage は構造チェックに通らなかった応答に付けるエラーメッセージです。
	LowQualityMessage = "Response quality below threshold"
)

// ProgressFunc は1社の処理が終わるたびに呼ばれる進捗通知です（current は1始まり）。
// 観測用途のみで、処理の流れには影響しません。
type ProgressFunc func(current, total int, companyName string)

// Caller はプロンプトを送って生成テキストを受け取る呼び出しを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Caller interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// GenerateUsecase は企業リストを順に処理して要約を生成するバッチ処理です。
type GenerateUsecase struct {
	prompts *PromptBuilder
	caller  Caller
	clock   clock.Clock

	CompanyDelay time.Duration

	// OnResult は1社の処理が終わるたびに状態と所要時間を受け取ります。nil の場合は何もしません。
	OnResult func(status entity.Status, elapsed time.Duration)
}

// NewGenerateUsecase は新しい GenerateUsecase を生成します。
func NewGenerateUsecase(prompts *PromptBuilder, caller Caller, c clock.Clock) *GenerateUsecase {
	if c == nil {
		c = clock.Real{}
	}
	return &GenerateUsecase{prompts: prompts, caller: caller, clock: c, CompanyDelay: DefaultCompanyDelay}
}

// Process は企業ごとに プロンプト生成 → 呼び出し → 検証 → 進捗通知 → 待機 を順に行い、
// 入力と同じ順序・同じ件数の結果を返します。1社の失敗でバッチは止まりません。
// ctx がキャンセルされた場合はそこまでの結果と ctx.Err() を返します。
func (u *GenerateUsecase) Process(ctx context.Context, companyNames []string, progress ProgressFunc) ([]entity.SummaryResult, error) {
	total := len(companyNames)
	results := make([]entity.SummaryResult, 0, total)

	slog.Info("starting batch processing", "companies", total)

	for i, name := range companyNames {
		if err := ctx.Err(); err != nil {
			slog.Warn("batch processing interrupted", "processed", len(results), "total", total)
			return results, err
		}

		started := u.clock.Now()
		res := u.processOne(ctx, name)
		if u.OnResult != nil {
			u.OnResult(res.Status, u.clock.Now().Sub(started))
		}
		results = append(results, res)
		notify(progress, i+1, total, name)

		if i < total-1 {
			if err := u.clock.Sleep(ctx, u.CompanyDelay); err != nil {
				slog.Warn("batch processing interrupted", "processed", len(results), "total", total)
				return results, err
			}
		}
	}

	slog.Info("completed batch processing", "processed", len(results))
	return results, nil
}

// processOne は1社分の結果を必ず1件返します。想定外の panic は critical_error に変換します。
func (u *GenerateUsecase) processOne(ctx context.Context, companyName string) (res entity.SummaryResult) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			slog.Error("critical error processing company", "company", companyName, "error", msg)
			res = entity.SummaryResult{
				CompanyName: companyName,
				Summary:     "Critical error generating summary: " + msg,
				Status:      entity.StatusCriticalError,
				Timestamp:   u.clock.Now(),
				Error:       msg,
			}
		}
	}()

	slog.Info("generating summary", "company", companyName)

	prompt := u.prompts.Build(companyName)
	summary, err := u.caller.Call(ctx, prompt)
	if err != nil {
		slog.Error("failed to generate summary", "company", companyName, "error", err)
		return entity.SummaryResult{
			CompanyName: companyName,
			Summary:     "Error generating summary: " + err.Error(),
			Status:      entity.StatusError,
			Timestamp:   u.clock.Now(),
			Error:       err.Error(),
		}
	}

	if !ValidateResponse(summary) {
		slog.Warn("low quality response, marking as warning", "company", companyName, "length", len(summary))
		return entity.SummaryResult{
			CompanyName: companyName,
			Summary:     summary,
			Status:      entity.StatusWarning,
			Timestamp:   u.clock.Now(),
			Error:       LowQualityMessage,
		}
	}

	slog.Info("successfully generated summary", "company", companyName)
	return entity.SummaryResult{
		CompanyName: companyName,
		Summary:     summary,
		Status:      entity.StatusSuccess,
		Timestamp:   u.clock.Now(),
	}
}

// notify は進捗通知を呼び出します。通知側の panic は記録するだけで処理を続けます。
func notify(progress ProgressFunc, current, total int, name string) {
	if progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress callback panicked", "company", name, "error", fmt.Sprint(r))
		}
	}()
	progress(current, total, name)
}
