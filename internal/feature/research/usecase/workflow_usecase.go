package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"company_research/internal/feature/research/domain"
	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/shared/clock"
)

// 各ステージの名前です。エラーメッセージとログに使います。
const (
	StageInput    = "Input Pipeline"
	StageGenerate = "Generate Pipeline"
	StageOutput   = "Output Pipeline"
)

// CompanySource は処理対象の企業名リストを提供する入力元です。
type CompanySource interface {
	ListCompanies(ctx context.Context) ([]string, error)
}

// ResultSink は結果を書き込み、閲覧用のURLを返す出力先です。
type ResultSink interface {
	WriteSummaries(ctx context.Context, rows []entity.OutputRow) (string, error)
}

// BatchGenerator は企業リストから要約結果を生成するバッチ処理です。
type BatchGenerator interface {
	Process(ctx context.Context, companyNames []string, progress ProgressFunc) ([]entity.SummaryResult, error)
}

// WorkflowUsecase は 入力 → 生成 → 出力 の3ステージを順に実行します。
type WorkflowUsecase struct {
	source    CompanySource
	generator BatchGenerator
	sink      ResultSink
	clock     clock.Clock
}

// NewWorkflowUsecase は新しい WorkflowUsecase を生成します。
func NewWorkflowUsecase(source CompanySource, generator BatchGenerator, sink ResultSink, c clock.Clock) *WorkflowUsecase {
	if c == nil {
		c = clock.Real{}
	}
	return &WorkflowUsecase{source: source, generator: generator, sink: sink, clock: c}
}

// Run はワークフロー全体を実行してレポートを返します。
// 入力が0件の場合は no_companies としてエラーなしで終了します。
// ステージが失敗した場合はそのステージ名でラップしたエラーと、途中までのレポートを返します。
func (u *WorkflowUsecase) Run(ctx context.Context, progress ProgressFunc) (*entity.WorkflowReport, error) {
	report := &entity.WorkflowReport{
		RunID:     uuid.NewString(),
		Status:    entity.WorkflowStarted,
		StartedAt: u.clock.Now(),
	}
	log := slog.With("run_id", report.RunID)
	log.Info("starting the company research and summarization workflow")

	// 1. 入力
	log.Info("initializing stage", "stage", StageInput)
	companies, err := u.source.ListCompanies(ctx)
	if err != nil {
		return u.fail(report, entity.WorkflowFailed, StageInput, err)
	}
	if len(companies) == 0 {
		log.Warn("no companies found in the input pipeline")
		report.Status = entity.WorkflowNoCompanies
		report.Errors = append(report.Errors, domain.ErrNoCompanies.Error())
		report.FinishedAt = u.clock.Now()
		return report, nil
	}
	log.Info("loaded companies for processing", "count", len(companies))

	// 2. 生成
	log.Info("initializing stage", "stage", StageGenerate)
	results, err := u.generator.Process(ctx, companies, progress)
	report.Stats = entity.TallyResults(results)
	if err != nil {
		status := entity.WorkflowFailed
		if ctx.Err() != nil {
			status = entity.WorkflowCancelled
		}
		return u.fail(report, status, StageGenerate, err)
	}
	log.Info("analyzed generation results",
		"succeeded", report.Stats.Succeeded,
		"warnings", report.Stats.Warnings,
		"failed", report.Stats.Failed,
	)

	// 3. 出力
	log.Info("initializing stage", "stage", StageOutput)
	url, err := u.sink.WriteSummaries(ctx, BuildOutputRows(results))
	if err != nil {
		return u.fail(report, entity.WorkflowFailed, StageOutput, err)
	}

	report.OutputURL = url
	report.Status = entity.WorkflowCompleted
	report.FinishedAt = u.clock.Now()
	log.Info("workflow completed successfully", "duration", report.Duration(), "output_url", url)
	return report, nil
}

func (u *WorkflowUsecase) fail(report *entity.WorkflowReport, status entity.WorkflowStatus, stage string, err error) (*entity.WorkflowReport, error) {
	wrapped := fmt.Errorf("error in %s: %w", stage, err)
	report.Status = status
	report.Errors = append(report.Errors, wrapped.Error())
	report.FinishedAt = u.clock.Now()
	slog.Error("workflow stage failed", "run_id", report.RunID, "stage", stage, "error", err)
	return report, wrapped
}
