package entity

import "time"

// WorkflowStatus はワークフロー全体の終了状態です。
type WorkflowStatus string

const (
	WorkflowStarted     WorkflowStatus = "started"
	WorkflowCompleted   WorkflowStatus = "completed"
	WorkflowNoCompanies WorkflowStatus = "no_companies"
	WorkflowFailed      WorkflowStatus = "failed"
	WorkflowCancelled   WorkflowStatus = "cancelled"
)

// BatchStats はバッチ処理結果の集計です。
type BatchStats struct {
	Total     int
	Succeeded int
	Warnings  int
	Failed    int // error と critical_error
}

// TallyResults は結果を状態ごとに集計します。
func TallyResults(results []SummaryResult) BatchStats {
	stats := BatchStats{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Succeeded():
			stats.Succeeded++
		case r.Status == StatusWarning:
			stats.Warnings++
		default:
			stats.Failed++
		}
	}
	return stats
}

// WorkflowReport は1回の実行（入力→生成→出力）の結果です。
type WorkflowReport struct {
	RunID      string
	Status     WorkflowStatus
	Stats      BatchStats
	StartedAt  time.Time
	FinishedAt time.Time
	OutputURL  string
	Errors     []string
}

// Duration は実行にかかった時間を返します。終了していない場合は0です。
func (r *WorkflowReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
