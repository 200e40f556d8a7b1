package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"company_research/internal/app/config"
	"company_research/internal/app/di"
	"company_research/internal/feature/research/domain/entity"
)

// errWorkflowNotCompleted はレポートを表示済みで、終了コードだけを1にしたい場合のエラーです。
var errWorkflowNotCompleted = errors.New("workflow did not complete")

var runArgs struct {
	inputWorksheet  string
	outputWorksheet string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the input → generate → output workflow once",
	Args:  cobra.NoArgs,
	RunE:  runWorkflow,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runArgs.inputWorksheet, "input-worksheet", "", "worksheet to read company names from (overrides INPUT_WORKSHEET)")
	cmd.Flags().StringVar(&runArgs.outputWorksheet, "output-worksheet", "", "worksheet to create for the results (overrides OUTPUT_WORKSHEET)")
}

func runWorkflow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runArgs.inputWorksheet != "" {
		cfg.Sheets.InputWorksheet = runArgs.inputWorksheet
	}
	if runArgs.outputWorksheet != "" {
		cfg.Sheets.OutputWorksheet = runArgs.outputWorksheet
	}

	rdb := di.NewRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	generator, err := di.NewGenerateUsecase(ctx, cfg, di.NewRateLimiter(rdb, cfg.RateLimitCallsPerMinute, nil))
	if err != nil {
		return err
	}
	workflow, err := di.NewWorkflow(ctx, cfg, generator)
	if err != nil {
		return err
	}

	report, err := workflow.Run(ctx, progressLogger(slog.Default()))
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "\nOperation cancelled by user")
		slog.Info("workflow cancelled by user", "run_id", report.RunID)
		return errWorkflowNotCompleted
	}

	printReport(out, report)
	if report.Status != entity.WorkflowCompleted {
		return errWorkflowNotCompleted
	}
	return nil
}

// progressLogger は1社処理するごとに進捗率をログに出力します。
func progressLogger(log *slog.Logger) func(current, total int, companyName string) {
	return func(current, total int, companyName string) {
		pct := float64(current) / float64(total) * 100
		log.Info(fmt.Sprintf("Processing %d/%d: (%.1f%%) - Processed: %s", current, total, pct, companyName))
	}
}

// printReport はワークフローの結果を表示します。
func printReport(w io.Writer, r *entity.WorkflowReport) {
	fmt.Fprintln(w, "\nWorkflow Results:")
	fmt.Fprintf(w, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(w, "Status: %s\n", r.Status)
	fmt.Fprintf(w, "Companies Processed: %d\n", r.Stats.Total)
	fmt.Fprintf(w, "Successful Summaries: %d\n", r.Stats.Succeeded)
	fmt.Fprintf(w, "Failed Summaries: %d\n", r.Stats.Failed)
	fmt.Fprintf(w, "Warnings: %d\n", r.Stats.Warnings)
	fmt.Fprintf(w, "Duration: %.2f seconds\n", r.Duration().Round(10*time.Millisecond).Seconds())

	if r.OutputURL != "" {
		fmt.Fprintf(w, "\nResults available at: %s\n", r.OutputURL)
	}
	if r.Status == entity.WorkflowCompleted {
		fmt.Fprintln(w, "\nWorkflow completed successfully!")
		return
	}
	fmt.Fprintf(w, "\nWorkflow failed: %s\n", strings.Join(r.Errors, ", "))
}
