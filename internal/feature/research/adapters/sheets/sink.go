package sheets

import (
	"context"
	"fmt"
	"log/slog"

	sheetsapi "google.golang.org/api/sheets/v4"

	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/feature/research/usecase"
)

const (
	// MaxCellRunes はGoogle Sheetsの1セルあたりの上限文字数です。
	MaxCellRunes = 50000
	// TimestampLayout は出力するタイムスタンプの書式です。
	TimestampLayout = "2006-01-02 15:04:05"
)

// OutputHeader は出力ワークシートの見出し行です。
var OutputHeader = []interface{}{
	"Company Name", "Summary", "Status", "Timestamp", "Error",
	"Confidence", "Industry", "Key Activities", "Target Market", "Business Model",
}

var _ usecase.ResultSink = (*Service)(nil)

// WriteSummaries は新しいワークシートを作成して結果を1社1行で書き込み、そのワークシートのURLを返します。
func (s *Service) WriteSummaries(ctx context.Context, rows []entity.OutputRow) (string, error) {
	title := s.cfg.OutputWorksheet
	if title == "" {
		title = fmt.Sprintf("%s %s", OutputTitlePrefix, s.clock.Now().Format("2006-01-02 15-04-05"))
	}

	sheetID, err := s.addSheet(ctx, title)
	if err != nil {
		return "", err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, OutputHeader)
	for _, r := range rows {
		values = append(values, outputValues(r))
	}

	_, err = s.api.Spreadsheets.Values.
		Update(s.cfg.SpreadsheetID, quoteSheet(title)+"!A1", &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed to write summaries", "worksheet", title, "error", err)
		return "", fmt.Errorf("write worksheet %q: %w", title, err)
	}

	url := worksheetURL(s.cfg.SpreadsheetID, sheetID)
	slog.Info("wrote summaries to worksheet", "worksheet", title, "rows", len(rows), "url", url)
	return url, nil
}

// addSheet はワークシートを追加し、そのシートIDを返します。
func (s *Service) addSheet(ctx context.Context, title string) (int64, error) {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	resp, err := s.api.Spreadsheets.BatchUpdate(s.cfg.SpreadsheetID, req).Context(ctx).Do()
	if err != nil {
		slog.Error("failed to create worksheet", "worksheet", title, "error", err)
		return 0, fmt.Errorf("create worksheet %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("create worksheet %q: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// outputValues は1社分の結果を出力列の順に並べます。
func outputValues(r entity.OutputRow) []interface{} {
	return []interface{}{
		cell(r.Result.CompanyName),
		cell(r.Result.Summary),
		string(r.Result.Status),
		r.Result.Timestamp.Format(TimestampLayout),
		cell(r.Result.Error),
		r.Metadata.Confidence,
		r.Metadata.Industry,
		r.Metadata.KeyActivities,
		r.Metadata.TargetMarket,
		r.Metadata.BusinessModel,
	}
}

// cell はセルの上限文字数を超える値を切り詰めます。
func cell(s string) string {
	count := 0
	for i := range s {
		if count == MaxCellRunes {
			return s[:i]
		}
		count++
	}
	return s
}

func worksheetURL(spreadsheetID string, sheetID int64) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}
