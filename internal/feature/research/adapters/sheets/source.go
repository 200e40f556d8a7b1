package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"company_research/internal/feature/research/usecase"
)

// companyHeaders は企業名の列として認識する見出し（小文字）です。
var companyHeaders = []string{"company", "company name", "company_name", "name", "companies"}

var _ usecase.CompanySource = (*Service)(nil)

// ListCompanies は入力ワークシートから企業名の一覧を読み込みます。
// 1行目を見出しとして企業名の列を探し、見つからない場合は先頭の列を使います。
func (s *Service) ListCompanies(ctx context.Context) ([]string, error) {
	sheet := s.cfg.InputWorksheet
	resp, err := s.api.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		slog.Error("failed to read company list", "worksheet", sheet, "error", err)
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}

	if len(resp.Values) == 0 {
		slog.Warn("no data found in worksheet", "worksheet", sheet)
		return []string{}, nil
	}

	companies := companyNames(resp.Values)
	slog.Info("loaded companies from worksheet", "worksheet", sheet, "count", len(companies))
	return companies, nil
}

// companyNames は見出し行を含むセル値から企業名を取り出します。
// セルは前後の空白を除去し、空のセルは除外します。
func companyNames(rows [][]interface{}) []string {
	if len(rows) == 0 {
		return []string{}
	}

	col := 0
	found := false
	for i, h := range rows[0] {
		if containsFold(companyHeaders, cellString(h)) {
			col, found = i, true
			break
		}
	}
	if !found && len(rows[0]) > 0 {
		slog.Info("no company column found, using first column", "column", cellString(rows[0][0]))
	}

	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if name := strings.TrimSpace(cellString(row[col])); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func containsFold(candidates []string, s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range candidates {
		if c == s {
			return true
		}
	}
	return false
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
