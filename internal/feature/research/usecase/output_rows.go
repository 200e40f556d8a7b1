package usecase

import "company_research/internal/feature/research/domain/entity"

// BuildOutputRows は各結果の要約から抽出項目を導出し、出力用の行にまとめます。
func BuildOutputRows(results []entity.SummaryResult) []entity.OutputRow {
	rows := make([]entity.OutputRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, entity.OutputRow{
			Result:   r,
			Metadata: ExtractMetadata(r.Summary),
		})
	}
	return rows
}
