package entity

// NotSpecified は要約から抽出できなかった項目の既定値です。
const NotSpecified = "Not specified"

// ExtractedMetadata は要約テキストから抽出した構造化項目です。
// 出力時にのみ導出され、独立したライフサイクルを持ちません。
type ExtractedMetadata struct {
	Confidence    string // HIGH / MEDIUM / LOW
	Industry      string
	KeyActivities string
	TargetMarket  string
	BusinessModel string
}

// NewExtractedMetadata は全項目が NotSpecified の ExtractedMetadata を返します。
func NewExtractedMetadata() ExtractedMetadata {
	return ExtractedMetadata{
		Confidence:    NotSpecified,
		Industry:      NotSpecified,
		KeyActivities: NotSpecified,
		TargetMarket:  NotSpecified,
		BusinessModel: NotSpecified,
	}
}

// OutputRow は出力先に書き込む1行分（結果と抽出項目）です。
type OutputRow struct {
	Result   SummaryResult
	Metadata ExtractedMetadata
}
