// Package usecase はresearchフィーチャーのビジネスロジックを実装します。
package usecase

// LLMの出力フォーマットとの暗黙の契約となるセクション見出しです。
// プロンプトの文言を変更する場合は、ここも合わせて確認すること。
const (
	SectionCompanyOverview    = "COMPANY OVERVIEW"
	SectionIndustry           = "INDUSTRY & SECTOR"
	SectionKeyActivities      = "KEY BUSINESS ACTIVITIES"
	SectionTargetMarket       = "TARGET MARKET"
	SectionBusinessModel      = "BUSINESS MODEL"
	SectionKeyDifferentiators = "KEY DIFFERENTIATORS"
	SectionDataConfidence     = "DATA CONFIDENCE"
)

// requiredSections は応答の構造チェックに使う見出しです。
var requiredSections = []string{
	SectionCompanyOverview,
	SectionIndustry,
	SectionKeyActivities,
}

// fieldSpec は抽出項目1つ分の規則です。
type fieldSpec struct {
	marker   string // 抽出開始位置を示すラベル（コロン付き）
	stop     string // 抽出終了位置のラベル。空の場合は改行で終了する
	maxRunes int    // 切り詰める最大文字数（0は無制限）
}

// 抽出規則の表。stop は想定されるセクション順で次に来る見出しです。
var (
	confidenceField    = fieldSpec{marker: SectionDataConfidence + ":"}
	industryField      = fieldSpec{marker: SectionIndustry + ":", maxRunes: 100}
	keyActivitiesField = fieldSpec{marker: SectionKeyActivities + ":", stop: SectionTargetMarket + ":", maxRunes: 200}
	targetMarketField  = fieldSpec{marker: SectionTargetMarket + ":", stop: SectionBusinessModel + ":", maxRunes: 200}
	businessModelField = fieldSpec{marker: SectionBusinessModel + ":", stop: SectionKeyDifferentiators + ":", maxRunes: 200}
)

// confidenceLevels は信頼度として認める値です。先に一致したものを採用します。
var confidenceLevels = []string{"HIGH", "MEDIUM", "LOW"}
