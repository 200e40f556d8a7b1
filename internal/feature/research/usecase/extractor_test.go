package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"company_research/internal/feature/research/domain/entity"
)

const acmeSummary = "COMPANY OVERVIEW\n" +
	"Acme Corp is a long-established manufacturer of widgets serving customers across many regions.\n" +
	"INDUSTRY & SECTOR: Software\n" +
	"KEY BUSINESS ACTIVITIES: Builds widgets\n" +
	"TARGET MARKET: SMBs\n" +
	"BUSINESS MODEL: SaaS\n"

func TestExtractMetadata_AcmeScenario(t *testing.T) {
	t.Parallel()

	want := entity.ExtractedMetadata{
		Confidence:    entity.NotSpecified,
		Industry:      "Software",
		KeyActivities: "Builds widgets",
		TargetMarket:  "SMBs",
		BusinessModel: "SaaS",
	}
	if diff := cmp.Diff(want, ExtractMetadata(acmeSummary)); diff != "" {
		t.Errorf("ExtractMetadata() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMetadata_MissingMarkers(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "no sections here", "Industry & sector: lowercase marker"} {
		md := ExtractMetadata(text)
		assert.Equal(t, entity.NewExtractedMetadata(), md, "text=%q", text)
	}
}

func TestExtractMetadata_StopMarkers(t *testing.T) {
	t.Parallel()

	text := "KEY BUSINESS ACTIVITIES: Designs chips\nand licenses IP\n" +
		"TARGET MARKET: Device makers\nin Asia\n" +
		"BUSINESS MODEL: Licensing plus royalties\n" +
		"KEY DIFFERENTIATORS: Low power designs\n"

	md := ExtractMetadata(text)

	assert.Equal(t, "Designs chips\nand licenses IP", md.KeyActivities)
	assert.Equal(t, "Device makers\nin Asia", md.TargetMarket)
	assert.Equal(t, "Licensing plus royalties", md.BusinessModel)
}

func TestExtractMetadata_NoStopMarkerRunsToEnd(t *testing.T) {
	t.Parallel()

	md := ExtractMetadata("BUSINESS MODEL: Subscriptions\nwith annual contracts   ")

	assert.Equal(t, "Subscriptions\nwith annual contracts", md.BusinessModel)
}

func TestExtractMetadata_Confidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "uppercase high", text: "DATA CONFIDENCE: HIGH\n", want: "HIGH"},
		{name: "mixed case medium with reason", text: "DATA CONFIDENCE: Medium - limited public data\nmore", want: "MEDIUM"},
		{name: "lowercase low", text: "DATA CONFIDENCE: low", want: "LOW"},
		{name: "unrecognised value", text: "DATA CONFIDENCE: unknown\n", want: entity.NotSpecified},
		{name: "value on next line is ignored", text: "DATA CONFIDENCE:\nHIGH", want: entity.NotSpecified},
		{name: "missing marker", text: "CONFIDENCE: HIGH", want: entity.NotSpecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractMetadata(tt.text).Confidence)
		})
	}
}

func TestExtractMetadata_Truncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	wide := strings.Repeat("企", 500)

	text := "INDUSTRY & SECTOR: " + long + "\n" +
		"KEY BUSINESS ACTIVITIES: " + wide + "\n" +
		"TARGET MARKET: " + long + "\n" +
		"BUSINESS MODEL: " + wide

	md := ExtractMetadata(text)

	assert.Equal(t, 100, utf8.RuneCountInString(md.Industry))
	assert.Equal(t, 200, utf8.RuneCountInString(md.KeyActivities))
	assert.True(t, utf8.ValidString(md.KeyActivities), "truncation must not split runes")
	assert.Equal(t, 200, utf8.RuneCountInString(md.TargetMarket))
	assert.Equal(t, 200, utf8.RuneCountInString(md.BusinessModel))
}

// TestExtractMetadata_Laws は抽出が純粋であり、長さの上限を常に守ることを検証します。
func TestExtractMetadata_Laws(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		acmeSummary,
		"INDUSTRY & SECTOR:" + strings.Repeat(" padded ", 40),
		"KEY BUSINESS ACTIVITIES:" + strings.Repeat("TARGET", 100),
		"TARGET MARKET: " + strings.Repeat("🚀", 300) + "BUSINESS MODEL: " + strings.Repeat("b", 1000),
		"DATA CONFIDENCE: " + strings.Repeat("z", 10000),
	}

	for _, in := range inputs {
		first := ExtractMetadata(in)
		second := ExtractMetadata(in)
		assert.Equal(t, first, second, "extraction must be deterministic")

		assert.LessOrEqual(t, utf8.RuneCountInString(first.Industry), 100)
		assert.LessOrEqual(t, utf8.RuneCountInString(first.KeyActivities), 200)
		assert.LessOrEqual(t, utf8.RuneCountInString(first.TargetMarket), 200)
		assert.LessOrEqual(t, utf8.RuneCountInString(first.BusinessModel), 200)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}

func TestBuildOutputRows(t *testing.T) {
	t.Parallel()

	results := []entity.SummaryResult{
		{CompanyName: "Acme Corp", Summary: acmeSummary, Status: entity.StatusSuccess},
		{CompanyName: "Beta", Summary: "Error generating summary: boom", Status: entity.StatusError, Error: "boom"},
	}

	rows := BuildOutputRows(results)

	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Acme Corp", rows[0].Result.CompanyName)
		assert.Equal(t, "Software", rows[0].Metadata.Industry)
		assert.Equal(t, "Beta", rows[1].Result.CompanyName)
		assert.Equal(t, entity.NewExtractedMetadata(), rows[1].Metadata)
	}
}
