// Package sheets はGoogle Sheetsを企業リストの入力元および要約結果の出力先として扱うアダプターです。
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"company_research/internal/shared/clock"
)

const (
	// DefaultInputWorksheet は企業リストを読み込むワークシート名の既定値です。
	DefaultInputWorksheet = "Company List"
	// OutputTitlePrefix は出力ワークシート名を指定しない場合のタイトルの接頭辞です。
	OutputTitlePrefix = "Company Summaries"
)

// ErrSpreadsheetIDRequired は GOOGLE_SHEETS_ID が設定されていない場合のエラーです。
var ErrSpreadsheetIDRequired = errors.New("GOOGLE_SHEETS_ID is not set")

// Config はスプレッドシートへの接続設定です。
type Config struct {
	CredentialsFile string // サービスアカウントの認証情報ファイル。空の場合はADC
	SpreadsheetID   string
	InputWorksheet  string
	OutputWorksheet string // 空の場合は実行時刻から生成する
}

// ConfigFromEnv は環境変数から Config を読み込みます。必須項目の検証は NewService で行います。
func ConfigFromEnv() Config {
	cfg := Config{
		CredentialsFile: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_FILE"),
		SpreadsheetID:   os.Getenv("GOOGLE_SHEETS_ID"),
		InputWorksheet:  os.Getenv("INPUT_WORKSHEET"),
		OutputWorksheet: os.Getenv("OUTPUT_WORKSHEET"),
	}
	if cfg.InputWorksheet == "" {
		cfg.InputWorksheet = DefaultInputWorksheet
	}
	return cfg
}

// Service は1つのスプレッドシートに対する読み書きを提供します。
type Service struct {
	api   *sheetsapi.Service
	cfg   Config
	clock clock.Clock
}

// NewService は新しい Service を生成します。
// opts はテストでエンドポイントや認証を差し替えるために使います。
func NewService(ctx context.Context, cfg Config, c clock.Clock, opts ...option.ClientOption) (*Service, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrSpreadsheetIDRequired
	}
	if cfg.InputWorksheet == "" {
		cfg.InputWorksheet = DefaultInputWorksheet
	}
	if c == nil {
		c = clock.Real{}
	}

	base := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		base = append(base, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	api, err := sheetsapi.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Service{api: api, cfg: cfg, clock: c}, nil
}

// quoteSheet はワークシート名をA1表記で使える形に引用符で囲みます。
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
