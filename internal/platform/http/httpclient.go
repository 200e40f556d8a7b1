// Package http は外部API（Gemini、Google Sheets）呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout は timeout に0以下が渡された場合のリクエスト全体のタイムアウトです。
const DefaultTimeout = 60 * time.Second

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// LLMの応答生成は数十秒かかることがあるため、Client.Timeout はリクエスト全体に対して
// 呼び出し元から渡し、接続確立とTLSハンドシェイクは短く制限します。
// http.DefaultClient にはタイムアウトがないため、常にこのクライアントを使用すること。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2, // 逐次処理なので接続はほぼ1本で足りる
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
