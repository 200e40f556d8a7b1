// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckTimeout は依存先1つあたりの疎通確認の制限時間です。
const CheckTimeout = 2 * time.Second

// CheckFunc は依存先（Redisなど）の疎通確認です。
type CheckFunc func(ctx context.Context) error

// NewHealth は /healthz エンドポイントのハンドラーを返します。
// checks が空の場合は常に ok を返し、1つでも失敗すれば 503 と失敗理由を返します。
// HEAD は本文なし、OPTIONS は 204 を返し、いずれもキャッシュを防止します。
func NewHealth(checks map[string]CheckFunc) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Header("Allow", "GET, HEAD, OPTIONS")
			c.Status(http.StatusNoContent)
			return
		}

		code := http.StatusOK
		status := "ok"
		results := make(map[string]string, len(names))
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), CheckTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				code = http.StatusServiceUnavailable
				status = "degraded"
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		if c.Request.Method == http.MethodHead {
			c.Status(code)
			return
		}
		body := gin.H{"status": status}
		if len(results) > 0 {
			body["checks"] = results
		}
		c.JSON(code, body)
	}
}
