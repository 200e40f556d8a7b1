package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	researchhandler "company_research/internal/feature/research/transport/handler"
	"company_research/internal/platform/http/handler"
	jwtmw "company_research/internal/platform/jwt"
)

// Options はルーター生成時の設定です。
type Options struct {
	JWTSecret    string
	CORSOrigins  []string                     // 空の場合はCORSミドルウェアを付けない
	HealthChecks map[string]handler.CheckFunc // /healthz で確認する依存先
}

// NewRouter は運用者向けAPIのルーターを生成します。
func NewRouter(summaries *researchhandler.SummaryHandler, opts Options) *gin.Engine {
	r := gin.Default()

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	health := handler.NewHealth(opts.HealthChecks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 認証必須のルート
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		v1.POST("/summaries", summaries.Create)
	}

	return r
}
