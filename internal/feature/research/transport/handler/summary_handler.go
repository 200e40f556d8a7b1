package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/feature/research/transport/http/dto"
	"company_research/internal/feature/research/usecase"
	jwtmw "company_research/internal/platform/jwt"
)

// SummaryGenerator は企業リストから要約を生成するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SummaryGenerator interface {
	Process(ctx context.Context, companyNames []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error)
}

// SummaryHandler は要約生成APIのHTTPリクエストを処理します。
// 生成は1件ずつ順番に行うため、同時に届いたリクエストは前のリクエストの完了を待ちます。
type SummaryHandler struct {
	uc SummaryGenerator
	mu sync.Mutex
}

// NewSummaryHandler は新しい SummaryHandler を作成します。
func NewSummaryHandler(uc SummaryGenerator) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// Create は POST /v1/summaries を処理します。
// リクエストの企業名を前後の空白を除いて処理し、抽出項目付きの結果を入力順に返します。
func (h *SummaryHandler) Create(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	names := make([]string, 0, len(req.Companies))
	for _, n := range req.Companies {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "companies must contain at least one non-empty name"})
		return
	}

	operator := c.GetString(jwtmw.ContextOperator)
	slog.Info("summary request accepted", "operator", operator, "companies", len(names))

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.Request.Context()
	results, err := h.uc.Process(ctx, names, nil)
	if err != nil {
		slog.Warn("summary request interrupted", "operator", operator, "processed", len(results), "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(usecase.BuildOutputRows(results)))
}

func toResponse(rows []entity.OutputRow) dto.SummaryResponse {
	items := make([]dto.SummaryItem, 0, len(rows))
	results := make([]entity.SummaryResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.Result)
		items = append(items, dto.SummaryItem{
			CompanyName: r.Result.CompanyName,
			Summary:     r.Result.Summary,
			Status:      string(r.Result.Status),
			Timestamp:   r.Result.Timestamp.Format(time.RFC3339),
			Error:       r.Result.Error,
			Metadata: dto.Metadata{
				Confidence:    r.Metadata.Confidence,
				Industry:      r.Metadata.Industry,
				KeyActivities: r.Metadata.KeyActivities,
				TargetMarket:  r.Metadata.TargetMarket,
				BusinessModel: r.Metadata.BusinessModel,
			},
		})
	}

	stats := entity.TallyResults(results)
	return dto.SummaryResponse{
		Results: items,
		Stats: dto.Stats{
			Total:     stats.Total,
			Succeeded: stats.Succeeded,
			Warnings:  stats.Warnings,
			Failed:    stats.Failed,
		},
	}
}
