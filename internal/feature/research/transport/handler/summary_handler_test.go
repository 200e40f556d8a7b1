package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_research/internal/feature/research/domain/entity"
	"company_research/internal/feature/research/transport/http/dto"
	"company_research/internal/feature/research/usecase"
	jwtmw "company_research/internal/platform/jwt"
)

var processedAt = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

const acmeSummary = "COMPANY OVERVIEW\n" +
	"Acme Corp is a long-established manufacturer of widgets serving customers across many regions.\n" +
	"DATA CONFIDENCE: Medium\n" +
	"INDUSTRY & SECTOR: Software\n" +
	"KEY BUSINESS ACTIVITIES: Builds widgets\n" +
	"TARGET MARKET: SMBs\n" +
	"BUSINESS MODEL: SaaS\n"

// mockSummaryGenerator はSummaryGeneratorインターフェースのモック実装です。
type mockSummaryGenerator struct {
	ProcessFunc  func(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error)
	ProcessCalls int32
}

func (m *mockSummaryGenerator) Process(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error) {
	atomic.AddInt32(&m.ProcessCalls, 1)
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, names, progress)
	}
	return nil, nil
}

func newTestRouter(h *SummaryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/summaries", func(c *gin.Context) {
		c.Set(jwtmw.ContextOperator, "ops@example.com")
		c.Next()
	}, h.Create)
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/summaries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// TestSummaryHandler_Create_Success は結果が入力順に抽出項目付きで返ることを検証します。
func TestSummaryHandler_Create_Success(t *testing.T) {
	var gotNames []string
	mockUC := &mockSummaryGenerator{
		ProcessFunc: func(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error) {
			gotNames = names
			return []entity.SummaryResult{
				{CompanyName: "Acme Corp", Summary: acmeSummary, Status: entity.StatusSuccess, Timestamp: processedAt},
				{CompanyName: "Globex", Summary: "short", Status: entity.StatusWarning, Timestamp: processedAt, Error: usecase.LowQualityMessage},
			}, nil
		},
	}
	router := newTestRouter(NewSummaryHandler(mockUC))

	w := post(router, `{"companies":["  Acme Corp ", "", "Globex"]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Acme Corp", "Globex"}, gotNames)

	var resp dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	acme := resp.Results[0]
	assert.Equal(t, "Acme Corp", acme.CompanyName)
	assert.Equal(t, "success", acme.Status)
	assert.Equal(t, "2025-01-15T09:00:00Z", acme.Timestamp)
	assert.Empty(t, acme.Error)
	assert.Equal(t, dto.Metadata{
		Confidence: "MEDIUM", Industry: "Software", KeyActivities: "Builds widgets",
		TargetMarket: "SMBs", BusinessModel: "SaaS",
	}, acme.Metadata)

	globex := resp.Results[1]
	assert.Equal(t, "warning", globex.Status)
	assert.Equal(t, usecase.LowQualityMessage, globex.Error)
	assert.Equal(t, entity.NotSpecified, globex.Metadata.Industry)

	assert.Equal(t, dto.Stats{Total: 2, Succeeded: 1, Warnings: 1}, resp.Stats)
}

// TestSummaryHandler_Create_BadRequest は不正なリクエストで400を返し、生成を呼ばないことを検証します。
func TestSummaryHandler_Create_BadRequest(t *testing.T) {
	tooManyBody, _ := json.Marshal(dto.SummaryRequest{Companies: companies(51)})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"companies":`},
		{"missing companies", `{}`},
		{"empty list", `{"companies":[]}`},
		{"only blank names", `{"companies":["  ", ""]}`},
		{"too many companies", string(tooManyBody)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockSummaryGenerator{}
			router := newTestRouter(NewSummaryHandler(mockUC))

			w := post(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Zero(t, mockUC.ProcessCalls)
		})
	}
}

// TestSummaryHandler_Create_MaxCompanies は上限ちょうどの件数が受け付けられることを検証します。
func TestSummaryHandler_Create_MaxCompanies(t *testing.T) {
	mockUC := &mockSummaryGenerator{
		ProcessFunc: func(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error) {
			results := make([]entity.SummaryResult, 0, len(names))
			for _, n := range names {
				results = append(results, entity.SummaryResult{CompanyName: n, Status: entity.StatusSuccess, Timestamp: processedAt})
			}
			return results, nil
		},
	}
	router := newTestRouter(NewSummaryHandler(mockUC))

	body, _ := json.Marshal(dto.SummaryRequest{Companies: companies(50)})
	w := post(router, string(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), mockUC.ProcessCalls)
}

func companies(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Co"
	}
	return out
}

// TestSummaryHandler_Create_Interrupted は生成が中断された場合のステータスコードを検証します。
func TestSummaryHandler_Create_Interrupted(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockSummaryGenerator{
				ProcessFunc: func(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(NewSummaryHandler(mockUC))

			w := post(router, `{"companies":["Acme Corp"]}`)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestSummaryHandler_Create_Serialized は同時リクエストが重ならずに順番に処理されることを検証します。
func TestSummaryHandler_Create_Serialized(t *testing.T) {
	var inFlight, maxInFlight int32
	mockUC := &mockSummaryGenerator{
		ProcessFunc: func(ctx context.Context, names []string, progress usecase.ProgressFunc) ([]entity.SummaryResult, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				cur := atomic.LoadInt32(&maxInFlight)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return []entity.SummaryResult{{CompanyName: names[0], Status: entity.StatusSuccess, Timestamp: processedAt}}, nil
		},
	}
	router := newTestRouter(NewSummaryHandler(mockUC))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := post(router, `{"companies":["Acme Corp"]}`)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), atomic.LoadInt32(&mockUC.ProcessCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}
