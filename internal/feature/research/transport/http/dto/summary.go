// Package dto defines data transfer objects for the research HTTP API.
package dto

// SummaryRequest is the body of POST /v1/summaries.
// A single synchronous request accepts at most 50 companies.
type SummaryRequest struct {
	Companies []string `json:"companies" binding:"required,min=1,max=50"`
}

// Metadata carries the fields extracted from a summary.
type Metadata struct {
	Confidence    string `json:"confidence"`
	Industry      string `json:"industry"`
	KeyActivities string `json:"key_activities"`
	TargetMarket  string `json:"target_market"`
	BusinessModel string `json:"business_model"`
}

// SummaryItem is one company's result.
type SummaryItem struct {
	CompanyName string   `json:"company_name"`
	Summary     string   `json:"summary"`
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Error       string   `json:"error,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

// Stats mirrors the per-status counts of a batch.
type Stats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Warnings  int `json:"warnings"`
	Failed    int `json:"failed"`
}

// SummaryResponse is the body returned by POST /v1/summaries.
type SummaryResponse struct {
	Results []SummaryItem `json:"results"`
	Stats   Stats         `json:"stats"`
}

// ErrorResponse is returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
