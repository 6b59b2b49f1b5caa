package api

import (
	"github.com/starford/evalview/internal/dashboard"
	"github.com/starford/evalview/internal/report"
)

// DataResponse is the evaluations table (aliased from the report layer).
type DataResponse = report.Table

// Series is one chart (aliased from the domain layer).
type Series = dashboard.Series

// ChartsResponse wraps every configured chart.
type ChartsResponse struct {
	Charts []Series `json:"charts" validate:"required"`
}

// OutputItem is a lightweight item in the outputs list (aliased from the domain layer).
type OutputItem = dashboard.OutputItem

// OutputDetail is a single output with content (aliased from the domain layer).
type OutputDetail = dashboard.OutputDetail

// OutputListResponse wraps the outputs listing.
type OutputListResponse struct {
	Outputs []OutputItem `json:"outputs" validate:"required"`
	Total   int          `json:"total" example:"12" validate:"required"`
}

// PromptResponse is the prompt as markdown and HTML (aliased from the domain layer).
type PromptResponse = dashboard.PromptDetail

// SearchResult is a single search hit in the API response.
type SearchResult = dashboard.SearchHit

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
