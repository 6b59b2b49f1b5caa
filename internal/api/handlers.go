package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/dashboard"
)

// Handler holds API route handlers.
type Handler struct {
	svc *dashboard.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

// Data handles GET /api/data.
//
//	@Summary		Get the evaluations table
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	DataResponse
//	@Security		BearerAuth
//	@Router			/data [get]
func (h *Handler) Data(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Data())
}

// Charts handles GET /api/charts.
//
//	@Summary		Get every configured chart
//	@Tags			charts
//	@Produce		json
//	@Success		200	{object}	ChartsResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/charts [get]
func (h *Handler) Charts(w http.ResponseWriter, _ *http.Request) {
	charts, err := h.svc.Charts()
	if err != nil {
		writeError(w, "charts", err)
		return
	}
	writeJSON(w, http.StatusOK, ChartsResponse{Charts: charts})
}

// Chart handles GET /api/charts/{column}.
//
//	@Summary		Get one column as a chart sorted in descending order
//	@Tags			charts
//	@Produce		json
//	@Param			column	path		string	true	"Column name"
//	@Success		200		{object}	Series
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/charts/{column} [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.Chart(chi.URLParam(r, "column"))
	if err != nil {
		writeError(w, "chart", err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// Outputs handles GET /api/outputs.
//
//	@Summary		List markdown outputs with their metrics
//	@Tags			outputs
//	@Produce		json
//	@Success		200	{object}	OutputListResponse
//	@Security		BearerAuth
//	@Router			/outputs [get]
func (h *Handler) Outputs(w http.ResponseWriter, _ *http.Request) {
	items, err := h.svc.Outputs()
	if err != nil {
		writeError(w, "list outputs", err)
		return
	}
	writeJSON(w, http.StatusOK, OutputListResponse{Outputs: items, Total: len(items)})
}

// Output handles GET /api/outputs/{index}.
//
//	@Summary		Get one output by its position in the list
//	@Tags			outputs
//	@Produce		json
//	@Param			index	path		int	true	"0-based output index"
//	@Success		200		{object}	OutputDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/outputs/{index} [get]
func (h *Handler) Output(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(apperr.ErrInvalidIndex.Error()))
		return
	}
	out, err := h.svc.Output(i)
	if err != nil {
		writeError(w, "get output", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Prompt handles GET /api/prompt.
//
//	@Summary		Get the evaluation prompt
//	@Tags			prompt
//	@Produce		json
//	@Success		200	{object}	PromptResponse
//	@Security		BearerAuth
//	@Router			/prompt [get]
func (h *Handler) Prompt(w http.ResponseWriter, _ *http.Request) {
	p, err := h.svc.Prompt()
	if err != nil {
		writeError(w, "prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across outputs
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
