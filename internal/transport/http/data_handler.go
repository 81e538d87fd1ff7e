package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wordtrend/internal/errors"
	"wordtrend/internal/exporter"
	"wordtrend/internal/freqs"
)

// DataHandler serves the JSON views behind the dashboard panels
type DataHandler struct {
	freqs        *freqs.Service
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler
func NewDataHandler(freqsService *freqs.Service, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		freqs:        freqsService,
		logger:       logger.With(slog.String("handler", "data")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/freqs", h.GetTopWords)
	r.Get("/trends", h.GetTrends)
	return r
}

// tableResponse is the JSON shape of a columnar table, matching the
// panel data sources.
type tableResponse struct {
	Columns map[string][]any `json:"columns"`
	Order   []string         `json:"order"`
	Rows    int              `json:"rows"`
	Labels  []string         `json:"labels,omitempty"`
}

// GetTopWords handles GET /api/freqs
func (h *DataHandler) GetTopWords(w http.ResponseWriter, r *http.Request) {
	q, err := topWordsQuery(h.freqs, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.freqs.TopWords(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, exportAPIError(err))
		return
	}

	render.JSON(w, r, tableToResponse(table, nil))
}

// GetTrends handles GET /api/trends
func (h *DataHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	q, err := trendsQuery(h.freqs, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, labels, err := h.freqs.Trends(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, exportAPIError(err))
		return
	}

	render.JSON(w, r, tableToResponse(table, labels))
}

func tableToResponse(table *exporter.Table, labels []string) tableResponse {
	resp := tableResponse{
		Columns: make(map[string][]any),
		Order:   table.Columns(),
		Rows:    table.Len(),
		Labels:  labels,
	}
	for _, name := range resp.Order {
		cells, _ := table.Column(name)
		resp.Columns[name] = cells
	}
	return resp
}
