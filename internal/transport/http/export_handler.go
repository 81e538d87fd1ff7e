package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"wordtrend/internal/download"
	apierrors "wordtrend/internal/errors"
	"wordtrend/internal/exporter"
	"wordtrend/internal/freqs"
	"wordtrend/internal/services"
)

const dateLayout = "2006-01-02"

// ExportHandler serves the export endpoints
type ExportHandler struct {
	service      *services.ExportService
	freqs        *freqs.Service
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewExportHandler creates an export handler
func NewExportHandler(service *services.ExportService, freqsService *freqs.Service, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		freqs:        freqsService,
		logger:       logger.With(slog.String("handler", "export")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ExportTable)
	r.Get("/freqs", h.ExportTopWords)
	r.Get("/trends", h.ExportTrends)
	return r
}

// ExportRequest is the POST /api/export body
type ExportRequest struct {
	Columns     map[string][]any `json:"columns" validate:"required,min=1"`
	ColumnOrder []string         `json:"column_order" validate:"required,min=1"`
	Options     ExportOptions    `json:"options"`
	Format      string           `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

// ExportOptions mirrors the exporter options on the wire
type ExportOptions struct {
	QuoteColumns    []string `json:"quote_columns"`
	QuoteAllStrings bool     `json:"quote_all_strings"`
	DateColumns     []string `json:"date_columns"`
	TrendLabels     []string `json:"trend_labels"`
}

// ExportTable handles POST /api/export
func (h *ExportHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	table, err := buildTable(req.Columns, req.Options.DateColumns)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts := exporter.Options{
		QuoteColumns:    req.Options.QuoteColumns,
		QuoteAllStrings: req.Options.QuoteAllStrings,
		DateColumns:     req.Options.DateColumns,
		TrendLabels:     req.Options.TrendLabels,
	}

	payload, err := h.service.ExportTable(r.Context(), table, req.ColumnOrder, opts, req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, exportAPIError(err))
		return
	}

	h.deliver(w, r, "table", payload)
}

// ExportTopWords handles GET /api/export/freqs
func (h *ExportHandler) ExportTopWords(w http.ResponseWriter, r *http.Request) {
	q, err := topWordsQuery(h.freqs, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload, err := h.service.ExportTopWords(r.Context(), q, r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, exportAPIError(err))
		return
	}

	h.deliver(w, r, "top-words", payload)
}

// ExportTrends handles GET /api/export/trends
func (h *ExportHandler) ExportTrends(w http.ResponseWriter, r *http.Request) {
	q, err := trendsQuery(h.freqs, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload, err := h.service.ExportTrends(r.Context(), q, r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, exportAPIError(err))
		return
	}

	h.deliver(w, r, "trends", payload)
}

// deliver hands the payload to an attachment downloader
func (h *ExportHandler) deliver(w http.ResponseWriter, r *http.Request, kind string, payload download.Payload) {
	if err := h.service.Deliver(r.Context(), kind, payload, download.NewAttachment(w)); err != nil {
		// Headers are likely already written; just log.
		h.logger.ErrorContext(r.Context(), "Failed to deliver export",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
	}
}

// buildTable converts the wire columns into an exporter table. JSON
// numbers arrive as float64; cells in date columns arrive as ISO
// strings and are parsed here so the exporter sees time values.
func buildTable(columns map[string][]any, dateColumns []string) (*exporter.Table, error) {
	dated := make(map[string]bool, len(dateColumns))
	for _, name := range dateColumns {
		dated[name] = true
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	table := exporter.NewTable()
	for _, name := range names {
		cells := columns[name]
		if dated[name] {
			converted := make([]any, len(cells))
			for i, cell := range cells {
				text, ok := cell.(string)
				if !ok {
					return nil, apierrors.NewWithDetails(http.StatusBadRequest,
						"INVALID_REQUEST", "date cells must be ISO strings", name)
				}
				t, err := time.Parse(dateLayout, text)
				if err != nil {
					return nil, apierrors.InvalidRequestWithError(err)
				}
				converted[i] = t
			}
			cells = converted
		}
		table.AddColumn(name, cells)
	}
	return table, nil
}

// exportAPIError maps exporter and dataset failures onto API errors
func exportAPIError(err error) error {
	switch {
	case errors.Is(err, exporter.ErrUnknownColumn):
		return apierrors.NewWithDetails(http.StatusBadRequest,
			"UNKNOWN_COLUMN", "Requested column does not exist", err.Error())
	case errors.Is(err, exporter.ErrInconsistentLength):
		return apierrors.NewWithDetails(http.StatusUnprocessableEntity,
			"INCONSISTENT_DATA", "Table columns have differing lengths", err.Error())
	case errors.Is(err, exporter.ErrUnsupportedValue):
		return apierrors.NewWithDetails(http.StatusUnprocessableEntity,
			"UNSUPPORTED_VALUE", "Cell value has no stringification policy", err.Error())
	case errors.Is(err, freqs.ErrNotLoaded):
		return apierrors.ErrDatasetNotFound
	default:
		return apierrors.ExportError(err)
	}
}

// topWordsQuery parses the top-words query parameters, defaulting the
// date range to the full corpus.
func topWordsQuery(svc *freqs.Service, r *http.Request) (freqs.TopWordsQuery, error) {
	snapshot, err := svc.Snapshot()
	if err != nil {
		return freqs.TopWordsQuery{}, apierrors.ErrDatasetNotFound
	}

	q := freqs.TopWordsQuery{
		From: snapshot.MinDate(),
		To:   snapshot.MaxDate(),
		TopN: 15,
	}

	params := r.URL.Query()
	if v := params.Get("from"); v != "" {
		if q.From, err = time.Parse(dateLayout, v); err != nil {
			return q, apierrors.ErrValidation("from", "must be YYYY-MM-DD")
		}
	}
	if v := params.Get("to"); v != "" {
		if q.To, err = time.Parse(dateLayout, v); err != nil {
			return q, apierrors.ErrValidation("to", "must be YYYY-MM-DD")
		}
	}
	if v := params.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return q, apierrors.ErrValidation("top_n", "must be a positive integer")
		}
		q.TopN = n
	}
	if v := params.Get("normalize"); v != "" {
		normalize, err := strconv.ParseBool(v)
		if err != nil {
			return q, apierrors.ErrValidation("normalize", "must be a boolean")
		}
		q.Normalize = normalize
	}
	return q, nil
}

// trendsQuery parses the trends query parameters
func trendsQuery(svc *freqs.Service, r *http.Request) (freqs.TrendsQuery, error) {
	snapshot, err := svc.Snapshot()
	if err != nil {
		return freqs.TrendsQuery{}, apierrors.ErrDatasetNotFound
	}

	q := freqs.TrendsQuery{
		From: snapshot.MinDate(),
		To:   snapshot.MaxDate(),
	}

	params := r.URL.Query()
	words := strings.TrimSpace(params.Get("words"))
	if words == "" {
		return q, apierrors.ErrValidation("words", "at least one word is required")
	}
	for _, word := range strings.Split(words, ",") {
		if word = strings.TrimSpace(word); word != "" {
			q.Words = append(q.Words, word)
		}
	}
	if len(q.Words) == 0 {
		return q, apierrors.ErrValidation("words", "at least one word is required")
	}

	if v := params.Get("from"); v != "" {
		if q.From, err = time.Parse(dateLayout, v); err != nil {
			return q, apierrors.ErrValidation("from", "must be YYYY-MM-DD")
		}
	}
	if v := params.Get("to"); v != "" {
		if q.To, err = time.Parse(dateLayout, v); err != nil {
			return q, apierrors.ErrValidation("to", "must be YYYY-MM-DD")
		}
	}
	return q, nil
}
