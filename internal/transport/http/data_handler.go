package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "qpulse/internal/errors"
	"qpulse/internal/exporter"
	"qpulse/internal/services"
	"qpulse/internal/validation"
)

// DataHandler handles ingest and KPI HTTP requests
type DataHandler struct {
	service        DataServiceInterface
	exporter       *exporter.KPIExporter
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, exp *exporter.KPIExporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DataHandler {
	return &DataHandler{
		service:        service,
		exporter:       exp,
		logger:         logger.With(slog.String("component", "data_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the data routes with proper Chi patterns
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/ingest", h.Ingest)
	r.Get("/dataset", h.GetDataset)
	r.Get("/plants", h.GetPlants)

	r.Route("/kpis", func(r chi.Router) {
		r.Get("/", h.GetKPIs)
		r.Get("/export/rows.csv", h.ExportRowsCSV)
		r.Get("/export/summary.csv", h.ExportSummaryCSV)
		r.Get("/export/report.json", h.ExportJSON)
	})

	return r
}

// ingestResponse summarizes an accepted ingest batch.
type ingestResponse struct {
	Success       bool                `json:"success"`
	Files         int                 `json:"files"`
	Notifications int                 `json:"notifications"`
	Deliveries    int                 `json:"deliveries"`
	Plants        int                 `json:"plants"`
	RowErrors     map[string][]string `json:"row_errors,omitempty"`
	IngestedAt    string              `json:"ingested_at"`
}

// Ingest handles POST /api/ingest. The multipart form field name of
// each file selects its parser: complaints, corrections, status,
// deliveries_customer, deliveries_supplier, ppap, deviations, plants.
func (h *DataHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(fmt.Errorf("invalid multipart form: %w", err)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var reqs []services.ParseRequest
	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			file, err := fh.Open()
			if err != nil {
				h.errorHandler.HandleError(w, r, apierrors.FileSystemError("upload read", err))
				return
			}
			data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
			file.Close()
			if err != nil {
				h.errorHandler.HandleError(w, r, apierrors.FileSystemError("upload read", err))
				return
			}

			if err := validation.ValidateUpload(fh.Filename, data, h.maxUploadBytes); err != nil {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation(field, err.Error()))
				return
			}

			reqs = append(reqs, services.ParseRequest{
				Filename:   fh.Filename,
				SourceType: services.SourceType(field),
				Data:       data,
			})
		}
	}

	if len(reqs) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("files", "at least one workbook must be uploaded"))
		return
	}

	dataset, err := h.service.IngestBatch(ctx, reqs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ingestResponse{
		Success:       true,
		Files:         len(reqs),
		Notifications: len(dataset.Notifications),
		Deliveries:    len(dataset.Deliveries),
		Plants:        len(dataset.Plants),
		RowErrors:     dataset.RowErrors,
		IngestedAt:    dataset.IngestedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetKPIs handles GET /api/kpis
func (h *DataHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildKPIs(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// GetDataset handles GET /api/dataset
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.service.Current(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"notifications": len(dataset.Notifications),
		"deliveries":    len(dataset.Deliveries),
		"plants":        len(dataset.Plants),
		"row_errors":    dataset.RowErrors,
		"ingested_at":   dataset.IngestedAt,
	})
}

// GetPlants handles GET /api/plants
func (h *DataHandler) GetPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.service.ReferencePlants(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoPlants) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("plant reference"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, plants)
}

// ExportRowsCSV handles GET /api/kpis/export/rows.csv
func (h *DataHandler) ExportRowsCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildKPIs(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kpi_rows.csv"`)

	if err := h.exporter.WriteRowsCSV(w, report.Rows); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
	}
}

// ExportSummaryCSV handles GET /api/kpis/export/summary.csv
func (h *DataHandler) ExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildKPIs(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kpi_summary.csv"`)

	if err := h.exporter.WriteSummaryCSV(w, report.PPM, report.Complaints, report.Defects, report.CustomerPPM); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
	}
}

// ExportJSON handles GET /api/kpis/export/report.json
func (h *DataHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildKPIs(r.Context())
	if err != nil {
		h.handleDatasetError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kpi_report.json"`)

	if err := h.exporter.WriteJSON(w, report); err != nil {
		h.logger.ErrorContext(r.Context(), "json export failed",
			slog.String("error", err.Error()))
	}
}

func (h *DataHandler) handleDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDataset) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
