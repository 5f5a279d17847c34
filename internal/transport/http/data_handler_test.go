package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "qpulse/internal/errors"
	"qpulse/internal/exporter"
	"qpulse/internal/services"
	"qpulse/pkg/contracts/domain"
)

// stubDataService implements DataServiceInterface with function fields.
type stubDataService struct {
	parseSource     func(ctx context.Context, req services.ParseRequest) (*services.SourceResult, error)
	ingestBatch     func(ctx context.Context, reqs []services.ParseRequest) (*services.Dataset, error)
	current         func(ctx context.Context) (*services.Dataset, error)
	buildKPIs       func(ctx context.Context) (*services.KPIReport, error)
	referencePlants func(ctx context.Context) ([]domain.Plant, error)
}

func (s *stubDataService) ParseSource(ctx context.Context, req services.ParseRequest) (*services.SourceResult, error) {
	return s.parseSource(ctx, req)
}

func (s *stubDataService) IngestBatch(ctx context.Context, reqs []services.ParseRequest) (*services.Dataset, error) {
	return s.ingestBatch(ctx, reqs)
}

func (s *stubDataService) Current(ctx context.Context) (*services.Dataset, error) {
	return s.current(ctx)
}

func (s *stubDataService) BuildKPIs(ctx context.Context) (*services.KPIReport, error) {
	return s.buildKPIs(ctx)
}

func (s *stubDataService) ReferencePlants(ctx context.Context) ([]domain.Plant, error) {
	return s.referencePlants(ctx)
}

func newTestHandler(svc DataServiceInterface, t *testing.T) *DataHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewDataHandler(svc, exporter.NewKPIExporter(t.TempDir()), logger,
		apierrors.NewErrorHandler(logger, false), 1<<20)
}

func workbookBytes() []byte {
	return append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("zip payload")...)
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func sampleReport() *services.KPIReport {
	ppm := 134.0
	return &services.KPIReport{
		Rows: []domain.MonthlySiteKPI{
			{SiteCode: "106", Month: "2024-03", CustomerComplaints: 2, CustomerDeliveries: 100000},
		},
		PPM:         domain.GlobalPPM{CustomerPPM: &ppm},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestIngestSuccess(t *testing.T) {
	svc := &stubDataService{
		ingestBatch: func(ctx context.Context, reqs []services.ParseRequest) (*services.Dataset, error) {
			require.Len(t, reqs, 1)
			assert.Equal(t, services.SourceComplaints, reqs[0].SourceType)
			assert.Equal(t, "complaints.xlsx", reqs[0].Filename)
			return &services.Dataset{
				Notifications: make([]domain.Notification, 3),
				IngestedAt:    time.Now().UTC(),
			}, nil
		},
	}
	h := newTestHandler(svc, t)

	body, contentType := multipartBody(t, "complaints", "complaints.xlsx", workbookBytes())
	r := httptest.NewRequest(http.MethodPost, "/ingest", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(3), resp["notifications"])
}

func TestIngestRejectsUnsupportedExtension(t *testing.T) {
	svc := &stubDataService{
		ingestBatch: func(ctx context.Context, reqs []services.ParseRequest) (*services.Dataset, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := newTestHandler(svc, t)

	body, contentType := multipartBody(t, "complaints", "complaints.csv", workbookBytes())
	r := httptest.NewRequest(http.MethodPost, "/ingest", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported extension")
}

func TestIngestRejectsNonWorkbookPayload(t *testing.T) {
	svc := &stubDataService{}
	h := newTestHandler(svc, t)

	body, contentType := multipartBody(t, "complaints", "complaints.xlsx", []byte("plain text"))
	r := httptest.NewRequest(http.MethodPost, "/ingest", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestWithoutFiles(t *testing.T) {
	svc := &stubDataService{}
	h := newTestHandler(svc, t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no files here"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/ingest", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetKPIs(t *testing.T) {
	svc := &stubDataService{
		buildKPIs: func(ctx context.Context) (*services.KPIReport, error) {
			return sampleReport(), nil
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/kpis/", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var report services.KPIReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "106", report.Rows[0].SiteCode)
	require.NotNil(t, report.PPM.CustomerPPM)
	assert.InDelta(t, 134.0, *report.PPM.CustomerPPM, 1e-9)
}

func TestGetKPIsWithoutDataset(t *testing.T) {
	svc := &stubDataService{
		buildKPIs: func(ctx context.Context) (*services.KPIReport, error) {
			return nil, services.ErrNoDataset
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/kpis/", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.TypeDatasetNotFound)
}

func TestGetDataset(t *testing.T) {
	svc := &stubDataService{
		current: func(ctx context.Context) (*services.Dataset, error) {
			return &services.Dataset{
				Notifications: make([]domain.Notification, 2),
				Deliveries:    make([]domain.Delivery, 5),
				IngestedAt:    time.Now().UTC(),
			}, nil
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/dataset", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["notifications"])
	assert.Equal(t, float64(5), resp["deliveries"])
}

func TestGetPlantsNotFound(t *testing.T) {
	svc := &stubDataService{
		referencePlants: func(ctx context.Context) ([]domain.Plant, error) {
			return nil, services.ErrNoPlants
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/plants", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRowsCSV(t *testing.T) {
	svc := &stubDataService{
		buildKPIs: func(ctx context.Context) (*services.KPIReport, error) {
			return sampleReport(), nil
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/kpis/export/rows.csv", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "site_code")
	assert.Contains(t, w.Body.String(), "2024-03")
}

func TestExportSummaryCSV(t *testing.T) {
	svc := &stubDataService{
		buildKPIs: func(ctx context.Context) (*services.KPIReport, error) {
			return sampleReport(), nil
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/kpis/export/summary.csv", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer_ppm")
}

func TestExportJSON(t *testing.T) {
	svc := &stubDataService{
		buildKPIs: func(ctx context.Context) (*services.KPIReport, error) {
			return sampleReport(), nil
		},
	}
	h := newTestHandler(svc, t)

	r := httptest.NewRequest(http.MethodGet, "/kpis/export/report.json", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var report services.KPIReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)
}

func TestHealthCheck(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := NewHealthHandler(logger)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
