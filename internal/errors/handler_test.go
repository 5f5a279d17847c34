package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"qpulse/internal/dataprocessing"
)

func newTestHandler() *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

// missingColumnsErr runs the complaints parser against a workbook whose
// headers resolve nothing, returning the structural error exactly as the
// ingest path wraps it.
func missingColumnsErr(t *testing.T) error {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"alpha", "beta"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"1", "2"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, parseErr := dataprocessing.ParseComplaints(buf.Bytes(), dataprocessing.DefaultComplaintMapping)
	require.Error(t, parseErr)
	return fmt.Errorf("complaints.xlsx: %w", parseErr)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "missing columns from parser",
			err:        missingColumnsErr(t),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeColumnsMissing,
		},
		{
			name:       "no worksheet",
			err:        fmt.Errorf("empty.xlsx: %w", dataprocessing.ErrNoWorksheet),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeWorkbookCorrupted,
		},
		{
			name:       "unknown source type",
			err:        errors.New(`unknown source type "bogus"`),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnknownSource,
		},
		{
			name:       "not found",
			err:        errors.New("dataset not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "rate limit",
			err:        errors.New("rate limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
		},
		{
			name:       "generic",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/kpis", problem.Instance)
		})
	}
}

func TestAPIErrorToProblem(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)

	apiErr := MissingColumnsError("complaints.xlsx", errors.New("missing required columns: created"))
	problem := h.ErrorToProblem(apiErr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
	assert.Equal(t, TypeColumnsMissing, problem.Type)
	assert.Equal(t, "COLUMNS_MISSING", problem.Extensions["error_code"])
	assert.NotNil(t, problem.Extensions["details"])
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeDatasetNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad field", "/api/ingest").
		WithExtension("trace_id", "t-1")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "t-1", decoded["trace_id"])
	assert.Equal(t, "Validation Failed", decoded["title"])
	assert.Equal(t, "bad field", decoded["detail"])
}

func TestNotFoundHandler(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	h.NotFound(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad request")
	assert.Equal(t, "bad request", err.Error())

	var apiErr *APIError
	assert.True(t, errors.As(error(err), &apiErr))
}
