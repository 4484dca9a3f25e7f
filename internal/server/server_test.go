package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/model"
	"github.com/castlemilk/reclaim/internal/service"
	"github.com/castlemilk/reclaim/internal/source"
	"github.com/castlemilk/reclaim/internal/store"
)

const movements = `Fecha,Descripción,Monto,Tipo
2024-01-15,Supermercado Coto,1500.00,debit
2024-01-20,Transferencia recibida,5000.00,credit
2024-01-21,broken
`

type stubRemote struct {
	files []source.File
}

func (s stubRemote) Fetch(ctx context.Context, uri string, filter source.Filter, maxSize int64) ([]source.File, error) {
	return s.files, nil
}

func newTestServer(t *testing.T, maxFile int64, remote service.RemoteSource) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	log := zerolog.Nop()
	extractor := extraction.NewExtractionService(extraction.Config{MaxFileSize: maxFile})
	srv := New(Options{
		Finance:     service.NewFinanceService(mem, log),
		Analytics:   service.NewAnalyticsService(mem, log),
		Imports:     service.NewImportService(mem, extractor, log, service.ImportConfig{Remote: remote}),
		MaxFileSize: maxFile,
		Logger:      log,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, mem
}

func upload(t *testing.T, url string, files map[string]string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		fw, err := mw.CreateFormFile(uploadField, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, 0, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadAndQuery(t *testing.T) {
	ts, _ := newTestServer(t, 0, nil)

	resp := upload(t, ts.URL+"/v1/import/financial", map[string]string{"movimientos.csv": movements})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[service.ImportReport](t, resp)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Skipped)

	resp, err := http.Get(ts.URL + "/v1/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	summary := decode[model.FinancialSummary](t, resp)
	assert.Equal(t, "3500", summary.NetBalance.String())

	resp, err = http.Get(ts.URL + "/v1/transactions?start=2024-01-16&end=2024-01-20")
	require.NoError(t, err)
	defer resp.Body.Close()
	txs := decode[[]model.Transaction](t, resp)
	require.Len(t, txs, 1)
	assert.Equal(t, "Transferencia recibida", txs[0].Description)

	resp, err = http.Get(ts.URL + "/v1/imports/" + report.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no report store configured")
}

func TestUploadErrors(t *testing.T) {
	ts, _ := newTestServer(t, 64, nil)

	tests := []struct {
		name       string
		path       string
		files      map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown domain",
			path:       "/v1/import/crypto",
			files:      map[string]string{"a.csv": movements},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeBadRequest,
		},
		{
			name:       "unsupported extension",
			path:       "/v1/import/financial",
			files:      map[string]string{"a.pdf": "%PDF-1.4"},
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   string(extraction.ErrUnsupportedFormat),
		},
		{
			name:       "too large",
			path:       "/v1/import/financial",
			files:      map[string]string{"a.csv": strings.Repeat("x", 65)},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   string(extraction.ErrFileSize),
		},
		{
			name:       "empty",
			path:       "/v1/import/health",
			files:      map[string]string{"a.json": "  "},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(extraction.ErrEmptyFile),
		},
		{
			name:       "no file",
			path:       "/v1/import/financial",
			files:      map[string]string{},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := upload(t, ts.URL+tt.path, tt.files)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRemoteImport(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		ts, _ := newTestServer(t, 0, nil)
		resp, err := http.Post(ts.URL+"/v1/import/financial/remote", "application/json",
			strings.NewReader(`{"uri":"gs://bucket/exports"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("invalid uri", func(t *testing.T) {
		ts, _ := newTestServer(t, 0, stubRemote{})
		resp, err := http.Post(ts.URL+"/v1/import/financial/remote", "application/json",
			strings.NewReader(`{"uri":"s3://bucket"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("imports", func(t *testing.T) {
		remote := stubRemote{files: []source.File{{Name: "exports/mov.csv", Data: []byte(movements)}}}
		ts, mem := newTestServer(t, 0, remote)
		resp, err := http.Post(ts.URL+"/v1/import/financial/remote", "application/json",
			strings.NewReader(`{"uri":"gs://bucket/exports"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, mem.Financial().All(), 2)
	})
}

func TestExportAndClear(t *testing.T) {
	ts, mem := newTestServer(t, 0, nil)

	resp, err := http.Get(ts.URL + "/v1/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, string(extraction.ErrExport), decode[errorBody](t, resp).Code)

	upload(t, ts.URL+"/v1/import/financial", map[string]string{"movimientos.csv": movements})

	resp, err = http.Get(ts.URL + "/v1/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reclaim-finanzas-")
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/data", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, mem.Financial().All())
}

func TestInvalidDateRange(t *testing.T) {
	ts, _ := newTestServer(t, 0, nil)

	for _, q := range []string{"start=yesterday", "end=nope", "start=2024-02-01&end=2024-01-01"} {
		resp, err := http.Get(ts.URL + "/v1/transactions?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestDateRangeEnd(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	endOfDay := day.Add(24*time.Hour - time.Nanosecond)

	tests := []struct {
		name string
		end  string
		want time.Time
	}{
		{"iso date covers the whole day", "2024-01-15", endOfDay},
		{"day first date covers the whole day", "15/01/2024", endOfDay},
		{"explicit midnight is exact", "2024-01-15T00:00:00Z", day},
		{"explicit time is exact", "2024-01-15T10:30:00Z", day.Add(10*time.Hour + 30*time.Minute)},
		{"epoch millis is exact", "1705276800000", day},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/transactions?end="+tt.end, nil)
			start, end, err := dateRange(req)
			require.NoError(t, err)
			assert.Nil(t, start)
			require.NotNil(t, end)
			assert.True(t, tt.want.Equal(*end), "got %s", end)
		})
	}
}

func TestReadOnlyEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, 0, nil)

	for _, path := range []string{
		"/v1/summary/monthly", "/v1/stats", "/v1/insights", "/v1/health-metrics",
		"/v1/invoices", "/v1/yields", "/v1/imports",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), path)
	}
}
