package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/source"
	"github.com/castlemilk/reclaim/internal/store"
)

const (
	uploadField     = "file"
	maxUploadFiles  = 20
	multipartMemory = 32 << 20
)

func (s *Server) domain(r *http.Request) (extraction.Domain, error) {
	d, err := extraction.ParseDomain(r.PathValue("domain"))
	if err != nil {
		return "", badRequest(err.Error())
	}
	return d, nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	domain, err := s.domain(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxFile*maxUploadFiles+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if asMaxBytes(err, &mbe) {
			s.writeError(w, r, mbe)
			return
		}
		s.writeError(w, r, badRequest("expected multipart form with file fields"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		s.writeError(w, r, badRequest("no file uploaded"))
		return
	}
	if len(headers) > maxUploadFiles {
		s.writeError(w, r, badRequest(fmt.Sprintf("at most %d files per upload", maxUploadFiles)))
		return
	}

	files := make([]source.File, 0, len(headers))
	for _, h := range headers {
		data, err := s.readPart(h)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		files = append(files, source.File{Name: h.Filename, Data: data})
	}

	report, err := s.imports.ImportFiles(r.Context(), domain, files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// readPart reads at most one byte past the limit so oversized files reach
// the size check instead of being silently truncated.
func (s *Server) readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", h.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.maxFile+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", h.Filename, err)
	}
	return data, nil
}

type remoteImportRequest struct {
	URI string `json:"uri"`
}

func (s *Server) handleRemoteImport(w http.ResponseWriter, r *http.Request) {
	domain, err := s.domain(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req remoteImportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeError(w, r, badRequest("invalid JSON body"))
		return
	}
	if _, _, err := source.ParseGCSURI(req.URI); err != nil {
		s.writeError(w, r, badRequest(err.Error()))
		return
	}

	report, err := s.imports.ImportRemote(r.Context(), domain, req.URI)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.imports.Reports())
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.imports.Report(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, notFound(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	txs, err := s.finance.ListTransactions(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.finance.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	months, err := s.finance.MonthlySummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleQuickStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.finance.QuickStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.analytics.Insights(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleHealthMetrics(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics, err := s.finance.HealthMetrics(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	summary, err := s.finance.Billing(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleYields(w http.ResponseWriter, r *http.Request) {
	summary, err := s.finance.Yields(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	name, err := s.finance.ExportCSV(r.Context(), &buf, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.ClearAll(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func transactionFilter(r *http.Request) (store.TransactionFilter, error) {
	start, end, err := dateRange(r)
	if err != nil {
		return store.TransactionFilter{}, err
	}
	return store.TransactionFilter{Start: start, End: end, Category: r.URL.Query().Get("category")}, nil
}

// dateRange reads optional start and end query parameters. A date-only end
// covers that whole day.
func dateRange(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		t, ok := extraction.ParseFlexibleDate(v)
		if !ok {
			return nil, nil, badRequest(fmt.Sprintf("invalid start date %q", v))
		}
		start = &t
	}
	if v := q.Get("end"); v != "" {
		t, ok := extraction.ParseFlexibleDate(v)
		if !ok {
			return nil, nil, badRequest(fmt.Sprintf("invalid end date %q", v))
		}
		if isDateOnly(v) {
			t = t.UTC().Add(24*time.Hour - time.Nanosecond)
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, badRequest("end date is before start date")
	}
	return start, end, nil
}

// isDateOnly reports whether v names a calendar day with no time of day,
// such as "2024-01-15" or "15/01/2024". Epoch values are exact instants.
func isDateOnly(v string) bool {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, ":T ") {
		return false
	}
	return strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) >= 0
}
