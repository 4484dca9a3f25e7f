// Package server exposes import, query and export operations over HTTP.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/service"
)

// Server routes HTTP requests to the services.
type Server struct {
	finance   *service.FinanceService
	analytics *service.AnalyticsService
	imports   *service.ImportService
	maxFile   int64
	log       zerolog.Logger
}

// Options carries the services a Server dispatches to.
type Options struct {
	Finance     *service.FinanceService
	Analytics   *service.AnalyticsService
	Imports     *service.ImportService
	MaxFileSize int64
	Logger      zerolog.Logger
}

func New(opts Options) *Server {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = extraction.DefaultMaxFileSize
	}
	return &Server{
		finance:   opts.Finance,
		analytics: opts.Analytics,
		imports:   opts.Imports,
		maxFile:   opts.MaxFileSize,
		log:       opts.Logger,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/import/{domain}", s.handleUpload)
	mux.HandleFunc("POST /v1/import/{domain}/remote", s.handleRemoteImport)
	mux.HandleFunc("GET /v1/imports", s.handleListReports)
	mux.HandleFunc("GET /v1/imports/{id}", s.handleGetReport)

	mux.HandleFunc("GET /v1/transactions", s.handleTransactions)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/summary/monthly", s.handleMonthlySummary)
	mux.HandleFunc("GET /v1/stats", s.handleQuickStats)
	mux.HandleFunc("GET /v1/insights", s.handleInsights)
	mux.HandleFunc("GET /v1/health-metrics", s.handleHealthMetrics)
	mux.HandleFunc("GET /v1/invoices", s.handleInvoices)
	mux.HandleFunc("GET /v1/yields", s.handleYields)
	mux.HandleFunc("GET /v1/export.csv", s.handleExport)
	mux.HandleFunc("DELETE /v1/data", s.handleClear)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return requestLogger(s.log)(mux)
}
