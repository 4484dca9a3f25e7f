package extraction

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/castlemilk/reclaim/internal/model"
)

// DefaultMaxFileSize is the upload limit applied when Config leaves it unset.
const DefaultMaxFileSize int64 = 50 << 20

// Domain selects which family of parsers handles a file.
type Domain string

const (
	DomainFinancial Domain = "financial"
	DomainHealth    Domain = "health"
	DomainBilling   Domain = "billing"
	DomainYields    Domain = "yields"
)

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	switch d := Domain(strings.ToLower(s)); d {
	case DomainFinancial, DomainHealth, DomainBilling, DomainYields:
		return d, nil
	}
	return "", fmt.Errorf("unknown import domain %q", s)
}

// acceptedExtensions lists the file suffixes each domain accepts.
var acceptedExtensions = map[Domain][]string{
	DomainFinancial: {".csv", ".json", ".zip"},
	DomainHealth:    {".json", ".zip"},
	DomainBilling:   {".json"},
	DomainYields:    {".json"},
}

// AcceptedExtensions returns the suffixes accepted for d.
func AcceptedExtensions(d Domain) []string {
	return append([]string(nil), acceptedExtensions[d]...)
}

// Accepts reports whether fileName has a suffix accepted for d.
func Accepts(d Domain, fileName string) bool {
	ext := strings.ToLower(path.Ext(fileName))
	for _, e := range acceptedExtensions[d] {
		if e == ext {
			return true
		}
	}
	return false
}

// Config holds configuration for the extraction service.
type Config struct {
	MaxFileSize int64
}

// ExtractionService validates raw files and routes them to the parsers.
// It holds no state between calls.
type ExtractionService struct {
	maxFileSize int64
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(cfg Config) *ExtractionService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	return &ExtractionService{maxFileSize: cfg.MaxFileSize}
}

// MaxFileSize returns the configured upload limit in bytes.
func (s *ExtractionService) MaxFileSize() int64 {
	return s.maxFileSize
}

// Validate checks size, emptiness and suffix before any parsing happens.
func (s *ExtractionService) Validate(d Domain, fileName string, data []byte) error {
	if int64(len(data)) > s.maxFileSize {
		return NewFileSizeError(fileName, int64(len(data)), s.maxFileSize)
	}
	if len(trimSpaceBytes(data)) == 0 {
		return NewEmptyFileError(fileName)
	}
	if !Accepts(d, fileName) {
		return NewUnsupportedFormatError(fileName, path.Ext(fileName))
	}
	return nil
}

// ExtractFinancial parses a CSV, ledger JSON or ZIP export.
func (s *ExtractionService) ExtractFinancial(ctx context.Context, fileName string, data []byte) (FinancialResult, error) {
	if err := ctx.Err(); err != nil {
		return FinancialResult{FileName: fileName}, err
	}
	if err := s.Validate(DomainFinancial, fileName, data); err != nil {
		return FinancialResult{FileName: fileName}, err
	}

	switch strings.ToLower(path.Ext(fileName)) {
	case ".csv":
		return ParseTabular(fileName, data)
	case ".json":
		return ParseLedgerJSON(fileName, data)
	default:
		return parseContainer(fileName, data, s.maxFileSize)
	}
}

// ExtractHealth parses a health JSON or ZIP export into daily aggregates.
func (s *ExtractionService) ExtractHealth(ctx context.Context, fileName string, data []byte) (HealthResult, error) {
	if err := ctx.Err(); err != nil {
		return HealthResult{FileName: fileName}, err
	}
	if err := s.Validate(DomainHealth, fileName, data); err != nil {
		return HealthResult{FileName: fileName}, err
	}
	return parseHealthFile(fileName, data, s.maxFileSize)
}

// ExtractBilling parses a billing invoice export.
func (s *ExtractionService) ExtractBilling(ctx context.Context, fileName string, data []byte) ([]model.BillingInvoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Validate(DomainBilling, fileName, data); err != nil {
		return nil, err
	}
	invoices, _, err := ParseBillingJSON(fileName, data)
	return invoices, err
}

// ExtractYields parses an investment-yield export.
func (s *ExtractionService) ExtractYields(ctx context.Context, fileName string, data []byte) (YieldsResult, error) {
	if err := ctx.Err(); err != nil {
		return YieldsResult{FileName: fileName}, err
	}
	if err := s.Validate(DomainYields, fileName, data); err != nil {
		return YieldsResult{FileName: fileName}, err
	}
	return ParseYieldsJSON(fileName, data)
}
