package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/castlemilk/reclaim/internal/extraction"
	"github.com/castlemilk/reclaim/internal/model"
	"github.com/castlemilk/reclaim/internal/source"
	"github.com/castlemilk/reclaim/internal/store"
)

// DefaultImportConcurrency bounds how many files are parsed at once.
const DefaultImportConcurrency = 4

// ErrRemoteUnavailable is returned by ImportRemote when no remote source
// was configured.
var ErrRemoteUnavailable = errors.New("remote import source not configured")

// RemoteSource fetches raw export files from outside the process.
type RemoteSource interface {
	Fetch(ctx context.Context, uri string, filter source.Filter, maxSize int64) ([]source.File, error)
}

// FileReport summarizes what happened to one imported file.
type FileReport struct {
	Name       string   `json:"name"`
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Skipped    int      `json:"skipped"`
	Warnings   []string `json:"warnings,omitempty"`
	ErrorCode  string   `json:"errorCode,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// ImportReport summarizes one import batch.
type ImportReport struct {
	ID         string            `json:"id"`
	Domain     extraction.Domain `json:"domain"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Files      []FileReport      `json:"files"`
	Added      int               `json:"added"`
	Duplicates int               `json:"duplicates"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
}

// ImportConfig holds optional collaborators of the import service.
type ImportConfig struct {
	Concurrency int
	Remote      RemoteSource
	Reports     *ReportStore
}

// ImportService parses raw files and writes the results into a Store.
type ImportService struct {
	store       store.Store
	extractor   *extraction.ExtractionService
	remote      RemoteSource
	reports     *ReportStore
	log         zerolog.Logger
	concurrency int
	now         func() time.Time
}

// NewImportService creates a new import service.
func NewImportService(s store.Store, extractor *extraction.ExtractionService, log zerolog.Logger, cfg ImportConfig) *ImportService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultImportConcurrency
	}
	return &ImportService{
		store:       s,
		extractor:   extractor,
		remote:      cfg.Remote,
		reports:     cfg.Reports,
		log:         log,
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
}

// parsed is the output of one file's parse, before it touches the store.
type parsed struct {
	financial extraction.FinancialResult
	health    extraction.HealthResult
	invoices  []model.BillingInvoice
	yields    extraction.YieldsResult
	err       error
}

// ImportFiles parses files in parallel and applies the results to the store
// in input order. A file that fails to parse is recorded in the report and
// does not stop the others. The returned error is non-nil when the context
// ends, a store write fails, or no file could be imported at all; in the
// last case it is the first file's error.
func (s *ImportService) ImportFiles(ctx context.Context, domain extraction.Domain, files []source.File) (ImportReport, error) {
	report := ImportReport{
		ID:        uuid.NewString(),
		Domain:    domain,
		StartedAt: s.now(),
		Files:     make([]FileReport, len(files)),
	}
	log := s.log.With().Str("import_id", report.ID).Str("domain", string(domain)).Logger()

	results := make([]parsed, len(files))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.parse(ctx, domain, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	var firstErr error
	for i, f := range files {
		fr, err := s.apply(ctx, domain, f.Name, results[i])
		if err != nil {
			return report, err
		}
		report.Files[i] = fr
		if results[i].err != nil {
			report.Failed++
			if firstErr == nil {
				firstErr = results[i].err
			}
			log.Warn().Err(results[i].err).Str("file", f.Name).Msg("file import failed")
			continue
		}
		report.Added += fr.Added
		report.Duplicates += fr.Duplicates
		report.Skipped += fr.Skipped
		log.Debug().Str("file", f.Name).Int("added", fr.Added).Int("duplicates", fr.Duplicates).
			Int("skipped", fr.Skipped).Msg("file imported")
	}
	report.FinishedAt = s.now()

	if s.reports != nil {
		if err := s.reports.Save(report); err != nil {
			log.Error().Err(err).Msg("failed to save import report")
		}
	}
	log.Info().Int("files", len(files)).Int("added", report.Added).Int("duplicates", report.Duplicates).
		Int("failed", report.Failed).Msg("import finished")

	if len(files) > 0 && report.Failed == len(files) {
		return report, firstErr
	}
	return report, nil
}

func (s *ImportService) parse(ctx context.Context, domain extraction.Domain, f source.File) parsed {
	var p parsed
	switch domain {
	case extraction.DomainFinancial:
		p.financial, p.err = s.extractor.ExtractFinancial(ctx, f.Name, f.Data)
	case extraction.DomainHealth:
		p.health, p.err = s.extractor.ExtractHealth(ctx, f.Name, f.Data)
	case extraction.DomainBilling:
		p.invoices, p.err = s.extractor.ExtractBilling(ctx, f.Name, f.Data)
	case extraction.DomainYields:
		p.yields, p.err = s.extractor.ExtractYields(ctx, f.Name, f.Data)
	default:
		p.err = fmt.Errorf("unknown import domain %q", domain)
	}
	return p
}

// apply writes one parse result to the store. Only store failures are
// returned; parse failures are folded into the FileReport.
func (s *ImportService) apply(ctx context.Context, domain extraction.Domain, name string, p parsed) (FileReport, error) {
	fr := FileReport{Name: name}
	if p.err != nil {
		fr.ErrorCode = string(extraction.CodeOf(p.err))
		fr.Error = extraction.UserMessage(p.err)
		return fr, nil
	}

	var total, added int
	var err error
	switch domain {
	case extraction.DomainFinancial:
		total = len(p.financial.Transactions)
		if added, err = s.store.AddTransactions(ctx, p.financial.Transactions); err != nil {
			return fr, fmt.Errorf("store transactions from %s: %w", name, err)
		}
		if len(p.financial.Invoices) > 0 {
			n, err := s.store.AddInvoices(ctx, p.financial.Invoices)
			if err != nil {
				return fr, fmt.Errorf("store invoices from %s: %w", name, err)
			}
			total += len(p.financial.Invoices)
			added += n
		}
		fr.Skipped = len(p.financial.Skipped)
		fr.Warnings = p.financial.Warnings
	case extraction.DomainHealth:
		total = len(p.health.Metrics)
		if added, err = s.store.AddHealthMetrics(ctx, p.health.Metrics); err != nil {
			return fr, fmt.Errorf("store health metrics from %s: %w", name, err)
		}
		fr.Skipped = len(p.health.Skipped)
		fr.Warnings = p.health.Warnings
	case extraction.DomainBilling:
		total = len(p.invoices)
		if added, err = s.store.AddInvoices(ctx, p.invoices); err != nil {
			return fr, fmt.Errorf("store invoices from %s: %w", name, err)
		}
	case extraction.DomainYields:
		total = len(p.yields.Yields)
		if added, err = s.store.AddYields(ctx, p.yields.Yields); err != nil {
			return fr, fmt.Errorf("store yields from %s: %w", name, err)
		}
		fr.Skipped = len(p.yields.Skipped)
	}
	fr.Added = added
	fr.Duplicates = total - added
	return fr, nil
}

// ImportFile imports a single uploaded file.
func (s *ImportService) ImportFile(ctx context.Context, domain extraction.Domain, name string, data []byte) (ImportReport, error) {
	return s.ImportFiles(ctx, domain, []source.File{{Name: name, Data: data}})
}

// ImportDir imports every accepted file below root, recursively.
func (s *ImportService) ImportDir(ctx context.Context, domain extraction.Domain, root string) (ImportReport, error) {
	files, err := source.ReadDir(ctx, root, acceptFilter(domain), s.extractor.MaxFileSize())
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s: %w", root, err)
	}
	return s.importFetched(ctx, domain, root, files)
}

// ImportRemote imports every accepted object under a gs:// URI.
func (s *ImportService) ImportRemote(ctx context.Context, domain extraction.Domain, uri string) (ImportReport, error) {
	if s.remote == nil {
		return ImportReport{}, ErrRemoteUnavailable
	}
	files, err := s.remote.Fetch(ctx, uri, acceptFilter(domain), s.extractor.MaxFileSize())
	if err != nil {
		return ImportReport{}, fmt.Errorf("fetch %s: %w", uri, err)
	}
	return s.importFetched(ctx, domain, uri, files)
}

func (s *ImportService) importFetched(ctx context.Context, domain extraction.Domain, origin string, files []source.File) (ImportReport, error) {
	if len(files) == 0 {
		return ImportReport{}, extraction.NewFileParseError(origin, "no valid data found", nil)
	}
	return s.ImportFiles(ctx, domain, files)
}

// Report returns a previously recorded import report.
func (s *ImportService) Report(id string) (ImportReport, error) {
	if s.reports == nil {
		return ImportReport{}, fmt.Errorf("report not found: %s", id)
	}
	return s.reports.Get(id)
}

// Reports lists retained import reports, most recent first.
func (s *ImportService) Reports() []ImportReport {
	if s.reports == nil {
		return []ImportReport{}
	}
	return s.reports.List()
}

func acceptFilter(domain extraction.Domain) source.Filter {
	return func(name string) bool { return extraction.Accepts(domain, name) }
}
