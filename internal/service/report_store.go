package service

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultReportTTL is how long finished import reports stay queryable.
const DefaultReportTTL = 24 * time.Hour

// ReportStore keeps recent import reports in memory and expires them.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]ImportReport
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewReportStore creates a report store with background cleanup.
func NewReportStore(ttl time.Duration) *ReportStore {
	rs := newReportStore(ttl, time.Now)
	go rs.cleanup(5 * time.Minute)
	return rs
}

func newReportStore(ttl time.Duration, now func() time.Time) *ReportStore {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportStore{
		reports: make(map[string]ImportReport),
		ttl:     ttl,
		now:     now,
		done:    make(chan struct{}),
	}
}

// Save stores or replaces a report.
func (rs *ReportStore) Save(r ImportReport) error {
	if r.ID == "" {
		return fmt.Errorf("report ID is required")
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.reports[r.ID] = r
	return nil
}

// Get retrieves a report by ID.
func (rs *ReportStore) Get(id string) (ImportReport, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.reports[id]
	if !ok {
		return ImportReport{}, fmt.Errorf("report not found: %s", id)
	}
	return r, nil
}

// List returns every retained report, most recent first.
func (rs *ReportStore) List() []ImportReport {
	rs.mu.RLock()
	out := make([]ImportReport, 0, len(rs.reports))
	for _, r := range rs.reports {
		out = append(out, r)
	}
	rs.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Stop signals the background cleanup goroutine to exit. Safe to call twice.
func (rs *ReportStore) Stop() {
	rs.once.Do(func() { close(rs.done) })
}

func (rs *ReportStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rs.done:
			return
		case <-ticker.C:
			rs.expire()
		}
	}
}

func (rs *ReportStore) expire() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	now := rs.now()
	for id, r := range rs.reports {
		if now.Sub(r.StartedAt) > rs.ttl {
			delete(rs.reports, id)
		}
	}
}
