package store

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/castlemilk/reclaim/internal/model"
)

const topCategoryLimit = 5

// FinancialStore keeps deduplicated transactions newest first and a summary
// recomputed from scratch on every add.
type FinancialStore struct {
	mu        sync.RWMutex
	txs       []model.Transaction
	keys      map[string]struct{}
	summary   model.FinancialSummary
	listeners listenerSet
}

// NewFinancialStore creates an empty financial store.
func NewFinancialStore() *FinancialStore {
	return &FinancialStore{
		keys:    make(map[string]struct{}),
		summary: summarize(nil),
	}
}

// Add merges txs, dropping any whose DedupKey is already stored or repeats
// earlier in the same batch. It returns how many were stored.
func (s *FinancialStore) Add(txs ...model.Transaction) int {
	s.mu.Lock()
	added := 0
	for _, t := range txs {
		key := t.DedupKey()
		if _, dup := s.keys[key]; dup {
			continue
		}
		s.keys[key] = struct{}{}
		s.txs = append(s.txs, t)
		added++
	}
	sort.SliceStable(s.txs, func(i, j int) bool {
		return s.txs[i].Date.After(s.txs[j].Date)
	})
	s.summary = summarize(s.txs)
	s.mu.Unlock()

	s.listeners.notify()
	return added
}

// All returns a copy of every transaction, newest first.
func (s *FinancialStore) All() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Transaction(nil), s.txs...)
}

// Summary returns the current summary.
func (s *FinancialStore) Summary() model.FinancialSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := s.summary
	sum.TopCategories = make([]model.CategoryTotal, len(s.summary.TopCategories))
	copy(sum.TopCategories, s.summary.TopCategories)
	return sum
}

// InRange returns transactions dated within [start, end].
func (s *FinancialStore) InRange(start, end time.Time) []model.Transaction {
	return s.Filter(TransactionFilter{Start: &start, End: &end})
}

// ByCategory returns transactions in category.
func (s *FinancialStore) ByCategory(category string) []model.Transaction {
	return s.Filter(TransactionFilter{Category: category})
}

// Filter applies every set field of f.
func (s *FinancialStore) Filter(f TransactionFilter) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Transaction
	for _, t := range s.txs {
		if f.Start != nil && t.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && t.Date.After(*f.End) {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MonthlySummary totals transactions per UTC month, newest month first.
func (s *FinancialStore) MonthlySummary() []model.MonthlySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byMonth := make(map[string]*model.MonthlySummary)
	for _, t := range s.txs {
		key := t.Date.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &model.MonthlySummary{Month: key, Credits: decimal.Zero, Debits: decimal.Zero}
			byMonth[key] = m
		}
		if t.Type == model.TransactionTypeCredit {
			m.Credits = m.Credits.Add(t.Amount)
		} else {
			m.Debits = m.Debits.Add(t.Amount)
		}
		m.TransactionCount++
	}

	out := make([]model.MonthlySummary, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.Credits.Sub(m.Debits)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// QuickStats reports the overall balance and the totals of the month that
// contains now.
func (s *FinancialStore) QuickStats(now time.Time) model.QuickStats {
	month := now.UTC().Format("2006-01")
	sum := s.Summary()

	stats := model.QuickStats{
		TotalBalance:     sum.NetBalance,
		MonthlyCredits:   decimal.Zero,
		MonthlyDebits:    decimal.Zero,
		TransactionCount: sum.TransactionCount,
	}
	for _, m := range s.MonthlySummary() {
		if m.Month == month {
			stats.MonthlyCredits = m.Credits
			stats.MonthlyDebits = m.Debits
			stats.MonthlyTransactionCnt = m.TransactionCount
		}
	}
	stats.MonthlyNet = stats.MonthlyCredits.Sub(stats.MonthlyDebits)
	return stats
}

// Clear drops every transaction and notifies listeners.
func (s *FinancialStore) Clear() {
	s.mu.Lock()
	s.txs = nil
	s.keys = make(map[string]struct{})
	s.summary = summarize(nil)
	s.mu.Unlock()
	s.listeners.notify()
}

// Subscribe registers fn to run after every Add or Clear.
func (s *FinancialStore) Subscribe(fn func()) func() {
	return s.listeners.subscribe(fn)
}

func summarize(txs []model.Transaction) model.FinancialSummary {
	sum := model.FinancialSummary{
		TotalCredits:     decimal.Zero,
		TotalDebits:      decimal.Zero,
		NetBalance:       decimal.Zero,
		TransactionCount: len(txs),
		TopCategories:    []model.CategoryTotal{},
	}
	if len(txs) == 0 {
		return sum
	}

	sum.Period = model.Period{Start: txs[0].Date, End: txs[0].Date}
	byCategory := make(map[string]*model.CategoryTotal)
	for _, t := range txs {
		if t.Date.Before(sum.Period.Start) {
			sum.Period.Start = t.Date
		}
		if t.Date.After(sum.Period.End) {
			sum.Period.End = t.Date
		}
		if t.Type == model.TransactionTypeCredit {
			sum.TotalCredits = sum.TotalCredits.Add(t.Amount)
			continue
		}
		sum.TotalDebits = sum.TotalDebits.Add(t.Amount)
		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &model.CategoryTotal{Category: t.Category, Amount: decimal.Zero}
			byCategory[t.Category] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
	}
	sum.NetBalance = sum.TotalCredits.Sub(sum.TotalDebits)

	for _, ct := range byCategory {
		sum.TopCategories = append(sum.TopCategories, *ct)
	}
	sort.Slice(sum.TopCategories, func(i, j int) bool {
		a, b := sum.TopCategories[i], sum.TopCategories[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	if len(sum.TopCategories) > topCategoryLimit {
		sum.TopCategories = sum.TopCategories[:topCategoryLimit]
	}
	return sum
}
