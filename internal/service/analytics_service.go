package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/castlemilk/reclaim/internal/model"
	"github.com/castlemilk/reclaim/internal/store"
)

const (
	forecastWindowMonths   = 6
	minForecastMonths      = 2
	stableTrendPercent     = 5.0
	alertTrendPercent      = 20.0
	dominantSharePercent   = 50.0
	unusualSpendMultiplier = 2.0
	recentDebitsChecked    = 5
	maxAlerts              = 5
	maxRecommendations     = 3
	recommendTrendPercent  = 10.0
	maxSavingsPercent      = 20.0
	predictableConfidence  = 70
)

// AnalyticsService derives forecasts and insights from a store snapshot.
type AnalyticsService struct {
	store store.Store
	log   zerolog.Logger

	mu      sync.Mutex
	caching bool
	cached  *model.Insights
	gen     uint64
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(s store.Store, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{store: s, log: log}
}

// CacheInsights keeps the last Insights result until the transaction
// collection changes. The returned func unsubscribes and drops the cache.
func (a *AnalyticsService) CacheInsights() (stop func()) {
	unsubscribe := a.store.Subscribe(store.KindTransactions, a.invalidate)
	a.mu.Lock()
	a.caching = true
	a.mu.Unlock()
	return func() {
		unsubscribe()
		a.mu.Lock()
		a.caching = false
		a.cached = nil
		a.mu.Unlock()
	}
}

func (a *AnalyticsService) invalidate() {
	a.mu.Lock()
	a.cached = nil
	a.gen++
	a.mu.Unlock()
}

// Insights computes forecast, patterns, alerts and recommendations over
// every stored transaction. Cached results share slices with the cache and
// must not be mutated.
func (a *AnalyticsService) Insights(ctx context.Context) (model.Insights, error) {
	a.mu.Lock()
	if a.caching && a.cached != nil {
		insights := *a.cached
		a.mu.Unlock()
		return insights, nil
	}
	gen := a.gen
	a.mu.Unlock()

	txs, err := a.store.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return model.Insights{}, fmt.Errorf("list transactions: %w", err)
	}
	insights := GenerateInsights(txs)

	// A write that landed while computing bumps gen; skip caching then.
	a.mu.Lock()
	if a.caching && a.gen == gen {
		a.cached = &insights
	}
	a.mu.Unlock()

	a.log.Debug().
		Int("transactions", len(txs)).
		Int("patterns", len(insights.Patterns)).
		Int("alerts", len(insights.Alerts)).
		Int("confidence", insights.Forecast.Confidence).
		Msg("computed insights")
	return insights, nil
}

// GenerateInsights runs the full insight pipeline on txs.
func GenerateInsights(txs []model.Transaction) model.Insights {
	buckets := GroupByMonth(txs)
	forecast := Forecast(buckets)
	patterns := AnalyzeSpendingPatterns(buckets)
	return model.Insights{
		Forecast:        forecast,
		Patterns:        patterns,
		Alerts:          GenerateAlerts(txs, patterns),
		Recommendations: GenerateRecommendations(txs, patterns, forecast),
	}
}

// MonthlyBucket holds one UTC month of totals. Categories only counts debits.
type MonthlyBucket struct {
	Month      string
	Income     float64
	Expenses   float64
	Categories map[string]float64
}

// GroupByMonth buckets transactions by UTC month, oldest first.
func GroupByMonth(txs []model.Transaction) []MonthlyBucket {
	byMonth := make(map[string]*MonthlyBucket)
	for _, t := range txs {
		key := t.Date.UTC().Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &MonthlyBucket{Month: key, Categories: make(map[string]float64)}
			byMonth[key] = b
		}
		amount := t.Amount.InexactFloat64()
		if t.Type == model.TransactionTypeCredit {
			b.Income += amount
		} else {
			b.Expenses += amount
			b.Categories[t.Category] += amount
		}
	}

	out := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func trailing(buckets []MonthlyBucket) []MonthlyBucket {
	if len(buckets) > forecastWindowMonths {
		return buckets[len(buckets)-forecastWindowMonths:]
	}
	return buckets
}

// Forecast projects next month from at most the trailing six buckets. With
// fewer than two buckets it returns a zero forecast with zero confidence.
func Forecast(buckets []MonthlyBucket) model.FinancialForecast {
	recent := trailing(buckets)
	if len(recent) < minForecastMonths {
		return model.FinancialForecast{BasedOnMonths: len(recent)}
	}

	incomes := make([]float64, len(recent))
	expenses := make([]float64, len(recent))
	for i, b := range recent {
		incomes[i] = b.Income
		expenses[i] = b.Expenses
	}

	nextIncome := math.Max(0, mean(incomes)*(1+relativeTrend(incomes)))
	nextExpenses := math.Max(0, mean(expenses)*(1+relativeTrend(expenses)))

	variability := (coefficientOfVariation(incomes) + coefficientOfVariation(expenses)) / 2
	confidence := math.Max(0, math.Min(100, 100-variability*100))

	return model.FinancialForecast{
		NextMonthIncome:   math.Round(nextIncome),
		NextMonthExpenses: math.Round(nextExpenses),
		NextMonthNet:      math.Round(nextIncome - nextExpenses),
		Confidence:        int(math.Round(confidence)),
		BasedOnMonths:     len(recent),
	}
}

// AnalyzeSpendingPatterns fits a trend per debit category over the trailing
// six buckets. Categories seen in fewer than two months are left out.
func AnalyzeSpendingPatterns(buckets []MonthlyBucket) []model.SpendingPattern {
	recent := trailing(buckets)
	if len(recent) < minForecastMonths {
		return []model.SpendingPattern{}
	}

	series := make(map[string][]float64)
	var order []string
	for _, b := range recent {
		cats := make([]string, 0, len(b.Categories))
		for c := range b.Categories {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			if _, seen := series[c]; !seen {
				order = append(order, c)
			}
			series[c] = append(series[c], b.Categories[c])
		}
	}

	patterns := []model.SpendingPattern{}
	for _, c := range order {
		amounts := series[c]
		if len(amounts) < minForecastMonths {
			continue
		}
		trend := relativeTrend(amounts)
		pct := trend * 100
		last := amounts[len(amounts)-1]
		_, fit := computeLinearRegression(amounts)

		direction := model.TrendStable
		if math.Abs(pct) > stableTrendPercent {
			direction = model.TrendDecreasing
			if pct > 0 {
				direction = model.TrendIncreasing
			}
		}

		patterns = append(patterns, model.SpendingPattern{
			Category:           c,
			AverageMonthly:     math.Round(mean(amounts)),
			Trend:              direction,
			TrendPercentage:    math.Round(pct*100) / 100,
			LastMonthAmount:    math.Round(last),
			PredictedNextMonth: math.Round(math.Max(0, last*(1+trend))),
			FitRSquared:        math.Round(fit*100) / 100,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].AverageMonthly > patterns[j].AverageMonthly
	})
	return patterns
}

// GenerateAlerts applies the rising-category, dominant-category and
// unusual-debit rules, keeping at most five alerts.
func GenerateAlerts(txs []model.Transaction, patterns []model.SpendingPattern) []model.Alert {
	alerts := []model.Alert{}

	for _, p := range patterns {
		if p.Trend == model.TrendIncreasing && p.TrendPercentage > alertTrendPercent {
			alerts = append(alerts, model.Alert{
				Type:        model.AlertWarning,
				Title:       fmt.Sprintf("Gasto creciente en %s", p.Category),
				Description: fmt.Sprintf("Los gastos en %s han aumentado un %s en promedio. Revisa si es necesario.", p.Category, FormatPercentage(p.TrendPercentage)),
				Category:    p.Category,
				Amount:      p.PredictedNextMonth,
			})
		}
	}

	var totalAverage float64
	for _, p := range patterns {
		totalAverage += p.AverageMonthly
	}
	if totalAverage > 0 {
		for _, p := range patterns {
			share := p.AverageMonthly / totalAverage * 100
			if share > dominantSharePercent {
				alerts = append(alerts, model.Alert{
					Type:        model.AlertInfo,
					Title:       fmt.Sprintf("Categoría dominante: %s", p.Category),
					Description: fmt.Sprintf("%s representa aproximadamente el %.0f%% de tus gastos mensuales.", p.Category, share),
					Category:    p.Category,
					Amount:      p.AverageMonthly,
				})
			}
		}
	}

	byCategory := make(map[string]model.SpendingPattern, len(patterns))
	for _, p := range patterns {
		byCategory[p.Category] = p
	}
	for _, t := range recentDebits(txs, recentDebitsChecked) {
		p, ok := byCategory[t.Category]
		amount := t.Amount.InexactFloat64()
		if !ok || amount <= p.AverageMonthly*unusualSpendMultiplier {
			continue
		}
		alerts = append(alerts, model.Alert{
			Type:  model.AlertWarning,
			Title: "Gasto inusual detectado",
			Description: fmt.Sprintf("Transacción de %s en %s, mucho mayor que el promedio mensual de %s.",
				FormatCurrency(amount), t.Category, FormatCurrency(p.AverageMonthly)),
			Category: t.Category,
			Amount:   amount,
		})
	}

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

// GenerateRecommendations returns at most three suggestions.
func GenerateRecommendations(txs []model.Transaction, patterns []model.SpendingPattern, forecast model.FinancialForecast) []string {
	recs := []string{}

	if forecast.NextMonthNet > 0 && forecast.NextMonthIncome > 0 {
		pct := math.Min(maxSavingsPercent, forecast.NextMonthNet/forecast.NextMonthIncome*100)
		recs = append(recs, fmt.Sprintf(
			"Considera ahorrar el %.0f%% de tus ingresos proyectados (%s) para construir un fondo de emergencia.",
			pct, FormatCurrency(forecast.NextMonthNet*pct/100)))
	}

	for _, p := range patterns {
		if p.Trend == model.TrendIncreasing && p.TrendPercentage > recommendTrendPercent {
			recs = append(recs, fmt.Sprintf(
				"Revisa tus gastos en %s que están aumentando un %s mensualmente. Considera alternativas más económicas.",
				p.Category, FormatPercentage(p.TrendPercentage)))
			break
		}
	}

	if incomeSources(txs) == 1 {
		recs = append(recs, "Considera diversificar tus fuentes de ingresos. Tener múltiples fuentes puede reducir riesgos financieros.")
	}

	if forecast.Confidence > predictableConfidence {
		recs = append(recs, "Tu patrón financiero es predecible. Considera crear un presupuesto mensual basado en estos datos históricos.")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// incomeSources counts distinct categories among credits.
func incomeSources(txs []model.Transaction) int {
	sources := make(map[string]struct{})
	for _, t := range txs {
		if t.Type == model.TransactionTypeCredit {
			sources[t.Category] = struct{}{}
		}
	}
	return len(sources)
}

func recentDebits(txs []model.Transaction, n int) []model.Transaction {
	var debits []model.Transaction
	for _, t := range txs {
		if t.Type == model.TransactionTypeDebit {
			debits = append(debits, t)
		}
	}
	sort.SliceStable(debits, func(i, j int) bool { return debits[i].Date.After(debits[j].Date) })
	if len(debits) > n {
		debits = debits[:n]
	}
	return debits
}

var esAR = message.NewPrinter(language.MustParse("es-AR"))

// FormatCurrency renders a whole-peso amount with Argentine grouping,
// e.g. "$ 1.234.567".
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$ " + esAR.Sprint(number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
}

// FormatPercentage renders a signed percentage with one decimal, e.g. "+12.5%".
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%+.1f%%", value)
}

// ============================================================================
// Analytics Helpers
// ============================================================================

// relativeTrend is the regression slope as a fraction of the series mean.
// A non-positive mean yields 0.
func relativeTrend(values []float64) float64 {
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	slope, _ := computeLinearRegression(values)
	return slope / avg
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// coefficientOfVariation is the population standard deviation over the
// mean, or 0 when the mean is 0.
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / m
}

// computeLinearRegression computes slope and R-squared for a series of y-values
// where x = 0, 1, 2, ... (the index).
func computeLinearRegression(points []float64) (slope, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, 1
	}
	rSquared = 1 - ssRes/ssTot
	return slope, rSquared
}
