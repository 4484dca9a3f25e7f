package extraction

import (
	"sort"
	"strings"
	"time"

	"github.com/castlemilk/reclaim/internal/model"
)

// Field alias lists probed in order for each health metric.
var (
	dateAliases      = []string{"date", "timestamp", "time", "create_time", "start_time", "end_time", "mStartTime", "mEndTime", "mTime", "elapsed_time"}
	sleepAliases     = []string{"duration_minutes", "sleep_duration", "duration", "sleep", "sleep_time", "total_sleep_time", "sleep_length", "bedtime_duration", "mSleepDuration", "mTotalSleepTime", "mSleepTime"}
	stepsAliases     = []string{"steps", "step_count", "count", "mStepCount", "mWalkStepCount", "mRunStepCount", "mTotalStepCount"}
	heartRateAliases = []string{"heart_rate", "bpm", "hr", "heartRate", "pulse", "value", "rate", "mHeartRate", "mBpm", "mPulse"}
	stageAliases     = []string{"sleep_stage", "stage"}
	calorieAliases   = []string{"calories", "kcal", "energy", "mCalorie", "mEnergy", "mKcal"}

	metricsHeartRateKeys = []string{"heart_rate", "heartRate", "hr", "pulse", "bpm"}
	metricsSeriesKeys    = []string{"steps", "sleep", "calories"}
	topLevelArrayKeys    = []string{"data", "heart_rate", "heartRate", "hr_data", "pulse_data", "bpm_data"}
)

// Skip records why a single input item produced no metric.
type Skip struct {
	Index  int    `json:"index"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
}

// HealthExtraction is the outcome of running the strategy chain on one
// decoded JSON document.
type HealthExtraction struct {
	Strategy string
	Metrics  []model.HealthMetric
	Skipped  []Skip
}

// HealthStrategy recognizes one export shape. ok is false when the shape does
// not apply at all.
type HealthStrategy interface {
	Name() string
	TryExtract(raw any) (metrics []model.HealthMetric, skipped []Skip, ok bool)
}

// DefaultHealthStrategies is the priority order used by ExtractHealthMetrics.
func DefaultHealthStrategies() []HealthStrategy {
	return []HealthStrategy{
		ExerciseFormat{},
		MetricsObjectFormat{},
		GenericArrayFormat{},
		DeepScanFormat{},
	}
}

// ExtractHealthMetrics runs strategies in order and keeps the first one that
// yields at least one metric. An unrecognized document is an empty result.
func ExtractHealthMetrics(raw any, strategies ...HealthStrategy) HealthExtraction {
	if len(strategies) == 0 {
		strategies = DefaultHealthStrategies()
	}

	var skipped []Skip
	for _, s := range strategies {
		metrics, sk, ok := s.TryExtract(raw)
		if !ok {
			continue
		}
		if len(metrics) > 0 {
			sortMetrics(metrics)
			return HealthExtraction{Strategy: s.Name(), Metrics: metrics, Skipped: sk}
		}
		skipped = append(skipped, sk...)
	}
	return HealthExtraction{Skipped: skipped}
}

func sortMetrics(metrics []model.HealthMetric) {
	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].Date.Before(metrics[j].Date)
	})
}

// ExerciseFormat handles single exercise sessions: a document whose type
// names the health platform and carries a live_data series.
type ExerciseFormat struct{}

func (ExerciseFormat) Name() string { return "exercise" }

func (ExerciseFormat) TryExtract(raw any) ([]model.HealthMetric, []Skip, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, false
	}
	typ, _ := obj["type"].(string)
	live, hasLive := obj["live_data"]
	if !strings.Contains(strings.ToLower(typ), "samsung.health") || !hasLive {
		return nil, nil, false
	}

	var (
		metrics []model.HealthMetric
		skipped []Skip
	)
	if start, ok := ParseFlexibleDate(obj["start_time"]); ok {
		m := model.HealthMetric{Date: start}
		if hr, ok := positiveNumber(obj["mean_heart_rate"]); ok {
			m.HeartRate = model.IntPtr(roundInt(hr))
		}
		if kcal, ok := positiveNumber(obj["calorie"]); ok {
			m.Calories = model.FloatPtr(kcal)
		}
		if m.HeartRate != nil || m.Calories != nil {
			metrics = append(metrics, m)
		}
	}

	items, _ := live.([]any)
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			skipped = append(skipped, Skip{Index: i, Path: "live_data", Reason: "not an object"})
			continue
		}
		date, ok := ParseFlexibleDate(firstPresent(rec, "timestamp", "start_time", "time"))
		if !ok {
			skipped = append(skipped, Skip{Index: i, Path: "live_data", Reason: "missing or invalid timestamp"})
			continue
		}
		hr, ok := positiveNumber(rec["heart_rate"])
		if !ok {
			skipped = append(skipped, Skip{Index: i, Path: "live_data", Reason: "no heart rate"})
			continue
		}
		metrics = append(metrics, model.HealthMetric{Date: date, HeartRate: model.IntPtr(roundInt(hr))})
	}
	return metrics, skipped, true
}

// MetricsObjectFormat handles documents with a "metrics" object holding
// named series.
type MetricsObjectFormat struct{}

func (MetricsObjectFormat) Name() string { return "metrics-object" }

func (MetricsObjectFormat) TryExtract(raw any) ([]model.HealthMetric, []Skip, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, false
	}
	series, ok := obj["metrics"].(map[string]any)
	if !ok {
		return nil, nil, false
	}

	var (
		metrics []model.HealthMetric
		skipped []Skip
	)
	for _, key := range metricsHeartRateKeys {
		items, _ := series[key].([]any)
		for i, item := range items {
			rec, ok := item.(map[string]any)
			if !ok {
				skipped = append(skipped, Skip{Index: i, Path: "metrics." + key, Reason: "not an object"})
				continue
			}
			date, ok := ParseFlexibleDate(firstPresent(rec, "timestamp", "time", "date"))
			if !ok {
				skipped = append(skipped, Skip{Index: i, Path: "metrics." + key, Reason: "missing or invalid date"})
				continue
			}
			hr, ok := findPositive(rec, "bpm", "heart_rate", "heartRate", "hr", "pulse", "value")
			if !ok {
				skipped = append(skipped, Skip{Index: i, Path: "metrics." + key, Reason: "no heart rate"})
				continue
			}
			metrics = append(metrics, model.HealthMetric{Date: date, HeartRate: model.IntPtr(roundInt(hr))})
		}
	}
	for _, key := range metricsSeriesKeys {
		items, _ := series[key].([]any)
		m, sk := extractItems(items, "metrics."+key)
		metrics = append(metrics, m...)
		skipped = append(skipped, sk...)
	}
	return metrics, skipped, true
}

// GenericArrayFormat handles a top-level array of records, or an object
// with a well-known top-level array such as "data".
type GenericArrayFormat struct{}

func (GenericArrayFormat) Name() string { return "generic-array" }

func (GenericArrayFormat) TryExtract(raw any) ([]model.HealthMetric, []Skip, bool) {
	switch v := raw.(type) {
	case []any:
		m, sk := extractItems(v, "")
		return m, sk, true
	case map[string]any:
		var (
			metrics []model.HealthMetric
			skipped []Skip
			found   bool
		)
		for _, key := range topLevelArrayKeys {
			items, ok := v[key].([]any)
			if !ok {
				continue
			}
			found = true
			m, sk := extractItems(items, key)
			metrics = append(metrics, m...)
			skipped = append(skipped, sk...)
		}
		return metrics, skipped, found
	}
	return nil, nil, false
}

// DeepScanFormat walks every nested object and extracts from every array it
// finds. Keys are visited in sorted order.
type DeepScanFormat struct{}

func (DeepScanFormat) Name() string { return "deep-scan" }

func (DeepScanFormat) TryExtract(raw any) ([]model.HealthMetric, []Skip, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, false
	}
	var (
		metrics []model.HealthMetric
		skipped []Skip
	)
	deepScan(obj, "", &metrics, &skipped)
	return metrics, skipped, true
}

func deepScan(obj map[string]any, path string, metrics *[]model.HealthMetric, skipped *[]Skip) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := k
		if path != "" {
			p = path + "." + k
		}
		switch v := obj[k].(type) {
		case []any:
			m, sk := extractItems(v, p)
			*metrics = append(*metrics, m...)
			*skipped = append(*skipped, sk...)
		case map[string]any:
			deepScan(v, p, metrics, skipped)
		}
	}
}

func extractItems(items []any, path string) ([]model.HealthMetric, []Skip) {
	var (
		metrics []model.HealthMetric
		skipped []Skip
	)
	for i, item := range items {
		m, reason := extractMetric(item)
		if reason != "" {
			skipped = append(skipped, Skip{Index: i, Path: path, Reason: reason})
			continue
		}
		metrics = append(metrics, m)
	}
	return metrics, skipped
}

// extractMetric maps one record onto a HealthMetric. A non-empty reason
// means the item was skipped.
func extractMetric(item any) (model.HealthMetric, string) {
	rec, ok := item.(map[string]any)
	if !ok {
		return model.HealthMetric{}, "not an object"
	}

	rawDate := firstPresent(rec, dateAliases...)
	if rawDate == nil {
		return model.HealthMetric{}, "no date field"
	}
	date, ok := ParseFlexibleDate(rawDate)
	if !ok {
		return model.HealthMetric{}, "unparseable date"
	}

	m := model.HealthMetric{Date: date}
	if v, ok := findPositive(rec, stepsAliases...); ok {
		m.Steps = model.IntPtr(roundInt(v))
	}
	if v, ok := findPositive(rec, heartRateAliases...); ok {
		m.HeartRate = model.IntPtr(roundInt(v))
	}
	if v, ok := findPositive(rec, sleepAliases...); ok {
		hint := ""
		if _, inMinutes := rec["duration_minutes"]; inMinutes {
			hint = UnitMinutes
		}
		if minutes := NormalizeDurationToMinutes(v, hint); minutes > 0 {
			m.SleepDuration = model.IntPtr(minutes)
		}
	}
	for _, k := range stageAliases {
		if s, ok := rec[k].(string); ok {
			m.SleepStage = s
			break
		}
	}
	if v, ok := findPositive(rec, calorieAliases...); ok {
		m.Calories = model.FloatPtr(v)
	}

	if m.IsEmpty() {
		return model.HealthMetric{}, "no metric fields"
	}
	return m, ""
}

// firstPresent returns the first non-empty value among keys.
func firstPresent(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		if f, isNum := v.(float64); isNum && f == 0 {
			continue
		}
		return v
	}
	return nil
}

func findPositive(rec map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := positiveNumber(rec[k]); ok {
			return v, true
		}
	}
	return 0, false
}

func roundInt(f float64) int {
	return int(f + 0.5)
}

// dayStart truncates t to midnight UTC.
func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
