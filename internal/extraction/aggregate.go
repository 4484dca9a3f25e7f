package extraction

import (
	"math"
	"sort"

	"github.com/castlemilk/reclaim/internal/model"
)

// GroupByDate buckets metrics by UTC calendar day ("2006-01-02").
func GroupByDate(metrics []model.HealthMetric) map[string][]model.HealthMetric {
	grouped := make(map[string][]model.HealthMetric)
	for _, m := range metrics {
		key := m.Date.UTC().Format("2006-01-02")
		grouped[key] = append(grouped[key], m)
	}
	return grouped
}

// CalculateDailyAggregates emits one summary record per day plus every
// heart-rate reading at its original timestamp.
//
// Steps are averaged, calories summed and sleep summed over readings inside
// [MinSleepMinutes, MaxSleepMinutes]. A day with none of the three produces
// no summary record.
func CalculateDailyAggregates(metrics []model.HealthMetric) []model.HealthMetric {
	grouped := GroupByDate(metrics)
	days := make([]string, 0, len(grouped))
	for d := range grouped {
		days = append(days, d)
	}
	sort.Strings(days)

	var out []model.HealthMetric
	for _, day := range days {
		dayMetrics := grouped[day]

		var (
			stepsSum, stepsN int
			sleepSum, sleepN int
			kcalSum          float64
			kcalN            int
		)
		for _, m := range dayMetrics {
			if m.Steps != nil {
				stepsSum += *m.Steps
				stepsN++
			}
			if m.SleepDuration != nil {
				if d := *m.SleepDuration; d >= MinSleepMinutes && d <= MaxSleepMinutes {
					sleepSum += d
					sleepN++
				}
			}
			if m.Calories != nil {
				kcalSum += *m.Calories
				kcalN++
			}
		}

		if stepsN > 0 || sleepN > 0 || kcalN > 0 {
			summary := model.HealthMetric{Date: dayStart(dayMetrics[0].Date)}
			if stepsN > 0 {
				summary.Steps = model.IntPtr(int(math.Round(float64(stepsSum) / float64(stepsN))))
			}
			if sleepN > 0 {
				summary.SleepDuration = model.IntPtr(sleepSum)
			}
			if kcalN > 0 {
				summary.Calories = model.FloatPtr(math.Round(kcalSum))
			}
			out = append(out, summary)
		}

		for _, m := range dayMetrics {
			if m.HeartRate != nil {
				out = append(out, model.HealthMetric{Date: m.Date, HeartRate: model.IntPtr(*m.HeartRate)})
			}
		}
	}

	sortMetrics(out)
	return out
}
