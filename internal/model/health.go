package model

import "time"

// HealthMetric is a partial health reading. Nil fields are absent, not zero.
type HealthMetric struct {
	Date          time.Time `json:"date"`
	Steps         *int      `json:"steps,omitempty"`
	HeartRate     *int      `json:"heartRate,omitempty"`
	SleepDuration *int      `json:"sleepDuration,omitempty"` // minutes
	SleepStage    string    `json:"sleepStage,omitempty"`
	Calories      *float64  `json:"calories,omitempty"`
}

// IsEmpty reports whether no metric field is set.
func (m HealthMetric) IsEmpty() bool {
	return m.Steps == nil && m.HeartRate == nil && m.SleepDuration == nil &&
		m.Calories == nil && m.SleepStage == ""
}

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
