// Package extraction turns raw export files into canonical records.
package extraction

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	minutesPerDay    = 1440
	secondsPerDay    = 86400
	MinSleepMinutes  = 30
	MaxSleepMinutes  = 960
	UnitMinutes      = "minutes"
	UnitSeconds      = "seconds"
	UnitMilliseconds = "milliseconds"
)

var (
	// Longest tokens first so "US$" is not left as "US".
	currencyPattern = regexp.MustCompile(`(?i)(US\$|R\$|ARS|USD|EUR|\$|€)`)
	plainNumber     = regexp.MustCompile(`^\d+(\.\d+)?$|^\.\d+$`)
)

// ParseLocaleAmount parses amounts such as "$ 1.234,56", "-355,71",
// "(1.500,00)" or "ARS 1500.00". When both separators are present the dot groups thousands
// and the comma marks decimals. A lone comma is a decimal separator; repeated
// dots with no comma are thousands separators.
func ParseLocaleAmount(raw string) (decimal.Decimal, bool) {
	s := currencyPattern.ReplaceAllString(raw, "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if len(s) > 2 && s[0] == '(' && s[len(s)-1] == ')' {
		negative = true
		s = s[1 : len(s)-1]
	}
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
}

// ParseFlexibleDate accepts a time.Time, an epoch-milliseconds number or a
// date string in one of the known layouts. Values without a zone are UTC.
func ParseFlexibleDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		return parseDateString(v)
	default:
		if f, ok := numberOf(raw); ok && f > 0 {
			return time.UnixMilli(int64(f)).UTC(), true
		}
	}
	return time.Time{}, false
}

func parseDateString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 10 {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDurationToMinutes converts a duration of unknown unit to minutes.
// Without a hint the magnitude decides: up to a day's worth of minutes is
// minutes, up to a day's worth of seconds is seconds, anything larger is
// milliseconds. Results outside [30, 960] are rejected with 0.
func NormalizeDurationToMinutes(raw float64, unitHint string) int {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}

	var minutes float64
	switch strings.ToLower(unitHint) {
	case UnitMinutes, "min", "m":
		minutes = raw
	case UnitSeconds, "sec", "s":
		minutes = raw / 60
	case UnitMilliseconds, "ms":
		minutes = raw / 60000
	default:
		switch {
		case raw <= minutesPerDay:
			minutes = raw
		case raw <= secondsPerDay:
			minutes = raw / 60
		default:
			minutes = raw / 60000
		}
	}

	rounded := int(math.Round(minutes))
	if rounded < MinSleepMinutes || rounded > MaxSleepMinutes {
		return 0
	}
	return rounded
}

// numberOf reads a JSON-ish numeric value. Numeric strings are accepted.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// positiveNumber treats zero, negative and non-numeric values as absent.
func positiveNumber(v any) (float64, bool) {
	f, ok := numberOf(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}
