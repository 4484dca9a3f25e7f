package model

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// FinancialForecast projects next month's totals from monthly history.
type FinancialForecast struct {
	NextMonthIncome   float64 `json:"nextMonthIncome"`
	NextMonthExpenses float64 `json:"nextMonthExpenses"`
	NextMonthNet      float64 `json:"nextMonthNet"`
	Confidence        int     `json:"confidence"`
	BasedOnMonths     int     `json:"basedOnMonths"`
}

// SpendingPattern describes one category's monthly debit trend.
type SpendingPattern struct {
	Category           string  `json:"category"`
	AverageMonthly     float64 `json:"averageMonthly"`
	Trend              Trend   `json:"trend"`
	TrendPercentage    float64 `json:"trendPercentage"`
	LastMonthAmount    float64 `json:"lastMonthAmount"`
	PredictedNextMonth float64 `json:"predictedNextMonth"`
	FitRSquared        float64 `json:"fitRSquared"`
}

type AlertType string

const (
	AlertWarning AlertType = "warning"
	AlertDanger  AlertType = "danger"
	AlertInfo    AlertType = "info"
)

type Alert struct {
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
}

// Insights bundles everything the insight engine derives from a snapshot.
type Insights struct {
	Forecast        FinancialForecast `json:"forecast"`
	Patterns        []SpendingPattern `json:"patterns"`
	Alerts          []Alert           `json:"alerts"`
	Recommendations []string          `json:"recommendations"`
}
