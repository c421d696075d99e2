package efficiency

import (
	"time"

	"github.com/angelmondragon/spendwise-backend/pkg/enums"
)

// TransactionRecord is one invoice line as read from the record source.
// Optional prices are nil when the source had no value.
type TransactionRecord struct {
	ProductCode             string
	Description             string
	SupplierID              string
	LocationID              string
	InvoiceDate             *time.Time
	Quantity                float64
	UnitType                string
	UnitPrice               float64
	UnitPriceAfterDiscount  *float64
	TotalPrice              float64
	TotalPriceAfterDiscount *float64
}

// PaxRecord is one headcount row for a location and day.
type PaxRecord struct {
	LocationID string
	DateID     *time.Time
	PaxCount   float64
}

// Location names a site referenced by transactions and PAX rows.
type Location struct {
	ID   string
	Name string
}

// TimeSeriesPoint is one month of a product-location series.
type TimeSeriesPoint struct {
	Period           string  `json:"period"`
	SpendPerPax      float64 `json:"spend_per_pax"`
	TotalSpend       float64 `json:"total_spend"`
	TotalPax         float64 `json:"total_pax"`
	Quantity         float64 `json:"quantity"`
	AvgPrice         float64 `json:"avg_price"`
	TransactionCount int     `json:"transaction_count"`
}

// Score is the series-level verdict produced by ScoreSeries.
type Score struct {
	EfficiencyScore       float64              `json:"efficiency_score"`
	TrendDirection        enums.TrendDirection `json:"trend_direction"`
	ChangePercentage      float64              `json:"change_percentage"`
	VolatilityScore       float64              `json:"volatility_score"`
	PotentialSavings      float64              `json:"potential_savings"`
	Recommendation        string               `json:"recommendation"`
	DataQualityFactor     float64              `json:"data_quality_factor"`
	EfficiencyExplanation string               `json:"efficiency_explanation"`
}

// ProductInfo describes the product side of a product-location pair.
type ProductInfo struct {
	// ProductCode is the product code, or the description for uncoded products.
	ProductCode  string `json:"product_code"`
	Description  string `json:"description"`
	SupplierID   string `json:"supplier_id"`
	UnitType     string `json:"unit_type"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
}

// EfficiencyMetric is emitted for every product-location pair with at least two periods.
type EfficiencyMetric struct {
	ProductInfo
	Score
	Identity   ProductIdentity   `json:"identity"`
	TimeSeries []TimeSeriesPoint `json:"time_series"`
}

// ChartPoint is a series point enriched with its trailing trends.
type ChartPoint struct {
	TimeSeriesPoint
	ShortTrend  float64 `json:"short_trend"`
	MediumTrend float64 `json:"medium_trend"`
	LongTrend   float64 `json:"long_trend"`
	Efficiency  float64 `json:"efficiency"`
}

// TrendAnalysis summarises a chart. ChangePercentage compares the first and last point.
type TrendAnalysis struct {
	Direction        enums.TrendDirection `json:"direction"`
	ChangePercentage float64              `json:"change_percentage"`
	Volatility       float64              `json:"volatility"`
}

// ProductChart is the smoothed single-product view.
type ProductChart struct {
	ProductInfo
	ChartData         []ChartPoint  `json:"chart_data"`
	OverallEfficiency float64       `json:"overall_efficiency"`
	TrendAnalysis     TrendAnalysis `json:"trend_analysis"`
}

// Result is everything one computation exposes.
type Result struct {
	EfficiencyMetrics []EfficiencyMetric `json:"efficiency_metrics"`
	ProductChart      *ProductChart      `json:"product_chart,omitempty"`
}
