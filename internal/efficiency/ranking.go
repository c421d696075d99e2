package efficiency

import (
	"sort"

	"github.com/angelmondragon/spendwise-backend/pkg/enums"
)

// DefaultRankingLimit is how many products the dashboard ranking keeps.
const DefaultRankingLimit = 10

// InefficientProduct is one dashboard row.
type InefficientProduct struct {
	ProductInfo
	CurrentSpendPerPax    float64              `json:"current_spend_per_pax"`
	TotalSpend            float64              `json:"total_spend"`
	EfficiencyScore       float64              `json:"efficiency_score"`
	TrendDirection        enums.TrendDirection `json:"trend_direction"`
	VolatilityScore       float64              `json:"volatility_score"`
	PotentialSavings      float64              `json:"potential_savings"`
	Recommendation        string               `json:"recommendation"`
	DataPoints            int                  `json:"data_points"`
	LastPeriod            string               `json:"last_period"`
	DataQualityFactor     float64              `json:"data_quality_factor"`
	EfficiencyExplanation string               `json:"efficiency_explanation"`
}

// Ranking is the most inefficient products plus their combined potential savings.
type Ranking struct {
	Products              []InefficientProduct `json:"products"`
	TotalPotentialSavings float64              `json:"total_potential_savings"`
}

// RankInefficient orders metrics by ascending score, then descending savings, and keeps the first limit.
// A non-positive limit means DefaultRankingLimit.
func RankInefficient(metrics []EfficiencyMetric, limit int) Ranking {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	rows := make([]InefficientProduct, 0, len(metrics))
	for _, metric := range metrics {
		if len(metric.TimeSeries) < MinSeriesLength {
			continue
		}
		rows = append(rows, toInefficientProduct(metric))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EfficiencyScore != rows[j].EfficiencyScore {
			return rows[i].EfficiencyScore < rows[j].EfficiencyScore
		}
		return rows[i].PotentialSavings > rows[j].PotentialSavings
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	ranking := Ranking{Products: rows}
	for _, row := range rows {
		ranking.TotalPotentialSavings += row.PotentialSavings
	}
	return ranking
}

func toInefficientProduct(metric EfficiencyMetric) InefficientProduct {
	latest := metric.TimeSeries[len(metric.TimeSeries)-1]
	var totalSpend float64
	for _, point := range metric.TimeSeries {
		totalSpend += point.TotalSpend
	}
	return InefficientProduct{
		ProductInfo:           metric.ProductInfo,
		CurrentSpendPerPax:    latest.SpendPerPax,
		TotalSpend:            totalSpend,
		EfficiencyScore:       metric.EfficiencyScore,
		TrendDirection:        metric.TrendDirection,
		VolatilityScore:       metric.VolatilityScore,
		PotentialSavings:      metric.PotentialSavings,
		Recommendation:        metric.Recommendation,
		DataPoints:            len(metric.TimeSeries),
		LastPeriod:            latest.Period,
		DataQualityFactor:     metric.DataQualityFactor,
		EfficiencyExplanation: metric.EfficiencyExplanation,
	}
}
