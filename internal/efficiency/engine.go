package efficiency

import (
	"sort"
	"strings"
	"time"
)

const unknownLocationName = "-"

// Engine turns raw records into efficiency metrics. The zero value uses the linear
// month skew, keeps descriptions as-is and buckets dates in their own location.
type Engine struct {
	Skew       PositionalSkew
	Normalizer IdentityNormalizer
	// Location is the calendar periods are cut in; nil keeps each date's own location.
	Location *time.Location
}

// ChartTarget selects the product (and optionally the location) to chart.
type ChartTarget struct {
	ProductCode string
	LocationID  string
}

// Input is the full record set of one computation.
type Input struct {
	Transactions []TransactionRecord
	Pax          []PaxRecord
	Locations    []Location
	Search       ProductSearch
	Chart        *ChartTarget
}

// Compute runs bucketing, PAX joining, series building and scoring over in.
// Metrics are ordered by ascending efficiency score.
func (e Engine) Compute(in Input) Result {
	buckets := e.BucketTransactions(in.Transactions)
	pax := e.JoinPax(in.Pax)
	names := make(map[string]string, len(in.Locations))
	for _, location := range in.Locations {
		names[location.ID] = location.Name
	}
	search := in.Search.compile()

	metrics := make([]EfficiencyMetric, 0)
	for _, identity := range buckets.Identities() {
		for _, locationID := range buckets.Locations(identity) {
			series := BuildSeries(buckets.Periods(identity, locationID), pax[locationID], e.Skew)
			if len(series) < MinSeriesLength {
				continue
			}

			name, ok := names[locationID]
			if !ok {
				name = unknownLocationName
			}
			info := buckets.info(identity, locationID, name)
			if !search.matches(info) {
				continue
			}

			metrics = append(metrics, EfficiencyMetric{
				ProductInfo: info,
				Score:       ScoreSeries(series),
				Identity:    identity,
				TimeSeries:  series,
			})
		}
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].EfficiencyScore < metrics[j].EfficiencyScore
	})

	result := Result{EfficiencyMetrics: metrics}
	if in.Chart != nil {
		result.ProductChart = BuildChart(metrics, *in.Chart)
	}
	return result
}

// BuildChart picks the first metric matching target and smooths its series.
// Without a location the lowest scoring location of the product is used.
func BuildChart(metrics []EfficiencyMetric, target ChartTarget) *ProductChart {
	code := strings.TrimSpace(target.ProductCode)
	if code == "" {
		return nil
	}
	for _, metric := range metrics {
		if metric.ProductCode != code {
			continue
		}
		if target.LocationID != "" && metric.LocationID != target.LocationID {
			continue
		}
		return &ProductChart{
			ProductInfo:       metric.ProductInfo,
			ChartData:         SmoothSeries(metric.TimeSeries),
			OverallEfficiency: metric.EfficiencyScore,
			TrendAnalysis: TrendAnalysis{
				Direction:        metric.TrendDirection,
				ChangePercentage: FirstLastChange(metric.TimeSeries),
				Volatility:       metric.VolatilityScore,
			},
		}
	}
	return nil
}
