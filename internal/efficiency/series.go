package efficiency

import "sort"

// BuildSeries turns the month buckets of one product-location pair into an ordered series.
// Every point shares the pair's overall spend per PAX, shaped per period by skew.
func BuildSeries(periods map[string]*PeriodBucket, locationPax map[string]float64, skew PositionalSkew) []TimeSeriesPoint {
	if len(periods) == 0 {
		return nil
	}
	if skew == nil {
		skew = LinearMonthSkew
	}

	keys := make([]string, 0, len(periods))
	for period := range periods {
		keys = append(keys, period)
	}
	sort.Strings(keys)

	var totalSpend, totalPax float64
	for _, period := range keys {
		totalSpend += periods[period].TotalSpend
		totalPax += locationPax[period]
	}

	var base float64
	if totalPax > 0 {
		base = totalSpend / totalPax
	}

	series := make([]TimeSeriesPoint, 0, len(keys))
	for _, period := range keys {
		bucket := periods[period]
		series = append(series, TimeSeriesPoint{
			Period:           period,
			SpendPerPax:      finite(skew(base, bucket.InvoiceDates)),
			TotalSpend:       bucket.TotalSpend,
			TotalPax:         locationPax[period],
			Quantity:         bucket.TotalQuantity,
			AvgPrice:         mean(bucket.PricePoints),
			TransactionCount: bucket.TransactionCount,
		})
	}
	return series
}
