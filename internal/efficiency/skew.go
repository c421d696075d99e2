package efficiency

import "time"

// PositionalSkew turns the shared base spend per PAX into the value plotted for one period,
// given the invoice dates that fell into it.
type PositionalSkew func(base float64, invoiceDates []time.Time) float64

// LinearMonthSkew moves the base by up to ±5% depending on where the mean invoice date
// sits between the first and the last day of its month.
func LinearMonthSkew(base float64, invoiceDates []time.Time) float64 {
	if len(invoiceDates) == 0 {
		return base
	}
	loc := invoiceDates[0].Location()

	var sum int64
	for _, date := range invoiceDates {
		sum += date.UnixMilli()
	}
	avg := time.UnixMilli(sum / int64(len(invoiceDates))).In(loc)

	monthStart := time.Date(avg.Year(), avg.Month(), 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(avg.Year(), avg.Month()+1, 0, 0, 0, 0, 0, loc)
	span := lastDay.Sub(monthStart)
	if span <= 0 {
		return base
	}

	position := float64(avg.Sub(monthStart)) / float64(span)
	return base * (1 + (position-0.5)*0.1)
}

// FlatSkew plots the base value unchanged.
func FlatSkew(base float64, _ []time.Time) float64 {
	return base
}
