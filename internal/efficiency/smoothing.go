package efficiency

const (
	shortWindow  = 2
	mediumWindow = 3
	longWindow   = 6
)

// Trends holds the trailing volume-weighted averages at one index.
type Trends struct {
	Short  float64
	Medium float64
	Long   float64
}

// Smooth computes the 2, 3 and 6 period trailing averages of spend per PAX at index,
// weighted by each point's spend.
func Smooth(series []TimeSeriesPoint, index int) Trends {
	if index < 0 || index >= len(series) {
		return Trends{}
	}
	return Trends{
		Short:  weightedAverage(series, index, shortWindow),
		Medium: weightedAverage(series, index, mediumWindow),
		Long:   weightedAverage(series, index, longWindow),
	}
}

func weightedAverage(series []TimeSeriesPoint, index, window int) float64 {
	start := index - min(window, index+1) + 1

	var weighted, weights float64
	for _, point := range series[start : index+1] {
		weighted += point.SpendPerPax * point.TotalSpend
		weights += point.TotalSpend
	}
	if weights == 0 {
		return series[index].SpendPerPax
	}
	return finite(weighted / weights)
}

// PointEfficiency rates a point against its medium trend; 100 means on trend.
// Points below trend score above 100.
func PointEfficiency(spendPerPax, mediumTrend float64) float64 {
	if mediumTrend <= 0 {
		return 0
	}
	return max(0, 100-((spendPerPax-mediumTrend)/mediumTrend*100))
}

// SmoothSeries enriches every point with its trends and efficiency.
func SmoothSeries(series []TimeSeriesPoint) []ChartPoint {
	out := make([]ChartPoint, 0, len(series))
	for i, point := range series {
		trends := Smooth(series, i)
		out = append(out, ChartPoint{
			TimeSeriesPoint: point,
			ShortTrend:      trends.Short,
			MediumTrend:     trends.Medium,
			LongTrend:       trends.Long,
			Efficiency:      PointEfficiency(point.SpendPerPax, trends.Medium),
		})
	}
	return out
}
