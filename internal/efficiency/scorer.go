package efficiency

import (
	"fmt"
	"math"
	"strings"

	"github.com/angelmondragon/spendwise-backend/pkg/enums"
)

const (
	// MinSeriesLength is the shortest series that gets scored and reported.
	MinSeriesLength = 2

	trendThreshold      = 5.0
	fullConfidencePoint = 15.0
)

const (
	recommendVolatileDeclining = "High volatility with declining efficiency. Investigate price fluctuations and supplier consistency."
	recommendDeclining         = "Efficiency declining over time. Review supplier negotiations and purchasing patterns."
	recommendVolatile          = "High price volatility detected. Consider supplier consolidation or price agreements."
	recommendImproving         = "Efficiency improving. Continue current procurement strategy."
	recommendStable            = "Stable efficiency. Monitor for future changes."
	recommendInsufficient      = "Insufficient data for trend analysis"
	noExplanation              = "No explanation available"
)

// DataQualityFactor grows linearly with series length and reaches 1 at 15 points.
func DataQualityFactor(length int) float64 {
	if length <= 0 {
		return 0
	}
	return math.Min(1, float64(length)/fullConfidencePoint)
}

// ClassifyTrend maps a change percentage onto a direction. Rising spend per PAX is declining efficiency.
func ClassifyTrend(changePercentage float64) enums.TrendDirection {
	switch {
	case changePercentage < -trendThreshold:
		return enums.TrendImproving
	case changePercentage > trendThreshold:
		return enums.TrendDeclining
	default:
		return enums.TrendStable
	}
}

// ScoreSeries rates one product-location series.
func ScoreSeries(series []TimeSeriesPoint) Score {
	if len(series) < MinSeriesLength {
		return Score{
			EfficiencyScore:       50,
			TrendDirection:        enums.TrendStable,
			Recommendation:        recommendInsufficient,
			EfficiencyExplanation: noExplanation,
		}
	}

	values := make([]float64, len(series))
	var totalSpend float64
	for i, point := range series {
		values[i] = point.SpendPerPax
		totalSpend += point.TotalSpend
	}

	change := halfChange(values)
	direction := ClassifyTrend(change)
	volatility := volatilityScore(values)
	quality := DataQualityFactor(len(series))

	score := 100.0
	if direction == enums.TrendDeclining {
		score -= math.Min(40, math.Abs(change)*1.5) * quality
	}
	score -= math.Min(25, volatility*0.4) * quality
	if direction == enums.TrendImproving {
		score += math.Min(15, math.Abs(change)*0.3) * quality
	}
	floor := 0.0
	if quality < 0.5 {
		floor = 30
	}
	score = math.Max(floor, math.Min(100, score))

	var savings float64
	if direction == enums.TrendDeclining {
		savings = math.Max(0, totalSpend*math.Min(0.2, math.Abs(change)/100))
	}

	return Score{
		EfficiencyScore:       score,
		TrendDirection:        direction,
		ChangePercentage:      change,
		VolatilityScore:       volatility,
		PotentialSavings:      savings,
		Recommendation:        recommend(direction, volatility),
		DataQualityFactor:     quality,
		EfficiencyExplanation: explain(score, direction, volatility, quality, change),
	}
}

// halfChange compares the mean of the first ceil(n/2) values with the mean of the last n-floor(n/2).
// Odd-length series share the middle value.
func halfChange(values []float64) float64 {
	n := len(values)
	first := mean(values[:(n+1)/2])
	second := mean(values[n/2:])
	if first <= 0 {
		return 0
	}
	return finite((second - first) / first * 100)
}

// volatilityScore is the population coefficient of variation in percent, capped at 100.
func volatilityScore(values []float64) float64 {
	avg := mean(values)
	if avg <= 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= float64(len(values))
	return finite(math.Min(100, math.Sqrt(variance)/avg*100))
}

func recommend(direction enums.TrendDirection, volatility float64) string {
	switch {
	case direction == enums.TrendDeclining && volatility > 20:
		return recommendVolatileDeclining
	case direction == enums.TrendDeclining:
		return recommendDeclining
	case volatility > 30:
		return recommendVolatile
	case direction == enums.TrendImproving:
		return recommendImproving
	default:
		return recommendStable
	}
}

func explain(score float64, direction enums.TrendDirection, volatility, quality, change float64) string {
	clauses := make([]string, 0, 4)

	switch {
	case score >= 80:
		clauses = append(clauses, "High efficiency score indicates good cost management")
	case score >= 60:
		clauses = append(clauses, "Moderate efficiency with room for improvement")
	case score >= 40:
		clauses = append(clauses, "Below-average efficiency requiring attention")
	default:
		clauses = append(clauses, "Low efficiency score indicating significant cost issues")
	}

	switch direction {
	case enums.TrendDeclining:
		clauses = append(clauses, fmt.Sprintf("Spend per PAX increased by %.1f%% over time", math.Abs(change)))
	case enums.TrendImproving:
		clauses = append(clauses, fmt.Sprintf("Spend per PAX decreased by %.1f%% over time", math.Abs(change)))
	default:
		clauses = append(clauses, "Spend per PAX has remained relatively stable")
	}

	switch {
	case volatility > 30:
		clauses = append(clauses, "High price volatility suggests inconsistent supplier performance")
	case volatility > 15:
		clauses = append(clauses, "Moderate price fluctuations detected")
	default:
		clauses = append(clauses, "Price stability indicates consistent supplier performance")
	}

	switch {
	case quality < 0.5:
		clauses = append(clauses, "Limited data points - analysis confidence is reduced")
	case quality < 0.8:
		clauses = append(clauses, "Fair data coverage - more historical data would improve accuracy")
	default:
		clauses = append(clauses, "Good data coverage provides reliable trend analysis")
	}

	return strings.Join(clauses, ". ") + "."
}

// FirstLastChange is the net change between the first and last point, used by charts.
func FirstLastChange(series []TimeSeriesPoint) float64 {
	if len(series) < 2 {
		return 0
	}
	first := series[0].SpendPerPax
	last := series[len(series)-1].SpendPerPax
	if first <= 0 {
		return 0
	}
	return finite((last - first) / first * 100)
}
