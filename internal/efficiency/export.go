package efficiency

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

const (
	exportMetricsSheet = "Efficiency"
	exportSeriesSheet  = "Series"
)

var (
	exportMetricsHeader = []any{
		"Product", "Description", "Supplier", "Unit", "Location",
		"Efficiency score", "Trend", "Change %", "Volatility", "Potential savings",
		"Data quality", "Recommendation", "Explanation",
	}
	exportSeriesHeader = []any{
		"Product", "Supplier", "Location", "Period",
		"Spend per PAX", "Total spend", "Total PAX", "Quantity", "Avg price", "Transactions",
	}
)

// ExportWorkbook renders metrics as an xlsx workbook with one summary sheet and one series sheet.
func ExportWorkbook(metrics []EfficiencyMetric) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	var errs error
	errs = multierr.Append(errs, file.SetSheetName(file.GetSheetName(0), exportMetricsSheet))
	if _, err := file.NewSheet(exportSeriesSheet); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}

	errs = multierr.Append(errs, setRow(file, exportMetricsSheet, 1, exportMetricsHeader))
	errs = multierr.Append(errs, setRow(file, exportSeriesSheet, 1, exportSeriesHeader))

	seriesRow := 2
	for i, metric := range metrics {
		errs = multierr.Append(errs, setRow(file, exportMetricsSheet, i+2, []any{
			metric.ProductCode,
			metric.Description,
			metric.SupplierID,
			metric.UnitType,
			metric.LocationName,
			metric.EfficiencyScore,
			string(metric.TrendDirection),
			metric.ChangePercentage,
			metric.VolatilityScore,
			metric.PotentialSavings,
			metric.DataQualityFactor,
			metric.Recommendation,
			metric.EfficiencyExplanation,
		}))
		for _, point := range metric.TimeSeries {
			errs = multierr.Append(errs, setRow(file, exportSeriesSheet, seriesRow, []any{
				metric.ProductCode,
				metric.SupplierID,
				metric.LocationName,
				point.Period,
				point.SpendPerPax,
				point.TotalSpend,
				point.TotalPax,
				point.Quantity,
				point.AvgPrice,
				point.TransactionCount,
			}))
			seriesRow++
		}
	}
	if errs != nil {
		return nil, errs
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(file *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values = append([]any(nil), values...)
	return file.SetSheetRow(sheet, cell, &values)
}
