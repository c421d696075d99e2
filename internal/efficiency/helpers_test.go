package efficiency

import (
	"testing"
	"time"
)

func day(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return &parsed
}

func floatPtr(v float64) *float64 {
	return &v
}

func line(t *testing.T, code, supplier, location, date string, quantity, unitPrice float64) TransactionRecord {
	t.Helper()
	return TransactionRecord{
		ProductCode: code,
		Description: "Product " + code,
		SupplierID:  supplier,
		LocationID:  location,
		InvoiceDate: day(t, date),
		Quantity:    quantity,
		UnitType:    "kg",
		UnitPrice:   unitPrice,
		TotalPrice:  quantity * unitPrice,
	}
}

func paxRow(t *testing.T, location, date string, count float64) PaxRecord {
	t.Helper()
	return PaxRecord{LocationID: location, DateID: day(t, date), PaxCount: count}
}

func pointsWithSpendPerPax(values ...float64) []TimeSeriesPoint {
	series := make([]TimeSeriesPoint, len(values))
	for i, v := range values {
		series[i] = TimeSeriesPoint{
			Period:      time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format(periodLayout),
			SpendPerPax: v,
			TotalSpend:  100,
		}
	}
	return series
}
