package efficiency

// PaxBuckets maps location → period → summed headcount.
type PaxBuckets map[string]map[string]float64

// JoinPax sums headcount per location and month using the same calendar as the bucketer.
func (e Engine) JoinPax(records []PaxRecord) PaxBuckets {
	out := make(PaxBuckets)
	for _, record := range records {
		date, ok := inCalendar(record.DateID, e.Location)
		if !ok {
			continue
		}
		byPeriod, ok := out[record.LocationID]
		if !ok {
			byPeriod = make(map[string]float64)
			out[record.LocationID] = byPeriod
		}
		byPeriod[PeriodKey(date)] += finite(record.PaxCount)
	}
	return out
}

// Get returns the headcount for a location and period, 0 when absent.
func (p PaxBuckets) Get(locationID, period string) float64 {
	return p[locationID][period]
}
