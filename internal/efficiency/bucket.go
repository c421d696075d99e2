package efficiency

import (
	"sort"
	"time"
)

// PeriodBucket accumulates every line of one product, location and month.
type PeriodBucket struct {
	TotalSpend       float64
	TotalQuantity    float64
	PricePoints      []float64
	TransactionCount int
	InvoiceDates     []time.Time
}

func (b *PeriodBucket) add(record TransactionRecord, date time.Time) {
	b.TotalSpend += effectiveValue(record.TotalPriceAfterDiscount, record.TotalPrice)
	b.TotalQuantity += finite(record.Quantity)
	b.PricePoints = append(b.PricePoints, effectiveValue(record.UnitPriceAfterDiscount, record.UnitPrice))
	b.TransactionCount++
	b.InvoiceDates = append(b.InvoiceDates, date)
}

type productMeta struct {
	label       string
	supplierID  string
	description string
	unitType    string
	firstSeen   time.Time
}

// prefer reports whether a line dated at with the given description should replace the current metadata.
// The earliest line wins; ties fall back to the lexically smaller description so input order never matters.
func (m *productMeta) prefer(at time.Time, description string) bool {
	if m.firstSeen.IsZero() || at.Before(m.firstSeen) {
		return true
	}
	return at.Equal(m.firstSeen) && description < m.description
}

// Buckets is the product → location → period map built by BucketTransactions.
type Buckets struct {
	periods map[ProductIdentity]map[string]map[string]*PeriodBucket
	meta    map[ProductIdentity]*productMeta
}

// BucketTransactions groups records by product identity, location and month.
// Records without a usable invoice date are dropped.
func (e Engine) BucketTransactions(records []TransactionRecord) *Buckets {
	buckets := &Buckets{
		periods: make(map[ProductIdentity]map[string]map[string]*PeriodBucket),
		meta:    make(map[ProductIdentity]*productMeta),
	}
	for _, record := range records {
		date, ok := inCalendar(record.InvoiceDate, e.Location)
		if !ok {
			continue
		}

		label := productLabel(record, e.Normalizer)
		identity := identityFor(label, record.SupplierID)
		period := PeriodKey(date)

		byLocation, ok := buckets.periods[identity]
		if !ok {
			byLocation = make(map[string]map[string]*PeriodBucket)
			buckets.periods[identity] = byLocation
		}
		byPeriod, ok := byLocation[record.LocationID]
		if !ok {
			byPeriod = make(map[string]*PeriodBucket)
			byLocation[record.LocationID] = byPeriod
		}
		bucket, ok := byPeriod[period]
		if !ok {
			bucket = &PeriodBucket{}
			byPeriod[period] = bucket
		}
		bucket.add(record, date)

		meta, ok := buckets.meta[identity]
		if !ok {
			meta = &productMeta{label: label, supplierID: record.SupplierID}
			buckets.meta[identity] = meta
		}
		if meta.prefer(date, record.Description) {
			meta.description = record.Description
			meta.unitType = record.UnitType
			meta.firstSeen = date
		}
	}
	return buckets
}

// Bucket returns the accumulated bucket, or nil when nothing was recorded.
func (b *Buckets) Bucket(identity ProductIdentity, locationID, period string) *PeriodBucket {
	return b.periods[identity][locationID][period]
}

// Identities lists every product identity in ascending order.
func (b *Buckets) Identities() []ProductIdentity {
	out := make([]ProductIdentity, 0, len(b.periods))
	for identity := range b.periods {
		out = append(out, identity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Locations lists the locations an identity was bought for, ascending.
func (b *Buckets) Locations(identity ProductIdentity) []string {
	byLocation := b.periods[identity]
	out := make([]string, 0, len(byLocation))
	for locationID := range byLocation {
		out = append(out, locationID)
	}
	sort.Strings(out)
	return out
}

// Periods returns the month buckets of one product-location pair.
func (b *Buckets) Periods(identity ProductIdentity, locationID string) map[string]*PeriodBucket {
	return b.periods[identity][locationID]
}

func (b *Buckets) info(identity ProductIdentity, locationID, locationName string) ProductInfo {
	info := ProductInfo{LocationID: locationID, LocationName: locationName}
	if meta, ok := b.meta[identity]; ok {
		info.ProductCode = meta.label
		info.SupplierID = meta.supplierID
		info.Description = meta.description
		info.UnitType = meta.unitType
	}
	return info
}
