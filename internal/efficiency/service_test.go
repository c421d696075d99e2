package efficiency

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/metrics"
	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubSource struct {
	mu           sync.Mutex
	transactions []TransactionRecord
	pax          []PaxRecord
	locations    []Location
	paxErr       error
	block        chan struct{}
	txPages      int
	paxQueries   []PaxQuery
}

func (s *stubSource) TransactionsPage(ctx context.Context, _ Filter, page pagination.Page) ([]TransactionRecord, error) {
	s.mu.Lock()
	s.txPages++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return pageOf(s.transactions, page), nil
}

func (s *stubSource) PaxPage(_ context.Context, query PaxQuery, page pagination.Page) ([]PaxRecord, error) {
	s.mu.Lock()
	s.paxQueries = append(s.paxQueries, query)
	s.mu.Unlock()
	if s.paxErr != nil {
		return nil, s.paxErr
	}
	return pageOf(s.pax, page), nil
}

func (s *stubSource) Locations(context.Context, string, string) ([]Location, error) {
	return s.locations, nil
}

func pageOf[T any](rows []T, page pagination.Page) []T {
	if page.Offset >= len(rows) {
		return nil
	}
	end := min(page.Offset+page.Size, len(rows))
	return rows[page.Offset:end]
}

type countingCache struct {
	stored      int
	loaded      []EfficiencyMetric
	invalidated []string
}

func (c *countingCache) Load(_ context.Context, filter Filter) (CacheSlot, []EfficiencyMetric, bool, error) {
	slot := CacheSlot{Key: filter.Fingerprint()}
	if c.loaded == nil {
		return slot, nil, false, nil
	}
	return slot, c.loaded, true, nil
}

func (c *countingCache) Store(_ context.Context, _ CacheSlot, metrics []EfficiencyMetric) error {
	c.stored++
	c.loaded = metrics
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, organizationID string) (int64, error) {
	c.invalidated = append(c.invalidated, organizationID)
	c.loaded = nil
	return int64(len(c.invalidated)), nil
}

func newTestService(t *testing.T, source RecordSource, cache ResultCache) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Source:   source,
		Cache:    cache,
		PageSize: 2,
		Metrics:  metrics.NewEfficiencyMetrics(prometheus.NewRegistry()),
		Logger:   logger.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func stubFromEndToEnd(t *testing.T) *stubSource {
	in := endToEndInput(t)
	return &stubSource{transactions: in.Transactions, pax: in.Pax, locations: in.Locations}
}

func TestServiceComputePagesAndCaches(t *testing.T) {
	source := stubFromEndToEnd(t)
	cache := &countingCache{}
	svc := newTestService(t, source, cache)

	result, err := svc.Compute(context.Background(), Request{
		Filter: Filter{OrganizationID: "org"},
		Chart:  &ChartTarget{ProductCode: "151232"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.EfficiencyMetrics, 1)
	assert.InDelta(t, 9.883333, result.EfficiencyMetrics[0].TimeSeries[0].SpendPerPax, 1e-5)
	require.NotNil(t, result.ProductChart)
	assert.Equal(t, 2, source.txPages)
	assert.Equal(t, 1, cache.stored)
	require.Len(t, source.paxQueries, 2)
	assert.Equal(t, []string{"L1"}, source.paxQueries[0].LocationIDs)

	_, err = svc.Compute(context.Background(), Request{Filter: Filter{OrganizationID: "org"}})
	require.NoError(t, err)
	assert.Equal(t, 2, source.txPages)
	assert.Equal(t, 1, cache.stored)
}

// staleFirstPage serves pre-change rows on its first transactions page and fires
// onChange while that page is being read.
type staleFirstPage struct {
	*stubSource
	onChange func()
	served   bool
}

func (s *staleFirstPage) TransactionsPage(ctx context.Context, filter Filter, page pagination.Page) ([]TransactionRecord, error) {
	if !s.served {
		s.served = true
		s.onChange()
		return nil, nil
	}
	return s.stubSource.TransactionsPage(ctx, filter, page)
}

func TestServiceDoesNotCacheResultsOverlappingInvalidation(t *testing.T) {
	cache, err := NewRedisCache(newFakeGenerationStore(), time.Minute)
	require.NoError(t, err)

	inner := stubFromEndToEnd(t)
	source := &staleFirstPage{stubSource: inner}
	source.onChange = func() {
		_, err := cache.Invalidate(context.Background(), "org")
		assert.NoError(t, err)
	}
	svc := newTestService(t, source, cache)
	filter := Filter{OrganizationID: "org"}

	first, err := svc.Compute(context.Background(), Request{Filter: filter})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Empty(t, first.EfficiencyMetrics)

	second, err := svc.Compute(context.Background(), Request{Filter: filter})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Positive(t, inner.txPages, "second computation must refetch after the data change")
	assert.Len(t, second.EfficiencyMetrics, 1)
}

func TestServiceRejectsInvalidFilter(t *testing.T) {
	svc := newTestService(t, stubFromEndToEnd(t), nil)

	_, err := svc.Compute(context.Background(), Request{})

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServicePaxFailureAborts(t *testing.T) {
	source := stubFromEndToEnd(t)
	source.paxErr = errors.New("connection reset")
	cache := &countingCache{}
	svc := newTestService(t, source, cache)

	result, err := svc.Compute(context.Background(), Request{Filter: Filter{OrganizationID: "org"}})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Zero(t, cache.stored)
}

func TestServiceSupersededReturnsNothing(t *testing.T) {
	source := stubFromEndToEnd(t)
	source.block = make(chan struct{})
	svc := newTestService(t, source, nil)

	type outcome struct {
		result *Result
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		result, err := svc.Compute(context.Background(), Request{Filter: Filter{OrganizationID: "org"}, ConsumerID: "tab"})
		first <- outcome{result, err}
	}()

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.txPages > 0
	}, 2*time.Second, 5*time.Millisecond)

	source.mu.Lock()
	source.block = nil
	source.mu.Unlock()

	second, err := svc.Compute(context.Background(), Request{Filter: Filter{OrganizationID: "org"}, ConsumerID: "tab"})
	require.NoError(t, err)
	require.NotNil(t, second)

	got := <-first
	assert.NoError(t, got.err)
	assert.Nil(t, got.result)
}

func TestServiceDeadlineIsTimeoutNotSupersede(t *testing.T) {
	source := stubFromEndToEnd(t)
	source.block = make(chan struct{})
	svc := newTestService(t, source, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result, err := svc.Compute(ctx, Request{Filter: Filter{OrganizationID: "org"}, ConsumerID: "tab"})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTimeout))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServiceInefficientAndExport(t *testing.T) {
	svc := newTestService(t, stubFromEndToEnd(t), nil)
	req := Request{Filter: Filter{OrganizationID: "org"}}

	ranking, err := svc.Inefficient(context.Background(), req, 0)
	require.NoError(t, err)
	require.Len(t, ranking.Products, 1)
	assert.Equal(t, "2025-02", ranking.Products[0].LastPeriod)

	payload, err := svc.Export(context.Background(), req)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportMetricsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Product", rows[0][0])
	assert.Equal(t, "151232", rows[1][0])

	series, err := book.GetRows(exportSeriesSheet)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, "2025-01", series[1][3])
}

func TestNewServiceRequiresSource(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Source: &stubSource{}})
	assert.Error(t, err)
}
