package efficiency

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/metrics"
	"github.com/angelmondragon/spendwise-backend/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

// Request is one computation asked for by a consumer (a dashboard tab, a report job).
type Request struct {
	Filter Filter
	Chart  *ChartTarget
	// ConsumerID identifies who asked; a newer request from the same consumer cancels this one.
	ConsumerID string
}

// Service computes efficiency results over the record source.
// Every method returns (nil, nil) when the computation was superseded or canceled.
type Service interface {
	Compute(ctx context.Context, req Request) (*Result, error)
	Inefficient(ctx context.Context, req Request, limit int) (*Ranking, error)
	Export(ctx context.Context, req Request) ([]byte, error)
}

// ServiceParams wires a Service. Cache and Metrics are optional.
type ServiceParams struct {
	Source       RecordSource
	Cache        ResultCache
	Engine       Engine
	PageSize     int
	RankingLimit int
	Metrics      *metrics.EfficiencyMetrics
	Logger       *logger.Logger
}

type service struct {
	source       RecordSource
	cache        ResultCache
	engine       Engine
	pageSize     int
	rankingLimit int
	metrics      *metrics.EfficiencyMetrics
	logg         *logger.Logger
	runner       *Runner
}

// NewService validates params and builds the efficiency service.
func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("record source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		source:       params.Source,
		cache:        params.Cache,
		engine:       params.Engine,
		pageSize:     params.PageSize,
		rankingLimit: params.RankingLimit,
		metrics:      params.Metrics,
		logg:         params.Logger,
		runner:       NewRunner(),
	}, nil
}

func (s *service) Compute(ctx context.Context, req Request) (*Result, error) {
	computed, err := s.computeMetrics(ctx, req)
	if err != nil || computed == nil {
		return nil, err
	}
	result := &Result{EfficiencyMetrics: computed}
	if req.Chart != nil {
		result.ProductChart = BuildChart(computed, *req.Chart)
	}
	return result, nil
}

func (s *service) Inefficient(ctx context.Context, req Request, limit int) (*Ranking, error) {
	computed, err := s.computeMetrics(ctx, req)
	if err != nil || computed == nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.rankingLimit
	}
	ranking := RankInefficient(computed, limit)
	return &ranking, nil
}

func (s *service) Export(ctx context.Context, req Request) ([]byte, error) {
	computed, err := s.computeMetrics(ctx, req)
	if err != nil || computed == nil {
		return nil, err
	}
	payload, err := ExportWorkbook(computed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build efficiency workbook")
	}
	return payload, nil
}

// computeMetrics returns nil metrics and nil error when superseded.
func (s *service) computeMetrics(ctx context.Context, req Request) ([]EfficiencyMetric, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	ctx = s.logg.WithScope(ctx, logger.Scope{
		OrganizationID: req.Filter.OrganizationID,
		BusinessUnitID: req.Filter.BusinessUnitID,
		ConsumerID:     req.ConsumerID,
	})

	started := time.Now()
	computed := make([]EfficiencyMetric, 0)
	superseded, err := s.runner.Do(ctx, req.ConsumerID, func(ctx context.Context) error {
		slot, cached, ok := s.loadCached(ctx, req.Filter)
		if ok {
			computed = cached
			return nil
		}

		input, err := s.load(ctx, req.Filter)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		computed = s.engine.Compute(*input).EfficiencyMetrics
		s.storeCached(ctx, slot, computed)
		return nil
	})

	switch {
	case superseded:
		s.metrics.ObserveComputation(metrics.OutcomeSuperseded, time.Since(started))
		s.logg.Info(ctx, "efficiency computation superseded")
		return nil, nil
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.ObserveComputation(metrics.OutcomeTimeout, time.Since(started))
		s.logg.Warn(ctx, "efficiency computation timed out")
		return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "efficiency computation timed out")
	case err != nil:
		s.metrics.ObserveComputation(metrics.OutcomeError, time.Since(started))
		s.logg.Error(ctx, "efficiency computation failed", err)
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute efficiency")
		}
		return nil, err
	}

	s.metrics.ObserveComputation(metrics.OutcomeSuccess, time.Since(started))
	s.logg.Info(s.logg.WithField(ctx, "metrics", len(computed)), "efficiency computation finished")
	return computed, nil
}

// load fetches transactions and PAX in parallel. Any failure aborts both.
func (s *service) load(ctx context.Context, filter Filter) (*Input, error) {
	var (
		transactions []TransactionRecord
		pax          []PaxRecord
		locations    []Location
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, pages, err := fetchAll(gctx, s.pageSize, func(ctx context.Context, page pagination.Page) ([]TransactionRecord, error) {
			return s.source.TransactionsPage(ctx, filter, page)
		})
		if err != nil {
			return sourceError(err, "fetch transactions")
		}
		transactions = rows
		s.metrics.AddRowsFetched("transactions", len(rows))
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"rows": len(rows), "pages": pages}), "transactions fetched")
		return nil
	})
	group.Go(func() error {
		locs, err := s.source.Locations(gctx, filter.OrganizationID, filter.BusinessUnitID)
		if err != nil {
			return sourceError(err, "fetch locations")
		}
		locations = locs
		s.metrics.AddRowsFetched("locations", len(locs))

		query := paxQueryFor(filter, locs)
		if len(query.LocationIDs) == 0 {
			return nil
		}
		rows, pages, err := fetchAll(gctx, s.pageSize, func(ctx context.Context, page pagination.Page) ([]PaxRecord, error) {
			return s.source.PaxPage(ctx, query, page)
		})
		if err != nil {
			return sourceError(err, "fetch pax")
		}
		pax = rows
		s.metrics.AddRowsFetched("pax", len(rows))
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"rows": len(rows), "pages": pages}), "pax fetched")
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Input{
		Transactions: transactions,
		Pax:          pax,
		Locations:    locations,
		Search:       filter.Search,
	}, nil
}

func sourceError(err error, action string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// loadCached resolves the cache slot before any record is fetched. A failed read
// yields the zero slot, which storeCached skips.
func (s *service) loadCached(ctx context.Context, filter Filter) (CacheSlot, []EfficiencyMetric, bool) {
	if s.cache == nil {
		return CacheSlot{}, nil, false
	}
	slot, cached, ok, err := s.cache.Load(ctx, filter)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "efficiency cache read failed")
		return CacheSlot{}, nil, false
	}
	if !ok {
		s.metrics.IncCacheLookup(metrics.CacheMiss)
		return slot, nil, false
	}
	s.metrics.IncCacheLookup(metrics.CacheHit)
	s.logg.Info(ctx, "efficiency cache hit")
	return slot, cached, true
}

func (s *service) storeCached(ctx context.Context, slot CacheSlot, computed []EfficiencyMetric) {
	if s.cache == nil || slot.IsZero() {
		return
	}
	if err := s.cache.Store(ctx, slot, computed); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "efficiency cache write failed")
	}
}
