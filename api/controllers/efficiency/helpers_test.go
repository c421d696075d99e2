package efficiency

import (
	"context"

	efficiencysvc "github.com/angelmondragon/spendwise-backend/internal/efficiency"
)

type testEfficiencyService struct {
	last      efficiencysvc.Request
	lastLimit int
	calls     int
	result    *efficiencysvc.Result
	ranking   *efficiencysvc.Ranking
	workbook  []byte
	err       error
}

func (s *testEfficiencyService) Compute(ctx context.Context, req efficiencysvc.Request) (*efficiencysvc.Result, error) {
	s.last = req
	s.calls++
	return s.result, s.err
}

func (s *testEfficiencyService) Inefficient(ctx context.Context, req efficiencysvc.Request, limit int) (*efficiencysvc.Ranking, error) {
	s.last = req
	s.lastLimit = limit
	s.calls++
	return s.ranking, s.err
}

func (s *testEfficiencyService) Export(ctx context.Context, req efficiencysvc.Request) ([]byte, error) {
	s.last = req
	s.calls++
	return s.workbook, s.err
}

type testResultCache struct {
	invalidated []string
	err         error
}

func (c *testResultCache) Load(context.Context, efficiencysvc.Filter) (efficiencysvc.CacheSlot, []efficiencysvc.EfficiencyMetric, bool, error) {
	return efficiencysvc.CacheSlot{}, nil, false, nil
}

func (c *testResultCache) Store(context.Context, efficiencysvc.CacheSlot, []efficiencysvc.EfficiencyMetric) error {
	return nil
}

func (c *testResultCache) Invalidate(ctx context.Context, organizationID string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.invalidated = append(c.invalidated, organizationID)
	return int64(len(c.invalidated)), nil
}
