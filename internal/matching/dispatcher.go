package matching

import (
	"context"
	"sync"

	"github.com/spigell/investor-matcher/internal/ai"
	"github.com/spigell/investor-matcher/internal/logger"
	"github.com/spigell/investor-matcher/internal/profiles"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const defaultConcurrency = 5

// Dispatcher fans one founder out against a list of investors, keeping at
// most the configured number of scoring requests in flight. The admission
// gate is owned here, not shared process-wide.
type Dispatcher struct {
	matcher     ai.Matcher
	gate        *semaphore.Weighted
	concurrency int64
	logger      *zap.Logger
}

func NewDispatcher(matcher ai.Matcher, concurrency int, log *zap.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Dispatcher{
		matcher:     matcher,
		gate:        semaphore.NewWeighted(int64(concurrency)),
		concurrency: int64(concurrency),
		logger:      log,
	}
}

// Run scores the founder against every investor and returns exactly one
// result per investor, in investor order. Individual failures never abort the
// batch; Run returns only once every result has resolved.
func (d *Dispatcher) Run(ctx context.Context, founder *profiles.Founder, investors *profiles.Investors) []*ai.MatchResult {
	results := make([]*ai.MatchResult, investors.Len())

	d.logger.Info("dispatching match requests",
		zap.String(logger.FieldFounder, founder.ID),
		zap.Int("investors", investors.Len()),
		zap.Int64("concurrency", d.concurrency),
	)

	var wg sync.WaitGroup
	for i, investor := range investors.Items {
		wg.Add(1)
		go func(slot int, investor *profiles.Investor) {
			defer wg.Done()
			results[slot] = d.evaluate(ctx, founder, investor)
		}(i, investor)
	}
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result.OK() {
			succeeded++
		}
	}

	d.logger.Info("match requests completed",
		zap.String(logger.FieldFounder, founder.ID),
		zap.Int("requested", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(results)-succeeded),
	)

	return results
}

func (d *Dispatcher) evaluate(ctx context.Context, founder *profiles.Founder, investor *profiles.Investor) *ai.MatchResult {
	if err := d.gate.Acquire(ctx, 1); err != nil {
		return &ai.MatchResult{
			InvestorID:   investor.ID,
			InvestorName: investor.Name,
			Status:       ai.StatusAPIError,
			Raw:          err.Error(),
		}
	}
	defer d.gate.Release(1)

	return d.matcher.Evaluate(ctx, founder, investor)
}
