package matching

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spigell/investor-matcher/internal/ai"
	"github.com/spigell/investor-matcher/internal/profiles"
	"go.uber.org/zap"
)

type stubMatcher struct {
	failing  map[string]bool
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (s *stubMatcher) Evaluate(_ context.Context, _ *profiles.Founder, investor *profiles.Investor) *ai.MatchResult {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	for {
		peak := s.peak.Load()
		if current <= peak || s.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	result := &ai.MatchResult{
		InvestorID:   investor.ID,
		InvestorName: investor.Name,
	}

	if s.failing[investor.ID] {
		result.Status = ai.StatusAPIError
		result.Raw = "stubbed failure"
		return result
	}

	result.Status = ai.StatusOK
	result.Score = 50
	return result
}

func testInvestors(n int) *profiles.Investors {
	investors := &profiles.Investors{}
	for i := 0; i < n; i++ {
		investors.Items = append(investors.Items, &profiles.Investor{
			ID:   fmt.Sprintf("I%d", i+1),
			Name: fmt.Sprintf("Investor %d", i+1),
		})
	}
	return investors
}

func TestDispatcherReturnsResultForEveryInvestor(t *testing.T) {
	t.Parallel()

	matcher := &stubMatcher{failing: map[string]bool{
		"I2": true,
		"I5": true,
		"I9": true,
	}}

	founder := &profiles.Founder{ID: "F1", Name: "PayFlow"}
	investors := testInvestors(10)

	dispatcher := NewDispatcher(matcher, 3, zap.NewNop())
	results := dispatcher.Run(context.Background(), founder, investors)

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}

	ok := 0
	for i, result := range results {
		if result == nil {
			t.Fatalf("missing result at slot %d", i)
		}
		if result.InvestorID != investors.Items[i].ID {
			t.Fatalf("result order broken at slot %d: %s", i, result.InvestorID)
		}
		if result.OK() {
			ok++
		}
	}

	if ok != 7 {
		t.Fatalf("expected 7 ok results, got %d", ok)
	}
}

func TestDispatcherRespectsConcurrencyCap(t *testing.T) {
	t.Parallel()

	matcher := &stubMatcher{delay: 20 * time.Millisecond}

	founder := &profiles.Founder{ID: "F1"}
	investors := testInvestors(12)

	dispatcher := NewDispatcher(matcher, 3, zap.NewNop())
	dispatcher.Run(context.Background(), founder, investors)

	if peak := matcher.peak.Load(); peak > 3 {
		t.Fatalf("concurrency cap exceeded: %d in flight", peak)
	}
}

func TestDispatcherDefaultsConcurrency(t *testing.T) {
	t.Parallel()

	dispatcher := NewDispatcher(&stubMatcher{}, 0, nil)
	if dispatcher.concurrency != defaultConcurrency {
		t.Fatalf("expected default concurrency %d, got %d", defaultConcurrency, dispatcher.concurrency)
	}
}

func TestDispatcherCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dispatcher := NewDispatcher(&stubMatcher{}, 1, zap.NewNop())
	results := dispatcher.Run(ctx, &profiles.Founder{ID: "F1"}, testInvestors(3))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, result := range results {
		if result.Status != ai.StatusAPIError {
			t.Fatalf("expected api_error on cancelled context, got %s", result.Status)
		}
	}
}
