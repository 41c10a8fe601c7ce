package ai

import (
	"context"

	"github.com/spigell/investor-matcher/internal/profiles"
)

// Status classifies the outcome of a single scoring request.
type Status string

const (
	// StatusOK means the model returned a valid score within [0, 100].
	StatusOK Status = "ok"
	// StatusParseError means the model answered but the payload was not the
	// expected JSON object or carried an invalid score.
	StatusParseError Status = "parse_error"
	// StatusAPIError means the request itself failed, including exhausted
	// rate-limit retries.
	StatusAPIError Status = "api_error"
)

// MatchResult is the outcome of scoring one founder-investor pair. Only
// results with StatusOK carry a meaningful Score; for the other statuses Raw
// keeps the original response or error text for diagnostics.
type MatchResult struct {
	InvestorID   string `json:"investor_id"`
	InvestorName string `json:"investor_name"`
	Score        int    `json:"score"`
	Reasoning    string `json:"reasoning,omitempty"`
	Status       Status `json:"status"`
	Raw          string `json:"raw,omitempty"`
}

func (r *MatchResult) OK() bool {
	return r.Status == StatusOK
}

type Matcher interface {
	// Evaluate scores one pair. Scoring failures are folded into the returned
	// result's Status rather than surfaced as errors, so one bad pair never
	// aborts a batch.
	Evaluate(ctx context.Context, founder *profiles.Founder, investor *profiles.Investor) *MatchResult
}
