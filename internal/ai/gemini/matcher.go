package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/investor-matcher/internal/ai"
	"github.com/spigell/investor-matcher/internal/logger"
	"github.com/spigell/investor-matcher/internal/profiles"
	"github.com/spigell/investor-matcher/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Matcher scores founder-investor pairs with the Gemini API. It satisfies
// ai.Matcher: every failure mode ends up as a non-ok MatchResult.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewMatcher(generator contentGenerator, maxLogLength int, log *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, founder *profiles.Founder, investor *profiles.Investor) *ai.MatchResult {
	result := &ai.MatchResult{
		InvestorID:   investor.ID,
		InvestorName: investor.Name,
	}

	prompt := BuildPrompt(founder, investor)

	m.logger.Debug("gemini generate content request",
		zap.String(logger.FieldFounder, founder.ID),
		zap.String(logger.FieldInvestor, investor.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		m.logger.Warn("gemini request failed",
			zap.String(logger.FieldInvestor, investor.ID),
			zap.Error(err),
		)
		result.Status = ai.StatusAPIError
		result.Raw = err.Error()
		return result
	}

	m.logger.Debug("gemini generate content response",
		zap.String(logger.FieldFounder, founder.ID),
		zap.String(logger.FieldInvestor, investor.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	score, reasoning, err := parseResponse(raw)
	if err != nil {
		m.logger.Warn("gemini response rejected",
			zap.String(logger.FieldInvestor, investor.ID),
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
		)
		result.Status = ai.StatusParseError
		result.Raw = raw
		return result
	}

	result.Status = ai.StatusOK
	result.Score = score
	result.Reasoning = reasoning
	return result
}

// BuildPrompt renders the scoring prompt for one pair. Pure function of its
// inputs: payloads are marshaled with sorted keys, so identical profiles
// always produce identical prompts.
func BuildPrompt(founder *profiles.Founder, investor *profiles.Investor) string {
	founderPayload := map[string]any{
		"name":                 founder.Name,
		"industries":           profiles.SplitList(founder.Industries),
		"stage":                founder.Stage,
		"funding_required_usd": founder.FundingRequiredUSD,
		"location":             strings.TrimSpace(strings.Trim(founder.City+", "+founder.Country, ", ")),
		"business_models":      profiles.SplitList(founder.BusinessModels),
		"mrr_usd":              founder.MRRUSD,
		"user_count":           founder.UserCount,
		"team_size":            founder.TeamSize,
		"product_description":  founder.ProductDescription,
		"usp":                  founder.USP,
		"traction_summary":     founder.TractionSummary,
	}

	investorPayload := map[string]any{
		"name":                 investor.Name,
		"type":                 investor.Type,
		"preferred_industries": profiles.SplitList(investor.Industries),
		"min_investment_usd":   investor.MinInvestmentUSD,
		"max_investment_usd":   investor.MaxInvestmentUSD,
		"check_size_avg_usd":   investor.AvgCheckSizeUSD,
		"preferred_stages":     profiles.SplitList(investor.Stages),
		"geographic_focus":     investor.GeographicFocus,
		"investment_thesis":    investor.Thesis,
		"portfolio_companies":  investor.PortfolioCompanies,
	}

	founderJSON, _ := json.MarshalIndent(founderPayload, "", "  ")
	investorJSON, _ := json.MarshalIndent(investorPayload, "", "  ")

	prompt := strings.ReplaceAll(promptTemplate, "{{FOUNDER_JSON}}", string(founderJSON))
	prompt = strings.ReplaceAll(prompt, "{{INVESTOR_JSON}}", string(investorJSON))
	return prompt
}

// parseResponse validates the model output against the strict response
// schema. The score must be a JSON integer within [0, 100]; out-of-range or
// non-integer scores are rejected rather than clamped.
func parseResponse(raw string) (int, string, error) {
	cleaned := extractJSON(raw)

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.UseNumber()

	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return 0, "", fmt.Errorf("parse gemini response: %w", err)
	}

	scoreValue, ok := data["score"]
	if !ok {
		return 0, "", fmt.Errorf("response is missing the score field")
	}

	number, ok := scoreValue.(json.Number)
	if !ok {
		return 0, "", fmt.Errorf("score is not a number: %v", scoreValue)
	}

	score, err := number.Int64()
	if err != nil {
		return 0, "", fmt.Errorf("score is not an integer: %s", number)
	}

	if score < 0 || score > 100 {
		return 0, "", fmt.Errorf("score %d is out of the [0, 100] range", score)
	}

	reasoningValue, ok := data["reasoning"]
	if !ok {
		return 0, "", fmt.Errorf("response is missing the reasoning field")
	}

	reasoning, ok := reasoningValue.(string)
	if !ok {
		return 0, "", fmt.Errorf("reasoning is not a string")
	}

	return int(score), strings.TrimSpace(reasoning), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
