package profiles

import (
	"fmt"
	"sort"
	"strings"
)

// Founder describes one startup seeking investment. Fields map to the
// founders CSV columns and are not mutated after loading.
type Founder struct {
	ID                 string `mapstructure:"startup_id"`
	Name               string `mapstructure:"startup_name"`
	Industries         string `mapstructure:"industry"`
	Stage              string `mapstructure:"startup_stage"`
	FundingRequiredUSD int    `mapstructure:"funding_required_usd"`
	City               string `mapstructure:"location_city"`
	Country            string `mapstructure:"location_country"`
	BusinessModels     string `mapstructure:"business_model"`
	MRRUSD             int    `mapstructure:"mrr_usd"`
	UserCount          int    `mapstructure:"user_count"`
	TeamSize           string `mapstructure:"team_size"`
	ProductDescription string `mapstructure:"product_description"`
	USP                string `mapstructure:"usp"`
	TractionSummary    string `mapstructure:"traction_summary"`
}

// Investor describes one investment preference set from the investors CSV.
type Investor struct {
	ID                 string `mapstructure:"investor_id"`
	Name               string `mapstructure:"investor_name"`
	Type               string `mapstructure:"investor_type"`
	Industries         string `mapstructure:"preferred_industries"`
	MinInvestmentUSD   int    `mapstructure:"min_investment_usd"`
	MaxInvestmentUSD   int    `mapstructure:"max_investment_usd"`
	AvgCheckSizeUSD    int    `mapstructure:"check_size_avg_usd"`
	Stages             string `mapstructure:"preferred_stages"`
	GeographicFocus    string `mapstructure:"geographic_focus"`
	Thesis             string `mapstructure:"investment_thesis"`
	PortfolioCompanies string `mapstructure:"portfolio_companies"`
}

type Founders struct {
	Items []*Founder
}

type Investors struct {
	Items []*Investor
}

// Label returns the human-readable name used in selection prompts.
func (f *Founder) Label() string {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = fmt.Sprintf("Founder ID: %s", f.ID)
	}
	return fmt.Sprintf("%s (%s)", name, f.ID)
}

func (f *Founders) Len() int {
	return len(f.Items)
}

func (f *Founders) FindByID(id string) *Founder {
	for _, founder := range f.Items {
		if founder.ID == id {
			return founder
		}
	}
	return nil
}

// SortedByLabel returns founders ordered alphabetically by their label.
func (f *Founders) SortedByLabel() []*Founder {
	sorted := make([]*Founder, len(f.Items))
	copy(sorted, f.Items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Label() < sorted[j].Label()
	})
	return sorted
}

func (f *Founders) Labels() []string {
	labels := make([]string, 0, len(f.Items))
	for _, founder := range f.SortedByLabel() {
		labels = append(labels, founder.Label())
	}
	return labels
}

func (i *Investor) Label() string {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		name = fmt.Sprintf("Investor ID: %s", i.ID)
	}
	return fmt.Sprintf("%s (%s)", name, i.ID)
}

func (i *Investors) Len() int {
	return len(i.Items)
}

func (i *Investors) FindByID(id string) *Investor {
	for _, investor := range i.Items {
		if investor.ID == id {
			return investor
		}
	}
	return nil
}

func (i *Investors) IDs() []string {
	ids := make([]string, 0, len(i.Items))
	for _, investor := range i.Items {
		ids = append(ids, investor.ID)
	}
	return ids
}

// SplitList breaks a pipe-separated CSV cell into its trimmed parts.
// Empty segments are dropped.
func SplitList(s string) []string {
	parts := make([]string, 0)
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
