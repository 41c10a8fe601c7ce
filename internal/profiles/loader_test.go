package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadFounders(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "founders.csv",
		"startup_id,startup_name,industry,startup_stage,funding_required_usd,location_city,location_country,mrr_usd\n"+
			"F1,PayFlow,Fintech|Payments,Seed,\"$1,500,000\",Berlin,Germany,12000\n"+
			",Ghost,Fintech,Seed,100,Nowhere,Nowhere,0\n"+
			"F2,MediScan,Healthtech,Series A,not-a-number,London,UK,\n")

	founders, err := LoadFounders(path, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if founders.Len() != 2 {
		t.Fatalf("expected 2 founders after dropping blank id, got %d", founders.Len())
	}

	payflow := founders.FindByID("F1")
	if payflow == nil {
		t.Fatal("expected founder F1")
	}

	if payflow.Name != "PayFlow" || payflow.Stage != "Seed" {
		t.Fatalf("unexpected founder fields: %+v", payflow)
	}

	if payflow.FundingRequiredUSD != 1500000 {
		t.Fatalf("expected currency cell to decode to 1500000, got %d", payflow.FundingRequiredUSD)
	}

	mediscan := founders.FindByID("F2")
	if mediscan == nil {
		t.Fatal("expected founder F2")
	}

	// Malformed and empty numeric cells decode to zero, not an error.
	if mediscan.FundingRequiredUSD != 0 || mediscan.MRRUSD != 0 {
		t.Fatalf("expected zero for bad numeric cells, got %d / %d", mediscan.FundingRequiredUSD, mediscan.MRRUSD)
	}
}

func TestLoadInvestors(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "investors.csv",
		"investor_id,investor_name,investor_type,preferred_industries,min_investment_usd,max_investment_usd,preferred_stages,geographic_focus\n"+
			"I1,Fintech Capital,VC,Fintech|Insurtech,500000,5000000,Seed|Series A,Europe\n")

	investors, err := LoadInvestors(path, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if investors.Len() != 1 {
		t.Fatalf("expected 1 investor, got %d", investors.Len())
	}

	investor := investors.FindByID("I1")
	if investor == nil {
		t.Fatal("expected investor I1")
	}

	if investor.Name != "Fintech Capital" || investor.Type != "VC" {
		t.Fatalf("unexpected investor fields: %+v", investor)
	}

	if investor.MinInvestmentUSD != 500000 || investor.MaxInvestmentUSD != 5000000 {
		t.Fatalf("unexpected investment range: %d - %d", investor.MinInvestmentUSD, investor.MaxInvestmentUSD)
	}
}

func TestLoadFoundersMissingIDColumn(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "founders.csv", "name,industry\nPayFlow,Fintech\n")

	if _, err := LoadFounders(path, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing id column")
	}
}

func TestLoadFoundersMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadFounders(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFoundersShortRows(t *testing.T) {
	t.Parallel()

	// Exported sheets often drop trailing cells; missing columns default to empty.
	path := writeCSV(t, "founders.csv",
		"startup_id,startup_name,industry\n"+
			"F1,PayFlow\n")

	founders, err := LoadFounders(path, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	founder := founders.FindByID("F1")
	if founder == nil {
		t.Fatal("expected founder F1")
	}

	if founder.Industries != "" {
		t.Fatalf("expected empty industries, got %q", founder.Industries)
	}
}
