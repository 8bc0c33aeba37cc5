package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	feasibility "dealer-feasibility/internal/feasibility/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FEASIBILITY_CONFIG", "")
	t.Setenv("FEASIBILITY_HORIZON_YEARS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HorizonYears != 15 {
		t.Errorf("default horizon = %d", cfg.HorizonYears)
	}
	if cfg.InsuranceRate != feasibility.DefaultInsuranceRate {
		t.Errorf("default insurance rate = %v", cfg.InsuranceRate)
	}
	defaults, err := cfg.EngineDefaults()
	if err != nil {
		t.Fatalf("engine defaults: %v", err)
	}
	if defaults.For(feasibility.ProductPMG).Margin != 5.0 {
		t.Errorf("builtin pmg margin = %v", defaults.For(feasibility.ProductPMG).Margin)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := []byte(`
products:
  pmg:
    growth_rate: 0.08
    margin: 6.5
insurance_rate: 0.02
horizon_years: 20
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FEASIBILITY_CONFIG", path)
	t.Setenv("FEASIBILITY_HORIZON_YEARS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HorizonYears != 20 {
		t.Errorf("horizon = %d", cfg.HorizonYears)
	}
	if cfg.InsuranceRate != 0.02 {
		t.Errorf("insurance rate = %v", cfg.InsuranceRate)
	}
	defaults, err := cfg.EngineDefaults()
	if err != nil {
		t.Fatalf("engine defaults: %v", err)
	}
	if defaults.For(feasibility.ProductPMG).GrowthRate != 0.08 {
		t.Errorf("pmg growth = %v", defaults.For(feasibility.ProductPMG).GrowthRate)
	}
	// Unconfigured products still resolve via the builtin table.
	if defaults.For(feasibility.ProductHSD).Margin != 4.0 {
		t.Errorf("hsd margin = %v", defaults.For(feasibility.ProductHSD).Margin)
	}
}

func TestLoadConfigRejectsUnknownProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := []byte(`
products:
  kerosene:
    growth_rate: 0.05
    margin: 1.0
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FEASIBILITY_CONFIG", path)

	_, err := LoadConfig()
	if !errors.Is(err, feasibility.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestConfiguredInsuranceRateReachesEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := []byte("insurance_rate: 0.05\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FEASIBILITY_CONFIG", path)
	t.Setenv("FEASIBILITY_HORIZON_YEARS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	defaults, err := cfg.EngineDefaults()
	if err != nil {
		t.Fatalf("engine defaults: %v", err)
	}
	engine := feasibility.NewEngine(defaults, feasibility.WithInsuranceRate(cfg.InsuranceRate))

	subject := feasibility.Subject{
		ID:                "sub-1",
		BaseDailyVolumes:  map[feasibility.Product]float64{feasibility.ProductPMG: 100},
		InitialInvestment: 1_000_000,
	}
	scenario := feasibility.Scenario{ID: "scn-1", HorizonYears: 5}
	result, err := engine.Project(subject, scenario)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if result.Breakdown.Insurance[1] != 50_000 {
		t.Fatalf("expected configured 5%% insurance 50000, got %v", result.Breakdown.Insurance[1])
	}
}

func TestLoadConfigHorizonFromEnv(t *testing.T) {
	t.Setenv("FEASIBILITY_CONFIG", "")
	t.Setenv("FEASIBILITY_HORIZON_YEARS", "25")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HorizonYears != 25 {
		t.Errorf("horizon = %d", cfg.HorizonYears)
	}
}
