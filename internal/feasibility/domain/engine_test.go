package feasibility

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func referenceSubject() Subject {
	return Subject{
		ID:   "subj-1",
		Name: "Reference Outlet",
		BaseDailyVolumes: map[Product]float64{
			ProductPMG: 1000,
		},
		InitialInvestment:    5000000,
		MonthlyOperatingCost: 50000,
	}
}

func referenceScenario() Scenario {
	zero := UniformRate(0)
	return Scenario{
		ID:            "scen-1",
		Name:          "Base Case",
		DiscountRate:  0.10,
		InflationRate: 0.05,
		TaxRate:       0.29,
		HorizonYears:  10,
		GrowthRates: map[Product]RateSchedule{
			ProductPMG:  PerYearRates(map[int]float64{1: 0.05}),
			ProductHSD:  zero,
			ProductHOBC: zero,
			ProductLube: zero,
		},
		Margins: map[Product]RateSchedule{
			ProductPMG:  PerYearRates(map[int]float64{1: 5.0}),
			ProductHSD:  zero,
			ProductHOBC: zero,
			ProductLube: zero,
		},
	}
}

func TestProjectReferenceScenario(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Project(referenceSubject(), referenceScenario())
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	if result.CashFlows[0] != -5000000 {
		t.Fatalf("expected year 0 cash flow exactly -5000000, got %v", result.CashFlows[0])
	}
	if result.Breakdown.Volumes[ProductPMG][0] != 365000 {
		t.Fatalf("expected year 0 PMG volume exactly 365000, got %v", result.Breakdown.Volumes[ProductPMG][0])
	}
	if result.HorizonYears != 10 {
		t.Fatalf("expected horizon 10, got %d", result.HorizonYears)
	}
	if len(result.CashFlows) != 11 || len(result.DiscountedCashFlows) != 11 || len(result.CumulativeCashFlows) != 11 {
		t.Fatalf("expected 11-entry vectors, got %d/%d/%d",
			len(result.CashFlows), len(result.DiscountedCashFlows), len(result.CumulativeCashFlows))
	}

	// Zero-margin products contribute nothing.
	for _, product := range []Product{ProductHSD, ProductHOBC, ProductLube} {
		for year, revenue := range result.Breakdown.Revenues[product] {
			if revenue != 0 {
				t.Fatalf("%s year %d: expected zero revenue, got %v", product, year, revenue)
			}
		}
	}

	// NPV must agree with discounting the reported vector directly.
	if got := NPV(result.CashFlows, 0.10); math.Abs(result.NPV-got) > 1e-6 {
		t.Fatalf("NPV mismatch: result %v, recomputed %v", result.NPV, got)
	}
	if result.IRR != nil {
		if residual := NPV(result.CashFlows, *result.IRR); math.Abs(residual) > 1e-6*5000000 {
			t.Fatalf("NPV at reported IRR is %v, not ~0", residual)
		}
	}
}

func TestProjectAllZeroVolumes(t *testing.T) {
	subject := referenceSubject()
	subject.BaseDailyVolumes = map[Product]float64{}

	engine := NewEngine(nil)
	result, err := engine.Project(subject, referenceScenario())
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	for _, product := range Products() {
		for year, revenue := range result.Breakdown.Revenues[product] {
			if revenue != 0 {
				t.Fatalf("%s year %d: expected zero revenue, got %v", product, year, revenue)
			}
		}
	}

	// With no revenue the cash flows are pure cost outflows, untaxed.
	for year := 1; year <= result.HorizonYears; year++ {
		wantFlow := -(result.Breakdown.OperatingCosts[year] +
			result.Breakdown.Insurance[year] +
			result.Breakdown.Maintenance[year])
		if math.Abs(result.CashFlows[year]-wantFlow) > 1e-9 {
			t.Fatalf("year %d: expected cost-only flow %v, got %v", year, wantFlow, result.CashFlows[year])
		}
	}
	if result.NPV >= -5000000 {
		t.Fatalf("cost-only NPV should fall below -initial investment, got %v", result.NPV)
	}
	if result.IRR != nil {
		t.Fatalf("all-negative flows: expected undefined IRR, got %v", *result.IRR)
	}
	if result.PaybackPeriod != nil {
		t.Fatalf("expected undefined payback, got %v", *result.PaybackPeriod)
	}
}

func TestProjectIdempotent(t *testing.T) {
	engine := NewEngine(nil)
	first, err := engine.Project(referenceSubject(), referenceScenario())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Project(referenceSubject(), referenceScenario())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different results")
	}
}

func TestProjectUsesDefaultsForMissingSchedules(t *testing.T) {
	scenario := referenceScenario()
	scenario.GrowthRates = nil
	scenario.Margins = nil

	subject := referenceSubject()
	subject.BaseDailyVolumes[ProductLube] = 10

	engine := NewEngine(Defaults{
		ProductPMG:  {GrowthRate: 0.02, Margin: 3.0},
		ProductLube: {GrowthRate: 0.01, Margin: 50.0},
	})
	result, err := engine.Project(subject, scenario)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	if got := result.Breakdown.Revenues[ProductPMG][0]; got != 365000*3.0 {
		t.Fatalf("expected PMG default margin 3.0 applied, got revenue %v", got)
	}
	if got := result.Breakdown.Volumes[ProductLube][1]; math.Abs(got-10*365*1.01) > 1e-9 {
		t.Fatalf("expected lube default growth 0.01 applied, got %v", got)
	}
}

func TestProjectRejectsInvalidInputs(t *testing.T) {
	engine := NewEngine(nil)

	scenario := referenceScenario()
	scenario.HorizonYears = 0
	if _, err := engine.Project(referenceSubject(), scenario); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario for zero horizon, got %v", err)
	}

	subject := referenceSubject()
	subject.InitialInvestment = -1
	if _, err := engine.Project(subject, referenceScenario()); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject for negative investment, got %v", err)
	}

	subject = referenceSubject()
	subject.BaseDailyVolumes[ProductHSD] = -5
	if _, err := engine.Project(subject, referenceScenario()); !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject for negative volume, got %v", err)
	}

	scenario = referenceScenario()
	scenario.OtherMaintenance = OneOffMaintenance{Amount: 1000, Year: 99}
	if _, err := engine.Project(referenceSubject(), scenario); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario for out-of-range maintenance year, got %v", err)
	}
}

func TestProjectInsuranceDefaultsToOnePercent(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Project(referenceSubject(), referenceScenario())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if result.Breakdown.Insurance[1] != 5000000*0.01 {
		t.Fatalf("expected default 1%% insurance 50000, got %v", result.Breakdown.Insurance[1])
	}

	rate := 0.02
	scenario := referenceScenario()
	scenario.InsuranceRate = &rate
	result, err = engine.Project(referenceSubject(), scenario)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if result.Breakdown.Insurance[1] != 5000000*0.02 {
		t.Fatalf("expected explicit 2%% insurance 100000, got %v", result.Breakdown.Insurance[1])
	}
}

func TestProjectConfiguredInsuranceRate(t *testing.T) {
	engine := NewEngine(nil, WithInsuranceRate(0.05))
	result, err := engine.Project(referenceSubject(), referenceScenario())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if result.Breakdown.Insurance[1] != 5000000*0.05 {
		t.Fatalf("expected configured 5%% insurance 250000, got %v", result.Breakdown.Insurance[1])
	}

	// An explicit scenario rate still wins over the configured fallback.
	rate := 0.02
	scenario := referenceScenario()
	scenario.InsuranceRate = &rate
	result, err = engine.Project(referenceSubject(), scenario)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if result.Breakdown.Insurance[1] != 5000000*0.02 {
		t.Fatalf("expected scenario 2%% insurance 100000, got %v", result.Breakdown.Insurance[1])
	}
}
