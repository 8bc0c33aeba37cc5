package feasibility

import (
	"math"
	"testing"
)

func TestOperatingCostsSkipInvestmentYear(t *testing.T) {
	costs := OperatingCosts(50000, 3, 0.05)
	if costs[0] != 0 {
		t.Fatalf("expected no operating cost in year 0, got %v", costs[0])
	}
	if costs[1] != 50000*12 {
		t.Fatalf("expected uninflated year 1 cost %v, got %v", 50000*12, costs[1])
	}
	if math.Abs(costs[3]-50000*12*1.05*1.05) > 1e-9 {
		t.Fatalf("expected year 3 cost %v, got %v", 50000*12*1.05*1.05, costs[3])
	}
}

func TestInsuranceCosts(t *testing.T) {
	costs := InsuranceCosts(5000000, 0.01, 2, 0.05)
	if costs[0] != 0 {
		t.Fatalf("expected no insurance in year 0, got %v", costs[0])
	}
	if costs[1] != 50000 {
		t.Fatalf("expected year 1 insurance 50000, got %v", costs[1])
	}
	if math.Abs(costs[2]-50000*1.05) > 1e-9 {
		t.Fatalf("expected year 2 insurance %v, got %v", 50000*1.05, costs[2])
	}
}

func TestMaintenanceCostsAccumulateOnCollision(t *testing.T) {
	signage := RecurringMaintenance{Amount: 1000, IntervalYears: 2}
	other := OneOffMaintenance{Amount: 500, Year: 4}
	costs := MaintenanceCosts(signage, other, 6, 0)

	want := []float64{0, 0, 1000, 0, 1500, 0, 1000}
	for year := 0; year <= 6; year++ {
		if costs[year] != want[year] {
			t.Fatalf("year %d: expected %v, got %v", year, want[year], costs[year])
		}
	}
}

func TestMaintenanceCostsInflationIndexed(t *testing.T) {
	signage := RecurringMaintenance{Amount: 1000, IntervalYears: 3}
	costs := MaintenanceCosts(signage, OneOffMaintenance{}, 3, 0.10)
	want := 1000 * 1.10 * 1.10
	if math.Abs(costs[3]-want) > 1e-9 {
		t.Fatalf("expected inflated signage cost %v, got %v", want, costs[3])
	}
}

func TestRentalIncomeSumsOverlappingStreams(t *testing.T) {
	streams := []RentalStream{
		{StartYear: 1, EndYear: 3, MonthlyRent: 100},
		{StartYear: 2, EndYear: 5, MonthlyRent: 50},
	}
	income := RentalIncome(streams, 5, 0)
	want := []float64{0, 1200, 1800, 1800, 600, 600}
	for year := 0; year <= 5; year++ {
		if income[year] != want[year] {
			t.Fatalf("year %d: expected %v, got %v", year, want[year], income[year])
		}
	}
}

func TestAssembleCashFlowsTaxAsymmetry(t *testing.T) {
	breakdown := YearlyBreakdown{
		TotalRevenue:   []float64{0, 100, 1000},
		OperatingCosts: []float64{0, 500, 500},
		Insurance:      []float64{0, 0, 0},
		Maintenance:    []float64{0, 0, 0},
		RentalIncome:   []float64{0, 0, 0},
	}
	flows := AssembleCashFlows(2000, breakdown, 0.30, 2)

	if flows[0] != -2000 {
		t.Fatalf("expected year 0 flow -2000, got %v", flows[0])
	}
	// Year 1 is a loss: no tax credit, the loss passes through whole.
	if flows[1] != -400 {
		t.Fatalf("expected untaxed loss -400, got %v", flows[1])
	}
	// Year 2 is a gain: taxed at 30%.
	if flows[2] != 500*0.70 {
		t.Fatalf("expected taxed gain 350, got %v", flows[2])
	}
}
