package feasibility

import (
	"math"
	"testing"
)

func TestProjectVolumeAnnualizesBaseYear(t *testing.T) {
	growth := UniformRate(0.05).Densify(10, 0)
	volumes := ProjectVolume(1000, growth, 10)
	if volumes[0] != 365000 {
		t.Fatalf("expected year 0 volume 365000, got %v", volumes[0])
	}
	if math.Abs(volumes[1]-365000*1.05) > 1e-9 {
		t.Fatalf("expected year 1 volume %v, got %v", 365000*1.05, volumes[1])
	}
	// Growth compounds off the prior year, not the base.
	if math.Abs(volumes[3]-365000*1.05*1.05*1.05) > 1e-6 {
		t.Fatalf("expected compounded year 3 volume, got %v", volumes[3])
	}
}

func TestProjectVolumeZeroBaseStaysZero(t *testing.T) {
	growth := UniformRate(0.50).Densify(5, 0)
	volumes := ProjectVolume(0, growth, 5)
	for year, v := range volumes {
		if v != 0 {
			t.Fatalf("year %d: expected 0 volume, got %v", year, v)
		}
	}
}

func TestProjectVolumeNegativeGrowthShrinks(t *testing.T) {
	growth := UniformRate(-0.10).Densify(2, 0)
	volumes := ProjectVolume(100, growth, 2)
	if math.Abs(volumes[2]-100*365*0.9*0.9) > 1e-9 {
		t.Fatalf("expected shrinking series, got %v", volumes[2])
	}
}

func TestProjectRevenueYearZeroUsesUninflatedFirstMargin(t *testing.T) {
	margins := PerYearRates(map[int]float64{1: 5.0, 4: 8.0}).Densify(4, 0)
	volumes := []float64{1000, 1000, 1000, 1000, 1000}
	revenue := ProjectRevenue(volumes, margins, 4, 0.10)

	// Year 0 sells at current pricing: year-1 margin, no inflation.
	if revenue[0] != 1000*5.0 {
		t.Fatalf("expected year 0 revenue 5000, got %v", revenue[0])
	}
	// Year 1 margin carries exponent 0.
	if revenue[1] != 1000*5.0 {
		t.Fatalf("expected year 1 revenue 5000, got %v", revenue[1])
	}
	// Year 3 margin is interpolated (7.0) then inflated with exponent 2.
	want := 1000 * 7.0 * 1.10 * 1.10
	if math.Abs(revenue[3]-want) > 1e-9 {
		t.Fatalf("expected year 3 revenue %v, got %v", want, revenue[3])
	}
}
