package feasibility

import "math"

// inflationFactor is the cost index used across all cost series: costs for
// year y carry (1+inflation)^(y-1), so year 1 is uninflated.
func inflationFactor(inflationRate float64, year int) float64 {
	return math.Pow(1+inflationRate, float64(year-1))
}

// OperatingCosts projects the monthly operating cost across the horizon.
// Year 0 is the investment year and carries no operations.
func OperatingCosts(monthlyCost float64, horizon int, inflationRate float64) []float64 {
	series := make([]float64, horizon+1)
	for year := 1; year <= horizon; year++ {
		series[year] = monthlyCost * 12 * inflationFactor(inflationRate, year)
	}
	return series
}

// InsuranceCosts projects the yearly insurance premium on the initial
// investment. Year 0 carries none.
func InsuranceCosts(initialInvestment, insuranceRate float64, horizon int, inflationRate float64) []float64 {
	series := make([]float64, horizon+1)
	base := initialInvestment * insuranceRate
	for year := 1; year <= horizon; year++ {
		series[year] = base * inflationFactor(inflationRate, year)
	}
	return series
}

// MaintenanceCosts projects signage and other maintenance charges. Signage
// maintenance recurs on every multiple of its interval; other maintenance
// lands once on its year. Both may hit the same year and accumulate.
func MaintenanceCosts(signage RecurringMaintenance, other OneOffMaintenance, horizon int, inflationRate float64) []float64 {
	series := make([]float64, horizon+1)
	for year := 1; year <= horizon; year++ {
		if signage.Amount != 0 && signage.IntervalYears > 0 && year%signage.IntervalYears == 0 {
			series[year] += signage.Amount * inflationFactor(inflationRate, year)
		}
		if other.Amount != 0 && year == other.Year {
			series[year] += other.Amount * inflationFactor(inflationRate, year)
		}
	}
	return series
}

// RentalIncome projects side income from rental streams, summing streams
// that overlap on a year. Rents are inflation-indexed like costs.
func RentalIncome(streams []RentalStream, horizon int, inflationRate float64) []float64 {
	series := make([]float64, horizon+1)
	for year := 1; year <= horizon; year++ {
		for _, stream := range streams {
			if stream.StartYear <= year && year <= stream.EndYear {
				series[year] += stream.MonthlyRent * 12 * inflationFactor(inflationRate, year)
			}
		}
	}
	return series
}
