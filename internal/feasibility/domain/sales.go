package feasibility

import "math"

const daysPerYear = 365

// ProjectVolume compounds a base daily volume across the horizon using a
// dense growth table. The returned series is indexed 0..horizon; year 0 is
// the annualized base (daily volume times 365), and every later year grows
// the previous one by that year's rate. A zero base stays zero throughout.
func ProjectVolume(baseDailyVolume float64, growth []float64, horizon int) []float64 {
	series := make([]float64, horizon+1)
	series[0] = baseDailyVolume * daysPerYear
	for year := 1; year <= horizon; year++ {
		series[year] = series[year-1] * (1 + growth[year])
	}
	return series
}

// ProjectRevenue prices a volume series with a dense margin table, indexing
// margins for inflation with exponent (year-1).
//
// Year 0 deliberately uses the year-1 margin without inflation: year 0
// represents sales at current pricing, not a projected year. The (year-1)
// exponent applies to every later year's margin regardless of whether that
// margin was supplied directly or interpolated.
func ProjectRevenue(volumes []float64, margins []float64, horizon int, inflationRate float64) []float64 {
	series := make([]float64, horizon+1)
	series[0] = volumes[0] * margins[1]
	for year := 1; year <= horizon; year++ {
		margin := margins[year] * math.Pow(1+inflationRate, float64(year-1))
		series[year] = volumes[year] * margin
	}
	return series
}
