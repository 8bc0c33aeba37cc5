package feasibility

// YearlyBreakdown carries every projected series of a run, indexed
// 0..horizon, for reporting and comparison layers.
type YearlyBreakdown struct {
	Volumes        map[Product][]float64 `json:"volumes"`
	Revenues       map[Product][]float64 `json:"revenues"`
	TotalRevenue   []float64             `json:"total_revenue"`
	OperatingCosts []float64             `json:"operating_costs"`
	Insurance      []float64             `json:"insurance"`
	Maintenance    []float64             `json:"maintenance"`
	RentalIncome   []float64             `json:"rental_income"`
}

// AssembleCashFlows combines the projected series into the net post-tax
// cash-flow vector. Index 0 is fixed to the negative initial investment and
// ignores any year-0 revenue or cost. For later years only positive pre-tax
// income is taxed; losses carry no tax credit.
func AssembleCashFlows(initialInvestment float64, breakdown YearlyBreakdown, taxRate float64, horizon int) []float64 {
	flows := make([]float64, horizon+1)
	flows[0] = -initialInvestment
	for year := 1; year <= horizon; year++ {
		pretax := breakdown.TotalRevenue[year] -
			breakdown.OperatingCosts[year] -
			breakdown.Maintenance[year] -
			breakdown.Insurance[year] +
			breakdown.RentalIncome[year]

		taxable := pretax
		if taxable < 0 {
			taxable = 0
		}
		flows[year] = pretax - taxable*taxRate
	}
	return flows
}
