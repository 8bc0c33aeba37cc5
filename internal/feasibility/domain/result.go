package feasibility

import "time"

// ProjectionResult is the full outcome of one (subject, scenario) run.
// It is constructed once by the engine, owns no references back to its
// inputs, and is immutable after construction.
type ProjectionResult struct {
	ID         string    `json:"id,omitempty"`
	SubjectID  string    `json:"subject_id,omitempty"`
	ScenarioID string    `json:"scenario_id,omitempty"`
	RunAt      time.Time `json:"run_at,omitempty"`

	HorizonYears      int     `json:"horizon_years"`
	InitialInvestment float64 `json:"initial_investment"`

	// Vectors indexed 0..horizon; index 0 is the investment year.
	CashFlows           []float64 `json:"cash_flows"`
	DiscountedCashFlows []float64 `json:"discounted_cash_flows"`
	CumulativeCashFlows []float64 `json:"cumulative_cash_flows"`

	Breakdown YearlyBreakdown `json:"breakdown"`

	NPV float64 `json:"npv"`
	// IRR, PaybackPeriod and DiscountedPaybackPeriod are nil when the
	// metric is undefined for this cash-flow shape.
	IRR                     *float64 `json:"irr"`
	MIRR                    float64  `json:"mirr"`
	PaybackPeriod           *float64 `json:"payback_period"`
	DiscountedPaybackPeriod *float64 `json:"discounted_payback_period"`

	TotalCashInflow    float64  `json:"total_cash_inflow"`
	ProfitabilityIndex *float64 `json:"profitability_index"`
}
