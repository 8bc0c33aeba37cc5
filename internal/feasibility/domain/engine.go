package feasibility

// Engine runs feasibility projections. It is stateless apart from the
// defaults table and safe for concurrent use; every run allocates fresh
// output and performs no I/O.
type Engine struct {
	defaults      Defaults
	insuranceRate float64
}

// EngineOption adjusts engine construction.
type EngineOption func(*Engine)

// WithInsuranceRate sets the insurance rate applied when a scenario
// carries none.
func WithInsuranceRate(rate float64) EngineOption {
	return func(e *Engine) { e.insuranceRate = rate }
}

// NewEngine constructs an engine with a defaults table. A nil table falls
// back to the builtin assumptions per product.
func NewEngine(defaults Defaults, opts ...EngineOption) *Engine {
	e := &Engine{defaults: defaults, insuranceRate: DefaultInsuranceRate}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) insuranceRateFor(scenario Scenario) float64 {
	if scenario.InsuranceRate != nil {
		return *scenario.InsuranceRate
	}
	return e.insuranceRate
}

// Project runs the full projection for one subject under one scenario.
// Validation failures abort the run; degenerate metric shapes do not — the
// affected metric is left undefined and everything else is returned.
func (e *Engine) Project(subject Subject, scenario Scenario) (*ProjectionResult, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	horizon := scenario.HorizonYears

	breakdown := YearlyBreakdown{
		Volumes:      make(map[Product][]float64, len(Products())),
		Revenues:     make(map[Product][]float64, len(Products())),
		TotalRevenue: make([]float64, horizon+1),
	}

	for _, product := range Products() {
		def := e.defaults.For(product)
		growth := scenario.GrowthSchedule(product).Densify(horizon, def.GrowthRate)
		margins := scenario.MarginSchedule(product).Densify(horizon, def.Margin)

		volumes := ProjectVolume(subject.BaseDailyVolume(product), growth, horizon)
		revenues := ProjectRevenue(volumes, margins, horizon, scenario.InflationRate)

		breakdown.Volumes[product] = volumes
		breakdown.Revenues[product] = revenues
		for year := 0; year <= horizon; year++ {
			breakdown.TotalRevenue[year] += revenues[year]
		}
	}

	breakdown.OperatingCosts = OperatingCosts(subject.MonthlyOperatingCost, horizon, scenario.InflationRate)
	breakdown.Insurance = InsuranceCosts(subject.InitialInvestment, e.insuranceRateFor(scenario), horizon, scenario.InflationRate)
	breakdown.Maintenance = MaintenanceCosts(scenario.SignageMaintenance, scenario.OtherMaintenance, horizon, scenario.InflationRate)
	breakdown.RentalIncome = RentalIncome(subject.RentalStreams, horizon, scenario.InflationRate)

	flows := AssembleCashFlows(subject.InitialInvestment, breakdown, scenario.TaxRate, horizon)

	result := &ProjectionResult{
		SubjectID:           subject.ID,
		ScenarioID:          scenario.ID,
		HorizonYears:        horizon,
		InitialInvestment:   subject.InitialInvestment,
		CashFlows:           flows,
		DiscountedCashFlows: DiscountedFlows(flows, scenario.DiscountRate),
		CumulativeCashFlows: CumulativeFlows(flows),
		Breakdown:           breakdown,
		NPV:                 NPV(flows, scenario.DiscountRate),
		IRR:                 IRR(flows),
		MIRR:                MIRR(flows, scenario.DiscountRate, scenario.EffectiveReinvestmentRate()),
		PaybackPeriod:       PaybackPeriod(flows),
	}
	result.DiscountedPaybackPeriod = PaybackPeriod(result.DiscountedCashFlows)

	for _, cf := range flows[1:] {
		if cf > 0 {
			result.TotalCashInflow += cf
		}
	}
	if subject.InitialInvestment > 0 {
		index := (result.NPV + subject.InitialInvestment) / subject.InitialInvestment
		result.ProfitabilityIndex = &index
	}

	return result, nil
}
