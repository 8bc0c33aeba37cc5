package feasibility

import "fmt"

// DefaultInsuranceRate applies when a scenario carries no insurance rate.
const DefaultInsuranceRate = 0.01

// RecurringMaintenance is a maintenance charge that recurs every
// IntervalYears over the horizon (year % interval == 0).
type RecurringMaintenance struct {
	Amount        float64 `json:"amount"`
	IntervalYears int     `json:"interval_years"`
}

// OneOffMaintenance is a maintenance charge that lands on a single year.
type OneOffMaintenance struct {
	Amount float64 `json:"amount"`
	Year   int     `json:"year"`
}

// Scenario carries the assumptions of one projection run. Immutable input
// snapshot, same ownership rules as Subject.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	DiscountRate  float64 `json:"discount_rate"`
	InflationRate float64 `json:"inflation_rate"`
	TaxRate       float64 `json:"tax_rate"`

	// ReinvestmentRate feeds MIRR; nil means reinvest at the discount rate.
	ReinvestmentRate *float64 `json:"reinvestment_rate,omitempty"`

	// InsuranceRate is applied to the initial investment each year;
	// nil means DefaultInsuranceRate.
	InsuranceRate *float64 `json:"insurance_rate,omitempty"`

	HorizonYears int `json:"horizon_years"`

	GrowthRates map[Product]RateSchedule `json:"growth_rates"`
	Margins     map[Product]RateSchedule `json:"margins"`

	SignageMaintenance RecurringMaintenance `json:"signage_maintenance"`
	OtherMaintenance   OneOffMaintenance    `json:"other_maintenance"`
}

// GrowthSchedule returns the growth schedule for a product, possibly empty.
func (s Scenario) GrowthSchedule(product Product) RateSchedule {
	if s.GrowthRates == nil {
		return RateSchedule{}
	}
	return s.GrowthRates[product]
}

// MarginSchedule returns the margin schedule for a product, possibly empty.
func (s Scenario) MarginSchedule(product Product) RateSchedule {
	if s.Margins == nil {
		return RateSchedule{}
	}
	return s.Margins[product]
}

// EffectiveReinvestmentRate resolves the optional reinvestment rate.
func (s Scenario) EffectiveReinvestmentRate() float64 {
	if s.ReinvestmentRate != nil {
		return *s.ReinvestmentRate
	}
	return s.DiscountRate
}

// Validate checks the scenario at the engine boundary. Violations wrap
// ErrInvalidScenario and name the offending field.
func (s Scenario) Validate() error {
	if s.HorizonYears < 1 {
		return fmt.Errorf("%w: horizon_years must be at least 1", ErrInvalidScenario)
	}
	for product := range s.GrowthRates {
		if _, err := ParseProduct(string(product)); err != nil {
			return fmt.Errorf("%w: growth_rates key %q", ErrInvalidScenario, product)
		}
	}
	for product := range s.Margins {
		if _, err := ParseProduct(string(product)); err != nil {
			return fmt.Errorf("%w: margins key %q", ErrInvalidScenario, product)
		}
	}
	if s.SignageMaintenance.Amount != 0 && s.SignageMaintenance.IntervalYears < 1 {
		return fmt.Errorf("%w: signage_maintenance.interval_years must be at least 1", ErrInvalidScenario)
	}
	if s.OtherMaintenance.Amount != 0 {
		if s.OtherMaintenance.Year < 1 || s.OtherMaintenance.Year > s.HorizonYears {
			return fmt.Errorf("%w: other_maintenance.year outside [1, horizon]", ErrInvalidScenario)
		}
	}
	return nil
}
