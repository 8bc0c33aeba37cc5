package feasibility

import "fmt"

// RentalStream is an optional side income attached to a subject, active
// for whole years start..end inclusive.
type RentalStream struct {
	StartYear   int     `json:"start_year"`
	EndYear     int     `json:"end_year"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// Subject describes the outlet under appraisal. It is an immutable input
// snapshot; the engine never mutates it.
type Subject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`

	// TenantID scopes the subject to an owning organization. Empty means
	// unscoped (single-tenant deployments).
	TenantID string `json:"tenant_id,omitempty"`

	// BaseDailyVolumes holds first-year sales in liters per day.
	BaseDailyVolumes map[Product]float64 `json:"base_daily_volumes"`

	InitialInvestment    float64 `json:"initial_investment"`
	MonthlyOperatingCost float64 `json:"monthly_operating_cost"`

	RentalStreams []RentalStream `json:"rental_streams,omitempty"`
}

// BaseDailyVolume returns the base daily volume for a product, zero when absent.
func (s Subject) BaseDailyVolume(product Product) float64 {
	if s.BaseDailyVolumes == nil {
		return 0
	}
	return s.BaseDailyVolumes[product]
}

// Validate checks the subject at the engine boundary. Violations wrap
// ErrInvalidSubject and name the offending field.
func (s Subject) Validate() error {
	for product, volume := range s.BaseDailyVolumes {
		if _, err := ParseProduct(string(product)); err != nil {
			return fmt.Errorf("%w: base_daily_volumes key %q", ErrInvalidSubject, product)
		}
		if volume < 0 {
			return fmt.Errorf("%w: base_daily_volumes[%s] is negative", ErrInvalidSubject, product)
		}
	}
	if s.InitialInvestment < 0 {
		return fmt.Errorf("%w: initial_investment is negative", ErrInvalidSubject)
	}
	if s.MonthlyOperatingCost < 0 {
		return fmt.Errorf("%w: monthly_operating_cost is negative", ErrInvalidSubject)
	}
	for i, stream := range s.RentalStreams {
		if stream.StartYear < 1 {
			return fmt.Errorf("%w: rental_streams[%d].start_year < 1", ErrInvalidSubject, i)
		}
		if stream.EndYear < stream.StartYear {
			return fmt.Errorf("%w: rental_streams[%d].end_year before start_year", ErrInvalidSubject, i)
		}
		if stream.MonthlyRent < 0 {
			return fmt.Errorf("%w: rental_streams[%d].monthly_rent is negative", ErrInvalidSubject, i)
		}
	}
	return nil
}
