package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	feasibility "dealer-feasibility/internal/feasibility/domain"
)

// SubjectRepository persists subjects.
type SubjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository constructs a repository.
func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Save upserts a subject.
func (r *SubjectRepository) Save(ctx context.Context, subject feasibility.Subject) error {
	if r == nil || r.db == nil {
		return errors.New("subject repo: nil db")
	}
	if subject.ID == "" {
		return feasibility.ErrInvalidSubject
	}
	volumes, err := json.Marshal(subject.BaseDailyVolumes)
	if err != nil {
		return err
	}
	streams, err := json.Marshal(subject.RentalStreams)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO feasibility_subjects (
	id, tenant_id, name, location, base_daily_volumes, initial_investment,
	monthly_operating_cost, rental_streams, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
ON CONFLICT (id) DO UPDATE SET
	tenant_id = EXCLUDED.tenant_id,
	name = EXCLUDED.name,
	location = EXCLUDED.location,
	base_daily_volumes = EXCLUDED.base_daily_volumes,
	initial_investment = EXCLUDED.initial_investment,
	monthly_operating_cost = EXCLUDED.monthly_operating_cost,
	rental_streams = EXCLUDED.rental_streams,
	updated_at = NOW()`,
		subject.ID, subject.TenantID, subject.Name, subject.Location, volumes,
		subject.InitialInvestment, subject.MonthlyOperatingCost, streams,
	)
	return err
}

// Get loads a subject by id.
func (r *SubjectRepository) Get(ctx context.Context, id string) (*feasibility.Subject, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("subject repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, name, location, base_daily_volumes, initial_investment,
	monthly_operating_cost, rental_streams
FROM feasibility_subjects
WHERE id = $1`, id)

	var subject feasibility.Subject
	var volumes, streams []byte
	err := row.Scan(&subject.ID, &subject.TenantID, &subject.Name, &subject.Location, &volumes,
		&subject.InitialInvestment, &subject.MonthlyOperatingCost, &streams)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feasibility.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(volumes, &subject.BaseDailyVolumes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(streams, &subject.RentalStreams); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ScenarioRepository persists scenarios.
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository constructs a repository.
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Save upserts a scenario.
func (r *ScenarioRepository) Save(ctx context.Context, scenario feasibility.Scenario) error {
	if r == nil || r.db == nil {
		return errors.New("scenario repo: nil db")
	}
	if scenario.ID == "" {
		return feasibility.ErrInvalidScenario
	}
	growth, err := json.Marshal(scenario.GrowthRates)
	if err != nil {
		return err
	}
	margins, err := json.Marshal(scenario.Margins)
	if err != nil {
		return err
	}
	signage, err := json.Marshal(scenario.SignageMaintenance)
	if err != nil {
		return err
	}
	other, err := json.Marshal(scenario.OtherMaintenance)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO feasibility_scenarios (
	id, name, description, discount_rate, inflation_rate, tax_rate,
	reinvestment_rate, insurance_rate, horizon_years,
	growth_rates, margins, signage_maintenance, other_maintenance, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	discount_rate = EXCLUDED.discount_rate,
	inflation_rate = EXCLUDED.inflation_rate,
	tax_rate = EXCLUDED.tax_rate,
	reinvestment_rate = EXCLUDED.reinvestment_rate,
	insurance_rate = EXCLUDED.insurance_rate,
	horizon_years = EXCLUDED.horizon_years,
	growth_rates = EXCLUDED.growth_rates,
	margins = EXCLUDED.margins,
	signage_maintenance = EXCLUDED.signage_maintenance,
	other_maintenance = EXCLUDED.other_maintenance,
	updated_at = NOW()`,
		scenario.ID, scenario.Name, scenario.Description,
		scenario.DiscountRate, scenario.InflationRate, scenario.TaxRate,
		nullableFloat(scenario.ReinvestmentRate), nullableFloat(scenario.InsuranceRate),
		scenario.HorizonYears, growth, margins, signage, other,
	)
	return err
}

// Get loads a scenario by id.
func (r *ScenarioRepository) Get(ctx context.Context, id string) (*feasibility.Scenario, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("scenario repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, description, discount_rate, inflation_rate, tax_rate,
	reinvestment_rate, insurance_rate, horizon_years,
	growth_rates, margins, signage_maintenance, other_maintenance
FROM feasibility_scenarios
WHERE id = $1`, id)

	var scenario feasibility.Scenario
	var reinvestment, insurance sql.NullFloat64
	var growth, margins, signage, other []byte
	err := row.Scan(&scenario.ID, &scenario.Name, &scenario.Description,
		&scenario.DiscountRate, &scenario.InflationRate, &scenario.TaxRate,
		&reinvestment, &insurance, &scenario.HorizonYears,
		&growth, &margins, &signage, &other)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feasibility.ErrScenarioNotFound
	}
	if err != nil {
		return nil, err
	}
	if reinvestment.Valid {
		scenario.ReinvestmentRate = &reinvestment.Float64
	}
	if insurance.Valid {
		scenario.InsuranceRate = &insurance.Float64
	}
	if err := json.Unmarshal(growth, &scenario.GrowthRates); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(margins, &scenario.Margins); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(signage, &scenario.SignageMaintenance); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(other, &scenario.OtherMaintenance); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ResultRepository persists projection results.
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository constructs a repository.
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts a projection result.
func (r *ResultRepository) Save(ctx context.Context, result *feasibility.ProjectionResult) error {
	if r == nil || r.db == nil {
		return errors.New("result repo: nil db")
	}
	if result == nil || result.ID == "" {
		return feasibility.ErrResultNotFound
	}
	flows, err := json.Marshal(result.CashFlows)
	if err != nil {
		return err
	}
	discounted, err := json.Marshal(result.DiscountedCashFlows)
	if err != nil {
		return err
	}
	cumulative, err := json.Marshal(result.CumulativeCashFlows)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO feasibility_results (
	id, subject_id, scenario_id, run_at, horizon_years, initial_investment,
	npv, irr, mirr, payback_period, discounted_payback_period,
	total_cash_inflow, profitability_index,
	cash_flows, discounted_cash_flows, cumulative_cash_flows, breakdown
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		result.ID, result.SubjectID, result.ScenarioID, result.RunAt,
		result.HorizonYears, result.InitialInvestment,
		result.NPV, nullableFloat(result.IRR), result.MIRR,
		nullableFloat(result.PaybackPeriod), nullableFloat(result.DiscountedPaybackPeriod),
		result.TotalCashInflow, nullableFloat(result.ProfitabilityIndex),
		flows, discounted, cumulative, breakdown,
	)
	return err
}

// Get loads a result by run id.
func (r *ResultRepository) Get(ctx context.Context, id string) (*feasibility.ProjectionResult, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("result repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, resultSelect+` WHERE id = $1`, id)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feasibility.ErrResultNotFound
	}
	return result, err
}

// ListBySubject loads results for a subject, newest first.
func (r *ResultRepository) ListBySubject(ctx context.Context, subjectID string) ([]*feasibility.ProjectionResult, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("result repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, resultSelect+` WHERE subject_id = $1 ORDER BY run_at DESC`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*feasibility.ProjectionResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

const resultSelect = `
SELECT id, subject_id, scenario_id, run_at, horizon_years, initial_investment,
	npv, irr, mirr, payback_period, discounted_payback_period,
	total_cash_inflow, profitability_index,
	cash_flows, discounted_cash_flows, cumulative_cash_flows, breakdown
FROM feasibility_results`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*feasibility.ProjectionResult, error) {
	var result feasibility.ProjectionResult
	var runAt time.Time
	var irr, payback, discountedPayback, profitability sql.NullFloat64
	var flows, discounted, cumulative, breakdown []byte
	err := row.Scan(&result.ID, &result.SubjectID, &result.ScenarioID, &runAt,
		&result.HorizonYears, &result.InitialInvestment,
		&result.NPV, &irr, &result.MIRR, &payback, &discountedPayback,
		&result.TotalCashInflow, &profitability,
		&flows, &discounted, &cumulative, &breakdown)
	if err != nil {
		return nil, err
	}
	result.RunAt = runAt
	if irr.Valid {
		result.IRR = &irr.Float64
	}
	if payback.Valid {
		result.PaybackPeriod = &payback.Float64
	}
	if discountedPayback.Valid {
		result.DiscountedPaybackPeriod = &discountedPayback.Float64
	}
	if profitability.Valid {
		result.ProfitabilityIndex = &profitability.Float64
	}
	if err := json.Unmarshal(flows, &result.CashFlows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(discounted, &result.DiscountedCashFlows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cumulative, &result.CumulativeCashFlows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &result.Breakdown); err != nil {
		return nil, err
	}
	return &result, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
