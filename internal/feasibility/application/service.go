package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	feasibility "dealer-feasibility/internal/feasibility/domain"
	"dealer-feasibility/internal/observability/metrics"
)

// SubjectRepository stores and loads subjects.
type SubjectRepository interface {
	Save(ctx context.Context, subject feasibility.Subject) error
	Get(ctx context.Context, id string) (*feasibility.Subject, error)
}

// ScenarioRepository stores and loads scenarios.
type ScenarioRepository interface {
	Save(ctx context.Context, scenario feasibility.Scenario) error
	Get(ctx context.Context, id string) (*feasibility.Scenario, error)
}

// ResultRepository persists and loads projection results.
type ResultRepository interface {
	Save(ctx context.Context, result *feasibility.ProjectionResult) error
	Get(ctx context.Context, id string) (*feasibility.ProjectionResult, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*feasibility.ProjectionResult, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ProjectionService runs feasibility projections against stored subjects
// and scenarios.
type ProjectionService struct {
	subjects  SubjectRepository
	scenarios ScenarioRepository
	results   ResultRepository
	engine    *feasibility.Engine
	clock     Clock
	logger    *log.Logger

	defaultHorizon         int
	defaultSignageInterval int
}

// ServiceOption adjusts service construction.
type ServiceOption func(*ProjectionService)

// WithDefaultHorizon sets the horizon applied to scenarios saved
// without one.
func WithDefaultHorizon(years int) ServiceOption {
	return func(s *ProjectionService) { s.defaultHorizon = years }
}

// WithDefaultSignageInterval sets the recurrence interval applied to
// scenarios saved with a signage maintenance amount but no interval.
func WithDefaultSignageInterval(years int) ServiceOption {
	return func(s *ProjectionService) { s.defaultSignageInterval = years }
}

// NewProjectionService constructs the service.
func NewProjectionService(
	subjects SubjectRepository,
	scenarios ScenarioRepository,
	results ResultRepository,
	engine *feasibility.Engine,
	clock Clock,
	logger *log.Logger,
	opts ...ServiceOption,
) (*ProjectionService, error) {
	if subjects == nil {
		return nil, errors.New("projection service: nil subject repository")
	}
	if scenarios == nil {
		return nil, errors.New("projection service: nil scenario repository")
	}
	if results == nil {
		return nil, errors.New("projection service: nil result repository")
	}
	if engine == nil {
		return nil, errors.New("projection service: nil engine")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	service := &ProjectionService{
		subjects:  subjects,
		scenarios: scenarios,
		results:   results,
		engine:    engine,
		clock:     clock,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Run projects one stored subject under one stored scenario and persists
// the result. The persisted record supersedes earlier runs of the same
// (subject, scenario) pair for listing purposes; old runs stay queryable
// by id.
func (s *ProjectionService) Run(ctx context.Context, subjectID, scenarioID string) (*feasibility.ProjectionResult, error) {
	start := s.clock.Now()

	result, err := s.runOnce(ctx, subjectID, scenarioID)
	if err != nil {
		metrics.ObserveProjectionRun("error", s.clock.Now().Sub(start))
		return nil, err
	}

	result.ID = newRunID()
	result.RunAt = s.clock.Now()
	if err := s.results.Save(ctx, result); err != nil {
		metrics.ObserveProjectionRun("error", s.clock.Now().Sub(start))
		return nil, err
	}

	s.observeUndefinedMetrics(result)
	metrics.ObserveProjectionRun("success", s.clock.Now().Sub(start))
	if s.logger != nil {
		s.logger.Printf("projection run: subject=%s scenario=%s result=%s npv=%.2f", subjectID, scenarioID, result.ID, result.NPV)
	}
	return result, nil
}

// Compare projects one subject under several scenarios and returns the
// results side by side. Comparison runs are ephemeral and not persisted.
func (s *ProjectionService) Compare(ctx context.Context, subjectID string, scenarioIDs []string) ([]*feasibility.ProjectionResult, error) {
	start := s.clock.Now()
	if len(scenarioIDs) == 0 {
		return nil, errors.New("projection service: no scenarios to compare")
	}

	results := make([]*feasibility.ProjectionResult, 0, len(scenarioIDs))
	for _, scenarioID := range scenarioIDs {
		result, err := s.runOnce(ctx, subjectID, scenarioID)
		if err != nil {
			metrics.ObserveCompare("error", s.clock.Now().Sub(start))
			return nil, err
		}
		results = append(results, result)
	}
	metrics.ObserveCompare("success", s.clock.Now().Sub(start))
	return results, nil
}

// Get returns a stored projection result by id.
func (s *ProjectionService) Get(ctx context.Context, id string) (*feasibility.ProjectionResult, error) {
	if id == "" {
		return nil, feasibility.ErrResultNotFound
	}
	return s.results.Get(ctx, id)
}

// ListBySubject returns stored results for a subject, newest first.
func (s *ProjectionService) ListBySubject(ctx context.Context, subjectID string) ([]*feasibility.ProjectionResult, error) {
	if subjectID == "" {
		return nil, feasibility.ErrSubjectNotFound
	}
	return s.results.ListBySubject(ctx, subjectID)
}

// SaveSubject validates and upserts a subject.
func (s *ProjectionService) SaveSubject(ctx context.Context, subject feasibility.Subject) error {
	if subject.ID == "" {
		return feasibility.ErrInvalidSubject
	}
	if err := subject.Validate(); err != nil {
		return err
	}
	return s.subjects.Save(ctx, subject)
}

// GetSubject returns a stored subject by id.
func (s *ProjectionService) GetSubject(ctx context.Context, id string) (*feasibility.Subject, error) {
	if id == "" {
		return nil, feasibility.ErrSubjectNotFound
	}
	return s.subjects.Get(ctx, id)
}

// SaveScenario validates and upserts a scenario. Omitted horizon and
// signage interval fall back to the service-wide defaults before
// validation.
func (s *ProjectionService) SaveScenario(ctx context.Context, scenario feasibility.Scenario) error {
	if scenario.ID == "" {
		return feasibility.ErrInvalidScenario
	}
	if scenario.HorizonYears == 0 && s.defaultHorizon > 0 {
		scenario.HorizonYears = s.defaultHorizon
	}
	if scenario.SignageMaintenance.Amount != 0 && scenario.SignageMaintenance.IntervalYears == 0 && s.defaultSignageInterval > 0 {
		scenario.SignageMaintenance.IntervalYears = s.defaultSignageInterval
	}
	if err := scenario.Validate(); err != nil {
		return err
	}
	return s.scenarios.Save(ctx, scenario)
}

// GetScenario returns a stored scenario by id.
func (s *ProjectionService) GetScenario(ctx context.Context, id string) (*feasibility.Scenario, error) {
	if id == "" {
		return nil, feasibility.ErrScenarioNotFound
	}
	return s.scenarios.Get(ctx, id)
}

func (s *ProjectionService) runOnce(ctx context.Context, subjectID, scenarioID string) (*feasibility.ProjectionResult, error) {
	subject, err := s.subjects.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, feasibility.ErrSubjectNotFound
	}
	scenario, err := s.scenarios.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario == nil {
		return nil, feasibility.ErrScenarioNotFound
	}
	return s.engine.Project(*subject, *scenario)
}

func (s *ProjectionService) observeUndefinedMetrics(result *feasibility.ProjectionResult) {
	if result.IRR == nil {
		metrics.IncMetricUndefined("irr")
	}
	if result.PaybackPeriod == nil {
		metrics.IncMetricUndefined("payback")
	}
	if result.DiscountedPaybackPeriod == nil {
		metrics.IncMetricUndefined("discounted_payback")
	}
}

func newRunID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "run-" + hex.EncodeToString(buf)
}
