package memory

import (
	"context"
	"sort"
	"sync"

	feasibility "dealer-feasibility/internal/feasibility/domain"
)

// SubjectRepository is an in-memory subject store.
type SubjectRepository struct {
	mu   sync.RWMutex
	data map[string]feasibility.Subject
}

// NewSubjectRepository constructs a repository.
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{data: make(map[string]feasibility.Subject)}
}

// Save stores a subject keyed by id (overwrites existing).
func (r *SubjectRepository) Save(ctx context.Context, subject feasibility.Subject) error {
	_ = ctx
	if subject.ID == "" {
		return feasibility.ErrInvalidSubject
	}
	r.mu.Lock()
	r.data[subject.ID] = subject
	r.mu.Unlock()
	return nil
}

// Get loads a subject by id.
func (r *SubjectRepository) Get(ctx context.Context, id string) (*feasibility.Subject, error) {
	_ = ctx
	r.mu.RLock()
	subject, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, feasibility.ErrSubjectNotFound
	}
	return &subject, nil
}

// ScenarioRepository is an in-memory scenario store.
type ScenarioRepository struct {
	mu   sync.RWMutex
	data map[string]feasibility.Scenario
}

// NewScenarioRepository constructs a repository.
func NewScenarioRepository() *ScenarioRepository {
	return &ScenarioRepository{data: make(map[string]feasibility.Scenario)}
}

// Save stores a scenario keyed by id (overwrites existing).
func (r *ScenarioRepository) Save(ctx context.Context, scenario feasibility.Scenario) error {
	_ = ctx
	if scenario.ID == "" {
		return feasibility.ErrInvalidScenario
	}
	r.mu.Lock()
	r.data[scenario.ID] = scenario
	r.mu.Unlock()
	return nil
}

// Get loads a scenario by id.
func (r *ScenarioRepository) Get(ctx context.Context, id string) (*feasibility.Scenario, error) {
	_ = ctx
	r.mu.RLock()
	scenario, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, feasibility.ErrScenarioNotFound
	}
	return &scenario, nil
}

// ResultRepository is an in-memory projection result store.
type ResultRepository struct {
	mu   sync.RWMutex
	data map[string]*feasibility.ProjectionResult
}

// NewResultRepository constructs a repository.
func NewResultRepository() *ResultRepository {
	return &ResultRepository{data: make(map[string]*feasibility.ProjectionResult)}
}

// Save stores a result keyed by run id.
func (r *ResultRepository) Save(ctx context.Context, result *feasibility.ProjectionResult) error {
	_ = ctx
	if result == nil || result.ID == "" {
		return feasibility.ErrResultNotFound
	}
	stored := *result
	r.mu.Lock()
	r.data[result.ID] = &stored
	r.mu.Unlock()
	return nil
}

// Get loads a result by run id.
func (r *ResultRepository) Get(ctx context.Context, id string) (*feasibility.ProjectionResult, error) {
	_ = ctx
	r.mu.RLock()
	result, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, feasibility.ErrResultNotFound
	}
	stored := *result
	return &stored, nil
}

// ListBySubject returns results for a subject, newest first.
func (r *ResultRepository) ListBySubject(ctx context.Context, subjectID string) ([]*feasibility.ProjectionResult, error) {
	_ = ctx
	r.mu.RLock()
	results := make([]*feasibility.ProjectionResult, 0)
	for _, result := range r.data {
		if result.SubjectID == subjectID {
			stored := *result
			results = append(results, &stored)
		}
	}
	r.mu.RUnlock()
	sort.Slice(results, func(i, j int) bool {
		return results[i].RunAt.After(results[j].RunAt)
	})
	return results, nil
}
