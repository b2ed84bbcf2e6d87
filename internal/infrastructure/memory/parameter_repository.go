// Package memory provides in-process repositories used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
)

// ParameterRepository stores risk parameters in a map.
type ParameterRepository struct {
	params map[string]model.RiskParameter
	mu     sync.RWMutex
}

// NewParameterRepository creates a repository seeded with params.
func NewParameterRepository(seed []model.RiskParameter) *ParameterRepository {
	r := &ParameterRepository{params: make(map[string]model.RiskParameter, len(seed))}
	for _, p := range seed {
		r.params[p.ID()] = p
	}
	return r
}

func (r *ParameterRepository) FindByID(_ context.Context, id string) (model.RiskParameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.params[id]
	if !ok {
		return model.RiskParameter{}, &model.NotFoundError{Resource: "risk parameter", ID: id}
	}
	return p, nil
}

func (r *ParameterRepository) FindAll(_ context.Context) ([]model.RiskParameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.RiskParameter, 0, len(r.params))
	for _, p := range r.params {
		out = append(out, p)
	}
	return out, nil
}

func (r *ParameterRepository) Update(_ context.Context, id string, mutate port.ParameterMutation) (model.RiskParameter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.params[id]
	if !ok {
		return model.RiskParameter{}, &model.NotFoundError{Resource: "risk parameter", ID: id}
	}
	next, err := mutate(current)
	if err != nil {
		return model.RiskParameter{}, err
	}
	r.params[id] = next
	return next, nil
}

// SaveAll replaces the stored set with params.
func (r *ParameterRepository) SaveAll(_ context.Context, params []model.RiskParameter) error {
	next := make(map[string]model.RiskParameter, len(params))
	for _, p := range params {
		next[p.ID()] = p
	}

	r.mu.Lock()
	r.params = next
	r.mu.Unlock()
	return nil
}
