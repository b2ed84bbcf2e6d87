package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

var weightTolerance = decimal.RequireFromString("0.0001")

// ParameterStore manages the risk parameter table. Writers are serialized and
// snapshots never observe a partially applied change.
type ParameterStore struct {
	repo port.ParameterRepository
	now  func() time.Time
	mu   sync.RWMutex
}

// NewParameterStore creates a ParameterStore over a repository.
func NewParameterStore(repo port.ParameterRepository) *ParameterStore {
	return &ParameterStore{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the parameter with the given id.
func (s *ParameterStore) Get(ctx context.Context, id string) (model.RiskParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.FindByID(ctx, id)
}

// List returns active parameters sorted by id, optionally limited to one category.
func (s *ParameterStore) List(ctx context.Context, category *valueobject.ParameterCategory) ([]model.RiskParameter, error) {
	s.mu.RLock()
	all, err := s.repo.FindAll(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}

	out := make([]model.RiskParameter, 0, len(all))
	for _, p := range all {
		if !p.Active() {
			continue
		}
		if category != nil && !p.Category().Equal(*category) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Update applies a partial patch. Validation failures leave the stored parameter untouched.
func (s *ParameterStore) Update(ctx context.Context, id string, patch model.ParameterPatch, actor string) (model.RiskParameter, error) {
	if patch.IsEmpty() {
		return model.RiskParameter{}, &model.ValidationError{Field: "patch", Reason: "must change at least one field"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return s.repo.Update(ctx, id, func(current model.RiskParameter) (model.RiskParameter, error) {
		return current.WithPatch(patch, actor, now)
	})
}

// ValidateSet checks a candidate parameter set: each parameter must be valid and,
// per category, the active weights must sum to 1 within 1e-4.
func (s *ParameterStore) ValidateSet(params []model.RiskParameter) error {
	return ValidateParameterSet(params)
}

// ApplySet validates a complete parameter set and replaces the stored parameters
// with it in one write.
func (s *ParameterStore) ApplySet(ctx context.Context, params []model.RiskParameter, actor string) ([]model.RiskParameter, error) {
	if err := ValidateParameterSet(params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamped := make([]model.RiskParameter, 0, len(params))
	for _, p := range params {
		stamped = append(stamped, model.ReconstructRiskParameter(
			p.ID(), p.Name(), p.Category(), p.Weight(), p.Thresholds(),
			p.Active(), p.Description(), actor, now,
		))
	}
	if err := s.repo.SaveAll(ctx, stamped); err != nil {
		return nil, fmt.Errorf("failed to save parameter set: %w", err)
	}
	return stamped, nil
}

// Snapshot returns an immutable copy of the active parameters.
func (s *ParameterStore) Snapshot(ctx context.Context) (model.ParameterSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return model.ParameterSnapshot{}, fmt.Errorf("failed to snapshot parameters: %w", err)
	}
	return model.NewParameterSnapshot(all, s.now()), nil
}

// ValidateParameterSet is the pure form of ParameterStore.ValidateSet.
func ValidateParameterSet(params []model.RiskParameter) error {
	if len(params) == 0 {
		return &model.ValidationError{Field: "parameters", Reason: "must not be empty"}
	}

	seen := make(map[string]struct{}, len(params))
	sums := make(map[string]decimal.Decimal)
	var categories []string
	for _, p := range params {
		if _, dup := seen[p.ID()]; dup {
			return &model.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate parameter %s", p.ID())}
		}
		seen[p.ID()] = struct{}{}

		if _, err := model.NewRiskParameter(p.ID(), p.Name(), p.Category(), p.Weight(), p.Thresholds(),
			p.Active(), p.Description(), p.UpdatedBy(), p.LastUpdated()); err != nil {
			return err
		}
		if !p.Active() {
			continue
		}
		cat := p.Category().String()
		if _, ok := sums[cat]; !ok {
			categories = append(categories, cat)
			sums[cat] = decimal.Zero
		}
		sums[cat] = sums[cat].Add(p.Weight())
	}

	sort.Strings(categories)
	for _, cat := range categories {
		if !sumsToOne(sums[cat]) {
			return &model.ValidationError{
				Category: cat,
				Reason:   fmt.Sprintf("weights for category %s must sum to 1, got %s", cat, sums[cat].String()),
			}
		}
	}
	return nil
}

// sumsToOne reports whether a weight total equals 1 within weightTolerance.
func sumsToOne(total decimal.Decimal) bool {
	return total.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(weightTolerance)
}
