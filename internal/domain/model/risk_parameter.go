package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// Thresholds are the per-parameter score boundaries. They must be strictly ascending.
type Thresholds struct {
	Low    decimal.Decimal
	Medium decimal.Decimal
	High   decimal.Decimal
}

// Validate checks that Low < Medium < High.
func (t Thresholds) Validate() error {
	if !t.Low.LessThan(t.Medium) || !t.Medium.LessThan(t.High) {
		return &ValidationError{
			Field:  "thresholds",
			Reason: "Thresholds must be in ascending order: LOW < MEDIUM < HIGH",
		}
	}
	return nil
}

// Classify maps a score onto a tier using the thresholds. Scores at or above
// High are HIGH, at or above Medium are MEDIUM, everything else LOW.
func (t Thresholds) Classify(score decimal.Decimal) valueobject.RiskTier {
	switch {
	case score.GreaterThanOrEqual(t.High):
		return valueobject.RiskTierHigh
	case score.GreaterThanOrEqual(t.Medium):
		return valueobject.RiskTierMedium
	default:
		return valueobject.RiskTierLow
	}
}

// ParameterPatch is a partial update to a RiskParameter. Nil fields are left unchanged.
type ParameterPatch struct {
	Weight      *decimal.Decimal
	Thresholds  *Thresholds
	Active      *bool
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ParameterPatch) IsEmpty() bool {
	return p.Weight == nil && p.Thresholds == nil && p.Active == nil && p.Description == nil
}

// RiskParameter is a tunable weight and threshold triple governing one risk component.
type RiskParameter struct {
	lastUpdated time.Time
	weight      decimal.Decimal
	thresholds  Thresholds
	category    valueobject.ParameterCategory
	id          string
	name        string
	description string
	updatedBy   string
	active      bool
}

// NewRiskParameter validates the inputs and returns a parameter.
func NewRiskParameter(
	id, name string,
	category valueobject.ParameterCategory,
	weight decimal.Decimal,
	thresholds Thresholds,
	active bool,
	description string,
	updatedBy string,
	now time.Time,
) (RiskParameter, error) {
	if strings.TrimSpace(id) == "" {
		return RiskParameter{}, &ValidationError{Field: "id", Reason: "is required"}
	}
	if category.IsZero() {
		return RiskParameter{}, &ValidationError{Field: "category", Reason: "is required"}
	}
	if err := validateWeight(weight); err != nil {
		return RiskParameter{}, err
	}
	if err := thresholds.Validate(); err != nil {
		return RiskParameter{}, err
	}

	return RiskParameter{
		id:          id,
		name:        name,
		category:    category,
		weight:      weight,
		thresholds:  thresholds,
		active:      active,
		description: description,
		updatedBy:   updatedBy,
		lastUpdated: now.UTC(),
	}, nil
}

// ReconstructRiskParameter rebuilds a parameter from persistence without validation.
func ReconstructRiskParameter(
	id, name string,
	category valueobject.ParameterCategory,
	weight decimal.Decimal,
	thresholds Thresholds,
	active bool,
	description string,
	updatedBy string,
	lastUpdated time.Time,
) RiskParameter {
	return RiskParameter{
		id:          id,
		name:        name,
		category:    category,
		weight:      weight,
		thresholds:  thresholds,
		active:      active,
		description: description,
		updatedBy:   updatedBy,
		lastUpdated: lastUpdated,
	}
}

func validateWeight(w decimal.Decimal) error {
	if w.IsNegative() || w.GreaterThan(decimal.NewFromInt(1)) {
		return &ValidationError{Field: "weight", Reason: "must be between 0 and 1"}
	}
	return nil
}

// WithPatch returns a copy of the parameter with the patch applied. The receiver
// is never modified; a patch that fails validation changes nothing.
func (p RiskParameter) WithPatch(patch ParameterPatch, actor string, now time.Time) (RiskParameter, error) {
	if patch.Weight != nil {
		if err := validateWeight(*patch.Weight); err != nil {
			return RiskParameter{}, err
		}
	}
	if patch.Thresholds != nil {
		if err := patch.Thresholds.Validate(); err != nil {
			return RiskParameter{}, err
		}
	}

	next := p
	if patch.Weight != nil {
		next.weight = *patch.Weight
	}
	if patch.Thresholds != nil {
		next.thresholds = *patch.Thresholds
	}
	if patch.Active != nil {
		next.active = *patch.Active
	}
	if patch.Description != nil {
		next.description = *patch.Description
	}
	next.updatedBy = actor
	next.lastUpdated = now.UTC()
	return next, nil
}

func (p RiskParameter) ID() string                              { return p.id }
func (p RiskParameter) Name() string                            { return p.name }
func (p RiskParameter) Category() valueobject.ParameterCategory { return p.category }
func (p RiskParameter) Weight() decimal.Decimal                 { return p.weight }
func (p RiskParameter) Thresholds() Thresholds                  { return p.thresholds }
func (p RiskParameter) Active() bool                            { return p.active }
func (p RiskParameter) Description() string                     { return p.description }
func (p RiskParameter) UpdatedBy() string                       { return p.updatedBy }
func (p RiskParameter) LastUpdated() time.Time                  { return p.lastUpdated }
