package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// ComponentScore records how a single risk component contributed to an assessment.
type ComponentScore struct {
	Component  valueobject.RiskComponent
	Tier       valueobject.RiskTier
	Raw        decimal.Decimal
	Normalized decimal.Decimal
	Weight     decimal.Decimal
}

// Contribution is the weighted share of the overall score.
func (c ComponentScore) Contribution() decimal.Decimal {
	return c.Weight.Mul(c.Normalized)
}

// AssessmentParams carries everything needed to build a RiskAssessment.
type AssessmentParams struct {
	AssessedAt            time.Time
	ParametersTakenAt     time.Time
	CustomerType          valueobject.CustomerType
	Tier                  valueobject.RiskTier
	PreviousTier          valueobject.RiskTier
	OverallScore          decimal.Decimal
	AssessedBy            string
	Trigger               string
	Components            []ComponentScore
	Factors               []string
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	DocumentationRequired bool
}

// RiskAssessment is the immutable outcome of assessing one customer.
type RiskAssessment struct {
	assessedAt            time.Time
	parametersTakenAt     time.Time
	customerType          valueobject.CustomerType
	tier                  valueobject.RiskTier
	previousTier          valueobject.RiskTier
	overallScore          decimal.Decimal
	assessedBy            string
	trigger               string
	components            []ComponentScore
	factors               []string
	id                    uuid.UUID
	customerID            uuid.UUID
	documentationRequired bool
}

// NewRiskAssessment builds an assessment, copying all slices.
func NewRiskAssessment(p AssessmentParams) (*RiskAssessment, error) {
	if p.CustomerID == uuid.Nil {
		return nil, &ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if p.Tier.IsZero() {
		return nil, &ValidationError{Field: "tier", Reason: "is required"}
	}
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &RiskAssessment{
		id:                    id,
		customerID:            p.CustomerID,
		customerType:          p.CustomerType,
		tier:                  p.Tier,
		previousTier:          p.PreviousTier,
		overallScore:          p.OverallScore,
		components:            append([]ComponentScore(nil), p.Components...),
		factors:               append([]string(nil), p.Factors...),
		documentationRequired: p.DocumentationRequired,
		assessedAt:            p.AssessedAt.UTC(),
		assessedBy:            p.AssessedBy,
		trigger:               p.Trigger,
		parametersTakenAt:     p.ParametersTakenAt.UTC(),
	}, nil
}

// ReconstructRiskAssessment rebuilds an assessment from persistence.
func ReconstructRiskAssessment(p AssessmentParams) *RiskAssessment {
	return &RiskAssessment{
		id:                    p.ID,
		customerID:            p.CustomerID,
		customerType:          p.CustomerType,
		tier:                  p.Tier,
		previousTier:          p.PreviousTier,
		overallScore:          p.OverallScore,
		components:            append([]ComponentScore(nil), p.Components...),
		factors:               append([]string(nil), p.Factors...),
		documentationRequired: p.DocumentationRequired,
		assessedAt:            p.AssessedAt,
		assessedBy:            p.AssessedBy,
		trigger:               p.Trigger,
		parametersTakenAt:     p.ParametersTakenAt,
	}
}

func (a *RiskAssessment) ID() uuid.UUID                          { return a.id }
func (a *RiskAssessment) CustomerID() uuid.UUID                  { return a.customerID }
func (a *RiskAssessment) CustomerType() valueobject.CustomerType { return a.customerType }
func (a *RiskAssessment) Tier() valueobject.RiskTier             { return a.tier }
func (a *RiskAssessment) PreviousTier() valueobject.RiskTier     { return a.previousTier }
func (a *RiskAssessment) OverallScore() decimal.Decimal          { return a.overallScore }
func (a *RiskAssessment) DocumentationRequired() bool            { return a.documentationRequired }
func (a *RiskAssessment) AssessedAt() time.Time                  { return a.assessedAt }
func (a *RiskAssessment) AssessedBy() string                     { return a.assessedBy }
func (a *RiskAssessment) Trigger() string                        { return a.trigger }
func (a *RiskAssessment) ParametersTakenAt() time.Time           { return a.parametersTakenAt }

// Components returns a copy of the per-component scores.
func (a *RiskAssessment) Components() []ComponentScore {
	return append([]ComponentScore(nil), a.components...)
}

// Component returns the score for one component.
func (a *RiskAssessment) Component(c valueobject.RiskComponent) (ComponentScore, bool) {
	for _, cs := range a.components {
		if cs.Component.Equal(c) {
			return cs, true
		}
	}
	return ComponentScore{}, false
}

// Factors returns a copy of the qualitative risk factors.
func (a *RiskAssessment) Factors() []string {
	return append([]string(nil), a.factors...)
}

// HasFactor reports whether the factor was flagged.
func (a *RiskAssessment) HasFactor(f string) bool {
	for _, x := range a.factors {
		if x == f {
			return true
		}
	}
	return false
}

// DueDiligence returns the due-diligence level mandated by the tier.
func (a *RiskAssessment) DueDiligence() valueobject.DueDiligenceLevel {
	return a.tier.DueDiligence()
}

// RequiresReview reports whether the tier rose above the previously held tier.
// A first assessment (no previous tier) never requires review.
func (a *RiskAssessment) RequiresReview() bool {
	return !a.previousTier.IsZero() && a.tier.Above(a.previousTier)
}
