package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/pkg/events"
)

const (
	AggregateTypeRiskAssessment = "RiskAssessment"
	AggregateTypeRiskParameter  = "RiskParameter"

	TypeAssessmentCompleted = "kycrisk.assessment.completed"
	TypeTierEscalated       = "kycrisk.tier.escalated"
	TypeParameterUpdated    = "kycrisk.parameter.updated"
)

// parameterNamespace derives stable aggregate ids from textual parameter ids.
var parameterNamespace = uuid.MustParse("6f1c0b8e-3a55-4c57-9d2e-1f7a1b9c2d40")

// ParameterAggregateID maps a parameter id onto its event aggregate id.
func ParameterAggregateID(parameterID string) uuid.UUID {
	return uuid.NewSHA1(parameterNamespace, []byte(parameterID))
}

// AssessmentCompleted is emitted after every stored assessment.
type AssessmentCompleted struct {
	events.BaseEvent
	AssessmentID uuid.UUID `json:"assessment_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerType string    `json:"customer_type"`
	Tier         string    `json:"tier"`
	OverallScore string    `json:"overall_score"`
	DueDiligence string    `json:"due_diligence"`
	Trigger      string    `json:"trigger"`
	Factors      []string  `json:"factors"`
}

// NewAssessmentCompleted creates an AssessmentCompleted event from an assessment.
func NewAssessmentCompleted(a *model.RiskAssessment) AssessmentCompleted {
	e := AssessmentCompleted{
		AssessmentID: a.ID(),
		CustomerID:   a.CustomerID(),
		CustomerType: a.CustomerType().String(),
		Tier:         a.Tier().String(),
		OverallScore: a.OverallScore().String(),
		DueDiligence: a.DueDiligence().String(),
		Trigger:      a.Trigger(),
		Factors:      a.Factors(),
	}
	payload, _ := json.Marshal(struct {
		AssessmentID uuid.UUID `json:"assessment_id"`
		CustomerID   uuid.UUID `json:"customer_id"`
		CustomerType string    `json:"customer_type"`
		Tier         string    `json:"tier"`
		OverallScore string    `json:"overall_score"`
		DueDiligence string    `json:"due_diligence"`
		Trigger      string    `json:"trigger"`
		Factors      []string  `json:"factors"`
	}{e.AssessmentID, e.CustomerID, e.CustomerType, e.Tier, e.OverallScore, e.DueDiligence, e.Trigger, e.Factors})

	e.BaseEvent = events.NewBaseEventAt(TypeAssessmentCompleted, a.ID(), AggregateTypeRiskAssessment, payload, a.AssessedAt())
	return e
}

// TierEscalated is emitted when a reassessment lands above the customer's previous tier.
type TierEscalated struct {
	events.BaseEvent
	AssessmentID uuid.UUID `json:"assessment_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	PreviousTier string    `json:"previous_tier"`
	NewTier      string    `json:"new_tier"`
}

// NewTierEscalated creates a TierEscalated event.
func NewTierEscalated(a *model.RiskAssessment) TierEscalated {
	payload, _ := json.Marshal(struct {
		AssessmentID uuid.UUID `json:"assessment_id"`
		CustomerID   uuid.UUID `json:"customer_id"`
		PreviousTier string    `json:"previous_tier"`
		NewTier      string    `json:"new_tier"`
	}{a.ID(), a.CustomerID(), a.PreviousTier().String(), a.Tier().String()})

	return TierEscalated{
		BaseEvent:    events.NewBaseEventAt(TypeTierEscalated, a.ID(), AggregateTypeRiskAssessment, payload, a.AssessedAt()),
		AssessmentID: a.ID(),
		CustomerID:   a.CustomerID(),
		PreviousTier: a.PreviousTier().String(),
		NewTier:      a.Tier().String(),
	}
}

// ParameterUpdated is emitted when a parameter changes, individually or as part of a set.
type ParameterUpdated struct {
	events.BaseEvent
	ParameterID string    `json:"parameter_id"`
	Category    string    `json:"category"`
	Weight      string    `json:"weight"`
	Active      bool      `json:"active"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewParameterUpdated creates a ParameterUpdated event.
func NewParameterUpdated(p model.RiskParameter) ParameterUpdated {
	payload, _ := json.Marshal(struct {
		ParameterID string    `json:"parameter_id"`
		Category    string    `json:"category"`
		Weight      string    `json:"weight"`
		Active      bool      `json:"active"`
		UpdatedBy   string    `json:"updated_by"`
		UpdatedAt   time.Time `json:"updated_at"`
	}{p.ID(), p.Category().String(), p.Weight().String(), p.Active(), p.UpdatedBy(), p.LastUpdated()})

	return ParameterUpdated{
		BaseEvent:   events.NewBaseEventAt(TypeParameterUpdated, ParameterAggregateID(p.ID()), AggregateTypeRiskParameter, payload, p.LastUpdated()),
		ParameterID: p.ID(),
		Category:    p.Category().String(),
		Weight:      p.Weight().String(),
		Active:      p.Active(),
		UpdatedBy:   p.UpdatedBy(),
		UpdatedAt:   p.LastUpdated(),
	}
}
