package dto

import (
	"time"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
)

// ComponentResponse is one component's contribution to an assessment.
type ComponentResponse struct {
	Component    string `json:"component"`
	Tier         string `json:"tier"`
	RawScore     string `json:"raw_score"`
	Normalized   string `json:"normalized"`
	Weight       string `json:"weight"`
	Contribution string `json:"contribution"`
}

// AssessmentResponse is the external representation of a risk assessment.
type AssessmentResponse struct {
	AssessedAt            time.Time           `json:"assessed_at"`
	ParametersTakenAt     time.Time           `json:"parameters_taken_at"`
	ID                    string              `json:"id"`
	CustomerID            string              `json:"customer_id"`
	CustomerType          string              `json:"customer_type"`
	Tier                  string              `json:"tier"`
	PreviousTier          string              `json:"previous_tier,omitempty"`
	OverallScore          string              `json:"overall_score"`
	DueDiligence          string              `json:"due_diligence"`
	AssessedBy            string              `json:"assessed_by"`
	Trigger               string              `json:"trigger"`
	Components            []ComponentResponse `json:"components"`
	Factors               []string            `json:"factors"`
	DocumentationRequired bool                `json:"documentation_required"`
	RequiresReview        bool                `json:"requires_review"`
}

// FromAssessment maps a domain assessment.
func FromAssessment(a *model.RiskAssessment) AssessmentResponse {
	components := make([]ComponentResponse, 0, len(a.Components()))
	for _, c := range a.Components() {
		components = append(components, ComponentResponse{
			Component:    c.Component.String(),
			Tier:         c.Tier.String(),
			RawScore:     c.Raw.String(),
			Normalized:   c.Normalized.String(),
			Weight:       c.Weight.String(),
			Contribution: c.Contribution().String(),
		})
	}
	return AssessmentResponse{
		ID:                    a.ID().String(),
		CustomerID:            a.CustomerID().String(),
		CustomerType:          a.CustomerType().String(),
		Tier:                  a.Tier().String(),
		PreviousTier:          a.PreviousTier().String(),
		OverallScore:          a.OverallScore().String(),
		DueDiligence:          a.DueDiligence().DisplayName(),
		AssessedBy:            a.AssessedBy(),
		Trigger:               a.Trigger(),
		AssessedAt:            a.AssessedAt(),
		ParametersTakenAt:     a.ParametersTakenAt(),
		Components:            components,
		Factors:               a.Factors(),
		DocumentationRequired: a.DocumentationRequired(),
		RequiresReview:        a.RequiresReview(),
	}
}

// TierCountResponse is one row of a risk summary.
type TierCountResponse struct {
	Tier       string `json:"tier"`
	Percentage string `json:"percentage"`
	Count      int    `json:"count"`
}

// RiskSummaryResponse is the tier distribution of a sweep.
type RiskSummaryResponse struct {
	Tiers          []TierCountResponse `json:"tiers"`
	Total          int                 `json:"total"`
	RequiresReview int                 `json:"requires_review"`
}

// FromRiskSummary maps a domain summary.
func FromRiskSummary(s model.RiskSummary) RiskSummaryResponse {
	tiers := make([]TierCountResponse, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		tiers = append(tiers, TierCountResponse{Tier: t.Tier.String(), Count: t.Count, Percentage: t.Percentage.StringFixed(2)})
	}
	return RiskSummaryResponse{Tiers: tiers, Total: s.Total, RequiresReview: s.RequiresReview}
}

// FailedCustomer names a customer whose reassessment failed.
type FailedCustomer struct {
	CustomerID string `json:"customer_id"`
	Error      string `json:"error"`
}

// ReassessCustomersResponse reports a sweep.
type ReassessCustomersResponse struct {
	StartedAt   time.Time            `json:"started_at"`
	CompletedAt time.Time            `json:"completed_at"`
	Summary     RiskSummaryResponse  `json:"summary"`
	Assessments []AssessmentResponse `json:"assessments"`
	Failed      []FailedCustomer     `json:"failed"`
	Escalated   int                  `json:"escalated"`
}

// ProjectedActivityResponse is the projected annual activity and its level.
type ProjectedActivityResponse struct {
	AnnualAmount string `json:"annual_amount"`
	Level        int    `json:"level"`
}

// FromProjectedActivity maps a projection.
func FromProjectedActivity(p service.ProjectedActivity) ProjectedActivityResponse {
	return ProjectedActivityResponse{AnnualAmount: p.AnnualAmount.String(), Level: p.Level}
}

// DocumentRequirementResponse is a catalog entry.
type DocumentRequirementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
}

// FromRequirements maps catalog entries.
func FromRequirements(reqs []model.DocumentRequirement) []DocumentRequirementResponse {
	out := make([]DocumentRequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, DocumentRequirementResponse{ID: r.ID, Name: r.Name, Description: r.Description, Mandatory: r.Mandatory})
	}
	return out
}

// ExpiredDocumentResponse identifies an expired upload.
type ExpiredDocumentResponse struct {
	ExpiresAt     time.Time `json:"expires_at"`
	ID            string    `json:"id"`
	RequirementID string    `json:"requirement_id"`
}

// ComplianceResponse is the outcome of a documentation check.
type ComplianceResponse struct {
	CheckedAt        time.Time                     `json:"checked_at"`
	CustomerID       string                        `json:"customer_id"`
	MissingDocuments []DocumentRequirementResponse `json:"missing_documents"`
	ExpiredDocuments []ExpiredDocumentResponse     `json:"expired_documents"`
	Compliant        bool                          `json:"compliant"`
}

// FromCompliance maps a compliance result.
func FromCompliance(r model.ComplianceResult) ComplianceResponse {
	expired := make([]ExpiredDocumentResponse, 0, len(r.ExpiredDocuments))
	for _, d := range r.ExpiredDocuments {
		e := ExpiredDocumentResponse{ID: d.ID.String(), RequirementID: d.RequirementID}
		if d.ExpiresAt != nil {
			e.ExpiresAt = *d.ExpiresAt
		}
		expired = append(expired, e)
	}
	return ComplianceResponse{
		CustomerID:       r.CustomerID.String(),
		Compliant:        r.Compliant,
		MissingDocuments: FromRequirements(r.MissingDocuments),
		ExpiredDocuments: expired,
		CheckedAt:        r.CheckedAt,
	}
}

// ParameterResponse is the external representation of a risk parameter.
type ParameterResponse struct {
	LastUpdated time.Time     `json:"last_updated"`
	Thresholds  ThresholdsDTO `json:"thresholds"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Weight      string        `json:"weight"`
	Description string        `json:"description"`
	UpdatedBy   string        `json:"updated_by"`
	Active      bool          `json:"active"`
}

// FromParameter maps a parameter.
func FromParameter(p model.RiskParameter) ParameterResponse {
	th := p.Thresholds()
	return ParameterResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Category:    p.Category().String(),
		Weight:      p.Weight().String(),
		Thresholds:  ThresholdsDTO{Low: th.Low.String(), Medium: th.Medium.String(), High: th.High.String()},
		Active:      p.Active(),
		Description: p.Description(),
		UpdatedBy:   p.UpdatedBy(),
		LastUpdated: p.LastUpdated(),
	}
}

// FromParameters maps a parameter list.
func FromParameters(params []model.RiskParameter) []ParameterResponse {
	out := make([]ParameterResponse, 0, len(params))
	for _, p := range params {
		out = append(out, FromParameter(p))
	}
	return out
}

// ValidateParameterSetResponse reports whether a candidate set is acceptable.
type ValidateParameterSetResponse struct {
	Field    string `json:"field,omitempty"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Valid    bool   `json:"valid"`
}
