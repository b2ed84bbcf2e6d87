package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// RelationshipRequest carries relationship depth metrics.
type RelationshipRequest struct {
	TransactionVolume   string `json:"transaction_volume" validate:"omitempty,decimal"`
	AccountAgeDays      int    `json:"account_age_days" validate:"gte=0"`
	ProductCount        int    `json:"product_count" validate:"gte=0"`
	ServiceHistoryCount int    `json:"service_history_count" validate:"gte=0"`
}

// CustomerRequest is a customer snapshot as submitted by a caller.
type CustomerRequest struct {
	CustomerID     string              `json:"customer_id" validate:"required,uuid"`
	CustomerType   string              `json:"customer_type" validate:"required,customer_type"`
	Name           string              `json:"name" validate:"required"`
	Occupation     string              `json:"occupation"`
	Nationality    string              `json:"nationality"`
	BirthPlace     string              `json:"birth_place"`
	LegalResidence string              `json:"legal_residence"`
	MonthlyIncome  *string             `json:"monthly_income,omitempty" validate:"omitempty,decimal"`
	CurrentTier    string              `json:"current_tier,omitempty" validate:"omitempty,risk_tier"`
	Relationship   RelationshipRequest `json:"relationship"`
	PEP            bool                `json:"pep"`
}

// ToCustomer validates the request and builds the domain snapshot.
func (r CustomerRequest) ToCustomer() (model.Customer, error) {
	if err := validateStruct(r); err != nil {
		return model.Customer{}, err
	}
	customerType, _ := valueobject.CustomerTypeFromString(r.CustomerType)
	profile, err := model.ProfileFor(customerType, r.Name, r.Occupation)
	if err != nil {
		return model.Customer{}, err
	}

	var income decimal.NullDecimal
	if r.MonthlyIncome != nil {
		income = decimal.NewNullDecimal(decimal.RequireFromString(*r.MonthlyIncome))
	}
	var tier valueobject.RiskTier
	if r.CurrentTier != "" {
		tier, _ = valueobject.RiskTierFromString(r.CurrentTier)
	}
	volume := decimal.Zero
	if r.Relationship.TransactionVolume != "" {
		volume = decimal.RequireFromString(r.Relationship.TransactionVolume)
	}

	return model.NewCustomer(
		uuid.MustParse(r.CustomerID),
		profile,
		r.Nationality, r.BirthPlace, r.LegalResidence,
		income,
		r.PEP,
		tier,
		model.RelationshipMetrics{
			TransactionVolume:   volume,
			AccountAgeDays:      r.Relationship.AccountAgeDays,
			ProductCount:        r.Relationship.ProductCount,
			ServiceHistoryCount: r.Relationship.ServiceHistoryCount,
		},
	)
}

// AssessCustomerRequest asks for an on-demand assessment.
type AssessCustomerRequest struct {
	Customer   CustomerRequest `json:"customer"`
	Trigger    string          `json:"trigger"`
	AssessedBy string          `json:"-"`
}

// ReassessCustomersRequest asks for a sweep over customers due for review.
type ReassessCustomersRequest struct {
	Trigger    string `json:"trigger"`
	AssessedBy string `json:"-"`
	Limit      int    `json:"limit" validate:"gte=0"`
}

func (r ReassessCustomersRequest) Validate() error { return validateStruct(r) }

// ReassessCustomerRequest asks for a reassessment of one stored customer snapshot.
type ReassessCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Trigger    string `json:"trigger"`
	AssessedBy string `json:"-"`
}

func (r ReassessCustomerRequest) Validate() error { return validateStruct(r) }

// GetLatestAssessmentRequest identifies a customer.
type GetLatestAssessmentRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

func (r GetLatestAssessmentRequest) Validate() error { return validateStruct(r) }

// ProjectActivityRiskRequest carries a declared monthly amount to project.
type ProjectActivityRiskRequest struct {
	CustomerType  string `json:"customer_type" validate:"required,customer_type"`
	MonthlyAmount string `json:"monthly_amount" validate:"required,decimal"`
}

func (r ProjectActivityRiskRequest) Validate() error { return validateStruct(r) }

// RequiredDocumentsRequest asks for the catalog entries of a type and tier.
type RequiredDocumentsRequest struct {
	CustomerType string `json:"customer_type" validate:"required,customer_type"`
	Tier         string `json:"tier" validate:"required,risk_tier"`
}

func (r RequiredDocumentsRequest) Validate() error { return validateStruct(r) }

// DocumentRequest is an uploaded document's metadata.
type DocumentRequest struct {
	UploadedAt    time.Time  `json:"uploaded_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	ID            string     `json:"id" validate:"required,uuid"`
	RequirementID string     `json:"requirement_id" validate:"required"`
	Status        string     `json:"status" validate:"required,document_status"`
	DocumentRef   string     `json:"document_ref"`
	VerifiedBy    string     `json:"verified_by"`
}

// CheckComplianceRequest asks whether uploaded documents satisfy a tier.
type CheckComplianceRequest struct {
	CustomerID   string            `json:"customer_id" validate:"required,uuid"`
	CustomerType string            `json:"customer_type" validate:"required,customer_type"`
	Tier         string            `json:"tier" validate:"required,risk_tier"`
	Documents    []DocumentRequest `json:"documents" validate:"dive"`
}

func (r CheckComplianceRequest) Validate() error { return validateStruct(r) }

// ToDocuments converts validated document metadata.
func (r CheckComplianceRequest) ToDocuments() []model.CustomerDocument {
	customerID := uuid.MustParse(r.CustomerID)
	docs := make([]model.CustomerDocument, 0, len(r.Documents))
	for _, d := range r.Documents {
		status, _ := valueobject.DocumentStatusFromString(d.Status)
		docs = append(docs, model.CustomerDocument{
			ID:            uuid.MustParse(d.ID),
			CustomerID:    customerID,
			RequirementID: d.RequirementID,
			Status:        status,
			DocumentRef:   d.DocumentRef,
			UploadedAt:    d.UploadedAt,
			VerifiedAt:    d.VerifiedAt,
			VerifiedBy:    d.VerifiedBy,
			ExpiresAt:     d.ExpiresAt,
		})
	}
	return docs
}

// GetParameterRequest identifies a parameter.
type GetParameterRequest struct {
	ID string `json:"id" validate:"required"`
}

func (r GetParameterRequest) Validate() error { return validateStruct(r) }

// ListParametersRequest optionally filters by category.
type ListParametersRequest struct {
	Category string `json:"category,omitempty" validate:"omitempty,parameter_category"`
}

func (r ListParametersRequest) Validate() error { return validateStruct(r) }

// ThresholdsDTO is the wire form of a threshold triple.
type ThresholdsDTO struct {
	Low    string `json:"low" validate:"required,decimal"`
	Medium string `json:"medium" validate:"required,decimal"`
	High   string `json:"high" validate:"required,decimal"`
}

func (t ThresholdsDTO) toModel() model.Thresholds {
	return model.Thresholds{
		Low:    decimal.RequireFromString(t.Low),
		Medium: decimal.RequireFromString(t.Medium),
		High:   decimal.RequireFromString(t.High),
	}
}

// UpdateParameterRequest is a partial update. Omitted fields are left unchanged.
type UpdateParameterRequest struct {
	Weight      *string        `json:"weight,omitempty" validate:"omitempty,decimal"`
	Thresholds  *ThresholdsDTO `json:"thresholds,omitempty"`
	Active      *bool          `json:"active,omitempty"`
	Description *string        `json:"description,omitempty"`
	ID          string         `json:"id" validate:"required"`
	Actor       string         `json:"-"`
}

// ToPatch validates the request and builds the domain patch.
func (r UpdateParameterRequest) ToPatch() (model.ParameterPatch, error) {
	if err := validateStruct(r); err != nil {
		return model.ParameterPatch{}, err
	}
	patch := model.ParameterPatch{Active: r.Active, Description: r.Description}
	if r.Weight != nil {
		w := decimal.RequireFromString(*r.Weight)
		patch.Weight = &w
	}
	if r.Thresholds != nil {
		th := r.Thresholds.toModel()
		patch.Thresholds = &th
	}
	return patch, nil
}

// ParameterDTO is a complete parameter as submitted in a set.
type ParameterDTO struct {
	Thresholds  ThresholdsDTO `json:"thresholds"`
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name"`
	Category    string        `json:"category" validate:"required,parameter_category"`
	Weight      string        `json:"weight" validate:"required,decimal"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
}

// ParameterSetRequest carries a complete candidate parameter table.
type ParameterSetRequest struct {
	Actor      string         `json:"-"`
	Parameters []ParameterDTO `json:"parameters" validate:"required,min=1,dive"`
}

// ToParameters validates the wire form and converts it. Domain invariants such
// as weight range and category sums are checked later by the parameter store.
func (r ParameterSetRequest) ToParameters() ([]model.RiskParameter, error) {
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	out := make([]model.RiskParameter, 0, len(r.Parameters))
	for _, p := range r.Parameters {
		category, _ := valueobject.ParameterCategoryFromString(p.Category)
		out = append(out, model.ReconstructRiskParameter(
			p.ID, p.Name, category, decimal.RequireFromString(p.Weight), p.Thresholds.toModel(),
			p.Active, p.Description, "", time.Time{},
		))
	}
	return out, nil
}
