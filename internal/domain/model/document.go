package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// DocumentRequirement is an entry of the static documentation catalog.
type DocumentRequirement struct {
	ID            string
	Name          string
	Description   string
	CustomerTypes []valueobject.CustomerType
	Tiers         []valueobject.RiskTier
	Mandatory     bool
}

// AppliesTo reports whether the requirement covers the customer type and tier.
func (r DocumentRequirement) AppliesTo(customerType valueobject.CustomerType, tier valueobject.RiskTier) bool {
	typeMatch := false
	for _, t := range r.CustomerTypes {
		if t.Equal(customerType) {
			typeMatch = true
			break
		}
	}
	if !typeMatch {
		return false
	}
	for _, t := range r.Tiers {
		if t.Equal(tier) {
			return true
		}
	}
	return false
}

// CustomerDocument is a piece of evidence uploaded for a requirement. The blob
// itself lives in document storage; DocumentRef points at it.
type CustomerDocument struct {
	UploadedAt    time.Time
	VerifiedAt    *time.Time
	ExpiresAt     *time.Time
	Status        valueobject.DocumentStatus
	RequirementID string
	DocumentRef   string
	VerifiedBy    string
	ID            uuid.UUID
	CustomerID    uuid.UUID
}

// IsExpired reports whether the document's expiry is at or before now.
func (d CustomerDocument) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && !d.ExpiresAt.After(now)
}

// Satisfies reports whether the document fulfils the requirement at now.
func (d CustomerDocument) Satisfies(requirementID string, now time.Time) bool {
	return d.RequirementID == requirementID &&
		d.Status.Equal(valueobject.DocumentStatusApproved) &&
		!d.IsExpired(now)
}

// ComplianceResult is the outcome of checking uploaded evidence against the catalog.
type ComplianceResult struct {
	CheckedAt        time.Time
	MissingDocuments []DocumentRequirement
	ExpiredDocuments []CustomerDocument
	CustomerID       uuid.UUID
	Compliant        bool
}
