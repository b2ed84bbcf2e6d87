package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// DocumentationResolver maps a customer type and tier onto the documentation
// catalog and checks uploaded evidence against it.
type DocumentationResolver struct {
	catalog []model.DocumentRequirement
}

// NewDocumentationResolver creates a resolver over a catalog.
func NewDocumentationResolver(catalog []model.DocumentRequirement) *DocumentationResolver {
	return &DocumentationResolver{catalog: append([]model.DocumentRequirement(nil), catalog...)}
}

// RequiredDocuments returns the catalog entries applicable to the type and tier,
// in catalog order.
func (r *DocumentationResolver) RequiredDocuments(customerType valueobject.CustomerType, tier valueobject.RiskTier) []model.DocumentRequirement {
	out := make([]model.DocumentRequirement, 0, len(r.catalog))
	for _, req := range r.catalog {
		if req.AppliesTo(customerType, tier) {
			out = append(out, req)
		}
	}
	return out
}

// CheckCompliance evaluates uploaded documents. A requirement is missing unless an
// APPROVED, unexpired document exists for it. Every expired document is reported
// whether or not a requirement applies to it. Documents of other customers are
// ignored.
func (r *DocumentationResolver) CheckCompliance(
	customerID uuid.UUID,
	customerType valueobject.CustomerType,
	tier valueobject.RiskTier,
	docs []model.CustomerDocument,
	now time.Time,
) model.ComplianceResult {
	owned := make([]model.CustomerDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.CustomerID == customerID {
			owned = append(owned, doc)
		}
	}
	docs = owned

	missing := make([]model.DocumentRequirement, 0)
	for _, req := range r.RequiredDocuments(customerType, tier) {
		if !req.Mandatory {
			continue
		}
		satisfied := false
		for _, doc := range docs {
			if doc.Satisfies(req.ID, now) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, req)
		}
	}

	expired := make([]model.CustomerDocument, 0)
	for _, doc := range docs {
		if doc.IsExpired(now) {
			expired = append(expired, doc)
		}
	}

	return model.ComplianceResult{
		CustomerID:       customerID,
		Compliant:        len(missing) == 0 && len(expired) == 0,
		MissingDocuments: missing,
		ExpiredDocuments: expired,
		CheckedAt:        now.UTC(),
	}
}
