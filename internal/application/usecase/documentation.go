package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// GetRequiredDocumentsUseCase lists the documentation a tier demands.
type GetRequiredDocumentsUseCase struct {
	resolver *service.DocumentationResolver
}

func NewGetRequiredDocumentsUseCase(resolver *service.DocumentationResolver) *GetRequiredDocumentsUseCase {
	return &GetRequiredDocumentsUseCase{resolver: resolver}
}

func (uc *GetRequiredDocumentsUseCase) Execute(_ context.Context, req dto.RequiredDocumentsRequest) ([]dto.DocumentRequirementResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customerType, _ := valueobject.CustomerTypeFromString(req.CustomerType)
	tier, _ := valueobject.RiskTierFromString(req.Tier)
	return dto.FromRequirements(uc.resolver.RequiredDocuments(customerType, tier)), nil
}

// CheckDocumentationComplianceUseCase checks uploaded evidence against a tier.
type CheckDocumentationComplianceUseCase struct {
	resolver *service.DocumentationResolver
	logger   *slog.Logger
	now      func() time.Time
}

func NewCheckDocumentationComplianceUseCase(resolver *service.DocumentationResolver, logger *slog.Logger) *CheckDocumentationComplianceUseCase {
	return &CheckDocumentationComplianceUseCase{
		resolver: resolver,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CheckDocumentationComplianceUseCase) Execute(_ context.Context, req dto.CheckComplianceRequest) (dto.ComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.ComplianceResponse{}, err
	}
	customerType, _ := valueobject.CustomerTypeFromString(req.CustomerType)
	tier, _ := valueobject.RiskTierFromString(req.Tier)

	result := uc.resolver.CheckCompliance(uuid.MustParse(req.CustomerID), customerType, tier, req.ToDocuments(), uc.now())
	if !result.Compliant {
		uc.logger.Info("documentation incomplete",
			slog.String("customer_id", req.CustomerID),
			slog.String("tier", req.Tier),
			slog.Int("missing", len(result.MissingDocuments)),
			slog.Int("expired", len(result.ExpiredDocuments)),
		)
	}
	return dto.FromCompliance(result), nil
}
