package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

// ProjectActivityRiskUseCase projects declared monthly activity to an annual
// figure and grades it.
type ProjectActivityRiskUseCase struct {
	financial *service.FinancialRiskCalculator
}

func NewProjectActivityRiskUseCase(financial *service.FinancialRiskCalculator) *ProjectActivityRiskUseCase {
	return &ProjectActivityRiskUseCase{financial: financial}
}

func (uc *ProjectActivityRiskUseCase) Execute(_ context.Context, req dto.ProjectActivityRiskRequest) (dto.ProjectedActivityResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.ProjectedActivityResponse{}, err
	}
	customerType, _ := valueobject.CustomerTypeFromString(req.CustomerType)
	projected, err := uc.financial.ProjectedActivityRisk(customerType, decimal.RequireFromString(req.MonthlyAmount))
	if err != nil {
		return dto.ProjectedActivityResponse{}, err
	}
	return dto.FromProjectedActivity(projected), nil
}
