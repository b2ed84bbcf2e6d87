package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
)

// GetLatestAssessmentUseCase returns a customer's most recent assessment.
type GetLatestAssessmentUseCase struct {
	assessments port.AssessmentRepository
}

func NewGetLatestAssessmentUseCase(assessments port.AssessmentRepository) *GetLatestAssessmentUseCase {
	return &GetLatestAssessmentUseCase{assessments: assessments}
}

func (uc *GetLatestAssessmentUseCase) Execute(ctx context.Context, req dto.GetLatestAssessmentRequest) (dto.AssessmentResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.AssessmentResponse{}, err
	}
	a, err := uc.assessments.FindLatestByCustomer(ctx, uuid.MustParse(req.CustomerID))
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	return dto.FromAssessment(a), nil
}
