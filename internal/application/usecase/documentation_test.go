package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/reference"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

func TestGetRequiredDocuments_Execute(t *testing.T) {
	uc := usecase.NewGetRequiredDocumentsUseCase(service.NewDocumentationResolver(reference.DefaultDocuments()))

	docs, err := uc.Execute(context.Background(), dto.RequiredDocumentsRequest{CustomerType: "LEGAL_ENTITY", Tier: "MEDIUM"})
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, reference.DocCompanyRegistration)
	assert.Contains(t, ids, reference.DocBeneficialOwnership)
	assert.NotContains(t, ids, reference.DocSourceOfFunds)

	_, err = uc.Execute(context.Background(), dto.RequiredDocumentsRequest{CustomerType: "LEGAL_ENTITY", Tier: "EXTREME"})
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestCheckDocumentationCompliance_Execute(t *testing.T) {
	uc := usecase.NewCheckDocumentationComplianceUseCase(service.NewDocumentationResolver(reference.DefaultDocuments()), discardLogger())
	future := time.Now().AddDate(1, 0, 0)
	past := time.Now().AddDate(0, -1, 0)
	customerID := uuid.NewString()

	approved := dto.DocumentRequest{
		ID:            uuid.NewString(),
		RequirementID: reference.DocIDVerification,
		Status:        valueobject.DocumentStatusApproved.String(),
		ExpiresAt:     &future,
	}

	resp, err := uc.Execute(context.Background(), dto.CheckComplianceRequest{
		CustomerID: customerID, CustomerType: "DOMESTIC_INDIVIDUAL", Tier: "LOW",
		Documents: []dto.DocumentRequest{approved},
	})
	require.NoError(t, err)
	assert.True(t, resp.Compliant)
	assert.Equal(t, customerID, resp.CustomerID)

	expired := approved
	expired.ExpiresAt = &past
	resp, err = uc.Execute(context.Background(), dto.CheckComplianceRequest{
		CustomerID: customerID, CustomerType: "DOMESTIC_INDIVIDUAL", Tier: "LOW",
		Documents: []dto.DocumentRequest{expired},
	})
	require.NoError(t, err)
	assert.False(t, resp.Compliant)
	require.Len(t, resp.ExpiredDocuments, 1)
	assert.Equal(t, expired.ID, resp.ExpiredDocuments[0].ID)

	bad := approved
	bad.Status = "LOST"
	_, err = uc.Execute(context.Background(), dto.CheckComplianceRequest{
		CustomerID: customerID, CustomerType: "DOMESTIC_INDIVIDUAL", Tier: "LOW",
		Documents: []dto.DocumentRequest{bad},
	})
	var vErr *model.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "documents[0].status", vErr.Field)
}

func TestProjectActivityRisk_Execute(t *testing.T) {
	uc := usecase.NewProjectActivityRiskUseCase(service.NewFinancialRiskCalculator(reference.Default(), valueobject.MissingDataNeutral))

	tests := []struct {
		name         string
		customerType string
		amount       string
		annual       string
		level        int
		wantErr      bool
	}{
		{name: "individual", customerType: "DOMESTIC_INDIVIDUAL", amount: "100000000", annual: "4800000000", level: 1},
		{name: "entity", customerType: "LEGAL_ENTITY", amount: "1000000000", annual: "72000000000", level: 3},
		{name: "negative amount", customerType: "LEGAL_ENTITY", amount: "-1", wantErr: true},
		{name: "not a number", customerType: "LEGAL_ENTITY", amount: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), dto.ProjectActivityRiskRequest{CustomerType: tt.customerType, MonthlyAmount: tt.amount})
			if tt.wantErr {
				assert.True(t, errors.Is(err, model.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.annual, resp.AnnualAmount)
			assert.Equal(t, tt.level, resp.Level)
		})
	}
}
