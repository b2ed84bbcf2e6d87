package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/pkg/auth"
)

var _ KYCRiskServiceServer = (*KYCRiskServiceHandler)(nil)

// UseCases groups the application operations exposed over gRPC.
type UseCases struct {
	Assess          *usecase.AssessCustomerRiskUseCase
	Reassess        *usecase.ReassessCustomersUseCase
	GetLatest       *usecase.GetLatestAssessmentUseCase
	ProjectActivity *usecase.ProjectActivityRiskUseCase
	RequiredDocs    *usecase.GetRequiredDocumentsUseCase
	Compliance      *usecase.CheckDocumentationComplianceUseCase
	Parameters      *usecase.ParameterUseCases
}

// KYCRiskServiceHandler implements KYCRiskServiceServer.
type KYCRiskServiceHandler struct {
	UnimplementedKYCRiskServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewKYCRiskServiceHandler creates a new KYCRiskServiceHandler.
func NewKYCRiskServiceHandler(uc UseCases, logger *slog.Logger) *KYCRiskServiceHandler {
	return &KYCRiskServiceHandler{uc: uc, logger: logger}
}

// actorFromContext returns the authenticated principal recorded on
// assessments and parameter changes.
func actorFromContext(ctx context.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || claims.Subject == "" {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.Subject, nil
}

// toStatus maps application errors onto gRPC status codes. Unexpected errors
// are logged and reported without detail.
func (h *KYCRiskServiceHandler) toStatus(method string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrAggregation):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	h.logger.Error("request failed", slog.String("method", method), slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func (h *KYCRiskServiceHandler) AssessCustomerRisk(ctx context.Context, req *dto.AssessCustomerRequest) (*dto.AssessmentResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req.AssessedBy = actor
	resp, err := h.uc.Assess.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("AssessCustomerRisk", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ReassessCustomers(ctx context.Context, req *dto.ReassessCustomersRequest) (*dto.ReassessCustomersResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req.AssessedBy = actor
	resp, err := h.uc.Reassess.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ReassessCustomers", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ReassessCustomer(ctx context.Context, req *dto.ReassessCustomerRequest) (*dto.AssessmentResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req.AssessedBy = actor
	resp, err := h.uc.Reassess.ExecuteOne(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ReassessCustomer", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) GetLatestAssessment(ctx context.Context, req *dto.GetLatestAssessmentRequest) (*dto.AssessmentResponse, error) {
	resp, err := h.uc.GetLatest.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("GetLatestAssessment", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ProjectActivityRisk(ctx context.Context, req *dto.ProjectActivityRiskRequest) (*dto.ProjectedActivityResponse, error) {
	resp, err := h.uc.ProjectActivity.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ProjectActivityRisk", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) GetRequiredDocuments(ctx context.Context, req *dto.RequiredDocumentsRequest) (*RequiredDocumentsResponse, error) {
	docs, err := h.uc.RequiredDocs.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("GetRequiredDocuments", err)
	}
	return &RequiredDocumentsResponse{Documents: docs}, nil
}

func (h *KYCRiskServiceHandler) CheckDocumentationCompliance(ctx context.Context, req *dto.CheckComplianceRequest) (*dto.ComplianceResponse, error) {
	resp, err := h.uc.Compliance.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus("CheckDocumentationCompliance", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) GetParameter(ctx context.Context, req *dto.GetParameterRequest) (*dto.ParameterResponse, error) {
	resp, err := h.uc.Parameters.Get(ctx, *req)
	if err != nil {
		return nil, h.toStatus("GetParameter", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ListParameters(ctx context.Context, req *dto.ListParametersRequest) (*ParametersResponse, error) {
	params, err := h.uc.Parameters.List(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ListParameters", err)
	}
	return &ParametersResponse{Parameters: params}, nil
}

func (h *KYCRiskServiceHandler) UpdateParameter(ctx context.Context, req *dto.UpdateParameterRequest) (*dto.ParameterResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Parameters.Update(ctx, *req)
	if err != nil {
		return nil, h.toStatus("UpdateParameter", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ValidateParameterSet(ctx context.Context, req *dto.ParameterSetRequest) (*dto.ValidateParameterSetResponse, error) {
	resp, err := h.uc.Parameters.Validate(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ValidateParameterSet", err)
	}
	return &resp, nil
}

func (h *KYCRiskServiceHandler) ApplyParameterSet(ctx context.Context, req *dto.ParameterSetRequest) (*ParametersResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	params, err := h.uc.Parameters.Apply(ctx, *req)
	if err != nil {
		return nil, h.toStatus("ApplyParameterSet", err)
	}
	return &ParametersResponse{Parameters: params}, nil
}
