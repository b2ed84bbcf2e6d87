package grpc

// proto.go mirrors the service definition in bib/kycrisk/v1/kyc_risk.proto.
// Messages travel as JSON through the codec in json_codec.go, so the DTOs of
// the application layer double as the wire messages.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/kyc-risk-service/internal/application/dto"
)

const serviceName = "bib.kycrisk.v1.KYCRiskService"

// Full method names, as seen by interceptors.
const (
	MethodAssessCustomerRisk           = "/" + serviceName + "/AssessCustomerRisk"
	MethodReassessCustomers            = "/" + serviceName + "/ReassessCustomers"
	MethodReassessCustomer             = "/" + serviceName + "/ReassessCustomer"
	MethodGetLatestAssessment          = "/" + serviceName + "/GetLatestAssessment"
	MethodProjectActivityRisk          = "/" + serviceName + "/ProjectActivityRisk"
	MethodGetRequiredDocuments         = "/" + serviceName + "/GetRequiredDocuments"
	MethodCheckDocumentationCompliance = "/" + serviceName + "/CheckDocumentationCompliance"
	MethodGetParameter                 = "/" + serviceName + "/GetParameter"
	MethodListParameters               = "/" + serviceName + "/ListParameters"
	MethodUpdateParameter              = "/" + serviceName + "/UpdateParameter"
	MethodValidateParameterSet         = "/" + serviceName + "/ValidateParameterSet"
	MethodApplyParameterSet            = "/" + serviceName + "/ApplyParameterSet"
)

// RequiredDocumentsResponse represents the proto GetRequiredDocumentsResponse message.
type RequiredDocumentsResponse struct {
	Documents []dto.DocumentRequirementResponse `json:"documents"`
}

// ParametersResponse represents the proto ListParametersResponse message. It
// also carries the applied table returned by ApplyParameterSet.
type ParametersResponse struct {
	Parameters []dto.ParameterResponse `json:"parameters"`
}

// KYCRiskServiceServer is the server API for KYCRiskService.
type KYCRiskServiceServer interface {
	AssessCustomerRisk(context.Context, *dto.AssessCustomerRequest) (*dto.AssessmentResponse, error)
	ReassessCustomers(context.Context, *dto.ReassessCustomersRequest) (*dto.ReassessCustomersResponse, error)
	ReassessCustomer(context.Context, *dto.ReassessCustomerRequest) (*dto.AssessmentResponse, error)
	GetLatestAssessment(context.Context, *dto.GetLatestAssessmentRequest) (*dto.AssessmentResponse, error)
	ProjectActivityRisk(context.Context, *dto.ProjectActivityRiskRequest) (*dto.ProjectedActivityResponse, error)
	GetRequiredDocuments(context.Context, *dto.RequiredDocumentsRequest) (*RequiredDocumentsResponse, error)
	CheckDocumentationCompliance(context.Context, *dto.CheckComplianceRequest) (*dto.ComplianceResponse, error)
	GetParameter(context.Context, *dto.GetParameterRequest) (*dto.ParameterResponse, error)
	ListParameters(context.Context, *dto.ListParametersRequest) (*ParametersResponse, error)
	UpdateParameter(context.Context, *dto.UpdateParameterRequest) (*dto.ParameterResponse, error)
	ValidateParameterSet(context.Context, *dto.ParameterSetRequest) (*dto.ValidateParameterSetResponse, error)
	ApplyParameterSet(context.Context, *dto.ParameterSetRequest) (*ParametersResponse, error)
	mustEmbedUnimplementedKYCRiskServiceServer()
}

// UnimplementedKYCRiskServiceServer provides forward-compatible default implementations.
type UnimplementedKYCRiskServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedKYCRiskServiceServer) AssessCustomerRisk(context.Context, *dto.AssessCustomerRequest) (*dto.AssessmentResponse, error) {
	return nil, unimplemented("AssessCustomerRisk")
}
func (UnimplementedKYCRiskServiceServer) ReassessCustomers(context.Context, *dto.ReassessCustomersRequest) (*dto.ReassessCustomersResponse, error) {
	return nil, unimplemented("ReassessCustomers")
}
func (UnimplementedKYCRiskServiceServer) ReassessCustomer(context.Context, *dto.ReassessCustomerRequest) (*dto.AssessmentResponse, error) {
	return nil, unimplemented("ReassessCustomer")
}
func (UnimplementedKYCRiskServiceServer) GetLatestAssessment(context.Context, *dto.GetLatestAssessmentRequest) (*dto.AssessmentResponse, error) {
	return nil, unimplemented("GetLatestAssessment")
}
func (UnimplementedKYCRiskServiceServer) ProjectActivityRisk(context.Context, *dto.ProjectActivityRiskRequest) (*dto.ProjectedActivityResponse, error) {
	return nil, unimplemented("ProjectActivityRisk")
}
func (UnimplementedKYCRiskServiceServer) GetRequiredDocuments(context.Context, *dto.RequiredDocumentsRequest) (*RequiredDocumentsResponse, error) {
	return nil, unimplemented("GetRequiredDocuments")
}
func (UnimplementedKYCRiskServiceServer) CheckDocumentationCompliance(context.Context, *dto.CheckComplianceRequest) (*dto.ComplianceResponse, error) {
	return nil, unimplemented("CheckDocumentationCompliance")
}
func (UnimplementedKYCRiskServiceServer) GetParameter(context.Context, *dto.GetParameterRequest) (*dto.ParameterResponse, error) {
	return nil, unimplemented("GetParameter")
}
func (UnimplementedKYCRiskServiceServer) ListParameters(context.Context, *dto.ListParametersRequest) (*ParametersResponse, error) {
	return nil, unimplemented("ListParameters")
}
func (UnimplementedKYCRiskServiceServer) UpdateParameter(context.Context, *dto.UpdateParameterRequest) (*dto.ParameterResponse, error) {
	return nil, unimplemented("UpdateParameter")
}
func (UnimplementedKYCRiskServiceServer) ValidateParameterSet(context.Context, *dto.ParameterSetRequest) (*dto.ValidateParameterSetResponse, error) {
	return nil, unimplemented("ValidateParameterSet")
}
func (UnimplementedKYCRiskServiceServer) ApplyParameterSet(context.Context, *dto.ParameterSetRequest) (*ParametersResponse, error) {
	return nil, unimplemented("ApplyParameterSet")
}
func (UnimplementedKYCRiskServiceServer) mustEmbedUnimplementedKYCRiskServiceServer() {}

// RegisterKYCRiskServiceServer registers srv with s.
func RegisterKYCRiskServiceServer(s grpclib.ServiceRegistrar, srv KYCRiskServiceServer) {
	s.RegisterService(&_KYCRiskService_serviceDesc, srv)
}

var _KYCRiskService_serviceDesc = grpclib.ServiceDesc{ //nolint:revive
	ServiceName: serviceName,
	HandlerType: (*KYCRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessCustomerRisk", Handler: unaryHandler(MethodAssessCustomerRisk, KYCRiskServiceServer.AssessCustomerRisk)},
		{MethodName: "ReassessCustomers", Handler: unaryHandler(MethodReassessCustomers, KYCRiskServiceServer.ReassessCustomers)},
		{MethodName: "ReassessCustomer", Handler: unaryHandler(MethodReassessCustomer, KYCRiskServiceServer.ReassessCustomer)},
		{MethodName: "GetLatestAssessment", Handler: unaryHandler(MethodGetLatestAssessment, KYCRiskServiceServer.GetLatestAssessment)},
		{MethodName: "ProjectActivityRisk", Handler: unaryHandler(MethodProjectActivityRisk, KYCRiskServiceServer.ProjectActivityRisk)},
		{MethodName: "GetRequiredDocuments", Handler: unaryHandler(MethodGetRequiredDocuments, KYCRiskServiceServer.GetRequiredDocuments)},
		{MethodName: "CheckDocumentationCompliance", Handler: unaryHandler(MethodCheckDocumentationCompliance, KYCRiskServiceServer.CheckDocumentationCompliance)},
		{MethodName: "GetParameter", Handler: unaryHandler(MethodGetParameter, KYCRiskServiceServer.GetParameter)},
		{MethodName: "ListParameters", Handler: unaryHandler(MethodListParameters, KYCRiskServiceServer.ListParameters)},
		{MethodName: "UpdateParameter", Handler: unaryHandler(MethodUpdateParameter, KYCRiskServiceServer.UpdateParameter)},
		{MethodName: "ValidateParameterSet", Handler: unaryHandler(MethodValidateParameterSet, KYCRiskServiceServer.ValidateParameterSet)},
		{MethodName: "ApplyParameterSet", Handler: unaryHandler(MethodApplyParameterSet, KYCRiskServiceServer.ApplyParameterSet)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/kycrisk/v1/kyc_risk.proto",
}

// unaryHandler builds the per-method handler that generated code would
// otherwise spell out once per RPC.
func unaryHandler[Req, Resp any](fullMethod string, call func(KYCRiskServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(KYCRiskServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(KYCRiskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
