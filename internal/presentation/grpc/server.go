package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/bibbank/kyc-risk-service/pkg/auth"
	"github.com/bibbank/kyc-risk-service/pkg/tlsutil"
)

const healthServiceName = "kyc-risk-service"

var (
	readRoles   = []string{auth.RoleAdmin, auth.RoleComplianceOfficer, auth.RoleRiskAnalyst, auth.RoleAuditor}
	assessRoles = []string{auth.RoleAdmin, auth.RoleComplianceOfficer, auth.RoleRiskAnalyst, auth.RoleSystem}
	sweepRoles  = []string{auth.RoleAdmin, auth.RoleComplianceOfficer, auth.RoleSystem}
	tuneRoles   = []string{auth.RoleAdmin, auth.RoleComplianceOfficer}
)

// MethodRoles lists the roles allowed to call each RPC.
var MethodRoles = map[string][]string{
	MethodAssessCustomerRisk:           assessRoles,
	MethodReassessCustomer:             assessRoles,
	MethodReassessCustomers:            sweepRoles,
	MethodGetLatestAssessment:          readRoles,
	MethodProjectActivityRisk:          readRoles,
	MethodGetRequiredDocuments:         readRoles,
	MethodCheckDocumentationCompliance: readRoles,
	MethodGetParameter:                 readRoles,
	MethodListParameters:               readRoles,
	MethodValidateParameterSet:         {auth.RoleAdmin, auth.RoleComplianceOfficer, auth.RoleRiskAnalyst},
	MethodUpdateParameter:              tuneRoles,
	MethodApplyParameterSet:            tuneRoles,
}

var unauthenticatedMethods = []string{
	healthpb.Health_Check_FullMethodName,
	healthpb.Health_Watch_FullMethodName,
}

// ServerOptions configures transport concerns of the gRPC server.
type ServerOptions struct {
	TLS        tlsutil.ServerConfig
	Reflection bool
}

// Server wraps the gRPC server for kyc-risk-service.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewServer creates a gRPC server that authenticates every call with
// validator and enforces MethodRoles.
func NewServer(handler KYCRiskServiceServer, validator auth.TokenValidator, opts ServerOptions, logger *slog.Logger) (*Server, error) {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			tracingInterceptor(),
			auth.UnaryAuthInterceptor(validator, unauthenticatedMethods),
			auth.MethodRoles(MethodRoles),
		),
	}
	if opts.TLS.Enabled() {
		creds, err := tlsutil.ServerCredentials(opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load gRPC TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(serverOpts...)
	RegisterKYCRiskServiceServer(grpcServer, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{grpcServer: grpcServer, health: healthServer, logger: logger}, nil
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", slog.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Start begins listening on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Stop marks the service as not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.logger.Info("gRPC server stopping")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func tracingInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer("github.com/bibbank/kyc-risk-service/grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		resp, err := handler(ctx, req)
		if err != nil {
			span.SetStatus(otelcodes.Error, status.Convert(err).Message())
		}
		return resp, err
	}
}
