package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newHMACService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "bib-identity", Expiration: time.Hour})
	require.NoError(t, err)
	return svc
}

func TestJWTService_HMACRoundTrip(t *testing.T) {
	svc := newHMACService(t)

	token, err := svc.GenerateToken("officer-1", []string{RoleComplianceOfficer})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "officer-1", claims.Subject)
	assert.True(t, claims.HasRole(RoleComplianceOfficer))
	assert.False(t, claims.HasRole(RoleAdmin))
	assert.True(t, claims.HasAnyRole(RoleAdmin, RoleComplianceOfficer))
}

func TestJWTService_RSA(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Audience: "kycrisk", Expiration: time.Hour})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Audience: "kycrisk"})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("scheduler", []string{RoleSystem})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "scheduler", claims.Subject)

	_, err = validator.GenerateToken("x", nil)
	assert.Error(t, err, "validation-only service cannot issue")

	hmac := newHMACService(t)
	hmacToken, err := hmac.GenerateToken("x", nil)
	require.NoError(t, err)
	_, err = validator.ValidateToken(hmacToken)
	assert.Error(t, err, "algorithm confusion must be rejected")
}

func TestJWTService_Rejections(t *testing.T) {
	svc := newHMACService(t)

	expired, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "bib-identity", Expiration: -time.Minute})
	require.NoError(t, err)
	expiredToken, err := expired.GenerateToken("officer-1", nil)
	require.NoError(t, err)

	otherIssuer, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "someone-else", Expiration: time.Hour})
	require.NoError(t, err)
	wrongIssuer, err := otherIssuer.GenerateToken("officer-1", nil)
	require.NoError(t, err)

	otherKey, err := NewJWTService(JWTConfig{Secret: "other-secret", Issuer: "bib-identity", Expiration: time.Hour})
	require.NoError(t, err)
	wrongKey, err := otherKey.GenerateToken("officer-1", nil)
	require.NoError(t, err)

	noSubject, err := svc.GenerateToken("", nil)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expiredToken,
		"wrong issuer": wrongIssuer,
		"wrong key":    wrongKey,
		"no subject":   noSubject,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{PublicKeyPEM: "not pem"})
	assert.Error(t, err)
}

func okHandler(ctx context.Context, _ any) (any, error) {
	claims, _ := ClaimsFromContext(ctx)
	return claims, nil
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newHMACService(t)
	token, err := svc.GenerateToken("officer-1", []string{RoleRiskAnalyst})
	require.NoError(t, err)

	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	t.Run("skipped method", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, okHandler)
		assert.NoError(t, err)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, okHandler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid bearer token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, okHandler)
		require.NoError(t, err)
		claims := resp.(*Claims)
		assert.Equal(t, "officer-1", claims.Subject)
	})
}

func TestMethodRoles(t *testing.T) {
	interceptor := MethodRoles(map[string][]string{
		"/svc/Update": {RoleComplianceOfficer, RoleAdmin},
	})
	analyst := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleRiskAnalyst}})
	officer := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleComplianceOfficer}})

	_, err := interceptor(analyst, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Get"}, okHandler)
	assert.NoError(t, err, "unlisted methods pass through")

	_, err = interceptor(analyst, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Update"}, okHandler)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = interceptor(officer, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Update"}, okHandler)
	assert.NoError(t, err)

	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Update"}, okHandler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
