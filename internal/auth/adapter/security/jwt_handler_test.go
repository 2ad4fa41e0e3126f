package security_test

import (
	"context"
	"testing"
	"time"

	"reuse-gateway/internal/auth/adapter/security"
	"reuse-gateway/internal/auth/config"
	"reuse-gateway/internal/auth/domain/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JWTTestSuite struct {
	suite.Suite
	config  *config.Config
	service *security.JWTokenService
}

func (suite *JWTTestSuite) SetupTest() {
	suite.config = &config.Config{
		JWTSecretKey: "test-secret-key-32-characters-long-12345",
		JWTIssuer:    "test-issuer",
		TokenTTL:     time.Hour,
	}

	service, err := security.NewJWTokenService(suite.config)
	require.NoError(suite.T(), err)
	suite.service = service
}

func (suite *JWTTestSuite) TestNewJWTokenService_ValidationErrors() {
	testCases := []struct {
		name         string
		modifyConfig func(*config.Config)
		expectedErr  string
	}{
		{
			name: "empty secret key",
			modifyConfig: func(cfg *config.Config) {
				cfg.JWTSecretKey = ""
			},
			expectedErr: "jwt secret key cannot be empty",
		},
		{
			name: "empty issuer",
			modifyConfig: func(cfg *config.Config) {
				cfg.JWTIssuer = ""
			},
			expectedErr: "jwt issuer cannot be empty",
		},
		{
			name: "zero TTL",
			modifyConfig: func(cfg *config.Config) {
				cfg.TokenTTL = 0
			},
			expectedErr: "jwt token TTL must be positive",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			cfg := *suite.config
			tc.modifyConfig(&cfg)

			service, err := security.NewJWTokenService(&cfg)

			assert.Error(suite.T(), err)
			assert.Nil(suite.T(), service)
			assert.Contains(suite.T(), err.Error(), tc.expectedErr)
		})
	}
}

func (suite *JWTTestSuite) TestRoundTrip() {
	ctx := context.Background()

	tokenString, err := suite.service.GenerateToken(ctx, "user-123", "teste@email.com")
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), tokenString)

	claims, err := suite.service.ValidateToken(ctx, tokenString)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-123", claims.UserID)
	assert.Equal(suite.T(), "teste@email.com", claims.Email)
	assert.Equal(suite.T(), suite.config.JWTIssuer, claims.Issuer)
	assert.WithinDuration(suite.T(), time.Now().Add(suite.config.TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func (suite *JWTTestSuite) TestValidateToken_Expired() {
	ctx := context.Background()

	// Craft a token that expired a minute ago, signed with the right secret
	now := time.Now()
	claims := &repository.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			Issuer:    suite.config.JWTIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(suite.config.JWTSecretKey))
	require.NoError(suite.T(), err)

	result, err := suite.service.ValidateToken(ctx, tokenString)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, security.ErrTokenExpired)
}

func (suite *JWTTestSuite) TestValidateToken_InvalidSignature() {
	ctx := context.Background()

	otherConfig := *suite.config
	otherConfig.JWTSecretKey = "different-secret-key-32-chars-long-000"
	otherService, err := security.NewJWTokenService(&otherConfig)
	require.NoError(suite.T(), err)

	tokenString, err := otherService.GenerateToken(ctx, "user-123", "teste@email.com")
	require.NoError(suite.T(), err)

	result, err := suite.service.ValidateToken(ctx, tokenString)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, security.ErrTokenSignatureInvalid)
}

func (suite *JWTTestSuite) TestValidateToken_Malformed() {
	ctx := context.Background()

	testCases := []string{"", "not-a-token", "a.b.c"}
	for _, tokenString := range testCases {
		result, err := suite.service.ValidateToken(ctx, tokenString)

		assert.Nil(suite.T(), result)
		assert.Error(suite.T(), err)
	}
}

func (suite *JWTTestSuite) TestValidateToken_RejectsNonHMACAlgorithm() {
	ctx := context.Background()

	// alg=none token must never validate
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &repository.Claims{UserID: "user-123"})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(suite.T(), err)

	result, err := suite.service.ValidateToken(ctx, tokenString)

	assert.Nil(suite.T(), result)
	assert.Error(suite.T(), err)
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
