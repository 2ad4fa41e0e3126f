package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authhttp "reuse-gateway/internal/auth/adapter/http"
	"reuse-gateway/internal/auth/domain/repository"
	"reuse-gateway/internal/auth/usecase"
	"reuse-gateway/internal/shared/contextkeys"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RouteGuardTestSuite struct {
	suite.Suite
	app    *fiber.App
	mockUC *mockAuthUsecase
}

func (suite *RouteGuardTestSuite) SetupTest() {
	suite.mockUC = &mockAuthUsecase{}
	guard := authhttp.NewRouteGuard(suite.mockUC, "jwt_token", logger.NewLogger(), metrics.New())

	suite.app = fiber.New()
	suite.app.Use(guard.Handler())

	renderPage := func(c *fiber.Ctx) error {
		return c.SendString("page")
	}
	suite.app.Get("/", renderPage)
	suite.app.Get("/login", renderPage)
	suite.app.Get("/register", renderPage)
	suite.app.Get("/dashboard", renderPage)
	suite.app.Get("/itens", renderPage)
	suite.app.Get("/api/auth/session", func(c *fiber.Ctx) error {
		return c.SendString("api")
	})
	suite.app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, _ := contextkeys.UserIDFromContext(c.UserContext())
		return c.SendString(userID)
	})
}

func (suite *RouteGuardTestSuite) get(path string, cookie string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "jwt_token", Value: cookie})
	}

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	return resp
}

func (suite *RouteGuardTestSuite) allowToken(token, userID string) {
	suite.mockUC.On("ValidateToken", mock.Anything, token).
		Return(&repository.Claims{UserID: userID, Email: userID + "@email.com"}, nil)
}

func (suite *RouteGuardTestSuite) TestNoSession_PublicPathProceeds() {
	resp := suite.get("/login", "")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	suite.mockUC.AssertNotCalled(suite.T(), "ValidateToken")
}

func (suite *RouteGuardTestSuite) TestNoSession_RootProceeds() {
	resp := suite.get("/", "")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *RouteGuardTestSuite) TestNoSession_ProtectedPathRedirectsToLogin() {
	resp := suite.get("/dashboard", "")

	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/login?redirect=%2Fdashboard", resp.Header.Get("Location"))
}

func (suite *RouteGuardTestSuite) TestSession_LoginPageRedirectsHome() {
	suite.allowToken("valid-token", "user-123")

	resp := suite.get("/login", "valid-token")

	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/", resp.Header.Get("Location"))
}

func (suite *RouteGuardTestSuite) TestSession_RegisterPageRedirectsHome() {
	suite.allowToken("valid-token", "user-123")

	resp := suite.get("/register", "valid-token")

	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/", resp.Header.Get("Location"))
}

func (suite *RouteGuardTestSuite) TestSession_ProtectedPathProceeds() {
	suite.allowToken("valid-token", "user-123")

	resp := suite.get("/itens", "valid-token")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *RouteGuardTestSuite) TestInvalidToken_FailsClosed() {
	// An expired or forged cookie must behave exactly like no cookie
	suite.mockUC.On("ValidateToken", mock.Anything, "expired-token").
		Return(nil, usecase.ErrTokenInvalid)

	resp := suite.get("/dashboard", "expired-token")

	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/login?redirect=%2Fdashboard", resp.Header.Get("Location"))
}

func (suite *RouteGuardTestSuite) TestInvalidToken_LoginPageProceeds() {
	suite.mockUC.On("ValidateToken", mock.Anything, "expired-token").
		Return(nil, usecase.ErrTokenInvalid)

	resp := suite.get("/login", "expired-token")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func (suite *RouteGuardTestSuite) TestAPIPathsAreSkipped() {
	resp := suite.get("/api/auth/session", "")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	suite.mockUC.AssertNotCalled(suite.T(), "ValidateToken")
}

func (suite *RouteGuardTestSuite) TestGuardNeverMutatesCookies() {
	resp := suite.get("/dashboard", "")

	assert.Empty(suite.T(), resp.Cookies())
}

func (suite *RouteGuardTestSuite) TestSession_InjectsUserContext() {
	suite.allowToken("valid-token", "user-123")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: "valid-token"})

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	assert.Equal(suite.T(), "user-123", string(body[:n]))
}

func TestRouteGuardTestSuite(t *testing.T) {
	suite.Run(t, new(RouteGuardTestSuite))
}
