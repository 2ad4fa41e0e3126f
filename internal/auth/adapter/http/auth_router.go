package http

import (
	"errors"
	"time"

	"reuse-gateway/internal/auth/config"
	"reuse-gateway/internal/auth/usecase"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	config  *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cfg *config.Config,
	log logger.Logger,
	m *metrics.Metrics,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase: uc,
		config:  cfg,
		log:     log.WithComponent("auth.http"),
		metrics: m,
	}
}

// SetupRoutes registers the auth endpoints with the provided router
func (h *AuthHTTPHandler) SetupRoutes(router fiber.Router, middleware *AuthMiddleware) {
	// Credential endpoints carry the login rate limiter
	users := router.Group("/api/users", middleware.RateLimiter())
	users.Post("/login", h.Login)
	users.Post("/register", h.Register)

	auth := router.Group("/api/auth")
	auth.Get("/session", h.Session)
	auth.Post("/logout", middleware.Protect(), h.Logout)
}

// Login issues a session: verifies credentials, mints a token and persists
// it as an HTTP-only cookie
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	user, token, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeDenied).Inc()
			h.log.WithFields(map[string]interface{}{"ip": c.IP()}).Warn("login rejected: credentials did not match")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid email or password",
			})
		}
		h.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.Errorf("login failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	h.setCookie(c, token)
	h.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return c.JSON(user.Public())
}

// Register creates a credential record and issues a session like Login
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	user, token, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	h.setCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

// Session introspects the caller's cookie and returns the public projection
// of the authenticated user. Safe to call on every page load.
func (h *AuthHTTPHandler) Session(c *fiber.Ctx) error {
	token := c.Cookies(h.config.CookieName)
	if token == "" {
		h.metrics.SessionReads.WithLabelValues(metrics.OutcomeDenied).Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "not authenticated",
		})
	}

	user, err := h.usecase.GetUserFromToken(c.Context(), token)
	if err != nil {
		h.metrics.SessionReads.WithLabelValues(metrics.OutcomeDenied).Inc()
		h.log.Debugf("session read rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "session invalid or expired",
		})
	}

	h.metrics.SessionReads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return c.JSON(user.Public())
}

// Logout clears the session cookie. Tokens are stateless so there is
// nothing to revoke server-side.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c)
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	maxAge := int(h.config.TokenTTL.Seconds())
	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    token,
		Path:     h.config.CookiePath,
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		Secure:   h.config.CookieSecure,
		HTTPOnly: h.config.CookieHTTPOnly,
		SameSite: h.config.CookieSameSite,
		Expires:  time.Now().Add(h.config.TokenTTL),
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     h.config.CookiePath,
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		Secure:   h.config.CookieSecure,
		HTTPOnly: h.config.CookieHTTPOnly,
		SameSite: h.config.CookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
