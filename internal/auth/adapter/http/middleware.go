package http

import (
	"context"
	"strings"
	"time"

	"reuse-gateway/internal/auth/usecase"
	"reuse-gateway/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
	storage    fiber.Storage
}

// NewAuthMiddleware creates a new authentication middleware. storage backs
// the login rate limiter and may be nil to use fiber's in-memory storage.
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string, storage fiber.Storage) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
		storage:    storage,
	}
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RateLimiter creates rate limiting middleware for the credential endpoints
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           m.storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "too many attempts, please try again later",
			})
		},
	})
}

// Protect returns middleware that requires a valid session token
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "not authenticated",
			})
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "not authenticated",
			})
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		if claims.Email != "" {
			ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		}
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// extractToken extracts the session token from the cookie, with a bearer
// header fallback for non-browser clients
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if token := c.Cookies(m.cookieName); token != "" {
		return token, nil
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return "", fiber.NewError(fiber.StatusUnauthorized, "no authentication token found")
}
