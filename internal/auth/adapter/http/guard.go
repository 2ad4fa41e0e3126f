package http

import (
	"context"
	"net/url"
	"strings"

	"reuse-gateway/internal/auth/domain/repository"
	"reuse-gateway/internal/auth/usecase"
	"reuse-gateway/internal/shared/contextkeys"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// RouteGuard intercepts page requests before they reach a handler and
// decides whether to allow, redirect to login, or bounce an authenticated
// user off the login/register pages. It verifies the token fully rather
// than checking cookie presence, so an expired or forged cookie fails
// closed here instead of leaking through to the session endpoint.
type RouteGuard struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
	log        logger.Logger
	metrics    *metrics.Metrics

	publicPaths   map[string]struct{}
	authOnlyPaths map[string]struct{}
	skipPrefixes  []string
}

// NewRouteGuard creates a route guard with the default path policy
func NewRouteGuard(uc usecase.AuthUsecaseInterface, cookieName string, log logger.Logger, m *metrics.Metrics) *RouteGuard {
	return &RouteGuard{
		usecase:    uc,
		cookieName: cookieName,
		log:        log.WithComponent("guard"),
		metrics:    m,
		publicPaths: map[string]struct{}{
			"/":         {},
			"/login":    {},
			"/register": {},
		},
		authOnlyPaths: map[string]struct{}{
			"/login":    {},
			"/register": {},
		},
		skipPrefixes: []string{"/api/", "/static/", "/favicon.ico", "/healthz", "/metrics"},
	}
}

// Handler returns the guard as Fiber middleware
func (g *RouteGuard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// API routes and static assets carry their own auth handling
		for _, prefix := range g.skipPrefixes {
			if strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/") {
				return c.Next()
			}
		}

		claims := g.verifySession(c)
		hasSession := claims != nil
		_, isPublic := g.publicPaths[path]
		_, isAuthOnly := g.authOnlyPaths[path]

		switch {
		case !hasSession && !isPublic:
			g.metrics.GuardDecisions.WithLabelValues(metrics.DecisionRedirectLogin).Inc()
			g.log.Debugf("redirecting unauthenticated request for %s to login", path)
			return c.Redirect("/login?redirect="+url.QueryEscape(path), fiber.StatusFound)

		case hasSession && isAuthOnly:
			g.metrics.GuardDecisions.WithLabelValues(metrics.DecisionRedirectHome).Inc()
			return c.Redirect("/", fiber.StatusFound)

		default:
			g.metrics.GuardDecisions.WithLabelValues(metrics.DecisionAllow).Inc()
			if hasSession {
				ctx := c.UserContext()
				ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
				if claims.Email != "" {
					ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
				}
				c.SetUserContext(ctx)
			}
			return c.Next()
		}
	}
}

// verifySession returns the verified claims or nil. The guard never mutates
// cookies; an invalid token is simply treated as no session.
func (g *RouteGuard) verifySession(c *fiber.Ctx) *repository.Claims {
	token := c.Cookies(g.cookieName)
	if token == "" {
		return nil
	}

	claims, err := g.usecase.ValidateToken(c.Context(), token)
	if err != nil {
		g.log.Debugf("guard rejected token: %v", err)
		return nil
	}

	return claims
}
