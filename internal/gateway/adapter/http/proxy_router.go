package http

import (
	"reuse-gateway/internal/gateway/config"
	apperrors "reuse-gateway/internal/shared/errors"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

// ProxyHandler forwards CRUD requests (items, coupons, payments, history,
// ratings) to the remote data API. It is a deliberate pass-through: no
// business logic lives here.
type ProxyHandler struct {
	config  *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewProxyHandler creates a new data-API proxy handler
func NewProxyHandler(cfg *config.Config, log logger.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		config:  cfg,
		log:     log.WithComponent("gateway.proxy"),
		metrics: m,
	}
}

// SetupRoutes registers the pass-through routes
func (h *ProxyHandler) SetupRoutes(router fiber.Router) {
	router.All("/api/data/*", h.Forward)
}

// Forward proxies the request to the upstream data API with a bounded
// timeout. Upstream failures surface as a retryable 502 and never crash
// the session layer.
func (h *ProxyHandler) Forward(c *fiber.Ctx) error {
	target := h.config.DataAPIBaseURL + "/" + c.Params("*")
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}

	if err := proxy.DoTimeout(c, target, h.config.UpstreamTimeout); err != nil {
		h.metrics.UpstreamErrors.Inc()
		upstreamErr := apperrors.NewUpstreamError("upstream service unavailable").
			WithCause(err).WithComponent("gateway.proxy")
		h.log.Errorf("upstream call to %s failed: %v", target, upstreamErr)
		return c.Status(apperrors.HTTPStatus(upstreamErr)).JSON(fiber.Map{
			"message":   upstreamErr.Message,
			"retryable": true,
		})
	}

	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
