// Package gateway wires the pass-through proxy to the remote data API.
package gateway

import (
	gatewayhttp "reuse-gateway/internal/gateway/adapter/http"
	"reuse-gateway/internal/gateway/config"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
)

// GatewayModule represents the data-API proxy module
type GatewayModule struct {
	handler *gatewayhttp.ProxyHandler
	config  *config.Config
}

// NewGatewayModule creates a new gateway module instance
func NewGatewayModule(cfg *config.Config, log logger.Logger, m *metrics.Metrics) *GatewayModule {
	return &GatewayModule{
		handler: gatewayhttp.NewProxyHandler(cfg, log, m),
		config:  cfg,
	}
}

// RegisterRoutes registers the proxy routes with the provided router
func (gm *GatewayModule) RegisterRoutes(router fiber.Router) {
	gm.handler.SetupRoutes(router)
}
