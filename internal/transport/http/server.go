// Package http provides the HTTP server for the campaign operations service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/leadpilot/campaignops/internal/config"
	"github.com/leadpilot/campaignops/internal/hub"
	"github.com/leadpilot/campaignops/internal/service"
	"github.com/leadpilot/campaignops/internal/transport/http/backendproxy"
	"github.com/leadpilot/campaignops/internal/transport/http/internalapi"
	v1 "github.com/leadpilot/campaignops/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. One server carries the
// dashboard API, the backend ingest API, the backend proxy, and the
// narrative watch socket.
func NewServer(svc *service.Service, h *hub.Hub, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, h)
	internalHandler := internalapi.NewHandler(svc)
	proxyHandler := backendproxy.NewHandler(cfg)

	// Register routes
	v1Handler.RegisterRoutes(e)
	internalHandler.RegisterRoutes(e)
	proxyHandler.RegisterRoutes(e)

	return e
}
