package backendproxy

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/config"
)

// Handler handles backend proxy HTTP requests.
type Handler struct {
	client *Client
}

// NewHandler creates a new backend proxy handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		client: NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.BackendTimeout),
	}
}

// NewHandlerWithClient creates a handler around an existing client.
func NewHandlerWithClient(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers proxy routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Any("/v1/backend/*", h.Proxy)
}

// Proxy forwards the request to the upstream backend with service
// credentials attached and copies the response back verbatim.
func (h *Handler) Proxy(c echo.Context) error {
	req := c.Request()
	path := strings.TrimPrefix(req.URL.Path, "/v1/backend")
	if path == "" {
		path = "/"
	}

	resp, err := h.client.Forward(req.Context(), req.Method, path, req.URL.RawQuery, req.Body, req.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("ERROR: backend proxy request failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		c.Response().Header().Set("Content-Type", ct)
	}
	c.Response().WriteHeader(resp.StatusCode)
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		log.Printf("WARN: backend proxy copy failed: %v", err)
	}
	return nil
}
