package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voxlabs/voxgate/internal/version"
	"github.com/voxlabs/voxgate/internal/websocket"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, ws *websocket.Handler, environment string) {
	// Liveness check
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	e.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, VersionResponse{
			Version:     version.Version,
			Environment: environment,
		})
	})

	// WebSocket endpoint
	e.GET("/ws", ws.Handle)
}
