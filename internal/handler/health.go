package handler // HTTP handlers for the question service

import (
	"net/http" // status codes

	"github.com/labstack/echo/v4" // echo context
)

// Health answers load balancer probes with a plain "ok".  It does not touch
// Redis or the broker; those are optional and degrade on their own.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok") // plain text, 200
}
