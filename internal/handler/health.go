package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	banner = "🛩️ Fleet API for Plane Management is Running!"
	about  = "Fleet and flight schedule management service."
)

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func HomeHandler(c echo.Context) error {
	return c.String(http.StatusOK, banner)
}

func AboutHandler(c echo.Context) error {
	return c.String(http.StatusOK, about)
}
