package handler

import (
	"net/http"
	"strconv"

	"bangazon-api/internal/middleware"
	"bangazon-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// paramID parses a numeric path parameter
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// customerID pulls the acting customer from the auth context, replying 401
// itself when the middleware did not run
func customerID(c echo.Context) (uint, bool) {
	id, ok := middleware.CustomerID(c)
	if !ok {
		log := logger.FromEcho(c)
		log.Error("Missing customer identity in context")
	}
	return id, ok
}

// userID pulls the acting user from the auth context
func userID(c echo.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		log := logger.FromEcho(c)
		log.Error("Missing user identity in context")
	}
	return id, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}

func internalError(c echo.Context, msg string, err error) error {
	logger.FromEcho(c).Error(msg, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "bangazon-api",
	})
}
