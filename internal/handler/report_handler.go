package handler

import (
	"net/http"

	"bangazon-api/internal/report"
	"bangazon-api/pkg/database"

	"github.com/labstack/echo/v4"
)

// IncompleteOrdersReport lists unpaid orders with running totals. Gated by
// ?status=incomplete; any other value yields an empty result.
func IncompleteOrdersReport(c echo.Context) error {
	if c.QueryParam("status") != "incomplete" {
		return c.JSON(http.StatusOK, echo.Map{"orders": []report.OrderSummary{}})
	}

	rows, err := report.IncompleteOrders(database.GetDB())
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}

// CompletedOrdersReport lists paid orders with payment display fields
func CompletedOrdersReport(c echo.Context) error {
	rows, err := report.CompletedOrders(database.GetDB())
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}

// ExpensiveProductsReport lists products at or above the price threshold
func ExpensiveProductsReport(c echo.Context) error {
	products, err := report.ExpensiveProducts(database.GetDB())
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// InexpensiveProductsReport lists products below the price threshold
func InexpensiveProductsReport(c echo.Context) error {
	products, err := report.InexpensiveProducts(database.GetDB())
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// FavoriteSellersReport lists the caller's favorite sellers by display name
func FavoriteSellersReport(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	rows, err := report.FavoriteSellers(database.GetDB(), custID)
	if err != nil {
		return internalError(c, "Failed to build report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sellers": rows})
}
