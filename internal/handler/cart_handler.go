package handler

import (
	"errors"
	"net/http"

	"bangazon-api/internal/cart"
	"bangazon-api/internal/catalog"
	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetCart returns the caller's open order with its line items and size.
// Having no open order is a 404, distinct from an open order with no items.
func GetCart(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	db := database.GetDB()
	view, err := cart.Cart(db, custID)
	if err != nil {
		if errors.Is(err, cart.ErrNoOpenOrder) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No open order"})
		}
		return internalError(c, "Failed to retrieve cart", err)
	}

	// Fill derived values on the carted products
	products := make([]model.Product, 0, len(view.LineItems))
	for i := range view.LineItems {
		if view.LineItems[i].Product != nil {
			products = append(products, *view.LineItems[i].Product)
		}
	}
	if err := catalog.AttachDerived(db, products); err != nil {
		return internalError(c, "Failed to retrieve cart", err)
	}
	for i, j := 0, 0; i < len(view.LineItems); i++ {
		if view.LineItems[i].Product != nil {
			view.LineItems[i].Product = &products[j]
			j++
		}
	}

	return c.JSON(http.StatusOK, view)
}

// AddToCart puts a product in the caller's cart, creating the open order on
// first use
func AddToCart(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
	}

	item, err := cart.AddItem(database.GetDB(), custID, req.ProductID)
	if err != nil {
		if errors.Is(err, cart.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return internalError(c, "Failed to add product to cart", err)
	}

	prometheus.RecordCartOperation("add")
	log.Info("Product added to cart",
		zap.Uint("product_id", req.ProductID),
		zap.Uint("order_id", item.OrderID))
	return c.JSON(http.StatusCreated, item)
}

// ClearCart deletes the open order's line items and the order itself
func ClearCart(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	if err := cart.ClearCart(database.GetDB(), custID); err != nil {
		if errors.Is(err, cart.ErrNoOpenOrder) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No open order"})
		}
		return internalError(c, "Failed to clear cart", err)
	}

	prometheus.RecordCartOperation("clear")
	log.Info("Cart cleared")
	return c.NoContent(http.StatusNoContent)
}

// RemoveCartItem deletes one line item from the caller's open order
func RemoveCartItem(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid line item ID"})
	}

	if err := cart.RemoveItem(database.GetDB(), custID, id); err != nil {
		switch {
		case errors.Is(err, cart.ErrLineItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Line item not found"})
		case errors.Is(err, cart.ErrOrderCompleted):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Order is completed and cannot be modified"})
		default:
			return internalError(c, "Failed to remove line item", err)
		}
	}

	prometheus.RecordCartOperation("remove_item")
	log.Info("Line item removed from cart", zap.Uint("line_item_id", id))
	return c.NoContent(http.StatusNoContent)
}
