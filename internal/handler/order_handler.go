package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bangazon-api/internal/cart"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListOrders lists the caller's orders, optionally filtered by payment used
func ListOrders(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var paymentID *uint
	if v := c.QueryParam("payment_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_id"})
		}
		pid := uint(id)
		paymentID = &pid
	}

	orders, err := cart.Orders(database.GetDB(), custID, paymentID)
	if err != nil {
		return internalError(c, "Failed to retrieve orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves one of the caller's orders
func GetOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	order, err := cart.Order(database.GetDB(), custID, id)
	if err != nil {
		if errors.Is(err, cart.ErrOrderNotFound) {
			log.Warn("Order not found", zap.Uint("order_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"message": "The requested order does not exist, or you do not have permission to access it.",
			})
		}
		return internalError(c, "Failed to retrieve order", err)
	}
	return c.JSON(http.StatusOK, order)
}

// CompleteOrder attaches a payment and closes the order. Both PUT /orders/:id
// and PUT /orders/:id/complete run this single completion path.
func CompleteOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var req struct {
		PaymentType uint `json:"payment_type"`
	}
	if err := c.Bind(&req); err != nil || req.PaymentType == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_type is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	_, err = cart.Complete(database.GetDB(), custID, id, req.PaymentType)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrOrderNotFound):
			log.Warn("Order not found for completion", zap.Uint("order_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		case errors.Is(err, cart.ErrOrderCompleted):
			log.Warn("Order already completed", zap.Uint("order_id", id))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Order is already completed"})
		case errors.Is(err, cart.ErrPaymentNotFound):
			log.Warn("Payment type not found", zap.Uint("payment_id", req.PaymentType))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Payment type not found"})
		default:
			return internalError(c, "Failed to complete order", err)
		}
	}

	prometheus.OrdersCompletedCounter.Inc()
	log.Info("Order completed",
		zap.Uint("order_id", id),
		zap.Uint("payment_id", req.PaymentType))
	return c.NoContent(http.StatusNoContent)
}

// ListOrderLineItems lists the line items of one of the caller's orders
func ListOrderLineItems(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	items, err := cart.LineItems(database.GetDB(), custID, id)
	if err != nil {
		if errors.Is(err, cart.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		return internalError(c, "Failed to retrieve line items", err)
	}
	return c.JSON(http.StatusOK, items)
}

// AddOrderLineItem inserts a product into a specific order. Completed orders
// reject the mutation.
func AddOrderLineItem(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
	}

	item, err := cart.AddItemToOrder(database.GetDB(), custID, id, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		case errors.Is(err, cart.ErrOrderCompleted):
			log.Warn("Rejected line item on completed order", zap.Uint("order_id", id))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Order is completed and cannot be modified"})
		case errors.Is(err, cart.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		default:
			return internalError(c, "Failed to add line item", err)
		}
	}

	prometheus.RecordCartOperation("add_item")
	log.Info("Line item added",
		zap.Uint("order_id", id),
		zap.Uint("product_id", req.ProductID))
	return c.JSON(http.StatusCreated, item)
}

// ClearOrderLineItems deletes all line items of the caller's open order,
// keeping the order itself
func ClearOrderLineItems(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	if err := cart.ClearOrderItems(database.GetDB(), custID, id); err != nil {
		if errors.Is(err, cart.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		return internalError(c, "Failed to clear order", err)
	}

	prometheus.RecordCartOperation("clear_items")
	log.Info("Order line items cleared", zap.Uint("order_id", id))
	return c.NoContent(http.StatusNoContent)
}
