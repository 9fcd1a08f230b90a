package handler

import (
	"net/http"

	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreatePayment stores a payment type for the caller
func CreatePayment(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		MerchantName   string `json:"merchant_name"`
		AccountNumber  string `json:"account_number"`
		ExpirationDate string `json:"expiration_date"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.MerchantName == "" || req.AccountNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "merchant_name and account_number are required"})
	}

	payment := model.Payment{
		MerchantName:   req.MerchantName,
		AccountNumber:  req.AccountNumber,
		ExpirationDate: req.ExpirationDate,
		CustomerID:     custID,
	}
	if result := database.GetDB().Create(&payment); result.Error != nil {
		return internalError(c, "Failed to create payment type", result.Error)
	}

	log.Info("Payment type created",
		zap.Uint("payment_id", payment.ID),
		zap.String("merchant", payment.MerchantName))
	return c.JSON(http.StatusCreated, payment)
}

// ListPayments lists the caller's payment types
func ListPayments(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var payments []model.Payment
	result := database.GetDB().Where("customer_id = ?", custID).Order("id").Find(&payments)
	if result.Error != nil {
		return internalError(c, "Failed to retrieve payment types", result.Error)
	}
	return c.JSON(http.StatusOK, payments)
}

// GetPayment retrieves one of the caller's payment types
func GetPayment(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	var payment model.Payment
	result := database.GetDB().Where("id = ? AND customer_id = ?", id, custID).First(&payment)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Payment type not found"})
	}
	return c.JSON(http.StatusOK, payment)
}

// DeletePayment removes one of the caller's payment types
func DeletePayment(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	result := database.GetDB().Where("id = ? AND customer_id = ?", id, custID).Delete(&model.Payment{})
	if result.Error != nil {
		return internalError(c, "Failed to delete payment type", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Payment type not found"})
	}

	log.Info("Payment type deleted", zap.Uint("payment_id", id))
	return c.NoContent(http.StatusNoContent)
}
