package handler

import (
	"net/http"

	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCategories handles retrieving all product categories
func ListCategories(c echo.Context) error {
	var categories []model.ProductCategory
	if result := database.GetDB().Order("name").Find(&categories); result.Error != nil {
		return internalError(c, "Failed to retrieve categories", result.Error)
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory handles creating a new product category
func CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := model.ProductCategory{Name: req.Name}
	if result := database.GetDB().Create(&category); result.Error != nil {
		return internalError(c, "Failed to create category", result.Error)
	}

	log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}
