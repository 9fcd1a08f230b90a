package handler

import (
	"net/http"

	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateStore handles creating a storefront owned by the caller
func CreateStore(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse store creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	store := model.Store{
		Name:        req.Name,
		Description: req.Description,
		SellerID:    custID,
	}
	if result := database.GetDB().Create(&store); result.Error != nil {
		return internalError(c, "Failed to create store", result.Error)
	}

	log.Info("Store created",
		zap.Uint("store_id", store.ID),
		zap.String("name", store.Name),
		zap.Uint("seller_id", store.SellerID))
	return c.JSON(http.StatusCreated, store)
}

// ListStores handles retrieving all stores with their item counts
func ListStores(c echo.Context) error {
	db := database.GetDB()

	var stores []model.Store
	if result := db.Preload("Seller.User").Order("id").Find(&stores); result.Error != nil {
		return internalError(c, "Failed to retrieve stores", result.Error)
	}

	if err := attachItemsForSale(db, stores); err != nil {
		return internalError(c, "Failed to retrieve stores", err)
	}
	return c.JSON(http.StatusOK, stores)
}

// GetStore handles retrieving a single store by ID
func GetStore(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store ID"})
	}

	db := database.GetDB()
	var store model.Store
	if result := db.Preload("Seller.User").First(&store, id); result.Error != nil {
		log.Warn("Store not found", zap.Uint("store_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Store not found"})
	}

	page := []model.Store{store}
	if err := attachItemsForSale(db, page); err != nil {
		return internalError(c, "Failed to retrieve store", err)
	}
	return c.JSON(http.StatusOK, page[0])
}

func attachItemsForSale(db *gorm.DB, stores []model.Store) error {
	if len(stores) == 0 {
		return nil
	}

	ids := make([]uint, len(stores))
	for i := range stores {
		ids[i] = stores[i].ID
	}

	type countRow struct {
		StoreID uint
		Items   int
	}
	var counts []countRow
	err := db.Model(&model.Product{}).
		Select("store_id, COUNT(*) AS items").
		Where("store_id IN ?", ids).
		Group("store_id").
		Scan(&counts).Error
	if err != nil {
		return err
	}

	byID := make(map[uint]int, len(counts))
	for _, r := range counts {
		byID[r.StoreID] = r.Items
	}
	for i := range stores {
		stores[i].ItemsForSale = byID[stores[i].ID]
	}
	return nil
}
