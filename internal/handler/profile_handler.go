package handler

import (
	"errors"
	"net/http"

	"bangazon-api/internal/favorites"
	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetProfile returns the caller's customer profile with payment types,
// stores, and recommendations made and received
func GetProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	db := database.GetDB()
	var customer model.Customer
	if result := db.Preload("User").First(&customer, custID); result.Error != nil {
		log.Error("Customer profile not found", zap.Uint("customer_id", custID), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer profile not found"})
	}

	var payments []model.Payment
	if result := db.Where("customer_id = ?", custID).Order("id").Find(&payments); result.Error != nil {
		return internalError(c, "Failed to retrieve profile", result.Error)
	}

	var stores []model.Store
	if result := db.Where("seller_id = ?", custID).Order("id").Find(&stores); result.Error != nil {
		return internalError(c, "Failed to retrieve profile", result.Error)
	}

	var recommends []model.Recommendation
	if result := db.Preload("Product").Where("recommender_id = ?", custID).Find(&recommends); result.Error != nil {
		return internalError(c, "Failed to retrieve profile", result.Error)
	}

	var received []model.Recommendation
	if result := db.Preload("Product").Preload("Recommender.User").Where("customer_id = ?", custID).Find(&received); result.Error != nil {
		return internalError(c, "Failed to retrieve profile", result.Error)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":                       customer.ID,
		"user":                     customer.User,
		"phone_number":             customer.PhoneNumber,
		"address":                  customer.Address,
		"payment_types":            payments,
		"stores":                   stores,
		"recommends":               recommends,
		"recommendations_received": received,
	})
}

// ListFavoriteSellers lists the caller's favorite sellers
func ListFavoriteSellers(c echo.Context) error {
	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	favs, err := favorites.FavoriteSellers(database.GetDB(), custID)
	if err != nil {
		return internalError(c, "Failed to retrieve favorite sellers", err)
	}
	return c.JSON(http.StatusOK, favs)
}

// AddFavoriteSeller bookmarks the seller behind a store. First favorite
// returns 201; a repeat returns 200 with the existing row.
func AddFavoriteSeller(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		StoreID uint `json:"store_id"`
	}
	if err := c.Bind(&req); err != nil || req.StoreID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "store_id is required"})
	}

	fav, created, err := favorites.FavoriteSeller(database.GetDB(), custID, req.StoreID)
	if err != nil {
		switch {
		case errors.Is(err, favorites.ErrStoreNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Store not found"})
		case errors.Is(err, favorites.ErrSelfFavorite):
			log.Warn("Self-favorite rejected", zap.Uint("store_id", req.StoreID))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "You cannot favorite your own store"})
		default:
			return internalError(c, "Failed to favorite seller", err)
		}
	}

	prometheus.RecordFavoriteOperation("favorite_seller")
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	log.Info("Seller favorited",
		zap.Uint("seller_id", fav.SellerID),
		zap.Bool("created", created))
	return c.JSON(status, echo.Map{
		"id":      fav.ID,
		"seller":  fav.Seller,
		"created": created,
	})
}

// RemoveFavoriteSeller deletes one of the caller's seller favorites
func RemoveFavoriteSeller(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		FavoriteID uint `json:"favorite_id"`
	}
	if err := c.Bind(&req); err != nil || req.FavoriteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "favorite_id is required"})
	}

	if err := favorites.UnfavoriteSeller(database.GetDB(), custID, req.FavoriteID); err != nil {
		switch {
		case errors.Is(err, favorites.ErrFavoriteNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Favorite not found"})
		case errors.Is(err, favorites.ErrNotOwner):
			log.Warn("Attempt to delete another customer's favorite", zap.Uint("favorite_id", req.FavoriteID))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to delete this favorite"})
		default:
			return internalError(c, "Failed to remove favorite", err)
		}
	}

	prometheus.RecordFavoriteOperation("unfavorite_seller")
	log.Info("Favorite seller removed", zap.Uint("favorite_id", req.FavoriteID))
	return c.NoContent(http.StatusNoContent)
}
