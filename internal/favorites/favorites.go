// Package favorites implements the two bookmark relations: product likes
// (keyed by user) and favorite sellers (keyed by customer). Both use the same
// idempotency contract: insert first, and on a unique-index violation return
// the existing row with created=false. There is no read-then-write race.
package favorites

import (
	"errors"
	"strings"

	"bangazon-api/internal/model"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrSelfFavorite     = errors.New("cannot favorite your own store")
	ErrNotOwner         = errors.New("favorite belongs to another customer")
)

// LikeProduct records a user's like of a product. The second return value
// reports whether a new row was created.
func LikeProduct(db *gorm.DB, userID, productID uint) (*model.FavoriteProduct, bool, error) {
	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrProductNotFound
		}
		return nil, false, err
	}

	fav := model.FavoriteProduct{UserID: userID, ProductID: productID}
	if err := db.Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			var existing model.FavoriteProduct
			if err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error; err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &fav, true, nil
}

// UnlikeProduct deletes the acting user's like of a product. Another user's
// like is untouchable from here by construction.
func UnlikeProduct(db *gorm.DB, userID, productID uint) error {
	result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.FavoriteProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// LikedProducts lists the products the user has liked
func LikedProducts(db *gorm.DB, userID uint) ([]model.Product, error) {
	var products []model.Product
	err := db.Preload("Category").Preload("Store").
		Joins("JOIN favorite_products ON favorite_products.product_id = products.id").
		Where("favorite_products.user_id = ?", userID).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].IsLiked = true
	}
	return products, nil
}

// IsLikedBy reports whether the viewer has liked the product. The viewer is
// an explicit parameter; there is no per-instance request state.
func IsLikedBy(db *gorm.DB, productID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&model.FavoriteProduct{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// MarkLiked sets the is_liked flag on a page of products for one viewer
func MarkLiked(db *gorm.DB, products []model.Product, userID uint) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	var likedIDs []uint
	err := db.Model(&model.FavoriteProduct{}).
		Where("user_id = ? AND product_id IN ?", userID, ids).
		Pluck("product_id", &likedIDs).Error
	if err != nil {
		return err
	}

	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for i := range products {
		products[i].IsLiked = liked[products[i].ID]
	}
	return nil
}

// FavoriteSeller bookmarks the seller behind a store. Favoriting a store the
// customer owns is rejected.
func FavoriteSeller(db *gorm.DB, customerID, storeID uint) (*model.Favorite, bool, error) {
	var store model.Store
	if err := db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, err
	}
	if store.SellerID == customerID {
		return nil, false, ErrSelfFavorite
	}

	fav := model.Favorite{CustomerID: customerID, SellerID: store.SellerID}
	if err := db.Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			var existing model.Favorite
			err := db.Preload("Seller.User").
				Where("customer_id = ? AND seller_id = ?", customerID, store.SellerID).
				First(&existing).Error
			if err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}

	if err := db.Preload("Seller.User").First(&fav, fav.ID).Error; err != nil {
		return nil, false, err
	}
	return &fav, true, nil
}

// FavoriteSellers lists the customer's favorite sellers
func FavoriteSellers(db *gorm.DB, customerID uint) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := db.Preload("Seller.User").
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}

// UnfavoriteSeller deletes a favorite by id. A favorite owned by a different
// customer is reported as such so the handler can return an ownership error.
func UnfavoriteSeller(db *gorm.DB, customerID, favoriteID uint) error {
	var fav model.Favorite
	if err := db.First(&fav, favoriteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	if fav.CustomerID != customerID {
		return ErrNotOwner
	}
	return db.Delete(&model.Favorite{}, fav.ID).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint")
}
