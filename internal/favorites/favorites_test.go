package favorites_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bangazon-api/internal/favorites"
	"bangazon-api/internal/model"
)

func memdb(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, username string) (model.User, model.Customer) {
	t.Helper()
	user := model.User{Username: username, Email: username + "@example.com", FirstName: username}
	require.NoError(t, db.Create(&user).Error)
	customer := model.Customer{UserID: user.ID}
	require.NoError(t, db.Create(&customer).Error)
	return user, customer
}

func seedProduct(t *testing.T, db *gorm.DB, owner model.Customer) model.Product {
	t.Helper()
	category := model.ProductCategory{Name: "General"}
	require.NoError(t, db.Create(&category).Error)
	product := model.Product{
		Name:       "Mug",
		Price:      8,
		Quantity:   3,
		CategoryID: category.ID,
		CustomerID: owner.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestLikeProductIdempotent(t *testing.T) {
	db := memdb(t)
	user, customer := seedAccount(t, db, "pia")
	product := seedProduct(t, db, customer)

	fav, created, err := favorites.LikeProduct(db, user.ID, product.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, product.ID, fav.ProductID)

	again, created, err := favorites.LikeProduct(db, user.ID, product.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, fav.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.FavoriteProduct{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLikeUnknownProduct(t *testing.T) {
	db := memdb(t)
	user, _ := seedAccount(t, db, "quin")

	_, _, err := favorites.LikeProduct(db, user.ID, 9999)
	require.ErrorIs(t, err, favorites.ErrProductNotFound)
}

func TestUnlikeProduct(t *testing.T) {
	db := memdb(t)
	user, customer := seedAccount(t, db, "rae")
	product := seedProduct(t, db, customer)

	_, _, err := favorites.LikeProduct(db, user.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, favorites.UnlikeProduct(db, user.ID, product.ID))
	require.ErrorIs(t, favorites.UnlikeProduct(db, user.ID, product.ID), favorites.ErrFavoriteNotFound)
}

func TestUnlikeLeavesOtherUsersLike(t *testing.T) {
	db := memdb(t)
	userA, customer := seedAccount(t, db, "sam")
	userB, _ := seedAccount(t, db, "tess")
	product := seedProduct(t, db, customer)

	_, _, err := favorites.LikeProduct(db, userB.ID, product.ID)
	require.NoError(t, err)

	require.ErrorIs(t, favorites.UnlikeProduct(db, userA.ID, product.ID), favorites.ErrFavoriteNotFound)

	liked, err := favorites.IsLikedBy(db, product.ID, userB.ID)
	require.NoError(t, err)
	require.True(t, liked)
}

func TestLikedProductsAndMarkLiked(t *testing.T) {
	db := memdb(t)
	user, customer := seedAccount(t, db, "uma")
	liked := seedProduct(t, db, customer)
	other := model.Product{Name: "Pen", Price: 2, CategoryID: liked.CategoryID, CustomerID: customer.ID}
	require.NoError(t, db.Create(&other).Error)

	_, _, err := favorites.LikeProduct(db, user.ID, liked.ID)
	require.NoError(t, err)

	got, err := favorites.LikedProducts(db, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, liked.ID, got[0].ID)
	require.True(t, got[0].IsLiked)

	page := []model.Product{liked, other}
	require.NoError(t, favorites.MarkLiked(db, page, user.ID))
	require.True(t, page[0].IsLiked)
	require.False(t, page[1].IsLiked)
}

func TestFavoriteSellerIdempotent(t *testing.T) {
	db := memdb(t)
	_, buyer := seedAccount(t, db, "val")
	_, seller := seedAccount(t, db, "wes")
	store := model.Store{Name: "Wes's Wares", SellerID: seller.ID}
	require.NoError(t, db.Create(&store).Error)

	fav, created, err := favorites.FavoriteSeller(db, buyer.ID, store.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, seller.ID, fav.SellerID)
	require.NotNil(t, fav.Seller)

	again, created, err := favorites.FavoriteSeller(db, buyer.ID, store.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, fav.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.Favorite{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestFavoriteOwnStoreRejected(t *testing.T) {
	db := memdb(t)
	_, seller := seedAccount(t, db, "xan")
	store := model.Store{Name: "Self Serve", SellerID: seller.ID}
	require.NoError(t, db.Create(&store).Error)

	_, _, err := favorites.FavoriteSeller(db, seller.ID, store.ID)
	require.ErrorIs(t, err, favorites.ErrSelfFavorite)
}

func TestFavoriteUnknownStore(t *testing.T) {
	db := memdb(t)
	_, buyer := seedAccount(t, db, "yui")

	_, _, err := favorites.FavoriteSeller(db, buyer.ID, 9999)
	require.ErrorIs(t, err, favorites.ErrStoreNotFound)
}

func TestUnfavoriteSellerOwnership(t *testing.T) {
	db := memdb(t)
	_, buyer := seedAccount(t, db, "zed")
	_, intruder := seedAccount(t, db, "ada")
	_, seller := seedAccount(t, db, "ben")
	store := model.Store{Name: "Ben's Bits", SellerID: seller.ID}
	require.NoError(t, db.Create(&store).Error)

	fav, _, err := favorites.FavoriteSeller(db, buyer.ID, store.ID)
	require.NoError(t, err)

	require.ErrorIs(t, favorites.UnfavoriteSeller(db, intruder.ID, fav.ID), favorites.ErrNotOwner)
	require.NoError(t, favorites.UnfavoriteSeller(db, buyer.ID, fav.ID))
	require.ErrorIs(t, favorites.UnfavoriteSeller(db, buyer.ID, fav.ID), favorites.ErrFavoriteNotFound)
}

func TestFavoriteSellersList(t *testing.T) {
	db := memdb(t)
	_, buyer := seedAccount(t, db, "cal")
	_, sellerA := seedAccount(t, db, "dot")
	_, sellerB := seedAccount(t, db, "eli")
	storeA := model.Store{Name: "A", SellerID: sellerA.ID}
	storeB := model.Store{Name: "B", SellerID: sellerB.ID}
	require.NoError(t, db.Create(&storeA).Error)
	require.NoError(t, db.Create(&storeB).Error)

	_, _, err := favorites.FavoriteSeller(db, buyer.ID, storeA.ID)
	require.NoError(t, err)
	_, _, err = favorites.FavoriteSeller(db, buyer.ID, storeB.ID)
	require.NoError(t, err)

	favs, err := favorites.FavoriteSellers(db, buyer.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	require.NotNil(t, favs[0].Seller)
	require.Equal(t, "dot", favs[0].Seller.User.Username)
}
