package catalog_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bangazon-api/internal/catalog"
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

func seedCustomer(t *testing.T, db *gorm.DB, username string) model.Customer {
	t.Helper()
	user := model.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	customer := model.Customer{UserID: user.ID}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedCategory(t *testing.T, db *gorm.DB, name string) model.ProductCategory {
	t.Helper()
	category := model.ProductCategory{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, customer model.Customer, category model.ProductCategory, name string, price float64, location string) model.Product {
	t.Helper()
	product := model.Product{
		Name:       name,
		Price:      price,
		Quantity:   5,
		Location:   location,
		CategoryID: category.ID,
		CustomerID: customer.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// markSold closes an order holding the product so sold counts pick it up
func markSold(t *testing.T, db *gorm.DB, customer model.Customer, product model.Product, times int) {
	t.Helper()
	payment := model.Payment{MerchantName: "Visa", AccountNumber: "4111", CustomerID: customer.ID}
	require.NoError(t, db.Create(&payment).Error)
	now := time.Now()
	order := model.Order{CustomerID: customer.ID, PaymentID: &payment.ID, CompletedDate: &now}
	require.NoError(t, db.Create(&order).Error)
	for i := 0; i < times; i++ {
		item := model.OrderLineItem{OrderID: order.ID, ProductID: product.ID}
		require.NoError(t, db.Create(&item).Error)
	}
}

func TestListFiltersAreConjunctive(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "ari")
	electronics := seedCategory(t, db, "Electronics")
	toys := seedCategory(t, db, "Toys")
	seedProduct(t, db, customer, electronics, "Radio", 40, "Nashville")
	seedProduct(t, db, customer, electronics, "Amp", 250, "Memphis")
	seedProduct(t, db, customer, toys, "Kite", 40, "Nashville")

	min := 30.0
	max := 100.0
	got, err := catalog.List(db, catalog.Filter{
		CategoryID: &electronics.ID,
		MinPrice:   &min,
		MaxPrice:   &max,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Radio", got[0].Name)
}

func TestListLocationSubstringIgnoresCase(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "bo")
	category := seedCategory(t, db, "Sporting Goods")
	seedProduct(t, db, customer, category, "Ball", 10, "Nashville")
	seedProduct(t, db, customer, category, "Bat", 25, "Knoxville")

	got, err := catalog.List(db, catalog.Filter{Location: "NASH"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Ball", got[0].Name)
}

func TestListPriceDirection(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "cam")
	category := seedCategory(t, db, "Games")
	seedProduct(t, db, customer, category, "Cheap", 5, "")
	seedProduct(t, db, customer, category, "Dear", 500, "")

	asc, err := catalog.List(db, catalog.Filter{Direction: "asc"})
	require.NoError(t, err)
	require.Equal(t, []string{"Cheap", "Dear"}, []string{asc[0].Name, asc[1].Name})

	desc, err := catalog.List(db, catalog.Filter{Direction: "desc"})
	require.NoError(t, err)
	require.Equal(t, []string{"Dear", "Cheap"}, []string{desc[0].Name, desc[1].Name})
}

func TestNumberSoldCountsOnlyPaidOrders(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "dee")
	category := seedCategory(t, db, "Music")
	product := seedProduct(t, db, customer, category, "Record", 20, "")

	// an open-order line item must not count as sold
	openOrder := model.Order{CustomerID: customer.ID}
	require.NoError(t, db.Create(&openOrder).Error)
	require.NoError(t, db.Create(&model.OrderLineItem{OrderID: openOrder.ID, ProductID: product.ID}).Error)

	got, err := catalog.Get(db, product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.NumberSold)

	buyer := seedCustomer(t, db, "eve")
	markSold(t, db, buyer, product, 3)

	got, err = catalog.Get(db, product.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.NumberSold)
}

func TestSoldOnlyFilter(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "fin")
	category := seedCategory(t, db, "Books")
	sold := seedProduct(t, db, customer, category, "Novel", 12, "")
	seedProduct(t, db, customer, category, "Atlas", 30, "")

	buyer := seedCustomer(t, db, "gus")
	markSold(t, db, buyer, sold, 1)

	got, err := catalog.List(db, catalog.Filter{SoldOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, sold.ID, got[0].ID)
}

func TestNumberSoldFilter(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "nel")
	category := seedCategory(t, db, "Vinyl")
	hot := seedProduct(t, db, customer, category, "Hit Single", 18, "")
	slow := seedProduct(t, db, customer, category, "B-Side", 18, "")

	buyerA := seedCustomer(t, db, "oda")
	buyerB := seedCustomer(t, db, "pat")
	markSold(t, db, buyerA, hot, 3)
	markSold(t, db, buyerB, slow, 1)

	min := 2
	got, err := catalog.List(db, catalog.Filter{NumberSold: &min})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, hot.ID, got[0].ID)
	require.Equal(t, 3, got[0].NumberSold)
}

func TestQuantityFilter(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "raj")
	category := seedCategory(t, db, "Plants")
	stocked := seedProduct(t, db, customer, category, "Fern", 9, "")
	scarce := model.Product{Name: "Bonsai", Price: 120, Quantity: 1, CategoryID: category.ID, CustomerID: customer.ID}
	require.NoError(t, db.Create(&scarce).Error)

	min := 3
	got, err := catalog.List(db, catalog.Filter{Quantity: &min})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, stocked.ID, got[0].ID)
}

func TestAverageRatingDefaultsToZero(t *testing.T) {
	db := memdb(t)
	customer := seedCustomer(t, db, "hal")
	category := seedCategory(t, db, "Art")
	product := seedProduct(t, db, customer, category, "Print", 60, "")

	got, err := catalog.Get(db, product.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, got.AverageRating)
}

func TestRateUpsertsPerCustomer(t *testing.T) {
	db := memdb(t)
	seller := seedCustomer(t, db, "ida")
	category := seedCategory(t, db, "Tools")
	product := seedProduct(t, db, seller, category, "Drill", 90, "")

	raterA := seedCustomer(t, db, "jay")
	raterB := seedCustomer(t, db, "kat")

	require.NoError(t, catalog.Rate(db, product.ID, raterA.ID, 5))
	require.NoError(t, catalog.Rate(db, product.ID, raterB.ID, 2))

	got, err := catalog.Get(db, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 3.5, got.AverageRating, 0.001)

	// re-rating replaces, it does not add a second vote
	require.NoError(t, catalog.Rate(db, product.ID, raterA.ID, 2))

	got, err = catalog.Get(db, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 2.0, got.AverageRating, 0.001)

	var count int64
	require.NoError(t, db.Model(&model.ProductRating{}).Where("product_id = ?", product.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestRateBounds(t *testing.T) {
	db := memdb(t)
	seller := seedCustomer(t, db, "lou")
	category := seedCategory(t, db, "Garden")
	product := seedProduct(t, db, seller, category, "Hose", 15, "")

	require.ErrorIs(t, catalog.Rate(db, product.ID, seller.ID, 0), catalog.ErrInvalid)
	require.ErrorIs(t, catalog.Rate(db, product.ID, seller.ID, 6), catalog.ErrInvalid)
	require.ErrorIs(t, catalog.Rate(db, 9999, seller.ID, 3), catalog.ErrNotFound)
}

func TestValidateInput(t *testing.T) {
	require.NoError(t, catalog.ValidateInput("Lamp", 25, 1))
	require.ErrorIs(t, catalog.ValidateInput("", 25, 1), catalog.ErrInvalid)
	require.ErrorIs(t, catalog.ValidateInput("Lamp", -1, 1), catalog.ErrInvalid)
	require.ErrorIs(t, catalog.ValidateInput("Lamp", 17500.01, 1), catalog.ErrInvalid)
	require.ErrorIs(t, catalog.ValidateInput("Lamp", 25, -1), catalog.ErrInvalid)
	require.NoError(t, catalog.ValidateInput("Lamp", 17500, 0))
}

func TestRecommend(t *testing.T) {
	db := memdb(t)
	seller := seedCustomer(t, db, "mia")
	category := seedCategory(t, db, "Office")
	product := seedProduct(t, db, seller, category, "Desk", 300, "")
	friend := seedCustomer(t, db, "ned")

	rec, err := catalog.Recommend(db, product.ID, seller.ID, friend.ID)
	require.NoError(t, err)
	require.Equal(t, friend.ID, rec.CustomerID)
	require.Equal(t, seller.ID, rec.RecommenderID)

	// repeats are allowed
	_, err = catalog.Recommend(db, product.ID, seller.ID, friend.ID)
	require.NoError(t, err)

	_, err = catalog.Recommend(db, product.ID, seller.ID, 9999)
	require.ErrorIs(t, err, catalog.ErrInvalid)

	_, err = catalog.Recommend(db, 9999, seller.ID, friend.ID)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestGetUnknownProduct(t *testing.T) {
	db := memdb(t)
	_, err := catalog.Get(db, 42)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}
