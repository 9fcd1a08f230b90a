package cart_test

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bangazon-api/internal/cart"
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
	// keep the in-memory database alive on a single connection
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

type fixture struct {
	customer model.Customer
	product  model.Product
	payment  model.Payment
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	user := model.User{Username: "meg", Email: "meg@example.com", FirstName: "Meg", LastName: "Ducharme"}
	require.NoError(t, db.Create(&user).Error)
	customer := model.Customer{UserID: user.ID}
	require.NoError(t, db.Create(&customer).Error)
	category := model.ProductCategory{Name: "Electronics"}
	require.NoError(t, db.Create(&category).Error)
	product := model.Product{
		Name:       "Kite",
		Price:      14.99,
		Quantity:   10,
		CategoryID: category.ID,
		CustomerID: customer.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	payment := model.Payment{MerchantName: "Visa", AccountNumber: "4111", CustomerID: customer.ID}
	require.NoError(t, db.Create(&payment).Error)
	return fixture{customer: customer, product: product, payment: payment}
}

func TestOpenOrderReusesExisting(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	first, err := cart.OpenOrder(db, f.customer.ID)
	require.NoError(t, err)
	second, err := cart.OpenOrder(db, f.customer.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Where("customer_id = ?", f.customer.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestOpenOrderConcurrentConvergence(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	const n = 8
	ids := make([]uint, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := cart.OpenOrder(db, f.customer.ID)
			if err != nil {
				t.Errorf("open order: %v", err)
				return
			}
			ids[i] = order.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Equal(t, ids[0], ids[i], "all callers must land on the same open order")
	}
	var count int64
	require.NoError(t, db.Model(&model.Order{}).Where("customer_id = ? AND payment_id IS NULL", f.customer.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemAccumulates(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	require.NotNil(t, item.Product)
	require.Equal(t, f.product.ID, item.ProductID)

	// same product again is a second line item, not an upsert
	_, err = cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	view, err := cart.Cart(db, f.customer.ID)
	require.NoError(t, err)
	require.Equal(t, 2, view.Size)
	require.Len(t, view.LineItems, 2)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	_, err := cart.AddItem(db, f.customer.ID, 9999)
	require.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestRemoveItemLeavesOrderOpen(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveItem(db, f.customer.ID, item.ID))

	// emptied cart is still an open order with zero items
	view, err := cart.Cart(db, f.customer.ID)
	require.NoError(t, err)
	require.Equal(t, 0, view.Size)
	require.Empty(t, view.LineItems)
}

func TestRemoveItemOwnership(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	other := model.User{Username: "jess", Email: "jess@example.com"}
	require.NoError(t, db.Create(&other).Error)
	otherCustomer := model.Customer{UserID: other.ID}
	require.NoError(t, db.Create(&otherCustomer).Error)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	err = cart.RemoveItem(db, otherCustomer.ID, item.ID)
	require.ErrorIs(t, err, cart.ErrLineItemNotFound)
}

func TestClearCartDeletesOrder(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	_, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	require.NoError(t, cart.ClearCart(db, f.customer.ID))

	_, err = cart.Cart(db, f.customer.ID)
	require.ErrorIs(t, err, cart.ErrNoOpenOrder)

	var items int64
	require.NoError(t, db.Model(&model.OrderLineItem{}).Count(&items).Error)
	require.EqualValues(t, 0, items)
}

func TestClearCartWithoutOpenOrder(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	err := cart.ClearCart(db, f.customer.ID)
	require.ErrorIs(t, err, cart.ErrNoOpenOrder)
}

func TestCompleteClosesOrder(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	order, err := cart.Complete(db, f.customer.ID, item.OrderID, f.payment.ID)
	require.NoError(t, err)
	require.NotNil(t, order.PaymentID)
	require.Equal(t, f.payment.ID, *order.PaymentID)
	require.NotNil(t, order.CompletedDate)

	// the completed order no longer serves as a cart
	_, err = cart.Cart(db, f.customer.ID)
	require.ErrorIs(t, err, cart.ErrNoOpenOrder)
}

func TestCompleteTwiceConflicts(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	_, err = cart.Complete(db, f.customer.ID, item.OrderID, f.payment.ID)
	require.NoError(t, err)

	_, err = cart.Complete(db, f.customer.ID, item.OrderID, f.payment.ID)
	require.ErrorIs(t, err, cart.ErrOrderCompleted)
}

func TestCompleteRequiresOwnPayment(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	other := model.User{Username: "dre", Email: "dre@example.com"}
	require.NoError(t, db.Create(&other).Error)
	otherCustomer := model.Customer{UserID: other.ID}
	require.NoError(t, db.Create(&otherCustomer).Error)
	foreignPayment := model.Payment{MerchantName: "Amex", AccountNumber: "3000", CustomerID: otherCustomer.ID}
	require.NoError(t, db.Create(&foreignPayment).Error)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	_, err = cart.Complete(db, f.customer.ID, item.OrderID, foreignPayment.ID)
	require.ErrorIs(t, err, cart.ErrPaymentNotFound)
}

func TestCompletedOrderRejectsMutation(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	_, err = cart.Complete(db, f.customer.ID, item.OrderID, f.payment.ID)
	require.NoError(t, err)

	_, err = cart.AddItemToOrder(db, f.customer.ID, item.OrderID, f.product.ID)
	require.ErrorIs(t, err, cart.ErrOrderCompleted)

	err = cart.RemoveItem(db, f.customer.ID, item.ID)
	require.ErrorIs(t, err, cart.ErrOrderCompleted)

	// line items of the closed order are untouched
	items, err := cart.LineItems(db, f.customer.ID, item.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCompleteThenAddOpensFreshOrder(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	first, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	_, err = cart.Complete(db, f.customer.ID, first.OrderID, f.payment.ID)
	require.NoError(t, err)

	second, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.OrderID, second.OrderID)

	orders, err := cart.Orders(db, f.customer.ID, nil)
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestOpenMarkerTracksOpenness(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	order, err := cart.OpenOrder(db, f.customer.ID)
	require.NoError(t, err)

	var stored model.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.NotNil(t, stored.OpenMarker)

	// a second open row for the same customer violates the unique index
	// even when inserted outside the engine
	duplicate := model.Order{CustomerID: f.customer.ID}
	require.Error(t, db.Create(&duplicate).Error)

	_, err = cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	_, err = cart.Complete(db, f.customer.ID, order.ID, f.payment.ID)
	require.NoError(t, err)

	// completion releases the slot: the marker goes NULL and a fresh cart
	// can open
	require.NoError(t, db.First(&stored, order.ID).Error)
	require.Nil(t, stored.OpenMarker)

	next, err := cart.OpenOrder(db, f.customer.ID)
	require.NoError(t, err)
	require.NotEqual(t, order.ID, next.ID)
}

func TestOrdersFilterByPayment(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	_, err = cart.Complete(db, f.customer.ID, item.OrderID, f.payment.ID)
	require.NoError(t, err)

	// a second, still-open order
	_, err = cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	paid, err := cart.Orders(db, f.customer.ID, &f.payment.ID)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.Equal(t, item.OrderID, paid[0].ID)
}

func TestClearOrderItemsKeepsOrder(t *testing.T) {
	db := memdb(t)
	f := seed(t, db)

	item, err := cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)
	_, err = cart.AddItem(db, f.customer.ID, f.product.ID)
	require.NoError(t, err)

	require.NoError(t, cart.ClearOrderItems(db, f.customer.ID, item.OrderID))

	view, err := cart.Cart(db, f.customer.ID)
	require.NoError(t, err)
	require.Equal(t, item.OrderID, view.ID)
	require.Equal(t, 0, view.Size)
}
