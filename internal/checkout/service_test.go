package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/cart"
	"github.com/vardanhq/vardan-api/internal/checkout"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

type fixture struct {
	fake     *storetest.Fake
	carts    *cart.Service
	checkout *checkout.Service
	customer authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := storetest.New()
	return &fixture{
		fake:     fake,
		carts:    &cart.Service{Q: fake},
		checkout: &checkout.Service{Q: fake},
		customer: authz.Actor{UserID: store.UUIDString(store.NewID()), Role: authz.RoleCustomer},
	}
}

func (fx *fixture) seedAddress(t *testing.T, userID string) store.Address {
	t.Helper()
	uid, err := store.ToUUID(userID)
	require.NoError(t, err)
	a, err := fx.fake.CreateAddress(context.Background(), store.CreateAddressParams{
		ID: store.NewID(), UserID: uid, Street: "Jl. Merdeka 1", City: "Jakarta", Country: "ID",
	})
	require.NoError(t, err)
	return a
}

func (fx *fixture) seedProduct(t *testing.T, name string, price int64, stock int32) store.Product {
	t.Helper()
	p, err := fx.fake.CreateProduct(context.Background(), store.CreateProductParams{
		ID: store.NewID(), Name: name, Price: price, Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func (fx *fixture) fill(t *testing.T, productID string, qty int32) {
	t.Helper()
	_, err := fx.carts.AddItem(context.Background(), fx.customer, productID, qty)
	require.NoError(t, err)
}

func TestPlaceOrderTotalsAndClearsCart(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seedAddress(t, fx.customer.UserID)
	a := fx.seedProduct(t, "Novel", 1500, 10)
	b := fx.seedProduct(t, "Pen", 300, 10)
	fx.fill(t, store.UUIDString(a.ID), 2)
	fx.fill(t, store.UUIDString(b.ID), 3)

	out, err := fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{})
	require.NoError(t, err)
	require.Equal(t, "pending", out.Status)
	require.Equal(t, int64(2*1500+3*300), out.TotalAmount)
	require.Len(t, out.Items, 2)

	var sum int64
	for _, line := range out.Items {
		sum += int64(line.Quantity) * line.Price
	}
	require.Equal(t, out.TotalAmount, sum)

	// cart is empty afterwards, stock reduced, payment recorded
	c, err := fx.carts.View(ctx, fx.customer, "")
	require.NoError(t, err)
	require.Empty(t, c.Items)

	gotA, err := fx.fake.GetProductByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int32(8), gotA.Stock)

	oid, err := store.ToUUID(out.OrderID)
	require.NoError(t, err)
	payment, err := fx.fake.GetPaymentByOrder(ctx, oid)
	require.NoError(t, err)
	require.Equal(t, out.TotalAmount, payment.Amount)
	require.Equal(t, "pending", payment.Status)
}

func TestPlaceOrderFreezesCurrentPrice(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seedAddress(t, fx.customer.UserID)
	p := fx.seedProduct(t, "Novel", 1000, 10)
	fx.fill(t, store.UUIDString(p.ID), 2)

	// price changes between add-to-cart and placement
	row := fx.fake.Products[store.UUIDString(p.ID)]
	row.Price = 1500
	fx.fake.Products[store.UUIDString(p.ID)] = row

	out, err := fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{})
	require.NoError(t, err)
	require.Equal(t, int64(3000), out.TotalAmount)

	// later price changes do not touch the placed order
	row.Price = 9999
	fx.fake.Products[store.UUIDString(p.ID)] = row
	oid, err := store.ToUUID(out.OrderID)
	require.NoError(t, err)
	items, err := fx.fake.ListOrderItemsByOrder(ctx, oid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1500), items[0].Price)
}

func TestPlaceOrderWithoutCart(t *testing.T) {
	fx := newFixture(t)
	fx.seedAddress(t, fx.customer.UserID)

	_, err := fx.checkout.PlaceOrder(context.Background(), fx.customer, checkout.Input{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
	require.Empty(t, fx.fake.Orders)
}

func TestPlaceOrderWithoutAddress(t *testing.T) {
	fx := newFixture(t)
	p := fx.seedProduct(t, "Novel", 1000, 10)
	fx.fill(t, store.UUIDString(p.ID), 1)

	_, err := fx.checkout.PlaceOrder(context.Background(), fx.customer, checkout.Input{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
	require.Empty(t, fx.fake.Orders)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seedAddress(t, fx.customer.UserID)
	_, err := fx.carts.EnsureCart(ctx, fx.customer.UserID)
	require.NoError(t, err)

	_, err = fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_STATE", appErr.Code)
	require.Empty(t, fx.fake.Orders)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seedAddress(t, fx.customer.UserID)
	p := fx.seedProduct(t, "Novel", 1000, 1)
	fx.fill(t, store.UUIDString(p.ID), 5)

	_, err := fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INSUFFICIENT_STOCK", appErr.Code)
	require.Equal(t, 409, appErr.HTTPStatus)

	// the failed placement leaves the cart intact
	c, err := fx.carts.View(ctx, fx.customer, "")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, int32(5), c.Items[0].Quantity)
}

func TestPlaceOrderExplicitAddress(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	first := fx.seedAddress(t, fx.customer.UserID)
	second := fx.seedAddress(t, fx.customer.UserID)
	p := fx.seedProduct(t, "Novel", 1000, 10)
	fx.fill(t, store.UUIDString(p.ID), 1)

	out, err := fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{
		AddressID: store.UUIDString(second.ID),
	})
	require.NoError(t, err)
	require.Equal(t, store.UUIDString(second.ID), out.AddressID)
	require.NotEqual(t, store.UUIDString(first.ID), out.AddressID)
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	stranger := store.UUIDString(store.NewID())
	foreign := fx.seedAddress(t, stranger)
	p := fx.seedProduct(t, "Novel", 1000, 10)
	fx.fill(t, store.UUIDString(p.ID), 1)

	_, err := fx.checkout.PlaceOrder(ctx, fx.customer, checkout.Input{
		AddressID: store.UUIDString(foreign.ID),
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}
