package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/cart"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func newActor(role authz.Role) authz.Actor {
	return authz.Actor{UserID: store.UUIDString(store.NewID()), Role: role}
}

func seedProduct(t *testing.T, fake *storetest.Fake, name string, price int64, stock int32) store.Product {
	t.Helper()
	p, err := fake.CreateProduct(context.Background(), store.CreateProductParams{
		ID: store.NewID(), Name: name, Price: price, Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func TestEnsureCartIsIdempotent(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)

	first, err := svc.EnsureCart(ctx, customer.UserID)
	require.NoError(t, err)
	second, err := svc.EnsureCart(ctx, customer.UserID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, fake.Carts, 1)
}

func TestAddItemMergesQuantities(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake, "Novel", 1500, 10)

	c, err := svc.AddItem(ctx, customer, store.UUIDString(p.ID), 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, int32(2), c.Items[0].Quantity)

	c, err = svc.AddItem(ctx, customer, store.UUIDString(p.ID), 3)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	require.Equal(t, int32(5), c.Items[0].Quantity)
	require.Equal(t, int64(7500), c.TotalAmount)
}

func TestAddItemUnknownProduct(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	customer := newActor(authz.RoleCustomer)

	_, err := svc.AddItem(context.Background(), customer, store.UUIDString(store.NewID()), 1)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
	require.Empty(t, fake.Carts)

	_, err = svc.AddItem(context.Background(), customer, "not-a-uuid", 1)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake, "Novel", 1500, 10)

	_, err := svc.AddItem(context.Background(), customer, store.UUIDString(p.ID), 0)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUpdateQuantity(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake, "Novel", 1500, 10)

	c, err := svc.AddItem(ctx, customer, store.UUIDString(p.ID), 2)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	c, err = svc.UpdateQuantity(ctx, customer, itemID, 7)
	require.NoError(t, err)
	require.Equal(t, int32(7), c.Items[0].Quantity)
	require.Equal(t, int64(10500), c.TotalAmount)

	_, err = svc.UpdateQuantity(ctx, customer, itemID, 0)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCartOwnership(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	ctx := context.Background()
	owner := newActor(authz.RoleCustomer)
	stranger := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake, "Novel", 1500, 10)

	c, err := svc.AddItem(ctx, owner, store.UUIDString(p.ID), 2)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = svc.View(ctx, stranger, owner.UserID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	_, err = svc.UpdateQuantity(ctx, stranger, itemID, 1)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	err = svc.RemoveItem(ctx, stranger, itemID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	// admin may inspect any cart
	got, err := svc.View(ctx, newActor(authz.RoleAdmin), owner.UserID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
}

func TestRemoveItem(t *testing.T) {
	fake := storetest.New()
	svc := &cart.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake, "Novel", 1500, 10)

	c, err := svc.AddItem(ctx, customer, store.UUIDString(p.ID), 2)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	require.NoError(t, svc.RemoveItem(ctx, customer, itemID))

	got, err := svc.View(ctx, customer, "")
	require.NoError(t, err)
	require.Empty(t, got.Items)
	require.Zero(t, got.TotalAmount)

	err = svc.RemoveItem(ctx, customer, itemID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}
