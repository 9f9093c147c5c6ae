package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/order"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func newActor(role authz.Role) authz.Actor {
	return authz.Actor{UserID: store.UUIDString(store.NewID()), Role: role}
}

func seedOrder(t *testing.T, fake *storetest.Fake, userID string, total int64) store.Order {
	t.Helper()
	uid, err := store.ToUUID(userID)
	require.NoError(t, err)
	o, err := fake.CreateOrder(context.Background(), store.CreateOrderParams{
		ID: store.NewID(), UserID: uid, AddressID: store.NewID(), TotalAmount: total, Status: "pending",
	})
	require.NoError(t, err)
	_, err = fake.CreateOrderItem(context.Background(), store.CreateOrderItemParams{
		ID: store.NewID(), OrderID: o.ID, ProductID: store.NewID(), Quantity: 2, Price: total / 2,
	})
	require.NoError(t, err)
	return o
}

func TestListMine(t *testing.T) {
	fake := storetest.New()
	svc := &order.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	other := newActor(authz.RoleCustomer)

	seedOrder(t, fake, customer.UserID, 3000)
	seedOrder(t, fake, customer.UserID, 500)
	seedOrder(t, fake, other.UserID, 900)

	orders, total, err := svc.ListMine(ctx, customer, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, customer.UserID, o.UserID)
	}
}

func TestListAllAdminOnly(t *testing.T) {
	fake := storetest.New()
	svc := &order.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	seedOrder(t, fake, customer.UserID, 3000)

	_, _, err := svc.ListAll(ctx, customer, 1, 20)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	orders, total, err := svc.ListAll(ctx, newActor(authz.RoleAdmin), 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
}

func TestGetNonDisclosing(t *testing.T) {
	fake := storetest.New()
	svc := &order.Service{Q: fake}
	ctx := context.Background()
	owner := newActor(authz.RoleCustomer)
	o := seedOrder(t, fake, owner.UserID, 3000)
	id := store.UUIDString(o.ID)

	detail, err := svc.Get(ctx, owner, id)
	require.NoError(t, err)
	require.Equal(t, int64(3000), detail.TotalAmount)
	require.Len(t, detail.Items, 1)

	// a stranger cannot tell the order exists
	_, err = svc.Get(ctx, newActor(authz.RoleCustomer), id)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)

	_, err = svc.Get(ctx, owner, "not-a-uuid")
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)

	// admins see everything
	_, err = svc.Get(ctx, newActor(authz.RoleAdmin), id)
	require.NoError(t, err)
}
