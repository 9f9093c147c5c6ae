package reviews_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/reviews"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func newActor(role authz.Role) authz.Actor {
	return authz.Actor{UserID: store.UUIDString(store.NewID()), Role: role}
}

func seedProduct(t *testing.T, fake *storetest.Fake) store.Product {
	t.Helper()
	p, err := fake.CreateProduct(context.Background(), store.CreateProductParams{
		ID: store.NewID(), Name: "Novel", Price: 1500, Stock: 3,
	})
	require.NoError(t, err)
	return p
}

func TestCreateValidatesRating(t *testing.T) {
	fake := storetest.New()
	svc := &reviews.Service{Q: fake}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake)

	for _, bad := range []int32{0, 6, -1} {
		_, err := svc.Create(ctx, customer, store.UUIDString(p.ID), bad, "")
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}

	created, err := svc.Create(ctx, customer, store.UUIDString(p.ID), 5, "great")
	require.NoError(t, err)
	require.Equal(t, int32(5), created.Rating)
	require.Equal(t, "great", created.Comment)
}

func TestCreateUnknownProduct(t *testing.T) {
	fake := storetest.New()
	svc := &reviews.Service{Q: fake}
	customer := newActor(authz.RoleCustomer)

	_, err := svc.Create(context.Background(), customer, store.UUIDString(store.NewID()), 4, "")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}

func TestCreateRequiresPurchase(t *testing.T) {
	fake := storetest.New()
	svc := &reviews.Service{Q: fake, RequirePurchase: true}
	ctx := context.Background()
	customer := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake)

	_, err := svc.Create(ctx, customer, store.UUIDString(p.ID), 4, "")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_STATE", appErr.Code)

	uid, err := store.ToUUID(customer.UserID)
	require.NoError(t, err)
	o, err := fake.CreateOrder(ctx, store.CreateOrderParams{
		ID: store.NewID(), UserID: uid, AddressID: store.NewID(), TotalAmount: 1500, Status: "pending",
	})
	require.NoError(t, err)
	_, err = fake.CreateOrderItem(ctx, store.CreateOrderItemParams{
		ID: store.NewID(), OrderID: o.ID, ProductID: p.ID, Quantity: 1, Price: 1500,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, customer, store.UUIDString(p.ID), 4, "")
	require.NoError(t, err)
}

func TestListByProduct(t *testing.T) {
	fake := storetest.New()
	svc := &reviews.Service{Q: fake}
	ctx := context.Background()
	p := seedProduct(t, fake)

	_, err := svc.Create(ctx, newActor(authz.RoleCustomer), store.UUIDString(p.ID), 4, "good")
	require.NoError(t, err)
	_, err = svc.Create(ctx, newActor(authz.RoleCustomer), store.UUIDString(p.ID), 2, "meh")
	require.NoError(t, err)

	list, err := svc.ListByProduct(ctx, store.UUIDString(p.ID))
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = svc.ListByProduct(ctx, store.UUIDString(store.NewID()))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}

func TestDeleteOwnership(t *testing.T) {
	fake := storetest.New()
	svc := &reviews.Service{Q: fake}
	ctx := context.Background()
	author := newActor(authz.RoleCustomer)
	p := seedProduct(t, fake)

	created, err := svc.Create(ctx, author, store.UUIDString(p.ID), 3, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, newActor(authz.RoleCustomer), created.ID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	require.NoError(t, svc.Delete(ctx, newActor(authz.RoleAdmin), created.ID))

	err = svc.Delete(ctx, author, created.ID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}
