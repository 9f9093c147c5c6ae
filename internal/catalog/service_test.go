package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/catalog"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func newActor(role authz.Role) authz.Actor {
	return authz.Actor{UserID: store.UUIDString(store.NewID()), Role: role}
}

func i64(v int64) *int64   { return &v }
func i32(v int32) *int32   { return &v }
func str(v string) *string { return &v }

func seedCategory(t *testing.T, fake *storetest.Fake, name string) store.Category {
	t.Helper()
	c, err := fake.CreateCategory(context.Background(), store.CreateCategoryParams{
		ID: store.NewID(), Name: name,
	})
	require.NoError(t, err)
	return c
}

func TestCreateCategoryRoles(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: fake}
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, newActor(authz.RoleCustomer), catalog.CategoryParams{Name: str("Books")})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	created, err := svc.CreateCategory(ctx, newActor(authz.RoleSeller), catalog.CategoryParams{Name: str("Books")})
	require.NoError(t, err)
	require.Equal(t, "Books", created.Name)

	_, err = svc.CreateCategory(ctx, newActor(authz.RoleAdmin), catalog.CategoryParams{Name: str("Books")})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CONFLICT", appErr.Code)
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: fake}
	ctx := context.Background()
	admin := newActor(authz.RoleAdmin)

	cat := seedCategory(t, fake, "Books")
	_, err := fake.CreateProduct(ctx, store.CreateProductParams{
		ID: store.NewID(), Name: "Novel", Price: 1500, Stock: 3, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, admin, store.UUIDString(cat.ID))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 409, appErr.HTTPStatus)

	// seller may not delete at all
	err = svc.DeleteCategory(ctx, newActor(authz.RoleSeller), store.UUIDString(cat.ID))
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	for k := range fake.Products {
		delete(fake.Products, k)
	}
	require.NoError(t, svc.DeleteCategory(ctx, admin, store.UUIDString(cat.ID)))
	require.Empty(t, fake.Categories)
}

func TestCreateProductSellerOwnership(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: fake}
	ctx := context.Background()
	cat := seedCategory(t, fake, "Books")

	seller := newActor(authz.RoleSeller)
	created, err := svc.CreateProduct(ctx, seller, catalog.ProductParams{
		Name:       str("Novel"),
		Price:      i64(1500),
		Stock:      i32(5),
		CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.NoError(t, err)
	require.Equal(t, seller.UserID, created.SellerID)

	admin := newActor(authz.RoleAdmin)
	adminProduct, err := svc.CreateProduct(ctx, admin, catalog.ProductParams{
		Name:       str("House Novel"),
		Price:      i64(900),
		CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.NoError(t, err)
	require.Empty(t, adminProduct.SellerID)

	// any authenticated user may create; only sellers get attribution
	customer := newActor(authz.RoleCustomer)
	customerProduct, err := svc.CreateProduct(ctx, customer, catalog.ProductParams{
		Name:       str("Zine"),
		Price:      i64(300),
		CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.NoError(t, err)
	require.Empty(t, customerProduct.SellerID)
}

func TestCreateProductValidation(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: fake}
	ctx := context.Background()
	cat := seedCategory(t, fake, "Books")
	seller := newActor(authz.RoleSeller)

	_, err := svc.CreateProduct(ctx, seller, catalog.ProductParams{
		Name: str("Novel"), Price: i64(-1), CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.Error(t, err)

	_, err = svc.CreateProduct(ctx, seller, catalog.ProductParams{
		Name: str("Novel"), Price: i64(10), CategoryID: str(store.UUIDString(store.NewID())),
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)
}

func TestUpdateProductNonDisclosing(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: fake}
	ctx := context.Background()
	cat := seedCategory(t, fake, "Books")

	owner := newActor(authz.RoleSeller)
	created, err := svc.CreateProduct(ctx, owner, catalog.ProductParams{
		Name: str("Novel"), Price: i64(1500), CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.NoError(t, err)

	// another seller sees not-found, not forbidden
	stranger := newActor(authz.RoleSeller)
	_, err = svc.UpdateProduct(ctx, stranger, created.ID, catalog.ProductParams{Price: i64(1)})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)

	err = svc.DeleteProduct(ctx, stranger, created.ID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.HTTPStatus)

	// product unchanged
	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1500), got.Price)

	// owner may update; untouched fields survive
	updated, err := svc.UpdateProduct(ctx, owner, created.ID, catalog.ProductParams{Price: i64(1800)})
	require.NoError(t, err)
	require.Equal(t, int64(1800), updated.Price)
	require.Equal(t, "Novel", updated.Name)

	// admin may delete anything
	require.NoError(t, svc.DeleteProduct(ctx, newActor(authz.RoleAdmin), created.ID))
}

func TestListProductsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fake := storetest.New()
	svc := &catalog.Service{Q: fake, Cache: catalog.NewCache(client, time.Minute)}
	ctx := context.Background()

	cat := seedCategory(t, fake, "Books")
	_, err := fake.CreateProduct(ctx, store.CreateProductParams{
		ID: store.NewID(), Name: "Novel", Price: 1500, Stock: 3, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	items, total, err := svc.ListProducts(ctx, catalog.ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	// second read comes from cache even after the row disappears
	for k := range fake.Products {
		delete(fake.Products, k)
	}
	items, total, err = svc.ListProducts(ctx, catalog.ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	// a write busts the cache
	admin := newActor(authz.RoleAdmin)
	_, err = svc.CreateProduct(ctx, admin, catalog.ProductParams{
		Name: str("Fresh"), Price: i64(100), CategoryID: str(store.UUIDString(cat.ID)),
	})
	require.NoError(t, err)

	items, total, err = svc.ListProducts(ctx, catalog.ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Fresh", items[0].Name)
}

type failingProductReads struct {
	*storetest.Fake
}

func (failingProductReads) GetProductByID(context.Context, pgtype.UUID) (store.Product, error) {
	return store.Product{}, errors.New("connection reset by peer")
}

func TestProductQueryFailureIsNotNotFound(t *testing.T) {
	fake := storetest.New()
	svc := &catalog.Service{Q: failingProductReads{fake}}
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, store.UUIDString(store.NewID()))
	require.Error(t, err)

	var appErr *common.AppError
	require.False(t, errors.As(err, &appErr), "transient query errors must not read as NOT_FOUND")
}
