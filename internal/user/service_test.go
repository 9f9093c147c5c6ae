package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
	"github.com/vardanhq/vardan-api/internal/user"
)

func seedUser(t *testing.T, fake *storetest.Fake, role string) store.User {
	t.Helper()
	u, err := fake.CreateUser(context.Background(), store.CreateUserParams{
		ID:           store.NewID(),
		Name:         "User " + role,
		Email:        role + "+" + store.UUIDString(store.NewID()) + "@example.com",
		PasswordHash: "x",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func actorFor(u store.User) authz.Actor {
	return authz.Actor{UserID: store.UUIDString(u.ID), Role: authz.Role(u.Role)}
}

func strptr(s string) *string { return &s }

func TestGetSelfAndForbiddenOther(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	alice := seedUser(t, fake, "customer")
	bob := seedUser(t, fake, "customer")

	got, err := svc.Get(ctx, actorFor(alice), store.UUIDString(alice.ID))
	require.NoError(t, err)
	require.Equal(t, alice.Email, got.Email)

	_, err = svc.Get(ctx, actorFor(alice), store.UUIDString(bob.ID))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)
}

func TestAdminCanGetAnyone(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}

	admin := seedUser(t, fake, "admin")
	bob := seedUser(t, fake, "customer")

	got, err := svc.Get(context.Background(), actorFor(admin), store.UUIDString(bob.ID))
	require.NoError(t, err)
	require.Equal(t, bob.Email, got.Email)
}

func TestListAdminOnly(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	admin := seedUser(t, fake, "admin")
	cust := seedUser(t, fake, "customer")

	accounts, total, err := svc.List(ctx, actorFor(admin), 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, accounts, 2)

	_, _, err = svc.List(ctx, actorFor(cust), 1, 10)
	require.Error(t, err)
}

func TestUpdatePartial(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}

	alice := seedUser(t, fake, "customer")
	got, err := svc.Update(context.Background(), actorFor(alice), store.UUIDString(alice.ID), user.UpdateAccountParams{
		Phone: strptr("+31612345678"),
	})
	require.NoError(t, err)
	require.Equal(t, alice.Name, got.Name)
	require.Equal(t, "+31612345678", got.Phone)
}

func TestSetRoleValidation(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	admin := seedUser(t, fake, "admin")
	cust := seedUser(t, fake, "customer")

	got, err := svc.SetRole(ctx, actorFor(admin), store.UUIDString(cust.ID), "seller")
	require.NoError(t, err)
	require.Equal(t, "seller", got.Role)

	_, err = svc.SetRole(ctx, actorFor(admin), store.UUIDString(cust.ID), "root")
	require.Error(t, err)

	_, err = svc.SetRole(ctx, actorFor(cust), store.UUIDString(cust.ID), "admin")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)
}

func TestDeleteRevokesSessions(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	alice := seedUser(t, fake, "customer")
	_, err := fake.CreateSession(ctx, store.CreateSessionParams{
		ID: store.NewID(), UserID: alice.ID, TokenHash: "h",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actorFor(alice), store.UUIDString(alice.ID)))
	require.Empty(t, fake.Users)
	require.Empty(t, fake.Sessions)
}

func TestAddressOwnership(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	alice := seedUser(t, fake, "customer")
	bob := seedUser(t, fake, "customer")

	addr, err := svc.CreateAddress(ctx, actorFor(alice), user.AddressParams{
		Street:  strptr("Main St 1"),
		City:    strptr("Delft"),
		Country: strptr("NL"),
	})
	require.NoError(t, err)

	// bob cannot touch alice's address
	_, err = svc.UpdateAddress(ctx, actorFor(bob), addr.ID, user.AddressParams{City: strptr("Gouda")})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	err = svc.DeleteAddress(ctx, actorFor(bob), addr.ID)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.HTTPStatus)

	// owner can
	updated, err := svc.UpdateAddress(ctx, actorFor(alice), addr.ID, user.AddressParams{City: strptr("Gouda")})
	require.NoError(t, err)
	require.Equal(t, "Gouda", updated.City)
	require.Equal(t, "Main St 1", updated.Street)

	require.NoError(t, svc.DeleteAddress(ctx, actorFor(alice), addr.ID))
	require.Empty(t, fake.Addresses)
}

func TestCreateAddressRequiresFields(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	alice := seedUser(t, fake, "customer")

	_, err := svc.CreateAddress(context.Background(), actorFor(alice), user.AddressParams{})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestListAddressesOtherUserForbidden(t *testing.T) {
	fake := storetest.New()
	svc := &user.Service{Q: fake}
	ctx := context.Background()

	alice := seedUser(t, fake, "customer")
	bob := seedUser(t, fake, "customer")

	_, err := svc.ListAddresses(ctx, actorFor(bob), store.UUIDString(alice.ID))
	require.Error(t, err)

	admin := seedUser(t, fake, "admin")
	_, err = svc.ListAddresses(ctx, actorFor(admin), store.UUIDString(alice.ID))
	require.NoError(t, err)
}
