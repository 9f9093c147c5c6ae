package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/authz"
)

func TestAdminAllowedEverywhere(t *testing.T) {
	admin := authz.Actor{UserID: "a1", Role: authz.RoleAdmin}
	ops := []authz.Operation{
		authz.OpCategoryDelete,
		authz.OpProductUpdate,
		authz.OpUserSetRole,
		authz.OpOrderView,
		authz.OpShipmentManage,
	}
	for _, op := range ops {
		require.True(t, authz.Allow(admin, op, "someone-else"), string(op))
	}
}

func TestSellerOwnsProducts(t *testing.T) {
	seller := authz.Actor{UserID: "s1", Role: authz.RoleSeller}

	require.True(t, authz.Allow(seller, authz.OpProductCreate, ""))
	require.True(t, authz.Allow(seller, authz.OpProductUpdate, "s1"))
	require.False(t, authz.Allow(seller, authz.OpProductUpdate, "s2"))
	require.False(t, authz.Allow(seller, authz.OpProductDelete, "s2"))
}

func TestSellerCategoryRights(t *testing.T) {
	seller := authz.Actor{UserID: "s1", Role: authz.RoleSeller}

	require.True(t, authz.Allow(seller, authz.OpCategoryCreate, ""))
	require.True(t, authz.Allow(seller, authz.OpCategoryUpdate, ""))
	require.False(t, authz.Allow(seller, authz.OpCategoryDelete, ""))
}

func TestCustomerSelfService(t *testing.T) {
	customer := authz.Actor{UserID: "c1", Role: authz.RoleCustomer}

	require.True(t, authz.Allow(customer, authz.OpCartManage, "c1"))
	require.False(t, authz.Allow(customer, authz.OpCartManage, "c2"))
	require.True(t, authz.Allow(customer, authz.OpOrderView, "c1"))
	require.False(t, authz.Allow(customer, authz.OpOrderView, "c2"))
	require.False(t, authz.Allow(customer, authz.OpUserList, ""))
}

func TestAnyAuthenticatedUserCreatesProducts(t *testing.T) {
	customer := authz.Actor{UserID: "c1", Role: authz.RoleCustomer}
	seller := authz.Actor{UserID: "s1", Role: authz.RoleSeller}

	require.True(t, authz.Allow(customer, authz.OpProductCreate, ""))
	require.True(t, authz.Allow(seller, authz.OpProductCreate, ""))
}

func TestSellerManagesShipments(t *testing.T) {
	seller := authz.Actor{UserID: "s1", Role: authz.RoleSeller}
	customer := authz.Actor{UserID: "c1", Role: authz.RoleCustomer}

	require.True(t, authz.Allow(seller, authz.OpShipmentManage, ""))
	require.False(t, authz.Allow(customer, authz.OpShipmentManage, ""))
}

func TestSellerActsAsCustomerForOwnResources(t *testing.T) {
	seller := authz.Actor{UserID: "s1", Role: authz.RoleSeller}

	require.True(t, authz.Allow(seller, authz.OpCartManage, "s1"))
	require.True(t, authz.Allow(seller, authz.OpWishlistManage, "s1"))
	require.True(t, authz.Allow(seller, authz.OpOrderPlace, "s1"))
	require.False(t, authz.Allow(seller, authz.OpOrderView, "c1"))
}

func TestEmptyOwnerNeverMatchesOwnership(t *testing.T) {
	customer := authz.Actor{UserID: "", Role: authz.RoleCustomer}
	require.False(t, authz.Allow(customer, authz.OpCartManage, ""))
}

func TestValidRole(t *testing.T) {
	require.True(t, authz.ValidRole("customer"))
	require.True(t, authz.ValidRole("seller"))
	require.True(t, authz.ValidRole("admin"))
	require.False(t, authz.ValidRole("root"))
	require.False(t, authz.ValidRole(""))
}
