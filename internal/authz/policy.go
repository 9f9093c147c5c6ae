// Package authz holds the role policy. It is pure: no storage, no HTTP.
// Handlers resolve resource ownership first, then ask Allow.
package authz

// Role is an account role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   Role
}

// Operation is a gated action.
type Operation string

const (
	OpCategoryCreate Operation = "category.create"
	OpCategoryUpdate Operation = "category.update"
	OpCategoryDelete Operation = "category.delete"
	OpProductCreate  Operation = "product.create"
	OpProductUpdate  Operation = "product.update"
	OpProductDelete  Operation = "product.delete"
	OpUserList       Operation = "user.list"
	OpUserSetRole    Operation = "user.set_role"
	OpUserDeactivate Operation = "user.deactivate"
	OpAccountView    Operation = "account.view"
	OpAccountUpdate  Operation = "account.update"
	OpAddressManage  Operation = "address.manage"
	OpCartManage     Operation = "cart.manage"
	OpOrderPlace     Operation = "order.place"
	OpOrderView      Operation = "order.view"
	OpWishlistManage Operation = "wishlist.manage"
	OpReviewCreate   Operation = "review.create"
	OpReviewDelete   Operation = "review.delete"
	OpShipmentManage Operation = "shipment.manage"
	OpShipmentView   Operation = "shipment.view"
)

// rule grants an operation either by role alone or by role plus ownership
// of the target resource. Admin is granted everything and never consulted
// against the table.
type rule struct {
	anyRole   []Role
	ownerRole []Role
}

var selfService = []Role{RoleCustomer, RoleSeller}

var rules = map[Operation]rule{
	OpCategoryCreate: {anyRole: []Role{RoleSeller}},
	OpCategoryUpdate: {anyRole: []Role{RoleSeller}},
	OpCategoryDelete: {},
	OpProductCreate:  {anyRole: selfService},
	OpProductUpdate:  {ownerRole: []Role{RoleSeller}},
	OpProductDelete:  {ownerRole: []Role{RoleSeller}},
	OpUserList:       {},
	OpUserSetRole:    {},
	OpUserDeactivate: {},
	OpAccountView:    {ownerRole: selfService},
	OpAccountUpdate:  {ownerRole: selfService},
	OpAddressManage:  {ownerRole: selfService},
	OpCartManage:     {ownerRole: selfService},
	OpOrderPlace:     {ownerRole: selfService},
	OpOrderView:      {ownerRole: selfService},
	OpWishlistManage: {ownerRole: selfService},
	OpReviewCreate:   {anyRole: selfService},
	OpReviewDelete:   {ownerRole: selfService},
	OpShipmentManage: {anyRole: []Role{RoleSeller}},
	OpShipmentView:   {ownerRole: selfService},
}

// Allow reports whether actor may perform op on a resource owned by
// ownerID. Pass an empty ownerID for operations without a target owner.
func Allow(actor Actor, op Operation, ownerID string) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	r, ok := rules[op]
	if !ok {
		return false
	}
	for _, role := range r.anyRole {
		if actor.Role == role {
			return true
		}
	}
	if ownerID == "" || actor.UserID != ownerID {
		return false
	}
	for _, role := range r.ownerRole {
		if actor.Role == role {
			return true
		}
	}
	return false
}
