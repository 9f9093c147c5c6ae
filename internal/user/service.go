package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

// Service handles account and address management.
type Service struct {
	Q store.Querier
}

// Account is the client-facing account shape.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Address is the client-facing address shape.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// UpdateAccountParams carries partial account updates. Nil fields are
// left untouched.
type UpdateAccountParams struct {
	Name  *string
	Phone *string
}

// AddressParams carries address fields for create and partial update.
type AddressParams struct {
	Street     *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
}

// Get returns one account. Customers and sellers see only themselves.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id string) (Account, error) {
	if !authz.Allow(actor, authz.OpAccountView, id) {
		return Account{}, common.ErrForbidden("cannot access another account")
	}
	target, err := s.mustUser(ctx, id)
	if err != nil {
		return Account{}, err
	}
	return convertAccount(target), nil
}

// List returns a page of accounts. Admin only.
func (s *Service) List(ctx context.Context, actor authz.Actor, page, perPage int) ([]Account, int64, error) {
	if !authz.Allow(actor, authz.OpUserList, "") {
		return nil, 0, common.ErrForbidden("admin only")
	}
	users, err := s.Q.ListUsers(ctx, store.ListUsersParams{
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.Q.CountUsers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	out := make([]Account, 0, len(users))
	for _, u := range users {
		out = append(out, convertAccount(u))
	}
	return out, total, nil
}

// Update applies a partial update to an account. Self or admin.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id string, params UpdateAccountParams) (Account, error) {
	if !authz.Allow(actor, authz.OpAccountUpdate, id) {
		return Account{}, common.ErrForbidden("cannot modify another account")
	}
	target, err := s.mustUser(ctx, id)
	if err != nil {
		return Account{}, err
	}
	updated, err := s.Q.UpdateUser(ctx, store.UpdateUserParams{
		ID:    target.ID,
		Name:  optionalText(params.Name),
		Phone: optionalText(params.Phone),
	})
	if err != nil {
		return Account{}, fmt.Errorf("update user: %w", err)
	}
	return convertAccount(updated), nil
}

// SetRole changes an account role. Admin only.
func (s *Service) SetRole(ctx context.Context, actor authz.Actor, id, role string) (Account, error) {
	if !authz.Allow(actor, authz.OpUserSetRole, "") {
		return Account{}, common.ErrForbidden("admin only")
	}
	if !authz.ValidRole(role) {
		return Account{}, common.ErrValidation("role must be customer, seller or admin")
	}
	target, err := s.mustUser(ctx, id)
	if err != nil {
		return Account{}, err
	}
	updated, err := s.Q.UpdateUserRole(ctx, store.UpdateUserRoleParams{ID: target.ID, Role: role})
	if err != nil {
		return Account{}, fmt.Errorf("update role: %w", err)
	}
	return convertAccount(updated), nil
}

// Delete removes an account and revokes its sessions. Self or admin.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if !authz.Allow(actor, authz.OpAccountUpdate, id) {
		return common.ErrForbidden("cannot delete another account")
	}
	target, err := s.mustUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Q.DeleteSessionsByUser(ctx, target.ID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := s.Q.DeleteUser(ctx, target.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Deactivate disables login for an account without removing its data.
// Admin only.
func (s *Service) Deactivate(ctx context.Context, actor authz.Actor, id string) (Account, error) {
	if !authz.Allow(actor, authz.OpUserDeactivate, "") {
		return Account{}, common.ErrForbidden("admin only")
	}
	target, err := s.mustUser(ctx, id)
	if err != nil {
		return Account{}, err
	}
	updated, err := s.Q.DeactivateUser(ctx, target.ID)
	if err != nil {
		return Account{}, fmt.Errorf("deactivate user: %w", err)
	}
	if err := s.Q.DeleteSessionsByUser(ctx, target.ID); err != nil {
		return Account{}, fmt.Errorf("delete sessions: %w", err)
	}
	return convertAccount(updated), nil
}

// CreateAddress adds a shipping address for the actor.
func (s *Service) CreateAddress(ctx context.Context, actor authz.Actor, params AddressParams) (Address, error) {
	street := valueOf(params.Street)
	city := valueOf(params.City)
	country := valueOf(params.Country)
	if street == "" || city == "" || country == "" {
		return Address{}, common.ErrValidation("street, city and country are required")
	}
	actorID, err := store.ToUUID(actor.UserID)
	if err != nil {
		return Address{}, common.ErrUnauthorized("unauthorized")
	}
	created, err := s.Q.CreateAddress(ctx, store.CreateAddressParams{
		ID:         store.NewID(),
		UserID:     actorID,
		Street:     street,
		City:       city,
		State:      valueOf(params.State),
		Country:    country,
		PostalCode: valueOf(params.PostalCode),
	})
	if err != nil {
		return Address{}, fmt.Errorf("create address: %w", err)
	}
	return convertAddress(created), nil
}

// ListAddresses returns the actor's addresses, or any user's for admin.
func (s *Service) ListAddresses(ctx context.Context, actor authz.Actor, userID string) ([]Address, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if !authz.Allow(actor, authz.OpAddressManage, userID) {
		return nil, common.ErrForbidden("cannot access another user's addresses")
	}
	id, err := store.ToUUID(userID)
	if err != nil {
		return nil, common.ErrValidation("invalid user id")
	}
	addresses, err := s.Q.ListAddressesByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	out := make([]Address, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, convertAddress(a))
	}
	return out, nil
}

// UpdateAddress applies a partial update to an owned address.
func (s *Service) UpdateAddress(ctx context.Context, actor authz.Actor, id string, params AddressParams) (Address, error) {
	addr, err := s.mustAddress(ctx, id)
	if err != nil {
		return Address{}, err
	}
	if !authz.Allow(actor, authz.OpAddressManage, store.UUIDString(addr.UserID)) {
		return Address{}, common.ErrForbidden("cannot modify another user's address")
	}
	updated, err := s.Q.UpdateAddress(ctx, store.UpdateAddressParams{
		ID:         addr.ID,
		Street:     optionalText(params.Street),
		City:       optionalText(params.City),
		State:      optionalText(params.State),
		Country:    optionalText(params.Country),
		PostalCode: optionalText(params.PostalCode),
	})
	if err != nil {
		return Address{}, fmt.Errorf("update address: %w", err)
	}
	return convertAddress(updated), nil
}

// DeleteAddress removes an owned address.
func (s *Service) DeleteAddress(ctx context.Context, actor authz.Actor, id string) error {
	addr, err := s.mustAddress(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Allow(actor, authz.OpAddressManage, store.UUIDString(addr.UserID)) {
		return common.ErrForbidden("cannot delete another user's address")
	}
	if err := s.Q.DeleteAddress(ctx, addr.ID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

func (s *Service) mustUser(ctx context.Context, id string) (store.User, error) {
	parsed, err := store.ToUUID(id)
	if err != nil {
		return store.User{}, common.ErrNotFound("user")
	}
	u, err := s.Q.GetUserByID(ctx, parsed)
	if err != nil {
		return store.User{}, common.ErrNotFound("user")
	}
	return u, nil
}

func (s *Service) mustAddress(ctx context.Context, id string) (store.Address, error) {
	parsed, err := store.ToUUID(id)
	if err != nil {
		return store.Address{}, common.ErrNotFound("address")
	}
	a, err := s.Q.GetAddressByID(ctx, parsed)
	if err != nil {
		return store.Address{}, common.ErrNotFound("address")
	}
	return a, nil
}

func convertAccount(u store.User) Account {
	return Account{
		ID:        store.UUIDString(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     store.TextValue(u.Phone),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Time,
	}
}

func convertAddress(a store.Address) Address {
	return Address{
		ID:         store.UUIDString(a.ID),
		UserID:     store.UUIDString(a.UserID),
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

func optionalText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: strings.TrimSpace(*v), Valid: true}
}

func valueOf(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
