// Package storetest provides an in-memory Querier for service tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vardanhq/vardan-api/internal/store"
)

// Fake is a map-backed store.Querier. It approximates the Postgres
// behaviour the services rely on: pgx.ErrNoRows for missing rows, a
// 23505 PgError for unique violations, conditional stock decrements.
type Fake struct {
	mu sync.Mutex

	Users      map[string]store.User
	Sessions   map[string]store.Session
	Addresses  map[string]store.Address
	Categories map[string]store.Category
	Products   map[string]store.Product
	Carts      map[string]store.Cart
	CartItems  map[string]store.CartItem
	Orders     map[string]store.Order
	OrderItems map[string]store.OrderItem
	Payments   map[string]store.Payment
	Shipments  map[string]store.Shipment
	Reviews    map[string]store.Review
	Wishlist   map[string]store.WishlistItem

	Now func() time.Time
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Users:      map[string]store.User{},
		Sessions:   map[string]store.Session{},
		Addresses:  map[string]store.Address{},
		Categories: map[string]store.Category{},
		Products:   map[string]store.Product{},
		Carts:      map[string]store.Cart{},
		CartItems:  map[string]store.CartItem{},
		Orders:     map[string]store.Order{},
		OrderItems: map[string]store.OrderItem{},
		Payments:   map[string]store.Payment{},
		Shipments:  map[string]store.Shipment{},
		Reviews:    map[string]store.Review{},
		Wishlist:   map[string]store.WishlistItem{},
		Now:        time.Now,
	}
}

var _ store.Querier = (*Fake)(nil)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func (f *Fake) now() pgtype.Timestamptz {
	return store.Timestamp(f.Now())
}

func key(id pgtype.UUID) string { return store.UUIDString(id) }

// users

func (f *Fake) CreateUser(_ context.Context, arg store.CreateUserParams) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Email == arg.Email {
			return store.User{}, uniqueViolation("users_email_key")
		}
	}
	u := store.User{
		ID:           arg.ID,
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Phone:        arg.Phone,
		Role:         arg.Role,
		IsActive:     true,
		CreatedAt:    f.now(),
	}
	f.Users[key(arg.ID)] = u
	return u, nil
}

func (f *Fake) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (f *Fake) GetUserByID(_ context.Context, id pgtype.UUID) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[key(id)]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *Fake) ListUsers(_ context.Context, arg store.ListUsersParams) ([]store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.User
	for _, u := range f.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) CountUsers(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.Users)), nil
}

func (f *Fake) UpdateUser(_ context.Context, arg store.UpdateUserParams) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[key(arg.ID)]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		u.Name = arg.Name.String
	}
	if arg.Phone.Valid {
		u.Phone = arg.Phone
	}
	f.Users[key(arg.ID)] = u
	return u, nil
}

func (f *Fake) UpdateUserRole(_ context.Context, arg store.UpdateUserRoleParams) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[key(arg.ID)]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	u.Role = arg.Role
	f.Users[key(arg.ID)] = u
	return u, nil
}

func (f *Fake) DeactivateUser(_ context.Context, id pgtype.UUID) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[key(id)]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	u.IsActive = false
	f.Users[key(id)] = u
	return u, nil
}

func (f *Fake) DeleteUser(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Users, key(id))
	return nil
}

// sessions

func (f *Fake) CreateSession(_ context.Context, arg store.CreateSessionParams) (store.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := store.Session{
		ID:        arg.ID,
		UserID:    arg.UserID,
		TokenHash: arg.TokenHash,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: f.now(),
	}
	f.Sessions[key(arg.ID)] = s
	return s, nil
}

func (f *Fake) GetSessionByTokenHash(_ context.Context, tokenHash string) (store.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.Sessions {
		if s.TokenHash == tokenHash {
			return s, nil
		}
	}
	return store.Session{}, pgx.ErrNoRows
}

func (f *Fake) RotateSession(_ context.Context, arg store.RotateSessionParams) (store.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Sessions[key(arg.ID)]
	if !ok {
		return store.Session{}, pgx.ErrNoRows
	}
	s.TokenHash = arg.TokenHash
	s.ExpiresAt = arg.ExpiresAt
	f.Sessions[key(arg.ID)] = s
	return s, nil
}

func (f *Fake) DeleteSessionByTokenHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.Sessions {
		if s.TokenHash == tokenHash {
			delete(f.Sessions, id)
		}
	}
	return nil
}

func (f *Fake) DeleteSessionsByUser(_ context.Context, userID pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.Sessions {
		if s.UserID == userID {
			delete(f.Sessions, id)
		}
	}
	return nil
}

func (f *Fake) DeleteExpiredSessions(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	var n int64
	for id, s := range f.Sessions {
		if s.ExpiresAt.Valid && s.ExpiresAt.Time.Before(now) {
			delete(f.Sessions, id)
			n++
		}
	}
	return n, nil
}

// addresses

func (f *Fake) CreateAddress(_ context.Context, arg store.CreateAddressParams) (store.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := store.Address{
		ID:         arg.ID,
		UserID:     arg.UserID,
		Street:     arg.Street,
		City:       arg.City,
		State:      arg.State,
		Country:    arg.Country,
		PostalCode: arg.PostalCode,
		CreatedAt:  f.now(),
	}
	f.Addresses[key(arg.ID)] = a
	return a, nil
}

func (f *Fake) ListAddressesByUser(_ context.Context, userID pgtype.UUID) ([]store.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Address
	for _, a := range f.Addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.Before(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *Fake) GetAddressByID(_ context.Context, id pgtype.UUID) (store.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Addresses[key(id)]
	if !ok {
		return store.Address{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *Fake) GetFirstAddressByUser(ctx context.Context, userID pgtype.UUID) (store.Address, error) {
	list, err := f.ListAddressesByUser(ctx, userID)
	if err != nil {
		return store.Address{}, err
	}
	if len(list) == 0 {
		return store.Address{}, pgx.ErrNoRows
	}
	return list[0], nil
}

func (f *Fake) UpdateAddress(_ context.Context, arg store.UpdateAddressParams) (store.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.Addresses[key(arg.ID)]
	if !ok {
		return store.Address{}, pgx.ErrNoRows
	}
	if arg.Street.Valid {
		a.Street = arg.Street.String
	}
	if arg.City.Valid {
		a.City = arg.City.String
	}
	if arg.State.Valid {
		a.State = arg.State.String
	}
	if arg.Country.Valid {
		a.Country = arg.Country.String
	}
	if arg.PostalCode.Valid {
		a.PostalCode = arg.PostalCode.String
	}
	f.Addresses[key(arg.ID)] = a
	return a, nil
}

func (f *Fake) DeleteAddress(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Addresses, key(id))
	return nil
}

// categories

func (f *Fake) CreateCategory(_ context.Context, arg store.CreateCategoryParams) (store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Categories {
		if c.Name == arg.Name {
			return store.Category{}, uniqueViolation("categories_name_key")
		}
	}
	c := store.Category{ID: arg.ID, Name: arg.Name, Description: arg.Description}
	f.Categories[key(arg.ID)] = c
	return c, nil
}

func (f *Fake) ListCategories(context.Context) ([]store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Category
	for _, c := range f.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Fake) GetCategoryByID(_ context.Context, id pgtype.UUID) (store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Categories[key(id)]
	if !ok {
		return store.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *Fake) UpdateCategory(_ context.Context, arg store.UpdateCategoryParams) (store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Categories[key(arg.ID)]
	if !ok {
		return store.Category{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		c.Name = arg.Name.String
	}
	if arg.Description.Valid {
		c.Description = arg.Description
	}
	f.Categories[key(arg.ID)] = c
	return c, nil
}

func (f *Fake) DeleteCategory(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Categories, key(id))
	return nil
}

func (f *Fake) CountProductsInCategory(_ context.Context, categoryID pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.Products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// products

func (f *Fake) CreateProduct(_ context.Context, arg store.CreateProductParams) (store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := store.Product{
		ID:          arg.ID,
		Name:        arg.Name,
		Description: arg.Description,
		Price:       arg.Price,
		Stock:       arg.Stock,
		CategoryID:  arg.CategoryID,
		SellerID:    arg.SellerID,
		CreatedAt:   f.now(),
	}
	f.Products[key(arg.ID)] = p
	return p, nil
}

func (f *Fake) ListProducts(_ context.Context, arg store.ListProductsParams) ([]store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Product
	for _, p := range f.Products {
		if arg.CategoryID.Valid && p.CategoryID != arg.CategoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) CountProducts(_ context.Context, categoryID pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.Products {
		if categoryID.Valid && p.CategoryID != categoryID {
			continue
		}
		n++
	}
	return n, nil
}

func (f *Fake) GetProductByID(_ context.Context, id pgtype.UUID) (store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Products[key(id)]
	if !ok {
		return store.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *Fake) ListProductsBySeller(_ context.Context, arg store.ListProductsBySellerParams) ([]store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Product
	for _, p := range f.Products {
		if p.SellerID == arg.SellerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) UpdateProduct(_ context.Context, arg store.UpdateProductParams) (store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Products[key(arg.ID)]
	if !ok {
		return store.Product{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		p.Name = arg.Name.String
	}
	if arg.Description.Valid {
		p.Description = arg.Description
	}
	if arg.Price.Valid {
		p.Price = arg.Price.Int64
	}
	if arg.Stock.Valid {
		p.Stock = arg.Stock.Int32
	}
	if arg.CategoryID.Valid {
		p.CategoryID = arg.CategoryID
	}
	f.Products[key(arg.ID)] = p
	return p, nil
}

func (f *Fake) DeleteProduct(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Products, key(id))
	return nil
}

func (f *Fake) DecrementProductStock(_ context.Context, arg store.DecrementProductStockParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Products[key(arg.ID)]
	if !ok || p.Stock < arg.Quantity {
		return 0, nil
	}
	p.Stock -= arg.Quantity
	f.Products[key(arg.ID)] = p
	return 1, nil
}

// carts

func (f *Fake) CreateCart(_ context.Context, arg store.CreateCartParams) (store.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Carts {
		if c.UserID == arg.UserID {
			return store.Cart{}, uniqueViolation("carts_user_id_key")
		}
	}
	c := store.Cart{ID: arg.ID, UserID: arg.UserID, CreatedAt: f.now()}
	f.Carts[key(arg.ID)] = c
	return c, nil
}

func (f *Fake) GetCartByUser(_ context.Context, userID pgtype.UUID) (store.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	return store.Cart{}, pgx.ErrNoRows
}

func (f *Fake) GetCartByID(_ context.Context, id pgtype.UUID) (store.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Carts[key(id)]
	if !ok {
		return store.Cart{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *Fake) CreateCartItem(_ context.Context, arg store.CreateCartItemParams) (store.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := store.CartItem{ID: arg.ID, CartID: arg.CartID, ProductID: arg.ProductID, Quantity: arg.Quantity}
	f.CartItems[key(arg.ID)] = ci
	return ci, nil
}

func (f *Fake) GetCartItemByID(_ context.Context, id pgtype.UUID) (store.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci, ok := f.CartItems[key(id)]
	if !ok {
		return store.CartItem{}, pgx.ErrNoRows
	}
	return ci, nil
}

func (f *Fake) FindCartItemByProduct(_ context.Context, arg store.FindCartItemByProductParams) (store.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ci := range f.CartItems {
		if ci.CartID == arg.CartID && ci.ProductID == arg.ProductID {
			return ci, nil
		}
	}
	return store.CartItem{}, pgx.ErrNoRows
}

func (f *Fake) UpdateCartItemQuantity(_ context.Context, arg store.UpdateCartItemQuantityParams) (store.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci, ok := f.CartItems[key(arg.ID)]
	if !ok {
		return store.CartItem{}, pgx.ErrNoRows
	}
	ci.Quantity = arg.Quantity
	f.CartItems[key(arg.ID)] = ci
	return ci, nil
}

func (f *Fake) DeleteCartItem(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.CartItems, key(id))
	return nil
}

func (f *Fake) ListCartItems(_ context.Context, cartID pgtype.UUID) ([]store.CartItemDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.CartItemDetail
	for _, ci := range f.CartItems {
		if ci.CartID != cartID {
			continue
		}
		p := f.Products[key(ci.ProductID)]
		out = append(out, store.CartItemDetail{
			ID:           ci.ID,
			CartID:       ci.CartID,
			ProductID:    ci.ProductID,
			Quantity:     ci.Quantity,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			ProductStock: p.Stock,
		})
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].ID) < key(out[j].ID) })
	return out, nil
}

func (f *Fake) DeleteCartItemsByCart(_ context.Context, cartID pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ci := range f.CartItems {
		if ci.CartID == cartID {
			delete(f.CartItems, id)
		}
	}
	return nil
}

// orders

func (f *Fake) CreateOrder(_ context.Context, arg store.CreateOrderParams) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := store.Order{
		ID:          arg.ID,
		UserID:      arg.UserID,
		AddressID:   arg.AddressID,
		TotalAmount: arg.TotalAmount,
		Status:      arg.Status,
		CreatedAt:   f.now(),
	}
	f.Orders[key(arg.ID)] = o
	return o, nil
}

func (f *Fake) UpdateOrderTotal(_ context.Context, arg store.UpdateOrderTotalParams) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.Orders[key(arg.ID)]
	if !ok {
		return store.Order{}, pgx.ErrNoRows
	}
	o.TotalAmount = arg.TotalAmount
	f.Orders[key(arg.ID)] = o
	return o, nil
}

func (f *Fake) UpdateOrderStatus(_ context.Context, arg store.UpdateOrderStatusParams) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.Orders[key(arg.ID)]
	if !ok {
		return store.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	f.Orders[key(arg.ID)] = o
	return o, nil
}

func (f *Fake) ListOrdersByUser(_ context.Context, arg store.ListOrdersByUserParams) ([]store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Order
	for _, o := range f.Orders {
		if o.UserID == arg.UserID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) CountOrdersByUser(_ context.Context, userID pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, o := range f.Orders {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *Fake) ListOrders(_ context.Context, arg store.ListOrdersParams) ([]store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Order
	for _, o := range f.Orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) CountOrders(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.Orders)), nil
}

func (f *Fake) GetOrderByID(_ context.Context, id pgtype.UUID) (store.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.Orders[key(id)]
	if !ok {
		return store.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *Fake) CreateOrderItem(_ context.Context, arg store.CreateOrderItemParams) (store.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oi := store.OrderItem{ID: arg.ID, OrderID: arg.OrderID, ProductID: arg.ProductID, Quantity: arg.Quantity, Price: arg.Price}
	f.OrderItems[key(arg.ID)] = oi
	return oi, nil
}

func (f *Fake) ListOrderItemsByOrder(_ context.Context, orderID pgtype.UUID) ([]store.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.OrderItem
	for _, oi := range f.OrderItems {
		if oi.OrderID == orderID {
			out = append(out, oi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].ID) < key(out[j].ID) })
	return out, nil
}

func (f *Fake) HasUserPurchasedProduct(_ context.Context, arg store.HasUserPurchasedProductParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, oi := range f.OrderItems {
		if oi.ProductID != arg.ProductID {
			continue
		}
		if o, ok := f.Orders[key(oi.OrderID)]; ok && o.UserID == arg.UserID {
			return true, nil
		}
	}
	return false, nil
}

// payments

func (f *Fake) CreatePayment(_ context.Context, arg store.CreatePaymentParams) (store.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := store.Payment{ID: arg.ID, OrderID: arg.OrderID, Amount: arg.Amount, Method: arg.Method, Status: arg.Status, CreatedAt: f.now()}
	f.Payments[key(arg.ID)] = p
	return p, nil
}

func (f *Fake) GetPaymentByOrder(_ context.Context, orderID pgtype.UUID) (store.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return store.Payment{}, pgx.ErrNoRows
}

// shipments

func (f *Fake) CreateShipment(_ context.Context, arg store.CreateShipmentParams) (store.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := store.Shipment{
		ID:             arg.ID,
		OrderID:        arg.OrderID,
		TrackingNumber: arg.TrackingNumber,
		Carrier:        arg.Carrier,
		Status:         arg.Status,
		CreatedAt:      f.now(),
	}
	f.Shipments[key(arg.ID)] = s
	return s, nil
}

func (f *Fake) GetShipmentByID(_ context.Context, id pgtype.UUID) (store.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Shipments[key(id)]
	if !ok {
		return store.Shipment{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *Fake) GetShipmentByOrder(_ context.Context, orderID pgtype.UUID) (store.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.Shipments {
		if s.OrderID == orderID {
			return s, nil
		}
	}
	return store.Shipment{}, pgx.ErrNoRows
}

func (f *Fake) ListShipments(_ context.Context, arg store.ListShipmentsParams) ([]store.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Shipment
	for _, s := range f.Shipments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return paginate(out, arg.Limit, arg.Offset), nil
}

func (f *Fake) CountShipments(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.Shipments)), nil
}

func (f *Fake) UpdateShipment(_ context.Context, arg store.UpdateShipmentParams) (store.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Shipments[key(arg.ID)]
	if !ok {
		return store.Shipment{}, pgx.ErrNoRows
	}
	s.Status = arg.Status
	if arg.TrackingNumber.Valid {
		s.TrackingNumber = arg.TrackingNumber
	}
	if arg.Carrier.Valid {
		s.Carrier = arg.Carrier
	}
	f.Shipments[key(arg.ID)] = s
	return s, nil
}

// reviews

func (f *Fake) CreateReview(_ context.Context, arg store.CreateReviewParams) (store.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := store.Review{ID: arg.ID, ProductID: arg.ProductID, UserID: arg.UserID, Rating: arg.Rating, Comment: arg.Comment, CreatedAt: f.now()}
	f.Reviews[key(arg.ID)] = r
	return r, nil
}

func (f *Fake) ListReviewsByProduct(_ context.Context, productID pgtype.UUID) ([]store.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Review
	for _, r := range f.Reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *Fake) GetReviewByID(_ context.Context, id pgtype.UUID) (store.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Reviews[key(id)]
	if !ok {
		return store.Review{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *Fake) DeleteReview(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Reviews, key(id))
	return nil
}

// wishlist

func (f *Fake) UpsertWishlistItem(_ context.Context, arg store.UpsertWishlistItemParams) (store.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.Wishlist {
		if w.UserID == arg.UserID && w.ProductID == arg.ProductID {
			return w, nil
		}
	}
	w := store.WishlistItem{ID: arg.ID, UserID: arg.UserID, ProductID: arg.ProductID, CreatedAt: f.now()}
	f.Wishlist[key(arg.ID)] = w
	return w, nil
}

func (f *Fake) ListWishlistByUser(_ context.Context, userID pgtype.UUID) ([]store.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.WishlistItem
	for _, w := range f.Wishlist {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (f *Fake) GetWishlistItemByID(_ context.Context, id pgtype.UUID) (store.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.Wishlist[key(id)]
	if !ok {
		return store.WishlistItem{}, pgx.ErrNoRows
	}
	return w, nil
}

func (f *Fake) DeleteWishlistItem(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Wishlist, key(id))
	return nil
}

func paginate[T any](in []T, limit, offset int32) []T {
	if offset < 0 {
		offset = 0
	}
	if int(offset) >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && int(limit) < len(in) {
		in = in[:limit]
	}
	return in
}
