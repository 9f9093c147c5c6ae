package store

import "github.com/jackc/pgx/v5/pgtype"

// User is an account holder. Role is one of customer, seller or admin.
type User struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        pgtype.Text
	Role         string
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
}

// Session is a server-side refresh token record. TokenHash stores the
// sha256 of the opaque refresh token, never the token itself.
type Session struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

// Address is a shipping address owned by a user.
type Address struct {
	ID         pgtype.UUID
	UserID     pgtype.UUID
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
	CreatedAt  pgtype.Timestamptz
}

// Category groups products.
type Category struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
}

// Product is a sellable item. Price is in minor currency units.
type Product struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       int64
	Stock       int32
	CategoryID  pgtype.UUID
	SellerID    pgtype.UUID
	CreatedAt   pgtype.Timestamptz
}

// Cart holds at most one open cart per user.
type Cart struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	CreatedAt pgtype.Timestamptz
}

// CartItem is a product line inside a cart.
type CartItem struct {
	ID        pgtype.UUID
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
}

// Order is a placed order. TotalAmount is in minor currency units.
type Order struct {
	ID          pgtype.UUID
	UserID      pgtype.UUID
	AddressID   pgtype.UUID
	TotalAmount int64
	Status      string
	CreatedAt   pgtype.Timestamptz
}

// OrderItem snapshots the product price at placement time.
type OrderItem struct {
	ID        pgtype.UUID
	OrderID   pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
	Price     int64
}

// Payment records the payment row created alongside an order.
type Payment struct {
	ID        pgtype.UUID
	OrderID   pgtype.UUID
	Amount    int64
	Method    string
	Status    string
	CreatedAt pgtype.Timestamptz
}

// Shipment tracks order fulfilment.
type Shipment struct {
	ID             pgtype.UUID
	OrderID        pgtype.UUID
	TrackingNumber pgtype.Text
	Carrier        pgtype.Text
	Status         string
	CreatedAt      pgtype.Timestamptz
}

// Review is a product review. Rating is 1 to 5.
type Review struct {
	ID        pgtype.UUID
	ProductID pgtype.UUID
	UserID    pgtype.UUID
	Rating    int32
	Comment   pgtype.Text
	CreatedAt pgtype.Timestamptz
}

// WishlistItem marks a product saved by a user.
type WishlistItem struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	ProductID pgtype.UUID
	CreatedAt pgtype.Timestamptz
}

// CartItemDetail joins a cart item with its product for pricing.
type CartItemDetail struct {
	ID           pgtype.UUID
	CartID       pgtype.UUID
	ProductID    pgtype.UUID
	Quantity     int32
	ProductName  string
	ProductPrice int64
	ProductStock int32
}
