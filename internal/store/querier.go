package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the full query surface. Services depend on this interface so
// tests can substitute in-memory fakes.
type Querier interface {
	// users
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error)
	UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error)
	DeactivateUser(ctx context.Context, id pgtype.UUID) (User, error)
	DeleteUser(ctx context.Context, id pgtype.UUID) error

	// sessions
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error)
	RotateSession(ctx context.Context, arg RotateSessionParams) (Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteSessionsByUser(ctx context.Context, userID pgtype.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// addresses
	CreateAddress(ctx context.Context, arg CreateAddressParams) (Address, error)
	ListAddressesByUser(ctx context.Context, userID pgtype.UUID) ([]Address, error)
	GetAddressByID(ctx context.Context, id pgtype.UUID) (Address, error)
	GetFirstAddressByUser(ctx context.Context, userID pgtype.UUID) (Address, error)
	UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error)
	DeleteAddress(ctx context.Context, id pgtype.UUID) error

	// categories
	CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, id pgtype.UUID) (Category, error)
	UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, id pgtype.UUID) error
	CountProductsInCategory(ctx context.Context, categoryID pgtype.UUID) (int64, error)

	// products
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	CountProducts(ctx context.Context, categoryID pgtype.UUID) (int64, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error)
	ListProductsBySeller(ctx context.Context, arg ListProductsBySellerParams) ([]Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id pgtype.UUID) error
	DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (int64, error)

	// carts
	CreateCart(ctx context.Context, arg CreateCartParams) (Cart, error)
	GetCartByUser(ctx context.Context, userID pgtype.UUID) (Cart, error)
	GetCartByID(ctx context.Context, id pgtype.UUID) (Cart, error)
	CreateCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error)
	GetCartItemByID(ctx context.Context, id pgtype.UUID) (CartItem, error)
	FindCartItemByProduct(ctx context.Context, arg FindCartItemByProductParams) (CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error)
	DeleteCartItem(ctx context.Context, id pgtype.UUID) error
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItemDetail, error)
	DeleteCartItemsByCart(ctx context.Context, cartID pgtype.UUID) error

	// orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	UpdateOrderTotal(ctx context.Context, arg UpdateOrderTotalParams) (Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)
	ListOrdersByUser(ctx context.Context, arg ListOrdersByUserParams) ([]Order, error)
	CountOrdersByUser(ctx context.Context, userID pgtype.UUID) (int64, error)
	ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error)
	CountOrders(ctx context.Context) (int64, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error)
	HasUserPurchasedProduct(ctx context.Context, arg HasUserPurchasedProductParams) (bool, error)

	// payments
	CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error)
	GetPaymentByOrder(ctx context.Context, orderID pgtype.UUID) (Payment, error)

	// shipments
	CreateShipment(ctx context.Context, arg CreateShipmentParams) (Shipment, error)
	GetShipmentByID(ctx context.Context, id pgtype.UUID) (Shipment, error)
	GetShipmentByOrder(ctx context.Context, orderID pgtype.UUID) (Shipment, error)
	ListShipments(ctx context.Context, arg ListShipmentsParams) ([]Shipment, error)
	CountShipments(ctx context.Context) (int64, error)
	UpdateShipment(ctx context.Context, arg UpdateShipmentParams) (Shipment, error)

	// reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)
	ListReviewsByProduct(ctx context.Context, productID pgtype.UUID) ([]Review, error)
	GetReviewByID(ctx context.Context, id pgtype.UUID) (Review, error)
	DeleteReview(ctx context.Context, id pgtype.UUID) error

	// wishlist
	UpsertWishlistItem(ctx context.Context, arg UpsertWishlistItemParams) (WishlistItem, error)
	ListWishlistByUser(ctx context.Context, userID pgtype.UUID) ([]WishlistItem, error)
	GetWishlistItemByID(ctx context.Context, id pgtype.UUID) (WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, id pgtype.UUID) error
}

var _ Querier = (*Queries)(nil)
