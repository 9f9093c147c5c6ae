package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCartSQL = `
INSERT INTO carts (id, user_id)
VALUES ($1, $2)
RETURNING id, user_id, created_at`

type CreateCartParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) CreateCart(ctx context.Context, arg CreateCartParams) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, createCartSQL, arg.ID, arg.UserID))
}

const getCartByUserSQL = `
SELECT id, user_id, created_at
FROM carts
WHERE user_id = $1`

func (q *Queries) GetCartByUser(ctx context.Context, userID pgtype.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartByUserSQL, userID))
}

const getCartByIDSQL = `
SELECT id, user_id, created_at
FROM carts
WHERE id = $1`

func (q *Queries) GetCartByID(ctx context.Context, id pgtype.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartByIDSQL, id))
}

const createCartItemSQL = `
INSERT INTO cart_items (id, cart_id, product_id, quantity)
VALUES ($1, $2, $3, $4)
RETURNING id, cart_id, product_id, quantity`

type CreateCartItemParams struct {
	ID        pgtype.UUID
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
}

func (q *Queries) CreateCartItem(ctx context.Context, arg CreateCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, createCartItemSQL, arg.ID, arg.CartID, arg.ProductID, arg.Quantity))
}

const getCartItemByIDSQL = `
SELECT id, cart_id, product_id, quantity
FROM cart_items
WHERE id = $1`

func (q *Queries) GetCartItemByID(ctx context.Context, id pgtype.UUID) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, getCartItemByIDSQL, id))
}

const findCartItemByProductSQL = `
SELECT id, cart_id, product_id, quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2`

type FindCartItemByProductParams struct {
	CartID    pgtype.UUID
	ProductID pgtype.UUID
}

func (q *Queries) FindCartItemByProduct(ctx context.Context, arg FindCartItemByProductParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, findCartItemByProductSQL, arg.CartID, arg.ProductID))
}

const updateCartItemQuantitySQL = `
UPDATE cart_items
SET quantity = $2
WHERE id = $1
RETURNING id, cart_id, product_id, quantity`

type UpdateCartItemQuantityParams struct {
	ID       pgtype.UUID
	Quantity int32
}

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, updateCartItemQuantitySQL, arg.ID, arg.Quantity))
}

const deleteCartItemSQL = `DELETE FROM cart_items WHERE id = $1`

func (q *Queries) DeleteCartItem(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartItemSQL, id)
	return err
}

const listCartItemsSQL = `
SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, p.name, p.price, p.stock
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.id`

func (q *Queries) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItemDetail, error) {
	rows, err := q.db.Query(ctx, listCartItemsSQL, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartItemDetail
	for rows.Next() {
		var d CartItemDetail
		if err := rows.Scan(&d.ID, &d.CartID, &d.ProductID, &d.Quantity, &d.ProductName, &d.ProductPrice, &d.ProductStock); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const deleteCartItemsByCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) DeleteCartItemsByCart(ctx context.Context, cartID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartItemsByCartSQL, cartID)
	return err
}

func scanCart(row interface{ Scan(dest ...any) error }) (Cart, error) {
	var c Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt)
	return c, err
}

func scanCartItem(row interface{ Scan(dest ...any) error }) (CartItem, error) {
	var ci CartItem
	err := row.Scan(&ci.ID, &ci.CartID, &ci.ProductID, &ci.Quantity)
	return ci, err
}
