package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOrderSQL = `
INSERT INTO orders (id, user_id, address_id, total_amount, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, address_id, total_amount, status, created_at`

type CreateOrderParams struct {
	ID          pgtype.UUID
	UserID      pgtype.UUID
	AddressID   pgtype.UUID
	TotalAmount int64
	Status      string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrderSQL, arg.ID, arg.UserID, arg.AddressID, arg.TotalAmount, arg.Status)
	return scanOrder(row)
}

const updateOrderTotalSQL = `
UPDATE orders
SET total_amount = $2
WHERE id = $1
RETURNING id, user_id, address_id, total_amount, status, created_at`

type UpdateOrderTotalParams struct {
	ID          pgtype.UUID
	TotalAmount int64
}

func (q *Queries) UpdateOrderTotal(ctx context.Context, arg UpdateOrderTotalParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderTotalSQL, arg.ID, arg.TotalAmount))
}

const updateOrderStatusSQL = `
UPDATE orders
SET status = $2
WHERE id = $1
RETURNING id, user_id, address_id, total_amount, status, created_at`

type UpdateOrderStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatusSQL, arg.ID, arg.Status))
}

const listOrdersByUserSQL = `
SELECT id, user_id, address_id, total_amount, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

type ListOrdersByUserParams struct {
	UserID pgtype.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrdersByUser(ctx context.Context, arg ListOrdersByUserParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByUserSQL, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

const countOrdersByUserSQL = `SELECT COUNT(*) FROM orders WHERE user_id = $1`

func (q *Queries) CountOrdersByUser(ctx context.Context, userID pgtype.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersByUserSQL, userID).Scan(&n)
	return n, err
}

const listOrdersSQL = `
SELECT id, user_id, address_id, total_amount, status, created_at
FROM orders
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

type ListOrdersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersSQL, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

const countOrdersSQL = `SELECT COUNT(*) FROM orders`

func (q *Queries) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersSQL).Scan(&n)
	return n, err
}

const getOrderByIDSQL = `
SELECT id, user_id, address_id, total_amount, status, created_at
FROM orders
WHERE id = $1`

func (q *Queries) GetOrderByID(ctx context.Context, id pgtype.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByIDSQL, id))
}

const createOrderItemSQL = `
INSERT INTO order_items (id, order_id, product_id, quantity, price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, product_id, quantity, price`

type CreateOrderItemParams struct {
	ID        pgtype.UUID
	OrderID   pgtype.UUID
	ProductID pgtype.UUID
	Quantity  int32
	Price     int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItemSQL, arg.ID, arg.OrderID, arg.ProductID, arg.Quantity, arg.Price)
	var oi OrderItem
	err := row.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.Price)
	return oi, err
}

const listOrderItemsByOrderSQL = `
SELECT id, order_id, product_id, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrderItem
	for rows.Next() {
		var oi OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.Price); err != nil {
			return nil, err
		}
		out = append(out, oi)
	}
	return out, rows.Err()
}

const hasUserPurchasedProductSQL = `
SELECT EXISTS (
	SELECT 1
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.user_id = $1 AND oi.product_id = $2
)`

type HasUserPurchasedProductParams struct {
	UserID    pgtype.UUID
	ProductID pgtype.UUID
}

func (q *Queries) HasUserPurchasedProduct(ctx context.Context, arg HasUserPurchasedProductParams) (bool, error) {
	var ok bool
	err := q.db.QueryRow(ctx, hasUserPurchasedProductSQL, arg.UserID, arg.ProductID).Scan(&ok)
	return ok, err
}

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.TotalAmount, &o.Status, &o.CreatedAt)
	return o, err
}

func collectOrders(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.AddressID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
