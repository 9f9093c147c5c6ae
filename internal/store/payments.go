package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPaymentSQL = `
INSERT INTO payments (id, order_id, amount, method, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, amount, method, status, created_at`

type CreatePaymentParams struct {
	ID      pgtype.UUID
	OrderID pgtype.UUID
	Amount  int64
	Method  string
	Status  string
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPaymentSQL, arg.ID, arg.OrderID, arg.Amount, arg.Method, arg.Status)
	return scanPayment(row)
}

const getPaymentByOrderSQL = `
SELECT id, order_id, amount, method, status, created_at
FROM payments
WHERE order_id = $1`

func (q *Queries) GetPaymentByOrder(ctx context.Context, orderID pgtype.UUID) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, getPaymentByOrderSQL, orderID))
}

func scanPayment(row interface{ Scan(dest ...any) error }) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt)
	return p, err
}
