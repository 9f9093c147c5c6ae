package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createShipmentSQL = `
INSERT INTO shipments (id, order_id, tracking_number, carrier, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, tracking_number, carrier, status, created_at`

type CreateShipmentParams struct {
	ID             pgtype.UUID
	OrderID        pgtype.UUID
	TrackingNumber pgtype.Text
	Carrier        pgtype.Text
	Status         string
}

func (q *Queries) CreateShipment(ctx context.Context, arg CreateShipmentParams) (Shipment, error) {
	row := q.db.QueryRow(ctx, createShipmentSQL, arg.ID, arg.OrderID, arg.TrackingNumber, arg.Carrier, arg.Status)
	return scanShipment(row)
}

const getShipmentByIDSQL = `
SELECT id, order_id, tracking_number, carrier, status, created_at
FROM shipments
WHERE id = $1`

func (q *Queries) GetShipmentByID(ctx context.Context, id pgtype.UUID) (Shipment, error) {
	return scanShipment(q.db.QueryRow(ctx, getShipmentByIDSQL, id))
}

const getShipmentByOrderSQL = `
SELECT id, order_id, tracking_number, carrier, status, created_at
FROM shipments
WHERE order_id = $1`

func (q *Queries) GetShipmentByOrder(ctx context.Context, orderID pgtype.UUID) (Shipment, error) {
	return scanShipment(q.db.QueryRow(ctx, getShipmentByOrderSQL, orderID))
}

const listShipmentsSQL = `
SELECT id, order_id, tracking_number, carrier, status, created_at
FROM shipments
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

type ListShipmentsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListShipments(ctx context.Context, arg ListShipmentsParams) ([]Shipment, error) {
	rows, err := q.db.Query(ctx, listShipmentsSQL, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Shipment
	for rows.Next() {
		var s Shipment
		if err := rows.Scan(&s.ID, &s.OrderID, &s.TrackingNumber, &s.Carrier, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const countShipmentsSQL = `SELECT COUNT(*) FROM shipments`

func (q *Queries) CountShipments(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countShipmentsSQL).Scan(&n)
	return n, err
}

const updateShipmentSQL = `
UPDATE shipments
SET status = $2,
    tracking_number = COALESCE($3, tracking_number),
    carrier = COALESCE($4, carrier)
WHERE id = $1
RETURNING id, order_id, tracking_number, carrier, status, created_at`

type UpdateShipmentParams struct {
	ID             pgtype.UUID
	Status         string
	TrackingNumber pgtype.Text
	Carrier        pgtype.Text
}

func (q *Queries) UpdateShipment(ctx context.Context, arg UpdateShipmentParams) (Shipment, error) {
	row := q.db.QueryRow(ctx, updateShipmentSQL, arg.ID, arg.Status, arg.TrackingNumber, arg.Carrier)
	return scanShipment(row)
}

func scanShipment(row interface{ Scan(dest ...any) error }) (Shipment, error) {
	var s Shipment
	err := row.Scan(&s.ID, &s.OrderID, &s.TrackingNumber, &s.Carrier, &s.Status, &s.CreatedAt)
	return s, err
}
