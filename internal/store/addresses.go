package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAddressSQL = `
INSERT INTO addresses (id, user_id, street, city, state, country, postal_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, street, city, state, country, postal_code, created_at`

type CreateAddressParams struct {
	ID         pgtype.UUID
	UserID     pgtype.UUID
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

func (q *Queries) CreateAddress(ctx context.Context, arg CreateAddressParams) (Address, error) {
	row := q.db.QueryRow(ctx, createAddressSQL, arg.ID, arg.UserID, arg.Street, arg.City, arg.State, arg.Country, arg.PostalCode)
	return scanAddress(row)
}

const listAddressesByUserSQL = `
SELECT id, user_id, street, city, state, country, postal_code, created_at
FROM addresses
WHERE user_id = $1
ORDER BY created_at`

func (q *Queries) ListAddressesByUser(ctx context.Context, userID pgtype.UUID) ([]Address, error) {
	rows, err := q.db.Query(ctx, listAddressesByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.Country, &a.PostalCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const getAddressByIDSQL = `
SELECT id, user_id, street, city, state, country, postal_code, created_at
FROM addresses
WHERE id = $1`

func (q *Queries) GetAddressByID(ctx context.Context, id pgtype.UUID) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, getAddressByIDSQL, id))
}

const getFirstAddressByUserSQL = `
SELECT id, user_id, street, city, state, country, postal_code, created_at
FROM addresses
WHERE user_id = $1
ORDER BY created_at
LIMIT 1`

func (q *Queries) GetFirstAddressByUser(ctx context.Context, userID pgtype.UUID) (Address, error) {
	return scanAddress(q.db.QueryRow(ctx, getFirstAddressByUserSQL, userID))
}

const updateAddressSQL = `
UPDATE addresses
SET street = COALESCE($2, street),
    city = COALESCE($3, city),
    state = COALESCE($4, state),
    country = COALESCE($5, country),
    postal_code = COALESCE($6, postal_code)
WHERE id = $1
RETURNING id, user_id, street, city, state, country, postal_code, created_at`

type UpdateAddressParams struct {
	ID         pgtype.UUID
	Street     pgtype.Text
	City       pgtype.Text
	State      pgtype.Text
	Country    pgtype.Text
	PostalCode pgtype.Text
}

func (q *Queries) UpdateAddress(ctx context.Context, arg UpdateAddressParams) (Address, error) {
	row := q.db.QueryRow(ctx, updateAddressSQL, arg.ID, arg.Street, arg.City, arg.State, arg.Country, arg.PostalCode)
	return scanAddress(row)
}

const deleteAddressSQL = `DELETE FROM addresses WHERE id = $1`

func (q *Queries) DeleteAddress(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteAddressSQL, id)
	return err
}

func scanAddress(row interface{ Scan(dest ...any) error }) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.Country, &a.PostalCode, &a.CreatedAt)
	return a, err
}
