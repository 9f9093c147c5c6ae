package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertWishlistItemSQL = `
INSERT INTO wishlist_items (id, user_id, product_id)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET product_id = EXCLUDED.product_id
RETURNING id, user_id, product_id, created_at`

type UpsertWishlistItemParams struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	ProductID pgtype.UUID
}

// UpsertWishlistItem inserts a wishlist entry or returns the existing one,
// so repeated adds are idempotent.
func (q *Queries) UpsertWishlistItem(ctx context.Context, arg UpsertWishlistItemParams) (WishlistItem, error) {
	row := q.db.QueryRow(ctx, upsertWishlistItemSQL, arg.ID, arg.UserID, arg.ProductID)
	return scanWishlistItem(row)
}

const listWishlistByUserSQL = `
SELECT id, user_id, product_id, created_at
FROM wishlist_items
WHERE user_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListWishlistByUser(ctx context.Context, userID pgtype.UUID) ([]WishlistItem, error) {
	rows, err := q.db.Query(ctx, listWishlistByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WishlistItem
	for rows.Next() {
		var w WishlistItem
		if err := rows.Scan(&w.ID, &w.UserID, &w.ProductID, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

const getWishlistItemByIDSQL = `
SELECT id, user_id, product_id, created_at
FROM wishlist_items
WHERE id = $1`

func (q *Queries) GetWishlistItemByID(ctx context.Context, id pgtype.UUID) (WishlistItem, error) {
	return scanWishlistItem(q.db.QueryRow(ctx, getWishlistItemByIDSQL, id))
}

const deleteWishlistItemSQL = `DELETE FROM wishlist_items WHERE id = $1`

func (q *Queries) DeleteWishlistItem(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteWishlistItemSQL, id)
	return err
}

func scanWishlistItem(row interface{ Scan(dest ...any) error }) (WishlistItem, error) {
	var w WishlistItem
	err := row.Scan(&w.ID, &w.UserID, &w.ProductID, &w.CreatedAt)
	return w, err
}
