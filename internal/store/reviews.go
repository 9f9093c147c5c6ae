package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createReviewSQL = `
INSERT INTO reviews (id, product_id, user_id, rating, comment)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, product_id, user_id, rating, comment, created_at`

type CreateReviewParams struct {
	ID        pgtype.UUID
	ProductID pgtype.UUID
	UserID    pgtype.UUID
	Rating    int32
	Comment   pgtype.Text
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReviewSQL, arg.ID, arg.ProductID, arg.UserID, arg.Rating, arg.Comment)
	return scanReview(row)
}

const listReviewsByProductSQL = `
SELECT id, product_id, user_id, rating, comment, created_at
FROM reviews
WHERE product_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListReviewsByProduct(ctx context.Context, productID pgtype.UUID) ([]Review, error) {
	rows, err := q.db.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getReviewByIDSQL = `
SELECT id, product_id, user_id, rating, comment, created_at
FROM reviews
WHERE id = $1`

func (q *Queries) GetReviewByID(ctx context.Context, id pgtype.UUID) (Review, error) {
	return scanReview(q.db.QueryRow(ctx, getReviewByIDSQL, id))
}

const deleteReviewSQL = `DELETE FROM reviews WHERE id = $1`

func (q *Queries) DeleteReview(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteReviewSQL, id)
	return err
}

func scanReview(row interface{ Scan(dest ...any) error }) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt)
	return r, err
}
