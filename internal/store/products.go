package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createProductSQL = `
INSERT INTO products (id, name, description, price, stock, category_id, seller_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, description, price, stock, category_id, seller_id, created_at`

type CreateProductParams struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       int64
	Stock       int32
	CategoryID  pgtype.UUID
	SellerID    pgtype.UUID
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProductSQL, arg.ID, arg.Name, arg.Description, arg.Price, arg.Stock, arg.CategoryID, arg.SellerID)
	return scanProduct(row)
}

const listProductsSQL = `
SELECT id, name, description, price, stock, category_id, seller_id, created_at
FROM products
WHERE ($1::uuid IS NULL OR category_id = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

type ListProductsParams struct {
	CategoryID pgtype.UUID
	Limit      int32
	Offset     int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsSQL, arg.CategoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const countProductsSQL = `
SELECT COUNT(*)
FROM products
WHERE ($1::uuid IS NULL OR category_id = $1)`

func (q *Queries) CountProducts(ctx context.Context, categoryID pgtype.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProductsSQL, categoryID).Scan(&n)
	return n, err
}

const getProductByIDSQL = `
SELECT id, name, description, price, stock, category_id, seller_id, created_at
FROM products
WHERE id = $1`

func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByIDSQL, id))
}

const listProductsBySellerSQL = `
SELECT id, name, description, price, stock, category_id, seller_id, created_at
FROM products
WHERE seller_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

type ListProductsBySellerParams struct {
	SellerID pgtype.UUID
	Limit    int32
	Offset   int32
}

func (q *Queries) ListProductsBySeller(ctx context.Context, arg ListProductsBySellerParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsBySellerSQL, arg.SellerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const updateProductSQL = `
UPDATE products
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price = COALESCE($4, price),
    stock = COALESCE($5, stock),
    category_id = COALESCE($6, category_id)
WHERE id = $1
RETURNING id, name, description, price, stock, category_id, seller_id, created_at`

type UpdateProductParams struct {
	ID          pgtype.UUID
	Name        pgtype.Text
	Description pgtype.Text
	Price       pgtype.Int8
	Stock       pgtype.Int4
	CategoryID  pgtype.UUID
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProductSQL, arg.ID, arg.Name, arg.Description, arg.Price, arg.Stock, arg.CategoryID)
	return scanProduct(row)
}

const deleteProductSQL = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteProductSQL, id)
	return err
}

const decrementProductStockSQL = `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2`

type DecrementProductStockParams struct {
	ID       pgtype.UUID
	Quantity int32
}

// DecrementProductStock conditionally reduces stock. A zero rows-affected
// result means the product had less stock than requested.
func (q *Queries) DecrementProductStock(ctx context.Context, arg DecrementProductStockParams) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementProductStockSQL, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.SellerID, &p.CreatedAt)
	return p, err
}

func collectProducts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.SellerID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
