package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCategorySQL = `
INSERT INTO categories (id, name, description)
VALUES ($1, $2, $3)
RETURNING id, name, description`

type CreateCategoryParams struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, createCategorySQL, arg.ID, arg.Name, arg.Description))
}

const listCategoriesSQL = `
SELECT id, name, description
FROM categories
ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const getCategoryByIDSQL = `
SELECT id, name, description
FROM categories
WHERE id = $1`

func (q *Queries) GetCategoryByID(ctx context.Context, id pgtype.UUID) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getCategoryByIDSQL, id))
}

const updateCategorySQL = `
UPDATE categories
SET name = COALESCE($2, name), description = COALESCE($3, description)
WHERE id = $1
RETURNING id, name, description`

type UpdateCategoryParams struct {
	ID          pgtype.UUID
	Name        pgtype.Text
	Description pgtype.Text
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, updateCategorySQL, arg.ID, arg.Name, arg.Description))
}

const deleteCategorySQL = `DELETE FROM categories WHERE id = $1`

func (q *Queries) DeleteCategory(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCategorySQL, id)
	return err
}

const countProductsInCategorySQL = `SELECT COUNT(*) FROM products WHERE category_id = $1`

func (q *Queries) CountProductsInCategory(ctx context.Context, categoryID pgtype.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProductsInCategorySQL, categoryID).Scan(&n)
	return n, err
}

func scanCategory(row interface{ Scan(dest ...any) error }) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description)
	return c, err
}
