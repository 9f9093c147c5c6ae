package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createUserSQL = `
INSERT INTO users (id, name, email, password_hash, phone, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
RETURNING id, name, email, password_hash, phone, role, is_active, created_at`

type CreateUserParams struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        pgtype.Text
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUserSQL, arg.ID, arg.Name, arg.Email, arg.PasswordHash, arg.Phone, arg.Role)
	return scanUser(row)
}

const getUserByEmailSQL = `
SELECT id, name, email, password_hash, phone, role, is_active, created_at
FROM users
WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmailSQL, email))
}

const getUserByIDSQL = `
SELECT id, name, email, password_hash, phone, role, is_active, created_at
FROM users
WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByIDSQL, id))
}

const listUsersSQL = `
SELECT id, name, email, password_hash, phone, role, is_active, created_at
FROM users
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

type ListUsersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsersSQL, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const countUsersSQL = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countUsersSQL).Scan(&n)
	return n, err
}

const updateUserSQL = `
UPDATE users
SET name = COALESCE($2, name), phone = COALESCE($3, phone)
WHERE id = $1
RETURNING id, name, email, password_hash, phone, role, is_active, created_at`

type UpdateUserParams struct {
	ID    pgtype.UUID
	Name  pgtype.Text
	Phone pgtype.Text
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserSQL, arg.ID, arg.Name, arg.Phone))
}

const updateUserRoleSQL = `
UPDATE users
SET role = $2
WHERE id = $1
RETURNING id, name, email, password_hash, phone, role, is_active, created_at`

type UpdateUserRoleParams struct {
	ID   pgtype.UUID
	Role string
}

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserRoleSQL, arg.ID, arg.Role))
}

const deactivateUserSQL = `
UPDATE users
SET is_active = FALSE
WHERE id = $1
RETURNING id, name, email, password_hash, phone, role, is_active, created_at`

func (q *Queries) DeactivateUser(ctx context.Context, id pgtype.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, deactivateUserSQL, id))
}

const deleteUserSQL = `DELETE FROM users WHERE id = $1`

func (q *Queries) DeleteUser(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteUserSQL, id)
	return err
}

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}
