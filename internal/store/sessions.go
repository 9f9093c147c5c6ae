package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createSessionSQL = `
INSERT INTO sessions (id, user_id, token_hash, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, token_hash, expires_at, created_at`

type CreateSessionParams struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	return scanSession(q.db.QueryRow(ctx, createSessionSQL, arg.ID, arg.UserID, arg.TokenHash, arg.ExpiresAt))
}

const getSessionByTokenHashSQL = `
SELECT id, user_id, token_hash, expires_at, created_at
FROM sessions
WHERE token_hash = $1`

func (q *Queries) GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	return scanSession(q.db.QueryRow(ctx, getSessionByTokenHashSQL, tokenHash))
}

const rotateSessionSQL = `
UPDATE sessions
SET token_hash = $2, expires_at = $3
WHERE id = $1
RETURNING id, user_id, token_hash, expires_at, created_at`

type RotateSessionParams struct {
	ID        pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
}

func (q *Queries) RotateSession(ctx context.Context, arg RotateSessionParams) (Session, error) {
	return scanSession(q.db.QueryRow(ctx, rotateSessionSQL, arg.ID, arg.TokenHash, arg.ExpiresAt))
}

const deleteSessionByTokenHashSQL = `DELETE FROM sessions WHERE token_hash = $1`

func (q *Queries) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.Exec(ctx, deleteSessionByTokenHashSQL, tokenHash)
	return err
}

const deleteSessionsByUserSQL = `DELETE FROM sessions WHERE user_id = $1`

func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteSessionsByUserSQL, userID)
	return err
}

const deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at < NOW()`

func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteExpiredSessionsSQL)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSession(row interface{ Scan(dest ...any) error }) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}
