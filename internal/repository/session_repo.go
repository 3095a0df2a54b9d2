package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create persists a refresh-token session. The token itself is never stored,
// only its hash.
func (r *SessionRepo) Create(ctx context.Context, userID, refreshTokenHash, ipAddress, userAgent string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token_hash, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)`,
		uuid.NewString(), userID, refreshTokenHash, ipAddress, userAgent, expiresAt)
	return err
}

// DeleteExpired removes sessions past their expiry. Called periodically by
// the trust-level worker tick.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	return tag.RowsAffected(), err
}
