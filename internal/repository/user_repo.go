package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	id::text, email, username, password_hash, full_name, avatar_url, bio,
	reputation_score, validations_count, accurate_validations, validation_accuracy,
	trust_level, is_active, is_moderator, is_admin, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &u.AvatarURL, &u.Bio,
		&u.ReputationScore, &u.ValidationsCount, &u.AccurateValidations, &u.ValidationAccuracy,
		&u.TrustLevel, &u.IsActive, &u.IsModerator, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns a single user by id.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT`+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// FindByEmailOrUsername returns an active user matching the given email or
// username (both matched lowercase).
func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT`+userColumns+`
		FROM users
		WHERE (email = LOWER($1) OR username = LOWER($1)) AND is_active = true`,
		emailOrUsername))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Create inserts a new user. Duplicate email/username return ErrEmailTaken /
// ErrUsernameTaken based on a pre-check; the unique indexes remain the
// backstop under concurrent registration.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash, fullName, avatarURL string) (*model.User, error) {
	var emailExists, usernameExists bool
	err := r.pool.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE email = $1),
			EXISTS (SELECT 1 FROM users WHERE username = $2)`,
		email, username).Scan(&emailExists, &usernameExists)
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, ErrEmailTaken
	}
	if usernameExists {
		return nil, ErrUsernameTaken
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, full_name, avatar_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING`+userColumns,
		uuid.NewString(), email, username, passwordHash, fullName, avatarURL))
	return u, err
}

// TouchLastLogin records a successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// UpdateTrustLevel persists a recomputed trust level for a user.
func (r *UserRepo) UpdateTrustLevel(ctx context.Context, id, level string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET trust_level = $1, updated_at = NOW()
		WHERE id = $2 AND trust_level <> $1`, level, id)
	return err
}

// TrustLevelInput is the reputation slice the trust-level worker reads.
type TrustLevelInput struct {
	ID               string
	ValidationsCount int
	Accuracy         float64
	TrustLevel       string
}

// ListForTrustLevelRefresh returns active users who have cast at least one
// validation, for periodic trust level recalculation.
func (r *UserRepo) ListForTrustLevelRefresh(ctx context.Context) ([]TrustLevelInput, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, validations_count, validation_accuracy, trust_level
		FROM users
		WHERE is_active = true AND validations_count > 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []TrustLevelInput
	for rows.Next() {
		var in TrustLevelInput
		if err := rows.Scan(&in.ID, &in.ValidationsCount, &in.Accuracy, &in.TrustLevel); err != nil {
			return nil, err
		}
		users = append(users, in)
	}
	return users, rows.Err()
}

// GetStats returns aggregate platform statistics.
func (r *UserRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM data_points) AS total_data_points,
			(SELECT COUNT(*) FROM validations) AS total_validations,
			(SELECT COUNT(*) FROM users WHERE is_active = true) AS total_users,
			(SELECT COUNT(*) FROM users WHERE last_login_at > NOW() - INTERVAL '24 hours') AS active_users_24h,
			(SELECT COALESCE(AVG(trust_score), 0) FROM data_points) AS average_trust`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalDataPoints, &stats.TotalValidations, &stats.TotalUsers,
		&stats.ActiveUsers24h, &stats.AverageTrust,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT validation_type, COUNT(*) AS total
		FROM validations
		GROUP BY validation_type
		ORDER BY total DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.ValidationsByType = make(map[string]int)
	for rows.Next() {
		var vt string
		var count int
		if err := rows.Scan(&vt, &count); err != nil {
			return nil, err
		}
		stats.ValidationsByType[vt] = count
	}
	return &stats, rows.Err()
}
