package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/promptforge/promptforge/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrQuotaExhausted = errors.New("quota exhausted")
)

const userColumns = `id, email, name, password_hash, basic_remaining, pro_remaining, created_at, updated_at`

// CreateUser inserts a new user into the database.
// The caller is responsible for normalizing the email and hashing the
// password; a duplicate normalized email maps to ErrEmailExists.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, basic_remaining, pro_remaining, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.BasicRemaining,
		user.ProRemaining,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their normalized email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ConsumeQuota decrements the tier's counter by exactly one, but only
// if the previous value was greater than zero. The condition and the
// write are a single statement, so two racing requests can never drive
// the counter negative: the second one observes zero affected rows.
// Returns the remaining count after the decrement.
func (r *Repository) ConsumeQuota(ctx context.Context, userID string, tier model.Tier) (int, error) {
	col := tier.QuotaColumn()
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = %s - 1, updated_at = now()
		WHERE id = $1 AND %s > 0
		RETURNING %s
	`, col, col, col, col)

	var remaining int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the user vanished or the counter is at zero.
			if _, lookupErr := r.GetUserByID(ctx, userID); lookupErr != nil {
				return 0, lookupErr
			}
			return 0, ErrQuotaExhausted
		}
		return 0, fmt.Errorf("failed to consume quota: %w", err)
	}

	return remaining, nil
}

// ResetQuotas restores every user's counters to the given defaults.
// Driven externally by the quotareset binary on a period boundary.
func (r *Repository) ResetQuotas(ctx context.Context, basicDefault, proDefault int) (int64, error) {
	query := `
		UPDATE users
		SET basic_remaining = $1, pro_remaining = $2, updated_at = now()
	`

	tag, err := r.pool.Exec(ctx, query, basicDefault, proDefault)
	if err != nil {
		return 0, fmt.Errorf("failed to reset quotas: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanUser scans a user row from the standard column set.
func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.BasicRemaining,
		&user.ProRemaining,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
