// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/promptforge/promptforge/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll wipes the user and prompt set tables between tests.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE prompts, prompt_sets, users")
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// UniqueID returns a ULID-based identifier with a readable prefix.
func UniqueID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

// NewTestUser builds a user with default quotas and a fake hash.
// The hash is not a valid argon2 string; tests that exercise password
// verification must hash for real.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	now := time.Now().UTC()
	id := UniqueID("user")
	return &model.User{
		ID:             id,
		Email:          id + "@example.com",
		Name:           "Test User",
		PasswordHash:   "$argon2id$test$not$a$real$hash",
		BasicRemaining: 25,
		ProRemaining:   5,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
