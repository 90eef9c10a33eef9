package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	byteType "dailyByteAPI/internal/byte"
	"dailyByteAPI/internal/user"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL.
// These tests exercise real SQL and are skipped when no test database
// is available.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "failed to ping test database")

	t.Cleanup(func() {
		cleanupTestData(t, pool)
		pool.Close()
	})

	return pool
}

func cleanupTestData(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	// users cascade into streaks, badges, bookmarks and device tokens
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'"); err != nil {
		t.Logf("Warning: failed to cleanup test users: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM bytes WHERE category = 'TestCategory'"); err != nil {
		t.Logf("Warning: failed to cleanup test bytes: %v", err)
	}
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *user.User {
	t.Helper()

	svc := NewUserService(pool)
	u, err := svc.Register(context.Background(), &user.RegisterRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test" + uuid.NewString()[:8] + "@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	return u
}

func createTestByte(t *testing.T, pool *pgxpool.Pool, title string, publishedAt time.Time, tags ...string) *byteType.Byte {
	t.Helper()

	filler := strings.Repeat("x", 120)
	svc := NewByteService(pool)
	b, err := svc.Create(context.Background(), &byteType.CreateByteRequest{
		Title:         title,
		Summary:       filler,
		Example:       filler,
		Category:      "TestCategory",
		Tags:          tags,
		DatePublished: publishedAt,
		Quiz: byteType.Quiz{
			Question:      "Q?",
			Options:       []string{"a", "b"},
			CorrectAnswer: "a",
		},
	})
	require.NoError(t, err)
	return b
}
