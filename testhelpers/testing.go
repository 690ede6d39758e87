package testhelpers

import (
	"context"
	"os"
	"testing"

	"preppulse/internal/models"
	"preppulse/internal/repositories"
	"preppulse/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// appTables lists every application table, children first.
var appTables = []string{
	"habit_logs", "habits", "mock_tests", "resumes", "skill_checklists",
	"onboarding_responses", "first_login", "users",
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped in -short mode or when the variable is
// unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString, 4)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	for _, table := range appTables {
		if _, err := pool.Exec(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			pool.Close()
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}

	db := &TestDB{Pool: pool, Cleanup: pool.Close}
	t.Cleanup(db.Cleanup)
	return db
}

// SetupTestUser inserts a user with a throwaway password hash.
func SetupTestUser(t *testing.T, db *TestDB, email, fullName string) *models.User {
	t.Helper()

	user := &models.User{FullName: fullName, Email: email, PasswordHash: "$2a$10$test"}
	if err := repositories.NewUserRepository(db.Pool).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestHabit inserts a habit owned by email.
func SetupTestHabit(t *testing.T, db *TestDB, email, name string) *models.Habit {
	t.Helper()

	habit := &models.Habit{Email: email, Name: name, Color: models.DefaultHabitColor}
	if err := repositories.NewHabitRepository(db.Pool).Create(context.Background(), habit); err != nil {
		t.Fatalf("Failed to create test habit: %v", err)
	}
	return habit
}

// CountRows counts the rows of table owned by email.
func CountRows(t *testing.T, db *TestDB, table, email string) int {
	t.Helper()

	var n int
	err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE email = $1", email).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
