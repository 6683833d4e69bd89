package testutils

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leavedesk/database"
	"leavedesk/models"
)

var memDBCounter int64

// OpenTestDB opens an in-memory SQLite database with the schema migrated.
// Each call gets its own named shared-cache database so every pooled
// connection within a test sees the same data while tests stay isolated
// from each other.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", atomic.AddInt64(&memDBCounter, 1))
	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateTestUser creates a user with a real bcrypt hash so login flows work.
func CreateTestUser(t *testing.T, users *database.UserStore, username, password, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user, err := users.Create(username, string(hash), role)
	if err != nil {
		t.Fatalf("Failed to create test user %q: %v", username, err)
	}
	return user
}

// CreateTestLeave inserts a leave request directly into the ledger,
// bypassing the policy engine.
func CreateTestLeave(t *testing.T, leaves *database.LeaveStore, userID int, date time.Time, reason string) *models.LeaveRequest {
	t.Helper()

	req := &models.LeaveRequest{
		UserID: userID,
		Date:   date,
		Reason: reason,
	}
	if err := leaves.Create(req); err != nil {
		t.Fatalf("Failed to create test leave request: %v", err)
	}
	return req
}

// Date builds a normalized day-granularity date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
