package leave_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"leavedesk/database"
	"leavedesk/leave"
	"leavedesk/models"
	testutils "leavedesk/test_utils"
)

// fixedToday anchors every engine test. Mid-month and mid-year, so the
// two-month window and the year boundary are easy to reason about.
var fixedToday = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	engine *leave.Engine
	users  *database.UserStore
	leaves *database.LeaveStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutils.OpenTestDB(t)
	leaves := database.NewLeaveStore(db)
	return &fixture{
		engine: leave.NewEngineWithClock(leaves, func() time.Time { return fixedToday }),
		users:  database.NewUserStore(db),
		leaves: leaves,
	}
}

func (f *fixture) employee(t *testing.T, name string) *models.User {
	return testutils.CreateTestUser(t, f.users, name, "pw", models.RoleEmployee)
}

func (f *fixture) admin(t *testing.T) *models.User {
	return testutils.CreateTestUser(t, f.users, "admin", "pw", models.RoleAdmin)
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")

	req, err := f.engine.Submit(alice.ID, fixedToday.AddDate(0, 0, 10), "family trip")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if req.Approved {
		t.Error("New request must start unapproved")
	}
	if req.UserID != alice.ID {
		t.Errorf("Request owned by %d, want %d", req.UserID, alice.ID)
	}
}

func TestSubmitDuplicateDate(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")
	date := fixedToday.AddDate(0, 0, 10)

	if _, err := f.engine.Submit(alice.ID, date, "first"); err != nil {
		t.Fatalf("First submit returned error: %v", err)
	}

	_, err := f.engine.Submit(alice.ID, date, "second")
	if !errors.Is(err, database.ErrDuplicateDate) {
		t.Errorf("Expected ErrDuplicateDate, got %v", err)
	}
}

func TestSubmitQuotaBoundary(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")

	// Seed 9 requests in the proposed date's year.
	for day := 1; day <= 9; day++ {
		testutils.CreateTestLeave(t, f.leaves, alice.ID, testutils.Date(2025, time.January, day), fmt.Sprintf("day %d", day))
	}

	// The 10th request of the year succeeds.
	if _, err := f.engine.Submit(alice.ID, testutils.Date(2025, time.July, 1), "tenth"); err != nil {
		t.Fatalf("10th request should succeed, got %v", err)
	}

	// The 11th is rejected.
	_, err := f.engine.Submit(alice.ID, testutils.Date(2025, time.July, 2), "eleventh")
	if !errors.Is(err, leave.ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded for 11th request, got %v", err)
	}

	// A different year is a fresh quota.
	if _, err := f.engine.Submit(alice.ID, testutils.Date(2024, time.July, 1), "last year"); err != nil {
		t.Errorf("Request in another year should succeed, got %v", err)
	}
}

func TestSubmitAdvanceWindowBoundary(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")

	// Exactly two calendar months out is allowed.
	boundary := fixedToday.AddDate(0, 2, 0)
	if _, err := f.engine.Submit(alice.ID, boundary, "on the boundary"); err != nil {
		t.Fatalf("Date exactly 2 months out should succeed, got %v", err)
	}

	// One day past the boundary is not.
	_, err := f.engine.Submit(alice.ID, boundary.AddDate(0, 0, 1), "too far")
	if !errors.Is(err, leave.ErrTooFarInAdvance) {
		t.Errorf("Expected ErrTooFarInAdvance, got %v", err)
	}
}

func TestSubmitCheckOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")

	// Fill the quota, including a request far in the future.
	farFuture := testutils.Date(2025, time.December, 24)
	testutils.CreateTestLeave(t, f.leaves, alice.ID, farFuture, "booked")
	for day := 1; day <= 9; day++ {
		testutils.CreateTestLeave(t, f.leaves, alice.ID, testutils.Date(2025, time.January, day), "filler")
	}

	// Duplicate wins over quota: the date collides AND the quota is full,
	// but the caller must see the duplicate failure.
	if _, err := f.engine.Submit(alice.ID, farFuture, "dup"); !errors.Is(err, database.ErrDuplicateDate) {
		t.Errorf("Expected ErrDuplicateDate first, got %v", err)
	}

	// Quota wins over the advance window: a fresh far-future date trips
	// both, but quota is checked first.
	if _, err := f.engine.Submit(alice.ID, testutils.Date(2025, time.December, 25), "both"); !errors.Is(err, leave.ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded before window check, got %v", err)
	}
}

func TestApproveAuthorization(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")
	admin := f.admin(t)

	req := testutils.CreateTestLeave(t, f.leaves, alice.ID, fixedToday.AddDate(0, 0, 5), "trip")

	// Non-admin cannot approve, even their own request.
	if err := f.engine.Approve(alice, req.ID); !errors.Is(err, leave.ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized for non-admin, got %v", err)
	}

	// The authorization check runs before existence: a non-admin probing a
	// missing id still sees 403, not 404.
	if err := f.engine.Approve(alice, 9999); !errors.Is(err, leave.ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized before not-found, got %v", err)
	}

	if err := f.engine.Approve(admin, 9999); !errors.Is(err, leave.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing id, got %v", err)
	}

	if err := f.engine.Approve(admin, req.ID); err != nil {
		t.Fatalf("Admin approve returned error: %v", err)
	}
	got, _ := f.leaves.GetByID(req.ID)
	if !got.Approved {
		t.Error("Request not marked approved")
	}

	// Re-approval is idempotent.
	if err := f.engine.Approve(admin, req.ID); err != nil {
		t.Errorf("Re-approval returned error: %v", err)
	}
}

func TestDeleteAuthorizationAndPastDate(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")
	bob := f.employee(t, "bob")
	admin := f.admin(t)

	yesterday := testutils.CreateTestLeave(t, f.leaves, alice.ID, fixedToday.AddDate(0, 0, -1), "past")
	today := testutils.CreateTestLeave(t, f.leaves, alice.ID, fixedToday, "today")
	future := testutils.CreateTestLeave(t, f.leaves, alice.ID, fixedToday.AddDate(0, 0, 7), "future")

	if err := f.engine.Delete(alice, 9999); !errors.Is(err, leave.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// A stranger cannot delete; ownership is checked before the date rule.
	if err := f.engine.Delete(bob, yesterday.ID); !errors.Is(err, leave.ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized for non-owner, got %v", err)
	}

	// Even the owner cannot delete a past-dated request.
	if err := f.engine.Delete(alice, yesterday.ID); !errors.Is(err, leave.ErrPastDate) {
		t.Errorf("Expected ErrPastDate, got %v", err)
	}
	if err := f.engine.Delete(admin, yesterday.ID); !errors.Is(err, leave.ErrPastDate) {
		t.Errorf("Expected ErrPastDate for admin too, got %v", err)
	}

	// Today and later are deletable by the owner.
	if err := f.engine.Delete(alice, today.ID); err != nil {
		t.Errorf("Owner delete of today's request returned %v", err)
	}

	// And by the admin for someone else's request.
	if err := f.engine.Delete(admin, future.ID); err != nil {
		t.Errorf("Admin delete returned %v", err)
	}

	if got, _ := f.leaves.GetByID(future.ID); got != nil {
		t.Error("Deleted request still present")
	}
}

func TestListAllAscending(t *testing.T) {
	f := newFixture(t)
	alice := f.employee(t, "alice")
	bob := f.employee(t, "bob")

	testutils.CreateTestLeave(t, f.leaves, alice.ID, testutils.Date(2025, time.August, 1), "later")
	testutils.CreateTestLeave(t, f.leaves, bob.ID, testutils.Date(2025, time.July, 1), "sooner")

	views, err := f.engine.ListAll()
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(views))
	}
	if views[0].Username != "bob" || views[1].Username != "alice" {
		t.Errorf("Expected ascending date order, got %q then %q", views[0].Username, views[1].Username)
	}
}
