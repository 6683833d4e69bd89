package leave

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"leavedesk/database"
	"leavedesk/models"
)

// MaxRequestsPerYear caps a user's requests per calendar year, counted by
// the request date's year regardless of approval status.
const MaxRequestsPerYear = 10

// AdvanceWindowMonths is how far ahead a request may be dated. The boundary
// is inclusive: exactly this many calendar months out is allowed.
const AdvanceWindowMonths = 2

var (
	ErrNotFound        = errors.New("leave request not found")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrQuotaExceeded   = errors.New("yearly leave request quota exceeded")
	ErrTooFarInAdvance = errors.New("leave date is too far in advance")
	ErrPastDate        = errors.New("leave request date is in the past")
)

// Engine validates and commits leave requests against the business rules.
type Engine struct {
	leaves *database.LeaveStore
	now    func() time.Time
}

func NewEngine(leaves *database.LeaveStore) *Engine {
	return &Engine{leaves: leaves, now: time.Now}
}

// NewEngineWithClock is NewEngine with an explicit clock, for tests that
// exercise the date-window boundaries.
func NewEngineWithClock(leaves *database.LeaveStore, now func() time.Time) *Engine {
	return &Engine{leaves: leaves, now: now}
}

func (e *Engine) today() time.Time {
	return models.NormalizeDate(e.now())
}

// Submit validates and records a new request for the caller. Checks run in
// a fixed order so the caller always receives the first matching failure:
// duplicate date, then quota, then advance window.
func (e *Engine) Submit(callerID int, date time.Time, reason string) (*models.LeaveRequest, error) {
	date = models.NormalizeDate(date)

	exists, err := e.leaves.ExistsForDate(callerID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, database.ErrDuplicateDate
	}

	count, err := e.leaves.CountForYear(callerID, date.Year())
	if err != nil {
		return nil, err
	}
	if count >= MaxRequestsPerYear {
		return nil, ErrQuotaExceeded
	}

	if date.After(e.today().AddDate(0, AdvanceWindowMonths, 0)) {
		return nil, ErrTooFarInAdvance
	}

	req := &models.LeaveRequest{
		UserID: callerID,
		Date:   date,
		Reason: reason,
	}
	// The unique index catches a concurrent duplicate that slipped past the
	// check above; Create reports it as the same duplicate-date error.
	if err := e.leaves.Create(req); err != nil {
		return nil, err
	}

	logrus.Infof("Leave request %d submitted by user %d for %s", req.ID, callerID, date.Format("2006-01-02"))
	return req, nil
}

// Approve marks a request approved. Only the admin may approve; re-approval
// is idempotent.
func (e *Engine) Approve(caller *models.User, id int) error {
	if !caller.IsAdmin() {
		return ErrNotAuthorized
	}

	req, err := e.leaves.GetByID(id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrNotFound
	}

	if err := e.leaves.SetApproved(id); err != nil {
		return err
	}
	logrus.Infof("Leave request %d approved by %q", id, caller.Username)
	return nil
}

// Delete permanently removes a request. The caller must own it or be the
// admin, and the request's date must not be in the past.
func (e *Engine) Delete(caller *models.User, id int) error {
	req, err := e.leaves.GetByID(id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrNotFound
	}

	if req.UserID != caller.ID && !caller.IsAdmin() {
		return ErrNotAuthorized
	}

	if models.NormalizeDate(req.Date).Before(e.today()) {
		return ErrPastDate
	}

	if err := e.leaves.Delete(id); err != nil {
		return err
	}
	logrus.Infof("Leave request %d deleted by %q", id, caller.Username)
	return nil
}

// ListAll returns every request joined with its owner, ascending by date.
func (e *Engine) ListAll() ([]models.LeaveRequestView, error) {
	return e.leaves.ListAllWithOwners()
}
