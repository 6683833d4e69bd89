package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"leavedesk/models"
)

// LeaveStore persists leave requests.
type LeaveStore struct {
	db *gorm.DB
}

func NewLeaveStore(db *gorm.DB) *LeaveStore {
	return &LeaveStore{db: db}
}

// Create inserts a request. The composite (user_id, date) UNIQUE index
// backs the duplicate-date rule; a violation comes back as ErrDuplicateDate
// even when two submissions race.
func (s *LeaveStore) Create(req *models.LeaveRequest) error {
	req.Date = models.NormalizeDate(req.Date)
	if err := s.db.Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateDate
		}
		return err
	}
	return nil
}

// GetByID returns the request with the given id, or nil if absent.
func (s *LeaveStore) GetByID(id int) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	err := s.db.First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ExistsForDate reports whether the user already has a request on the date.
func (s *LeaveStore) ExistsForDate(userID int, date time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.LeaveRequest{}).
		Where("user_id = ? AND date = ?", userID, models.NormalizeDate(date)).
		Count(&count).Error
	return count > 0, err
}

// CountForYear counts the user's requests dated within the calendar year,
// approved or not.
func (s *LeaveStore) CountForYear(userID int, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var count int64
	err := s.db.Model(&models.LeaveRequest{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Count(&count).Error
	return count, err
}

// SetApproved marks the request approved. Re-approval is a no-op update.
func (s *LeaveStore) SetApproved(id int) error {
	return s.db.Model(&models.LeaveRequest{}).
		Where("id = ?", id).
		Update("approved", true).Error
}

// Delete permanently removes the request.
func (s *LeaveStore) Delete(id int) error {
	return s.db.Delete(&models.LeaveRequest{}, id).Error
}

// ListAllWithOwners returns every request joined with its owner's username,
// ascending by date. Full scan; pagination is out of scope.
func (s *LeaveStore) ListAllWithOwners() ([]models.LeaveRequestView, error) {
	var views []models.LeaveRequestView
	err := s.db.Model(&models.LeaveRequest{}).
		Select("leave_requests.id, leave_requests.user_id, users.username, leave_requests.date, leave_requests.reason, leave_requests.approved").
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Order("leave_requests.date ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
