package models

import "time"

// User roles. Registration always creates an employee; the single admin
// account is seeded at startup from configuration.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User represents a registered account.
type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"not null;default:'employee'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}

// LeaveRequest is a single day of requested leave. The composite unique
// index on (user_id, date) enforces the one-request-per-day rule at the
// store layer, so concurrent submissions cannot race past the check.
type LeaveRequest struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_leave_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_leave_user_date" json:"date"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Approved  bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRequestView is a read-only projection of a request joined with its
// owner's username, for the list endpoint.
type LeaveRequestView struct {
	ID       int       `json:"id"`
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	Date     time.Time `json:"date"`
	Reason   string    `json:"reason"`
	Approved bool      `json:"approved"`
}

// NormalizeDate truncates a timestamp to day granularity in UTC. Every date
// written to or compared against the ledger goes through this, so the
// unique index and the window checks agree on what "a day" is.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
