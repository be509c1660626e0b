package models

import (
	"time"
)

// AttendanceStatus represents the state of a single check-in/check-out pair
type AttendanceStatus string

const (
	AttendanceCheckedIn  AttendanceStatus = "checked_in"
	AttendanceCheckedOut AttendanceStatus = "checked_out"
)

// Attendance records one gym visit. CheckOut is nil while the member is
// still inside; Status mirrors that: checked_in iff CheckOut is nil.
type Attendance struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MemberID string           `gorm:"type:varchar(20);index" json:"member_id"`
	CheckIn  time.Time        `gorm:"index" json:"check_in"`
	CheckOut *time.Time       `json:"check_out,omitempty"`
	Status   AttendanceStatus `gorm:"type:varchar(20);default:'checked_in'" json:"status"`
}

// Open reports whether this record is the member's current open visit
func (a Attendance) Open() bool {
	return a.Status == AttendanceCheckedIn && a.CheckOut == nil
}

// Duration returns the visit length, or zero while the visit is open
func (a Attendance) Duration() time.Duration {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn)
}
