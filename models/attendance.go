package models

import "time"

// AttendanceStatus classifies an attendance record.
type AttendanceStatus string

const (
	// StatusCheckedIn marks an open session: CheckOut is not set yet.
	StatusCheckedIn AttendanceStatus = "checked-in"

	// StatusCheckedOut marks a closed session.
	StatusCheckedOut AttendanceStatus = "checked-out"

	// StatusAbsent marks a backend-synthesized absence record. The client
	// never creates these.
	StatusAbsent AttendanceStatus = "absent"
)

// CheckInMeta is the optional metadata attached to a check-in.
type CheckInMeta struct {
	Location string `json:"location,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
	Method   string `json:"method,omitempty"`
}

// AttendanceRecord is a single check-in/out event.
//
// At most one record per user may be open (CheckOut == nil) at any time;
// the backend is the source of truth for enforcing that. Status is
// StatusCheckedIn iff CheckOut is nil and StatusCheckedOut iff it is set,
// except for backend-synthesized StatusAbsent records.
type AttendanceRecord struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`

	Status AttendanceStatus `json:"status"`

	// TotalHours is set once the session is closed; nil means still open or
	// not yet computed. Full precision is retained, rounding is for display.
	TotalHours *float64 `json:"total_hours"`

	Location string `json:"location,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Open reports whether the record is an in-progress session.
func (r AttendanceRecord) Open() bool {
	return r.CheckOut == nil
}

// OnDay reports whether the record's check-in falls on the same calendar day
// as t, compared in t's location.
func (r AttendanceRecord) OnDay(t time.Time) bool {
	y1, m1, d1 := r.CheckIn.In(t.Location()).Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
