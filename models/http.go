package models

import "time"

// Wire representations of the backend HTTP contract. The backend speaks a
// slightly different dialect than the client domain model (is_admin instead
// of role, check_in_time instead of check_in), so each wire type carries a
// conversion to its domain counterpart.

// BackendUser is the user record as the backend serializes it.
type BackendUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsAdmin    bool      `json:"is_admin"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToUser converts the wire record to the domain model. A missing is_active
// field means the account is active.
func (b BackendUser) ToUser() User {
	role := RoleUser
	if b.IsAdmin {
		role = RoleAdmin
	}
	return User{
		ID:         b.ID,
		Email:      b.Email,
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Role:       role,
		Department: b.Department,
		Position:   b.Position,
		Phone:      b.Phone,
		IsActive:   b.IsActive == nil || *b.IsActive,
		CreatedAt:  b.CreatedAt,
	}
}

// BackendRecord is the attendance record as the backend serializes it.
type BackendRecord struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Location     string     `json:"location,omitempty"`
	DeviceID     string     `json:"device_id,omitempty"`
	TotalHours   *float64   `json:"total_hours"`
}

// ToRecord converts the wire record to the domain model, deriving Status from
// the presence of the check-out timestamp.
func (b BackendRecord) ToRecord() AttendanceRecord {
	status := StatusCheckedIn
	if b.CheckOutTime != nil {
		status = StatusCheckedOut
	}
	return AttendanceRecord{
		ID:         b.ID,
		UserID:     b.UserID,
		CheckIn:    b.CheckInTime,
		CheckOut:   b.CheckOutTime,
		Status:     status,
		TotalHours: b.TotalHours,
		Location:   b.Location,
		Device:     b.DeviceID,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        BackendUser `json:"user"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
}

// RegisterResponse is the success body of POST /auth/register.
type RegisterResponse struct {
	User BackendUser `json:"user"`
}

// CurrentUserResponse is the success body of GET /auth/me.
type CurrentUserResponse struct {
	User BackendUser `json:"user"`
}

// CheckInRequest is the body of POST /api/check-in.
type CheckInRequest struct {
	Location string `json:"location"`
	DeviceID string `json:"device_id"`
	Method   string `json:"method"`
}

// CheckInResponse is the success body of POST /api/check-in.
type CheckInResponse struct {
	AttendanceID string    `json:"attendance_id"`
	CheckInTime  time.Time `json:"check_in_time"`
}

// CheckOutResponse is the success body of POST /api/check-out/{id}.
type CheckOutResponse struct {
	CheckOutTime time.Time `json:"check_out_time"`
	TotalHours   float64   `json:"total_hours"`
}

// HistoryResponse is the success body of GET /api/attendance.
type HistoryResponse struct {
	Records []BackendRecord `json:"records"`
}

// UsersResponse is the success body of GET /api/users.
type UsersResponse struct {
	Users []BackendUser `json:"users"`
}

// StatsResponse is the success body of GET /api/stats.
type StatsResponse struct {
	Stats BackendStats `json:"stats"`
}

// BackendStats is the aggregate block as the backend serializes it.
type BackendStats struct {
	TotalUsers    int     `json:"total_users"`
	TodayCheckins int     `json:"today_checkins"`
	AvgHours      float64 `json:"avg_hours"`
}
