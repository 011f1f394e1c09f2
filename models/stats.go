package models

// DashboardStats is the aggregate view shown on the admin overview.
type DashboardStats struct {
	TotalUsers    int     `json:"total_users"`
	ActiveToday   int     `json:"active_today"`
	AvgHoursToday float64 `json:"avg_hours_today"`
	CheckedInNow  int     `json:"checked_in_now"`
}

// FromBackendStats maps the backend aggregate block onto the dashboard view.
// The backend reports one today_checkins counter, which feeds both the
// active-today and checked-in-now figures.
func FromBackendStats(b BackendStats) DashboardStats {
	return DashboardStats{
		TotalUsers:    b.TotalUsers,
		ActiveToday:   b.TodayCheckins,
		AvgHoursToday: b.AvgHours,
		CheckedInNow:  b.TodayCheckins,
	}
}
