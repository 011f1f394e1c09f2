package devserver

import (
	"net/http"

	"github.com/nexus-hq/nexus-attendance/models"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)
	if !acc.user.IsAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	s.mu.Lock()
	users := make([]models.BackendUser, 0, len(s.accountsByID))
	for _, a := range s.accountsByID {
		users = append(users, a.user)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.UsersResponse{Users: users})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)
	if !acc.user.IsAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	now := s.now()

	s.mu.Lock()
	var todayCheckins int
	var hoursSum float64
	var hoursCount int
	for _, rec := range s.records {
		y1, m1, d1 := rec.CheckInTime.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			todayCheckins++
			if rec.TotalHours != nil {
				hoursSum += *rec.TotalHours
				hoursCount++
			}
		}
	}
	totalUsers := len(s.accountsByID)
	s.mu.Unlock()

	var avg float64
	if hoursCount > 0 {
		avg = hoursSum / float64(hoursCount)
	}

	writeJSON(w, http.StatusOK, models.StatsResponse{
		Stats: models.BackendStats{
			TotalUsers:    totalUsers,
			TodayCheckins: todayCheckins,
			AvgHours:      avg,
		},
	})
}
