package devserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexus-hq/nexus-attendance/models"
)

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)

	var payload models.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.UserID == acc.user.ID && rec.CheckOutTime == nil {
			writeError(w, http.StatusConflict, "already checked in")
			return
		}
	}

	record := &models.BackendRecord{
		ID:          uuid.NewString(),
		UserID:      acc.user.ID,
		CheckInTime: s.now().UTC(),
		Location:    payload.Location,
		DeviceID:    payload.DeviceID,
	}
	s.records[record.ID] = record

	writeJSON(w, http.StatusCreated, models.CheckInResponse{
		AttendanceID: record.ID,
		CheckInTime:  record.CheckInTime,
	})
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)
	recordID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok || record.UserID != acc.user.ID {
		writeError(w, http.StatusNotFound, "attendance record not found")
		return
	}
	if record.CheckOutTime != nil {
		writeError(w, http.StatusConflict, "record already closed")
		return
	}

	checkOut := s.now().UTC()
	hours := checkOut.Sub(record.CheckInTime).Hours()
	if hours < 0 {
		hours = 0
	}
	record.CheckOutTime = &checkOut
	record.TotalHours = &hours

	writeJSON(w, http.StatusOK, models.CheckOutResponse{
		CheckOutTime: checkOut,
		TotalHours:   hours,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r)

	limit := intQuery(r, "limit", 30)
	skip := intQuery(r, "skip", 0)

	s.mu.Lock()
	var records []models.BackendRecord
	for _, rec := range s.records {
		if rec.UserID == acc.user.ID {
			records = append(records, *rec)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CheckInTime.After(records[j].CheckInTime)
	})

	if skip > len(records) {
		skip = len(records)
	}
	records = records[skip:]
	if limit >= 0 && limit < len(records) {
		records = records[:limit]
	}
	if records == nil {
		records = []models.BackendRecord{}
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{Records: records})
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
