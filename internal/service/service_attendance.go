package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

type attendanceService struct {
	adapter adapter.BackendAdapter
	appCfg  config.App
	logger  *logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	pages map[string][]models.AttendanceRecord
}

// NewAttendanceService constructs the [AttendanceService]. appCfg supplies
// the default check-in metadata (location, device id).
func NewAttendanceService(backend adapter.BackendAdapter, appCfg config.App, log *logger.Logger) AttendanceService {
	return &attendanceService{
		adapter: backend,
		appCfg:  appCfg,
		logger:  log,
		now:     time.Now,
		pages:   make(map[string][]models.AttendanceRecord),
	}
}

// CheckIn implements [AttendanceService].
func (s *attendanceService) CheckIn(ctx context.Context, meta models.CheckInMeta) (models.AttendanceRecord, error) {
	if meta.Location == "" {
		meta.Location = s.appCfg.Location
	}
	if meta.DeviceID == "" {
		meta.DeviceID = s.appCfg.DeviceID
	}
	if meta.Method == "" {
		meta.Method = "manual"
	}

	resp, err := s.adapter.CheckIn(ctx, meta)
	if err != nil {
		return models.AttendanceRecord{}, mapAdapterError(err)
	}

	s.Invalidate()
	s.logger.Info().Str("attendance_id", resp.AttendanceID).Msg("checked in")

	return models.AttendanceRecord{
		ID:       resp.AttendanceID,
		CheckIn:  resp.CheckInTime,
		Status:   models.StatusCheckedIn,
		Location: meta.Location,
		Device:   meta.DeviceID,
	}, nil
}

// CheckOut implements [AttendanceService].
func (s *attendanceService) CheckOut(ctx context.Context, attendanceID string) (models.AttendanceRecord, error) {
	resp, err := s.adapter.CheckOut(ctx, attendanceID)
	if err != nil {
		return models.AttendanceRecord{}, mapAdapterError(err)
	}

	s.Invalidate()
	s.logger.Info().Str("attendance_id", attendanceID).Msg("checked out")

	checkOut := resp.CheckOutTime
	hours := resp.TotalHours
	return models.AttendanceRecord{
		ID:         attendanceID,
		CheckOut:   &checkOut,
		Status:     models.StatusCheckedOut,
		TotalHours: &hours,
	}, nil
}

// History implements [AttendanceService].
func (s *attendanceService) History(ctx context.Context, limit, skip int) ([]models.AttendanceRecord, error) {
	key := fmt.Sprintf("%d:%d", limit, skip)

	s.mu.Lock()
	if page, ok := s.pages[key]; ok {
		s.mu.Unlock()
		return clonePage(page), nil
	}
	s.mu.Unlock()

	records, err := s.adapter.History(ctx, limit, skip)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	// The backend promises check-in-descending order; enforce it anyway so
	// derived views never depend on backend ordering bugs. Stable keeps
	// equal timestamps in arrival order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CheckIn.After(records[j].CheckIn)
	})

	s.mu.Lock()
	s.pages[key] = records
	s.mu.Unlock()

	return clonePage(records), nil
}

// clonePage copies a cached history page so callers cannot mutate the cache
// through the returned slice.
func clonePage(page []models.AttendanceRecord) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, len(page))
	copy(out, page)
	return out
}

// TodayStatus implements [AttendanceService]. Always recomputed from
// History(1, 0), never cached on its own.
func (s *attendanceService) TodayStatus(ctx context.Context) (*models.AttendanceRecord, error) {
	records, err := s.History(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	latest := records[0]
	if !latest.OnDay(s.now()) {
		return nil, nil
	}

	return &latest, nil
}

// Invalidate implements [AttendanceService].
func (s *attendanceService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string][]models.AttendanceRecord)
}
