package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/mock"
	"github.com/nexus-hq/nexus-attendance/models"
)

var testClock = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func newTestAttendanceSvc(t *testing.T, ctrl *gomock.Controller) (*attendanceService, *mock.MockBackendAdapter) {
	t.Helper()
	mockAdapter := mock.NewMockBackendAdapter(ctrl)

	appCfg := config.App{Location: "Main Office - Floor 3", DeviceID: "go-client"}
	svc := NewAttendanceService(mockAdapter, appCfg, logger.Nop()).(*attendanceService)
	svc.now = func() time.Time { return testClock }

	return svc, mockAdapter
}

// ── CheckIn ─────────────────────────────────────────────────────────────────

func TestAttendanceCheckIn_FillsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckIn(ctx, models.CheckInMeta{
		Location: "Main Office - Floor 3",
		DeviceID: "go-client",
		Method:   "manual",
	}).Return(models.CheckInResponse{AttendanceID: "att-1", CheckInTime: testClock}, nil)

	got, err := svc.CheckIn(ctx, models.CheckInMeta{})
	require.NoError(t, err)
	assert.Equal(t, "att-1", got.ID)
	assert.Equal(t, models.StatusCheckedIn, got.Status)
	assert.True(t, got.Open())
}

func TestAttendanceCheckIn_ExplicitMetaWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckIn(ctx, models.CheckInMeta{
		Location: "Warehouse B",
		DeviceID: "kiosk-2",
		Method:   "badge",
	}).Return(models.CheckInResponse{AttendanceID: "att-2", CheckInTime: testClock}, nil)

	_, err := svc.CheckIn(ctx, models.CheckInMeta{Location: "Warehouse B", DeviceID: "kiosk-2", Method: "badge"})
	require.NoError(t, err)
}

func TestAttendanceCheckIn_DuplicateOpenSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckIn(ctx, gomock.Any()).
		Return(models.CheckInResponse{}, fmt.Errorf("%w: already checked in", adapter.ErrConflict))

	_, err := svc.CheckIn(ctx, models.CheckInMeta{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAttendanceCheckIn_InvalidatesCacheOnSuccessOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	// Prime the cache.
	mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{}, nil)
	_, err := svc.History(ctx, 10, 0)
	require.NoError(t, err)

	// A failed mutation must leave the cache intact: no second History call.
	mockAdapter.EXPECT().CheckIn(ctx, gomock.Any()).
		Return(models.CheckInResponse{}, fmt.Errorf("%w: already checked in", adapter.ErrConflict))
	_, err = svc.CheckIn(ctx, models.CheckInMeta{})
	require.Error(t, err)

	_, err = svc.History(ctx, 10, 0)
	require.NoError(t, err, "served from cache, no adapter call expected")

	// A successful mutation drops the cache: the next read refetches.
	mockAdapter.EXPECT().CheckIn(ctx, gomock.Any()).
		Return(models.CheckInResponse{AttendanceID: "att-1", CheckInTime: testClock}, nil)
	_, err = svc.CheckIn(ctx, models.CheckInMeta{})
	require.NoError(t, err)

	mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{}, nil)
	_, err = svc.History(ctx, 10, 0)
	require.NoError(t, err)
}

// ── CheckOut ────────────────────────────────────────────────────────────────

func TestAttendanceCheckOut_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckOut(ctx, "att-1").
		Return(models.CheckOutResponse{CheckOutTime: testClock, TotalHours: 8.5}, nil)

	got, err := svc.CheckOut(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, got.Status)
	require.NotNil(t, got.CheckOut)
	require.NotNil(t, got.TotalHours)
	assert.InDelta(t, 8.5, *got.TotalHours, 1e-9)
	assert.False(t, got.Open())
}

func TestAttendanceCheckOut_UnknownRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckOut(ctx, "missing").
		Return(models.CheckOutResponse{}, fmt.Errorf("%w: attendance record missing", adapter.ErrNotFound))

	_, err := svc.CheckOut(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceCheckOut_AlreadyClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CheckOut(ctx, "att-1").
		Return(models.CheckOutResponse{}, fmt.Errorf("%w: record already closed", adapter.ErrConflict))

	_, err := svc.CheckOut(ctx, "att-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

// ── History ─────────────────────────────────────────────────────────────────

func TestAttendanceHistory_SortsCheckInDescending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	older := testClock.Add(-48 * time.Hour)
	newer := testClock.Add(-24 * time.Hour)

	// Backend returns records out of order.
	mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{
		{ID: "att-1", CheckIn: older},
		{ID: "att-2", CheckIn: newer},
	}, nil)

	got, err := svc.History(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "att-2", got[0].ID)
	assert.Equal(t, "att-1", got[1].ID)
}

func TestAttendanceHistory_StableForEqualTimestamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{
		{ID: "att-a", CheckIn: testClock},
		{ID: "att-b", CheckIn: testClock},
	}, nil)

	got, err := svc.History(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "att-a", got[0].ID, "equal timestamps keep arrival order")
	assert.Equal(t, "att-b", got[1].ID)
}

func TestAttendanceHistory_CachesPerPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	// Exactly one adapter call per distinct (limit, skip) pair.
	mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{}, nil).Times(1)
	mockAdapter.EXPECT().History(ctx, 10, 10).Return([]models.AttendanceRecord{}, nil).Times(1)

	for i := 0; i < 3; i++ {
		_, err := svc.History(ctx, 10, 0)
		require.NoError(t, err)
	}
	_, err := svc.History(ctx, 10, 10)
	require.NoError(t, err)
}

func TestAttendanceHistory_CallerMutationDoesNotCorruptCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{
		{ID: "att-1", UserID: "u-1", CheckIn: testClock, Status: models.StatusCheckedIn},
	}, nil).Times(1)

	first, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Scribbling over the returned page must not leak into the cache.
	first[0].ID = "mangled"
	first[0].Status = models.StatusAbsent

	second, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "att-1", second[0].ID)
	assert.Equal(t, models.StatusCheckedIn, second[0].Status)

	// TodayStatus reads through the same cache and must see the original.
	today, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, "att-1", today.ID)
}

func TestAttendanceHistory_FailedFetchIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().History(ctx, 10, 0).Return(nil, errors.New("dial tcp: connection refused")),
		mockAdapter.EXPECT().History(ctx, 10, 0).Return([]models.AttendanceRecord{}, nil),
	)

	_, err := svc.History(ctx, 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	_, err = svc.History(ctx, 10, 0)
	require.NoError(t, err, "the failed page must be refetched")
}

// ── TodayStatus ─────────────────────────────────────────────────────────────

func TestTodayStatus_OpenSessionToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{
		{ID: "att-1", CheckIn: testClock.Add(-3 * time.Hour), Status: models.StatusCheckedIn},
	}, nil)

	got, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "att-1", got.ID)
}

func TestTodayStatus_YesterdaysRecordIsNotToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{
		{ID: "att-1", CheckIn: testClock.Add(-24 * time.Hour), Status: models.StatusCheckedOut},
	}, nil)

	got, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTodayStatus_EmptyHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{}, nil)

	got, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTodayStatus_SharesHistoryCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockAdapter := newTestAttendanceSvc(t, ctrl)
	ctx := context.Background()

	// One fetch serves repeated status checks until the cache is dropped.
	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{
		{ID: "att-1", CheckIn: testClock.Add(-time.Hour), Status: models.StatusCheckedIn},
	}, nil).Times(1)

	for i := 0; i < 3; i++ {
		got, err := svc.TodayStatus(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
	}

	svc.Invalidate()

	mockAdapter.EXPECT().History(ctx, 1, 0).Return([]models.AttendanceRecord{}, nil).Times(1)
	got, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
