package service

import (
	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/internal/store"
)

// Services bundles the business layer for injection into the session
// context.
type Services struct {
	Auth       AuthService
	Attendance AttendanceService
	Admin      AdminService
	Refresh    SessionRefreshJob
}

// NewServices wires all services over one backend adapter and one credential
// store.
func NewServices(credentials store.CredentialStore, backend adapter.BackendAdapter, appCfg config.App, log *logger.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(credentials, backend, log),
		Attendance: NewAttendanceService(backend, appCfg, log),
		Admin:      NewAdminService(backend, log),
		Refresh:    NewSessionRefreshJob(backend, log),
	}
}
