package service

import (
	"context"

	"github.com/nexus-hq/nexus-attendance/internal/adapter"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
	"github.com/nexus-hq/nexus-attendance/models"
)

type adminService struct {
	adapter adapter.BackendAdapter
	logger  *logger.Logger
}

// NewAdminService constructs the [AdminService]. Authorization is entirely
// the backend's decision; the service only maps the 403 into the taxonomy.
func NewAdminService(backend adapter.BackendAdapter, log *logger.Logger) AdminService {
	return &adminService{adapter: backend, logger: log}
}

// Users implements [AdminService].
func (s *adminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.adapter.Users(ctx)
	if err != nil {
		return nil, mapAdapterError(err)
	}
	return users, nil
}

// Stats implements [AdminService].
func (s *adminService) Stats(ctx context.Context) (models.DashboardStats, error) {
	stats, err := s.adapter.Stats(ctx)
	if err != nil {
		return models.DashboardStats{}, mapAdapterError(err)
	}
	return stats, nil
}
