package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/repository"
)

// Dashboard summarizes the tasks a user created or is assigned to.
type Dashboard struct {
	Stats       repository.TaskStats
	RecentTasks []models.Task
	UrgentTasks []models.Task
	GeneratedAt time.Time
}

// DashboardService aggregates dashboard data
type DashboardService struct {
	taskRepo repository.TaskRepository
	Now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Build collects the dashboard of r. Visibility capabilities do not widen
// the set: it is always the requester's own tasks.
func (s *DashboardService) Build(r policy.Requester) (*Dashboard, error) {
	now := s.Now()

	stats, err := s.taskRepo.Stats(r.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	recent, err := s.taskRepo.Recent(r.UserID, nil, constants.DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	urgentPriority := models.TaskPriorityUrgent
	urgent, err := s.taskRepo.Recent(r.UserID, &urgentPriority, constants.DashboardUrgentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load urgent tasks: %w", err)
	}

	return &Dashboard{
		Stats:       stats,
		RecentTasks: recent,
		UrgentTasks: urgent,
		GeneratedAt: now,
	}, nil
}
