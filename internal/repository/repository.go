package repository

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves one page of tasks matching filter, newest first
	List(filter TaskFilter) ([]models.Task, utils.Page, error)

	// Update saves every column of the task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// Stats counts the tasks created by or assigned to userID
	Stats(userID uint64, now time.Time) (TaskStats, error)

	// Recent lists the newest tasks created by or assigned to userID,
	// optionally restricted to one priority
	Recent(userID uint64, priority *models.TaskPriority, limit int) ([]models.Task, error)
}

// Scope selects the base task set before filters apply.
type Scope int

const (
	// ScopeAll is every task.
	ScopeAll Scope = iota
	// ScopeOwned is tasks the user created or is assigned to.
	ScopeOwned
	// ScopeAssigned is tasks assigned to the user.
	ScopeAssigned
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Scope        Scope
	UserID       uint64
	Search       string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	CreatedByID  *uint64
	AssignedToID *uint64
	Page         int
	PageSize     int
}

// TaskStats is the per-status breakdown shown on the dashboard.
type TaskStats struct {
	Total      int64 `json:"total_tasks"`
	Pending    int64 `json:"pending_tasks"`
	InProgress int64 `json:"in_progress_tasks"`
	Completed  int64 `json:"completed_tasks"`
	Overdue    int64 `json:"overdue_tasks"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithProfile creates a user and its profile within a single transaction.
	CreateWithProfile(user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID with the profile preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email with the profile preloaded
	FindByEmail(email string) (*models.User, error)

	// Update saves the user's own columns
	Update(user *models.User) error

	// ListActiveMembers lists users whose profile is an active member
	ListActiveMembers() ([]models.User, error)
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// FindByUserID finds the profile owned by userID
	FindByUserID(userID uint64) (*models.Profile, error)

	// CreateIfMissing inserts profile unless the user already has one and
	// returns whichever profile is stored
	CreateIfMissing(profile *models.Profile) (*models.Profile, error)

	// Update saves a profile
	Update(profile *models.Profile) error
}
