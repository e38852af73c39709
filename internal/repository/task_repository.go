package repository

import (
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, utils.Page, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, utils.Page{}, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = constants.TaskPageSize
	}
	page := utils.NewPage(filter.Page, pageSize, total)

	tasks := []models.Task{}
	if err := r.filtered(filter).
		Scopes(database.NewestFirst, database.Paginate(page)).
		Preload("CreatedBy").
		Preload("AssignedTo").
		Find(&tasks).Error; err != nil {
		return nil, utils.Page{}, err
	}

	return tasks, page, nil
}

// filtered builds a fresh query for filter each time it is called so the
// count and the page fetch do not share statement state.
func (r *GormTaskRepository) filtered(filter TaskFilter) *gorm.DB {
	query := r.db.Model(&models.Task{})

	switch filter.Scope {
	case ScopeOwned:
		query = query.Scopes(ownedBy(filter.UserID))
	case ScopeAssigned:
		query = query.Where("tasks.assigned_to_id = ?", filter.UserID)
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			"(LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(COALESCE(tasks.description, '')) LIKE ? ESCAPE '!' OR LOWER(COALESCE(tasks.tags, '')) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.CreatedByID != nil {
		query = query.Where("tasks.created_by_id = ?", *filter.CreatedByID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}

	return query
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// Stats counts the user's tasks per status in one query
func (r *GormTaskRepository) Stats(userID uint64, now time.Time) (TaskStats, error) {
	var stats TaskStats
	err := r.db.Model(&models.Task{}).
		Scopes(ownedBy(userID)).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN tasks.due_date < ? AND tasks.status IN (?, ?) THEN 1 ELSE 0 END), 0) AS overdue`,
			models.TaskStatusPending,
			models.TaskStatusInProgress,
			models.TaskStatusCompleted,
			now.UTC(),
			models.TaskStatusPending,
			models.TaskStatusInProgress,
		).
		Scan(&stats).Error
	return stats, err
}

// Recent lists the newest tasks of the user
func (r *GormTaskRepository) Recent(userID uint64, priority *models.TaskPriority, limit int) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).Scopes(ownedBy(userID), database.NewestFirst)
	if priority != nil {
		query = query.Where("tasks.priority = ?", *priority)
	}

	tasks := []models.Task{}
	if err := query.Limit(limit).
		Preload("CreatedBy").
		Preload("AssignedTo").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ownedBy narrows to tasks the user created or is assigned to. A single
// row predicate, so no task is returned twice.
func ownedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(tasks.created_by_id = ? OR tasks.assigned_to_id = ?)", userID, userID)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
