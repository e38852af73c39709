package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	StatusColor    string              `json:"status_color"`
	Priority       models.TaskPriority `json:"priority"`
	PriorityColor  string              `json:"priority_color"`
	Tags           []string            `json:"tags"`
	EstimatedHours *float64            `json:"estimated_hours"`
	ActualHours    *float64            `json:"actual_hours"`
	DueDate        *time.Time          `json:"due_date"`
	CompletedAt    *time.Time          `json:"completed_at"`
	IsOverdue      bool                `json:"is_overdue"`
	CreatedByID    uint64              `json:"created_by_id"`
	AssignedToID   *uint64             `json:"assigned_to_id"`
	CreatedBy      *UserSummaryDTO     `json:"created_by,omitempty"`
	AssignedTo     *UserSummaryDTO     `json:"assigned_to,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GeneratedTasksResponse carries drafts returned by the AI drafter
type GeneratedTasksResponse struct {
	Tasks []services.GeneratedTask `json:"tasks"`
	Count int                      `json:"count"`
}

// ToTaskDTO converts a Task model to TaskDTO. now decides IsOverdue.
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		StatusColor:    task.Status.Color(),
		Priority:       task.Priority,
		PriorityColor:  task.Priority.Color(),
		Tags:           task.TagList(),
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		DueDate:        task.DueDate,
		CompletedAt:    task.CompletedAt,
		IsOverdue:      task.IsOverdue(now),
		CreatedByID:    task.CreatedByID,
		AssignedToID:   task.AssignedToID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToUserSummaryDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	if task.AssignedTo != nil {
		assignee := ToUserSummaryDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task, now time.Time) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, now)
	}
	return items
}

// ToTaskListResponse converts one page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page utils.Page, now time.Time) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks, now),
		Pagination: page.Response(),
	}
}
