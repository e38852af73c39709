package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be drafted from AI output")
)

// PermissionError reports a policy denial. TaskID is zero for actions that
// are not about an existing task.
type PermissionError struct {
	Action policy.Action
	TaskID uint64
}

func (e *PermissionError) Error() string {
	return e.Action.DenialMessage()
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// Assignment filter values accepted by ListTasks.
const (
	AssignmentAssignedToMe = "assigned_to_me"
	AssignmentCreatedByMe  = "created_by_me"
)

const maxHours = 999.99

// TaskDrafter turns free text into draft tasks.
type TaskDrafter interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	drafter  TaskDrafter

	// Now is the clock used for lifecycle timestamps and overdue checks.
	Now func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		drafter:  drafter,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search     string
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Assignment string
	Page       int
}

// ListTasks returns one page of the requester's visible tasks.
func (s *TaskService) ListTasks(r policy.Requester, input ListTasksInput) ([]models.Task, utils.Page, error) {
	filter := repository.TaskFilter{
		Scope:    repository.ScopeOwned,
		UserID:   r.UserID,
		Search:   input.Search,
		Status:   input.Status,
		Priority: input.Priority,
		Page:     input.Page,
		PageSize: constants.TaskPageSize,
	}
	if r.Role.CanViewAllTasks() {
		filter.Scope = repository.ScopeAll
	}

	switch input.Assignment {
	case AssignmentAssignedToMe:
		filter.AssignedToID = &r.UserID
	case AssignmentCreatedByMe:
		filter.CreatedByID = &r.UserID
	}

	tasks, page, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, utils.Page{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, page, nil
}

// MyTasks returns one page of tasks assigned to the requester. The
// assignment filter is ignored.
func (s *TaskService) MyTasks(r policy.Requester, input ListTasksInput) ([]models.Task, utils.Page, error) {
	tasks, page, err := s.taskRepo.List(repository.TaskFilter{
		Scope:    repository.ScopeAssigned,
		UserID:   r.UserID,
		Search:   input.Search,
		Status:   input.Status,
		Priority: input.Priority,
		Page:     input.Page,
		PageSize: constants.TaskPageSize,
	})
	if err != nil {
		return nil, utils.Page{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, page, nil
}

// GetTask returns a task the requester may view.
func (s *TaskService) GetTask(r policy.Requester, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "CreatedBy", "AssignedTo")
	if err != nil {
		return nil, err
	}
	if !policy.CanView(r, *task) {
		return nil, &PermissionError{Action: policy.ActionView, TaskID: taskID}
	}
	return task, nil
}

// TaskInput holds every editable task field.
type TaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	DueDate        *time.Time
	AssignedToID   *uint64
	Tags           string
	EstimatedHours *float64
	ActualHours    *float64
}

// CreateTask creates a new task with the requester as creator
func (s *TaskService) CreateTask(r policy.Requester, input TaskInput) (*models.Task, error) {
	if !policy.CanCreate(r) {
		return nil, &PermissionError{Action: policy.ActionCreate}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{CreatedByID: r.UserID}
	if err := s.apply(task, FullUpdate(input)); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(task.ID, "CreatedBy", "AssignedTo")
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left unchanged; the Clear flags null out optional fields.
type UpdateTaskInput struct {
	Title               *string
	Description         *string
	Status              *models.TaskStatus
	Priority            *models.TaskPriority
	DueDate             *time.Time
	ClearDueDate        bool
	AssignedToID        *uint64
	ClearAssignee       bool
	Tags                *string
	EstimatedHours      *float64
	ClearEstimatedHours bool
	ActualHours         *float64
	ClearActualHours    bool
}

// FullUpdate converts a complete task record into an update that
// overwrites every field, clearing optional ones that are unset.
func FullUpdate(input TaskInput) UpdateTaskInput {
	return UpdateTaskInput{
		Title:               &input.Title,
		Description:         &input.Description,
		Status:              &input.Status,
		Priority:            &input.Priority,
		DueDate:             input.DueDate,
		ClearDueDate:        input.DueDate == nil,
		AssignedToID:        input.AssignedToID,
		ClearAssignee:       input.AssignedToID == nil,
		Tags:                &input.Tags,
		EstimatedHours:      input.EstimatedHours,
		ClearEstimatedHours: input.EstimatedHours == nil,
		ActualHours:         input.ActualHours,
		ClearActualHours:    input.ActualHours == nil,
	}
}

// UpdateTask edits an existing task
func (s *TaskService) UpdateTask(r policy.Requester, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(r, *task) {
		return nil, &PermissionError{Action: policy.ActionEdit, TaskID: taskID}
	}

	if err := s.apply(task, input); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(task.ID, "CreatedBy", "AssignedTo")
}

// DeleteTask removes a task and returns the deleted record
func (s *TaskService) DeleteTask(r policy.Requester, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDelete(r, *task) {
		return nil, &PermissionError{Action: policy.ActionDelete, TaskID: taskID}
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// CompleteTask marks a task completed. changed is false when the task was
// already completed, in which case nothing is written.
func (s *TaskService) CompleteTask(r policy.Requester, taskID uint64) (task *models.Task, changed bool, err error) {
	task, err = s.findTask(taskID, "CreatedBy", "AssignedTo")
	if err != nil {
		return nil, false, err
	}
	if !policy.CanComplete(r, *task) {
		return nil, false, &PermissionError{Action: policy.ActionComplete, TaskID: taskID}
	}

	if !task.Complete(s.Now()) {
		return task, false, nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, false, fmt.Errorf("failed to complete task: %w", err)
	}

	return task, true, nil
}

// AssignTask sets or, when userID is nil, clears the assignee.
func (s *TaskService) AssignTask(r policy.Requester, taskID uint64, userID *uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssign(r) {
		return nil, &PermissionError{Action: policy.ActionAssign, TaskID: taskID}
	}

	update := UpdateTaskInput{AssignedToID: userID, ClearAssignee: userID == nil}
	if err := s.apply(task, update); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.findTask(task.ID, "CreatedBy", "AssignedTo")
}

// DraftTasks asks the drafter for tasks described in text. Nothing is saved.
func (s *TaskService) DraftTasks(ctx context.Context, r policy.Requester, text string) ([]GeneratedTask, error) {
	if !policy.CanCreate(r) {
		return nil, &PermissionError{Action: policy.ActionCreate}
	}
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, fieldError("text", "text is required")
	}

	drafts, err := s.drafter.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	valid := make([]GeneratedTask, 0, len(drafts))
	cutoff := s.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if len([]rune(draft.Title)) < constants.MinTitleLength {
			continue
		}
		if !draft.Priority.Valid() {
			draft.Priority = models.TaskPriorityMedium
		}
		if draft.DueDate != nil && draft.DueDate.Before(cutoff) {
			draft.DueDate = nil
		}
		if draft.EstimatedHours != nil && (*draft.EstimatedHours < 0 || *draft.EstimatedHours > maxHours) {
			draft.EstimatedHours = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

// apply validates input against task and copies it over. task is left
// untouched when any field is rejected.
func (s *TaskService) apply(task *models.Task, input UpdateTaskInput) error {
	verr := &ValidationError{}
	next := *task

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		switch {
		case len([]rune(title)) < constants.MinTitleLength:
			verr.add("title", fmt.Sprintf("Task title must be at least %d characters long.", constants.MinTitleLength))
		case len([]rune(title)) > 200:
			verr.add("title", "Task title must be at most 200 characters long.")
		}
		next.Title = title
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			verr.add("priority", fmt.Sprintf("%q is not a valid priority", *input.Priority))
		}
		next.Priority = *input.Priority
	}
	if input.Tags != nil {
		tags := strings.TrimSpace(*input.Tags)
		if len([]rune(tags)) > constants.MaxTagsLength {
			verr.add("tags", fmt.Sprintf("Tags must be at most %d characters long.", constants.MaxTagsLength))
		}
		next.Tags = tags
	}

	next.EstimatedHours = applyHours(verr, "estimated_hours", "Estimated", next.EstimatedHours, input.EstimatedHours, input.ClearEstimatedHours)
	next.ActualHours = applyHours(verr, "actual_hours", "Actual", next.ActualHours, input.ActualHours, input.ClearActualHours)

	switch {
	case input.ClearDueDate:
		next.DueDate = nil
	case input.DueDate != nil:
		due := input.DueDate.UTC()
		// only an existing task has a creation date to compare against
		if task.ID != 0 && due.Before(task.CreatedAt) {
			verr.add("due_date", "Due date cannot be earlier than task creation date.")
		}
		next.DueDate = &due
	}

	switch {
	case input.ClearAssignee:
		next.AssignedToID = nil
	case input.AssignedToID != nil:
		if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to find assignee: %w", err)
			}
			verr.add("assigned_to_id", "Select a valid user.")
		}
		assignee := *input.AssignedToID
		next.AssignedToID = &assignee
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			verr.add("status", fmt.Sprintf("%q is not a valid status", *input.Status))
		}
		next.SetStatus(*input.Status, s.Now())
	}

	if err := verr.err(); err != nil {
		return err
	}

	*task = next
	return nil
}

func applyHours(verr *ValidationError, field, label string, current, value *float64, clear bool) *float64 {
	switch {
	case clear:
		return nil
	case value == nil:
		return current
	case *value < 0:
		verr.add(field, label+" hours cannot be negative.")
	case *value > maxHours:
		verr.add(field, label+" hours must be at most 999.99.")
	}
	hours := *value
	return &hours
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
