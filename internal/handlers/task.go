package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type taskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	AssignedToID   *uint64    `json:"assigned_to_id"`
	Tags           string     `json:"tags"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
}

func (r taskRequest) input() services.TaskInput {
	return services.TaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         models.TaskStatus(r.Status),
		Priority:       models.TaskPriority(r.Priority),
		DueDate:        r.DueDate,
		AssignedToID:   r.AssignedToID,
		Tags:           r.Tags,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
	}
}

// listInput reads the shared list query parameters. Empty values do not
// filter.
func listInput(c *gin.Context) services.ListTasksInput {
	input := services.ListTasksInput{
		Search:     c.Query("search"),
		Assignment: c.Query("assignment"),
		Page:       utils.ParsePageNumber(c.DefaultQuery("page", "1")),
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	return input
}

// ListTasks returns the tasks visible to the current user
func (h *TaskHandler) ListTasks(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	tasks, page, err := h.taskService.ListTasks(requester, listInput(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, page, h.taskService.Now()))
}

// MyTasks returns the tasks assigned to the current user
func (h *TaskHandler) MyTasks(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	tasks, page, err := h.taskService.MyTasks(requester, listInput(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, page, h.taskService.Now()))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(requester, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.taskService.Now()))
}

// CreateTask creates a new task and redirects to it
func (h *TaskHandler) CreateTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	task, err := h.taskService.CreateTask(requester, req.input())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTO := dto.ToTaskDTO(*task, h.taskService.Now())
	redirect(c, taskPath(task.ID), notice(dto.NoticeSuccess, "Task \"%s\" created successfully!", task.Title), &taskDTO)
}

// ReplaceTask overwrites every editable field of a task
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	h.update(c, requester, taskID, services.FullUpdate(req.input()))
}

// UpdateTask edits only the fields present in the body. An explicit null
// clears an optional field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]json.RawMessage
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	input, details := parseTaskPatch(rawReq)
	if len(details) > 0 {
		apierrors.ValidationFailed(c, details)
		return
	}

	h.update(c, requester, taskID, input)
}

func (h *TaskHandler) update(c *gin.Context, requester policy.Requester, taskID uint64, input services.UpdateTaskInput) {
	task, err := h.taskService.UpdateTask(requester, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTO := dto.ToTaskDTO(*task, h.taskService.Now())
	redirect(c, taskPath(task.ID), notice(dto.NoticeSuccess, "Task \"%s\" updated successfully!", task.Title), &taskDTO)
}

// DeleteTask deletes a task and redirects to the list
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(requester, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	redirect(c, constants.TaskListPath, notice(dto.NoticeSuccess, "Task \"%s\" deleted successfully!", task.Title), nil)
}

// CompleteTask marks a task as completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	task, changed, err := h.taskService.CompleteTask(requester, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	n := notice(dto.NoticeInfo, "Task is already completed.")
	if changed {
		n = notice(dto.NoticeSuccess, "Task \"%s\" marked as completed!", task.Title)
	}
	taskDTO := dto.ToTaskDTO(*task, h.taskService.Now())
	redirect(c, taskPath(task.ID), n, &taskDTO)
}

// AssignTask sets or clears the assignee of a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}
	taskID, ok := currentTaskID(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		AssignedToID *uint64 `json:"assigned_to_id"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	task, err := h.taskService.AssignTask(requester, taskID, req.AssignedToID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.taskService.Now()))
}

// GenerateTasks drafts task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required,trimmedmin=1"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), requester, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GeneratedTasksResponse{
		Tasks: drafts,
		Count: len(drafts),
	})
}

// parseTaskPatch decodes the known keys of a PATCH body. Unknown keys are
// ignored.
func parseTaskPatch(raw map[string]json.RawMessage) (services.UpdateTaskInput, map[string]string) {
	var input services.UpdateTaskInput
	details := map[string]string{}

	decode := func(key string, dst any) (present, null bool) {
		value, ok := raw[key]
		if !ok {
			return false, false
		}
		if string(value) == "null" {
			return true, true
		}
		if err := json.Unmarshal(value, dst); err != nil {
			details[key] = "Invalid value."
			return false, false
		}
		return true, false
	}

	// A null string clears it; required fields are then rejected by validation.
	var title, description, tags, status, priority string
	if present, _ := decode("title", &title); present {
		input.Title = &title
	}
	if present, _ := decode("description", &description); present {
		input.Description = &description
	}
	if present, _ := decode("tags", &tags); present {
		input.Tags = &tags
	}
	if present, _ := decode("status", &status); present {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if present, _ := decode("priority", &priority); present {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}

	var due time.Time
	if present, null := decode("due_date", &due); present {
		if null {
			input.ClearDueDate = true
		} else {
			input.DueDate = &due
		}
	}

	var assignee uint64
	if present, null := decode("assigned_to_id", &assignee); present {
		if null {
			input.ClearAssignee = true
		} else {
			input.AssignedToID = &assignee
		}
	}

	var estimated, actual float64
	if present, null := decode("estimated_hours", &estimated); present {
		if null {
			input.ClearEstimatedHours = true
		} else {
			input.EstimatedHours = &estimated
		}
	}
	if present, null := decode("actual_hours", &actual); present {
		if null {
			input.ClearActualHours = true
		} else {
			input.ActualHours = &actual
		}
	}

	return input, details
}
