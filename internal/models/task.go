package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

var statusColors = map[TaskStatus]string{
	TaskStatusPending:    "#6c757d",
	TaskStatusInProgress: "#007bff",
	TaskStatusCompleted:  "#28a745",
	TaskStatusCancelled:  "#dc3545",
}

var priorityColors = map[TaskPriority]string{
	TaskPriorityLow:    "#28a745",
	TaskPriorityMedium: "#ffc107",
	TaskPriorityHigh:   "#ff9800",
	TaskPriorityUrgent: "#dc3545",
}

func (s TaskStatus) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

func (s TaskStatus) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "#6c757d"
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityColors[p]
	return ok
}

func (p TaskPriority) Color() string {
	if color, ok := priorityColors[p]; ok {
		return color
	}
	return "#6c757d"
}

type Task struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Title          string       `gorm:"type:varchar(200);not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CreatedByID    uint64       `gorm:"not null" json:"created_by_id"`
	AssignedToID   *uint64      `json:"assigned_to_id"`
	Tags           string       `gorm:"type:varchar(200)" json:"tags"`
	EstimatedHours *float64     `gorm:"type:decimal(5,2)" json:"estimated_hours"`
	ActualHours    *float64     `gorm:"type:decimal(5,2)" json:"actual_hours"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	DueDate        *time.Time   `json:"due_date"`
	CompletedAt    *time.Time   `json:"completed_at"`

	// Relations
	CreatedBy  User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeSave stores DueDate and CompletedAt in UTC. Overdue counts compare
// due_date in SQL, which on SQLite is a text comparison.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.DueDate = utcPtr(t.DueDate)
	t.CompletedAt = utcPtr(t.CompletedAt)
	return nil
}

func utcPtr(at *time.Time) *time.Time {
	if at == nil {
		return nil
	}
	utc := at.UTC()
	return &utc
}

// IsOverdue reports whether the due date has passed while the task is not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}

// TagList splits the comma-separated tags, dropping blanks.
func (t Task) TagList() []string {
	return ParseTags(t.Tags)
}

func (t Task) IsCreatedBy(userID uint64) bool {
	return t.CreatedByID == userID
}

func (t Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}

// SetStatus applies an edited status. Moving into completed stamps
// CompletedAt the first time only; it is never cleared.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskStatusCompleted && t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
	}
}

// Complete marks the task completed. It returns false, leaving the task
// untouched, when the task is already completed.
func (t *Task) Complete(now time.Time) bool {
	if t.Status == TaskStatusCompleted {
		return false
	}
	completedAt := now
	t.Status = TaskStatusCompleted
	t.CompletedAt = &completedAt
	return true
}

// ParseTags splits a raw comma-separated tag string.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
