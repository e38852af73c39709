// Package policy decides which task actions a requester may perform.
// Decisions are pure functions of the requester's role and relation to the
// task; nothing is cached between requests.
package policy

import "github.com/yukikurage/task-tracker/internal/models"

// Requester is the authenticated user an operation is performed for.
type Requester struct {
	UserID uint64
	Role   models.Role
}

func (r Requester) isAdministrator() bool {
	return r.Role == models.RoleAdministrator
}

// Action names a per-task operation gated by the policy.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionComplete Action = "complete"
	ActionAssign   Action = "assign"
)

// Allowed reports whether r may perform action on task. task may be nil for
// ActionCreate.
func Allowed(r Requester, action Action, task *models.Task) bool {
	switch action {
	case ActionCreate:
		return CanCreate(r)
	case ActionAssign:
		return CanAssign(r)
	}
	if task == nil {
		return false
	}
	switch action {
	case ActionView:
		return CanView(r, *task)
	case ActionEdit:
		return CanEdit(r, *task)
	case ActionDelete:
		return CanDelete(r, *task)
	case ActionComplete:
		return CanComplete(r, *task)
	}
	return false
}

func CanView(r Requester, task models.Task) bool {
	return r.isAdministrator() ||
		task.IsCreatedBy(r.UserID) ||
		task.IsAssignedTo(r.UserID) ||
		r.Role.CanViewAllTasks()
}

func CanCreate(r Requester) bool {
	return r.Role.CanManageTasks()
}

func CanEdit(r Requester, task models.Task) bool {
	return task.IsCreatedBy(r.UserID) ||
		task.IsAssignedTo(r.UserID) ||
		r.Role.CanManageTasks()
}

func CanDelete(r Requester, task models.Task) bool {
	return task.IsCreatedBy(r.UserID) || r.isAdministrator()
}

func CanComplete(r Requester, task models.Task) bool {
	return task.IsCreatedBy(r.UserID) ||
		task.IsAssignedTo(r.UserID) ||
		r.isAdministrator()
}

func CanAssign(r Requester) bool {
	return r.Role.CanAssignTasks()
}

// DeniedRedirectsToList reports whether a denial of a sends the requester back
// to the task list rather than to the task detail.
func (a Action) DeniedRedirectsToList() bool {
	return a == ActionView || a == ActionCreate
}

// DenialMessage is the user-facing notice shown after a denied action.
func (a Action) DenialMessage() string {
	switch a {
	case ActionCreate:
		return "You do not have permission to create tasks."
	case ActionAssign:
		return "You do not have permission to assign tasks."
	default:
		return "You do not have permission to " + string(a) + " this task."
	}
}
