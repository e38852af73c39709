package dto

import (
	"encoding/gob"
	"time"

	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
)

// DashboardResponse is the body of GET /api/dashboard
type DashboardResponse struct {
	Stats       repository.TaskStats `json:"stats"`
	RecentTasks []TaskDTO            `json:"recent_tasks"`
	UrgentTasks []TaskDTO            `json:"urgent_tasks"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func ToDashboardResponse(d services.Dashboard) DashboardResponse {
	return DashboardResponse{
		Stats:       d.Stats,
		RecentTasks: ToTaskDTOs(d.RecentTasks, d.GeneratedAt),
		UrgentTasks: ToTaskDTOs(d.UrgentTasks, d.GeneratedAt),
		GeneratedAt: d.GeneratedAt,
	}
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message stored in the session and shown to the user
// on their next request.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Session stores encode flashes with gob.
func init() {
	gob.Register(Notice{})
}

// RedirectResponse accompanies every 303 answer
type RedirectResponse struct {
	RedirectTo string   `json:"redirect_to"`
	Notice     *Notice  `json:"notice,omitempty"`
	Task       *TaskDTO `json:"task,omitempty"`
}

type NoticesResponse struct {
	Notices []Notice `json:"notices"`
}
