package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns stats and highlights for the current user
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Build(requester)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(*dashboard))
}

// Notices drains the flash notices queued in the session
func Notices(c *gin.Context) {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	notices := make([]dto.Notice, 0, len(flashes))
	for _, flash := range flashes {
		switch v := flash.(type) {
		case dto.Notice:
			notices = append(notices, v)
		case string:
			notices = append(notices, dto.Notice{Level: dto.NoticeInfo, Message: v})
		}
	}

	c.JSON(http.StatusOK, dto.NoticesResponse{Notices: notices})
}
