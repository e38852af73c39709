package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/services"
)

func taskPath(taskID uint64) string {
	return fmt.Sprintf("%s/%d", constants.TaskListPath, taskID)
}

// redirect answers 303 See Other. The notice is also queued as a session
// flash so that clients following the Location header still see it.
func redirect(c *gin.Context, location string, notice *dto.Notice, task *dto.TaskDTO) {
	if notice != nil {
		session := sessions.Default(c)
		session.AddFlash(*notice)
		if err := session.Save(); err != nil {
			log.Printf("failed to save notice: %v", err)
		}
	}

	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, dto.RedirectResponse{
		RedirectTo: location,
		Notice:     notice,
		Task:       task,
	})
}

func notice(level dto.NoticeLevel, format string, args ...any) *dto.Notice {
	return &dto.Notice{Level: level, Message: fmt.Sprintf(format, args...)}
}

// currentRequester reads the requester set by middleware.LoadRequester.
func currentRequester(c *gin.Context) (policy.Requester, bool) {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		apierrors.InternalError(c, "Requester not found in context")
	}
	return requester, ok
}

func currentTaskID(c *gin.Context) (uint64, bool) {
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
	}
	return taskID, ok
}

// respondTaskError maps task service errors. Policy denials are not errors
// to the client: they redirect with an error notice.
func respondTaskError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &permErr):
		location := constants.TaskListPath
		if !permErr.Action.DeniedRedirectsToList() && permErr.TaskID != 0 {
			location = taskPath(permErr.TaskID)
		}
		redirect(c, location, notice(dto.NoticeError, "%s", permErr.Error()), nil)
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Fields)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		log.Printf("request %s failed: %v", c.GetString(constants.ContextKeyRequestID), err)
		apierrors.InternalError(c, "Internal server error")
	}
}
