package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile returns the current user's account and profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile edits the fields present in the body
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		FirstName             *string  `json:"first_name" binding:"omitempty,max=150"`
		LastName              *string  `json:"last_name" binding:"omitempty,max=150"`
		Email                 *string  `json:"email" binding:"omitempty,email"`
		Role                  *string  `json:"role"`
		Bio                   *string  `json:"bio"`
		Phone                 *string  `json:"phone" binding:"omitempty,max=20"`
		Department            *string  `json:"department" binding:"omitempty,max=100"`
		WeeklyHoursAvailable  *int     `json:"weekly_hours_available"`
		CurrentHoursAllocated *float64 `json:"current_hours_allocated"`
		IsActiveMember        *bool    `json:"is_active_member"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, err)
		return
	}

	input := services.UpdateProfileInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Bio:                   req.Bio,
		Phone:                 req.Phone,
		Department:            req.Department,
		WeeklyHoursAvailable:  req.WeeklyHoursAvailable,
		CurrentHoursAllocated: req.CurrentHoursAllocated,
		IsActiveMember:        req.IsActiveMember,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.profileService.UpdateProfile(userID, input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   dto.ToUserDTO(*user),
		"notice": dto.Notice{Level: dto.NoticeSuccess, Message: "Profile updated successfully!"},
	})
}

// Team lists active members for requesters who can assign tasks
func (h *ProfileHandler) Team(c *gin.Context) {
	requester, ok := currentRequester(c)
	if !ok {
		return
	}

	users, err := h.profileService.Team(requester)
	if err != nil {
		var permErr *services.PermissionError
		if errors.As(err, &permErr) {
			apierrors.Forbidden(c, permErr.Error())
			return
		}
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToUserDTOs(users),
	})
}
