package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DisplayName string      `json:"display_name"`
	Profile     *ProfileDTO `json:"profile,omitempty"`
}

// UserSummaryDTO is the short form embedded in tasks
type UserSummaryDTO struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ProfileDTO represents a profile with its derived display values
type ProfileDTO struct {
	Role                   models.Role         `json:"role"`
	RoleDisplay            string              `json:"role_display"`
	RoleColor              string              `json:"role_color"`
	Department             string              `json:"department"`
	Phone                  string              `json:"phone"`
	Bio                    string              `json:"bio"`
	WeeklyHoursAvailable   uint                `json:"weekly_hours_available"`
	CurrentHoursAllocated  float64             `json:"current_hours_allocated"`
	AvailabilityPercentage float64             `json:"availability_percentage"`
	AvailabilityLabel      string              `json:"availability_label"`
	IsActiveMember         bool                `json:"is_active_member"`
	JoinDate               time.Time           `json:"join_date"`
	Capabilities           models.Capabilities `json:"capabilities"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName(),
	}

	// Include profile if preloaded
	if user.Profile != nil {
		profile := ToProfileDTO(*user.Profile)
		dto.Profile = &profile
	}

	return dto
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, user := range users {
		out[i] = ToUserDTO(user)
	}
	return out
}

func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
	}
}

// ToProfileDTO converts a Profile model to ProfileDTO
func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{
		Role:                   profile.Role,
		RoleDisplay:            profile.Role.DisplayName(),
		RoleColor:              profile.Role.Color(),
		Department:             profile.Department,
		Phone:                  profile.Phone,
		Bio:                    profile.Bio,
		WeeklyHoursAvailable:   profile.WeeklyHoursAvailable,
		CurrentHoursAllocated:  profile.CurrentHoursAllocated,
		AvailabilityPercentage: profile.AvailabilityPercentage(),
		AvailabilityLabel:      profile.AvailabilityLabel(),
		IsActiveMember:         profile.IsActiveMember,
		JoinDate:               profile.JoinDate,
		Capabilities:           profile.Role.Capabilities(),
	}
}
