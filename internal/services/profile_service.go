package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/gorm"
)

const (
	maxBioLength      = 500
	maxHoursAllocated = 999.99
)

// ProfileService resolves requesters and manages profiles.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// Ensure returns the user's profile, creating one with defaultRole when the
// user has none yet.
func (s *ProfileService) Ensure(userID uint64, defaultRole models.Role) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	profile, err = s.profileRepo.CreateIfMissing(models.NewProfile(userID, defaultRole))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// Requester resolves the user into the identity the policy evaluates.
func (s *ProfileService) Requester(userID uint64, defaultRole models.Role) (policy.Requester, error) {
	profile, err := s.Ensure(userID, defaultRole)
	if err != nil {
		return policy.Requester{}, err
	}
	return policy.Requester{UserID: userID, Role: profile.Role}, nil
}

// GetProfile returns the user with an ensured profile attached.
func (s *ProfileService) GetProfile(userID uint64) (*models.User, error) {
	profile, err := s.Ensure(userID, models.RoleDeveloper)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.Profile = profile
	return user, nil
}

// UpdateProfileInput holds the editable account and profile fields. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	FirstName             *string
	LastName              *string
	Email                 *string
	Role                  *models.Role
	Bio                   *string
	Phone                 *string
	Department            *string
	WeeklyHoursAvailable  *int
	CurrentHoursAllocated *float64
	IsActiveMember        *bool
}

// UpdateProfile applies input to the user and the user's profile.
func (s *ProfileService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile

	verr := &ValidationError{}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			var fe *ValidationError
			if errors.As(err, &fe) {
				verr.add("email", fe.Fields["email"])
			}
		} else if email != user.Email {
			existing, err := s.userRepo.FindByEmail(email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, ErrEmailTaken
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			verr.add("role", fmt.Sprintf("%q is not a valid role", *input.Role))
		} else {
			profile.Role = *input.Role
		}
	}
	if input.Bio != nil {
		if len(*input.Bio) > maxBioLength {
			verr.add("bio", fmt.Sprintf("bio must be at most %d characters", maxBioLength))
		} else {
			profile.Bio = *input.Bio
		}
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Department != nil {
		profile.Department = strings.TrimSpace(*input.Department)
	}
	if input.WeeklyHoursAvailable != nil {
		hours := *input.WeeklyHoursAvailable
		if hours < 0 || hours > constants.MaxWeeklyHours {
			verr.add("weekly_hours_available", fmt.Sprintf("weekly hours must be between 0 and %d", constants.MaxWeeklyHours))
		} else {
			profile.WeeklyHoursAvailable = uint(hours)
		}
	}
	if input.CurrentHoursAllocated != nil {
		hours := *input.CurrentHoursAllocated
		if hours < 0 || hours > maxHoursAllocated {
			verr.add("current_hours_allocated", "allocated hours must be between 0 and 999.99")
		} else {
			profile.CurrentHoursAllocated = hours
		}
	}
	if input.IsActiveMember != nil {
		profile.IsActiveMember = *input.IsActiveMember
	}

	if err := verr.err(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// Team lists the active members a requester can assign work to.
func (s *ProfileService) Team(r policy.Requester) ([]models.User, error) {
	if !policy.CanAssign(r) {
		return nil, &PermissionError{Action: policy.ActionAssign}
	}

	users, err := s.userRepo.ListActiveMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return users, nil
}
