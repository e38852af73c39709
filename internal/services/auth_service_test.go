package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/testutil"
)

func TestAuthService_Signup(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewAuthService(repository.NewUserRepository(db))

	user, err := service.Signup(SignupInput{
		Email:      " New.User@Example.com ",
		Password:   "supersecret",
		FirstName:  "New",
		LastName:   "User",
		Role:       models.RoleTester,
		Department: "QA",
		Phone:      "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.RoleTester, user.Profile.Role)
	assert.Equal(t, "QA", user.Profile.Department)

	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)

	_, err = service.Signup(SignupInput{Email: "new.user@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignupDefaultsToDeveloper(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewAuthService(repository.NewUserRepository(db))

	user, err := service.Signup(SignupInput{Email: "plain@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDeveloper, user.Profile.Role)
}

func TestAuthService_SignupValidation(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewAuthService(repository.NewUserRepository(db))

	_, err := service.Signup(SignupInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = service.Signup(SignupInput{Email: "nope", Password: "supersecret"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")

	for _, email := range []string{"a@b", "user@localhost", "x@[127.0.0.1]", "a@-example.com"} {
		_, err = service.Signup(SignupInput{Email: email, Password: "supersecret"})
		require.True(t, errors.As(err, &verr), email)
		assert.Contains(t, verr.Fields, "email", email)
	}

	_, err = service.Signup(SignupInput{Email: "a@example.com", Password: "supersecret", Role: "owner"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "role")
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewAuthService(repository.NewUserRepository(db))

	_, err := service.Signup(SignupInput{Email: "login@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := service.Login(LoginInput{Email: "LOGIN@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)

	_, err = service.Login(LoginInput{Email: "login@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(LoginInput{Email: "missing@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
