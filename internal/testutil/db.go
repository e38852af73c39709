// Package testutil provides an in-memory datastore and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database and installs it as the
// package-level database.DB.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: database.Now,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.AddIndexes(db))

	database.SetDB(db)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user with a profile of the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)

	profile := models.NewProfile(user.ID, role)
	require.NoError(t, db.Create(profile).Error)
	user.Profile = profile

	return user
}

// CreateUserWithoutProfile inserts a bare user row.
func CreateUserWithoutProfile(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TaskOption customizes a fixture task before insert.
type TaskOption func(*models.Task)

func AssignedTo(userID uint64) TaskOption {
	return func(t *models.Task) { t.AssignedToID = &userID }
}

func WithStatus(status models.TaskStatus) TaskOption {
	return func(t *models.Task) { t.Status = status }
}

func WithPriority(priority models.TaskPriority) TaskOption {
	return func(t *models.Task) { t.Priority = priority }
}

func WithDescription(description string) TaskOption {
	return func(t *models.Task) { t.Description = description }
}

func WithTags(tags string) TaskOption {
	return func(t *models.Task) { t.Tags = tags }
}

func WithTask(fn func(*models.Task)) TaskOption {
	return fn
}

// CreateTask inserts a pending, medium-priority task created by creatorID.
func CreateTask(t *testing.T, db *gorm.DB, title string, creatorID uint64, opts ...TaskOption) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityMedium,
		CreatedByID: creatorID,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
