package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/testutil"
)

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestTaskRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "x@example.com", models.RoleManager)

	testutil.CreateTask(t, db, "Task A", creator.ID)
	testutil.CreateTask(t, db, "Task B", creator.ID)

	tasks, page, err := repo.List(TaskFilter{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"Task B", "Task A"}, titles(tasks))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Number)
}

func TestTaskRepository_ListSearch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "x@example.com", models.RoleManager)

	testutil.CreateTask(t, db, "Frontend development", creator.ID)
	testutil.CreateTask(t, db, "Backend API", creator.ID)
	testutil.CreateTask(t, db, "Database testing", creator.ID, testutil.WithTags("testing"))

	tasks, _, err := repo.List(TaskFilter{Scope: ScopeAll, Search: "testing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Database testing"}, titles(tasks))

	// case-insensitive, matches description and tags too
	testutil.CreateTask(t, db, "Release", creator.ID, testutil.WithDescription("Run the TESTING suite"))
	testutil.CreateTask(t, db, "Chores", creator.ID, testutil.WithTags("ops, Testing"))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, Search: "TeStInG"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Database testing", "Release", "Chores"}, titles(tasks))
}

func TestTaskRepository_ListSearchIsLiteral(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "x@example.com", models.RoleManager)

	testutil.CreateTask(t, db, "100% done", creator.ID)
	testutil.CreateTask(t, db, "1000 rows", creator.ID)
	testutil.CreateTask(t, db, "snake_case", creator.ID)
	testutil.CreateTask(t, db, "snakeXcase", creator.ID)

	tasks, _, err := repo.List(TaskFilter{Scope: ScopeAll, Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% done"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, Search: "e_c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"snake_case"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, Search: " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000 rows", "100% done"}, titles(tasks))
}

func TestTaskRepository_ListScopes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	manager := testutil.CreateUser(t, db, "manager@example.com", models.RoleManager)
	dev := testutil.CreateUser(t, db, "dev@example.com", models.RoleDeveloper)

	testutil.CreateTask(t, db, "Unrelated", manager.ID)
	testutil.CreateTask(t, db, "Assigned", manager.ID, testutil.AssignedTo(dev.ID))
	testutil.CreateTask(t, db, "Own", dev.ID)
	testutil.CreateTask(t, db, "Own and assigned", dev.ID, testutil.AssignedTo(dev.ID))

	tasks, _, err := repo.List(TaskFilter{Scope: ScopeOwned, UserID: dev.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Own and assigned", "Own", "Assigned"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAssigned, UserID: dev.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Own and assigned", "Assigned"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	manager := testutil.CreateUser(t, db, "manager@example.com", models.RoleManager)
	dev := testutil.CreateUser(t, db, "dev@example.com", models.RoleDeveloper)

	testutil.CreateTask(t, db, "Urgent pending", manager.ID, testutil.WithPriority(models.TaskPriorityUrgent))
	testutil.CreateTask(t, db, "Urgent done", manager.ID,
		testutil.WithPriority(models.TaskPriorityUrgent),
		testutil.WithStatus(models.TaskStatusCompleted),
		testutil.AssignedTo(dev.ID),
	)
	testutil.CreateTask(t, db, "Low", dev.ID, testutil.WithPriority(models.TaskPriorityLow))

	urgent := models.TaskPriorityUrgent
	completed := models.TaskStatusCompleted

	tasks, _, err := repo.List(TaskFilter{Scope: ScopeAll, Priority: &urgent})
	require.NoError(t, err)
	assert.Equal(t, []string{"Urgent done", "Urgent pending"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, Priority: &urgent, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, []string{"Urgent done"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, CreatedByID: &dev.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Low"}, titles(tasks))

	tasks, _, err = repo.List(TaskFilter{Scope: ScopeAll, AssignedToID: &dev.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Urgent done"}, titles(tasks))
}

func TestTaskRepository_ListPagination(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "x@example.com", models.RoleManager)

	for i := 0; i < 14; i++ {
		testutil.CreateTask(t, db, "Task", creator.ID)
	}

	tasks, page, err := repo.List(TaskFilter{Scope: ScopeAll, Page: 1})
	require.NoError(t, err)
	assert.Len(t, tasks, 12)
	assert.Equal(t, 2, page.TotalPages)

	tasks, page, err = repo.List(TaskFilter{Scope: ScopeAll, Page: 2})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 2, page.Number)

	// out of range clamps to the last page
	tasks, page, err = repo.List(TaskFilter{Scope: ScopeAll, Page: 99})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, 2, page.Number)

	tasks, page, err = repo.List(TaskFilter{Scope: ScopeAll, Page: -3})
	require.NoError(t, err)
	assert.Len(t, tasks, 12)
	assert.Equal(t, 1, page.Number)
}

func TestTaskRepository_ListEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)

	tasks, page, err := repo.List(TaskFilter{Scope: ScopeAll, Page: 5})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
}

func TestTaskRepository_Stats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	manager := testutil.CreateUser(t, db, "manager@example.com", models.RoleManager)
	dev := testutil.CreateUser(t, db, "dev@example.com", models.RoleDeveloper)

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	due := func(at time.Time) testutil.TaskOption {
		return testutil.WithTask(func(task *models.Task) { task.DueDate = &at })
	}

	testutil.CreateTask(t, db, "overdue pending", dev.ID, due(past))
	testutil.CreateTask(t, db, "overdue in progress", manager.ID,
		testutil.AssignedTo(dev.ID), testutil.WithStatus(models.TaskStatusInProgress), due(past))
	testutil.CreateTask(t, db, "late but completed", dev.ID, testutil.WithStatus(models.TaskStatusCompleted), due(past))
	testutil.CreateTask(t, db, "late but cancelled", dev.ID, testutil.WithStatus(models.TaskStatusCancelled), due(past))
	testutil.CreateTask(t, db, "not due yet", dev.ID, due(future))
	testutil.CreateTask(t, db, "someone else's", manager.ID, due(past))

	stats, err := repo.Stats(dev.ID, now)
	require.NoError(t, err)
	assert.Equal(t, TaskStats{
		Total:      5,
		Pending:    2,
		InProgress: 1,
		Completed:  1,
		Overdue:    2,
	}, stats)

	empty, err := repo.Stats(9999, now)
	require.NoError(t, err)
	assert.Equal(t, TaskStats{}, empty)
}

func TestTaskRepository_StatsOverdueAcrossZones(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	dev := testutil.CreateUser(t, db, "dev@example.com", models.RoleDeveloper)

	now := time.Now().UTC()
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)
	due := func(at time.Time) testutil.TaskOption {
		return testutil.WithTask(func(task *models.Task) { task.DueDate = &at })
	}

	testutil.CreateTask(t, db, "past in utc", dev.ID, due(now.Add(-time.Hour)))
	testutil.CreateTask(t, db, "past in tokyo", dev.ID, due(now.Add(-time.Hour).In(tokyo)))
	testutil.CreateTask(t, db, "future in new york", dev.ID, due(now.Add(time.Hour).In(newYork)))

	stats, err := repo.Stats(dev.ID, now.In(tokyo))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Overdue)

	var stored models.Task
	require.NoError(t, db.Where("title = ?", "past in tokyo").First(&stored).Error)
	require.NotNil(t, stored.DueDate)
	_, offset := stored.DueDate.Zone()
	assert.Equal(t, 0, offset)
	assert.True(t, stored.DueDate.Equal(now.Add(-time.Hour)))
}

func TestTaskRepository_Recent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	dev := testutil.CreateUser(t, db, "dev@example.com", models.RoleDeveloper)
	other := testutil.CreateUser(t, db, "other@example.com", models.RoleManager)

	testutil.CreateTask(t, db, "one", dev.ID, testutil.WithPriority(models.TaskPriorityUrgent))
	testutil.CreateTask(t, db, "two", dev.ID)
	testutil.CreateTask(t, db, "three", other.ID, testutil.AssignedTo(dev.ID), testutil.WithPriority(models.TaskPriorityUrgent))
	testutil.CreateTask(t, db, "hidden", other.ID, testutil.WithPriority(models.TaskPriorityUrgent))

	recent, err := repo.Recent(dev.ID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, titles(recent))

	urgent := models.TaskPriorityUrgent
	recent, err = repo.Recent(dev.ID, &urgent, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "one"}, titles(recent))
	require.NotNil(t, recent[0].AssignedTo)
	assert.Equal(t, dev.ID, recent[0].AssignedTo.ID)
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "x@example.com", models.RoleManager)
	task := testutil.CreateTask(t, db, "Original", creator.ID)

	loaded, err := repo.FindByID(task.ID, "CreatedBy")
	require.NoError(t, err)
	assert.Equal(t, creator.Email, loaded.CreatedBy.Email)

	loaded.Title = "Renamed"
	require.NoError(t, repo.Update(loaded))

	reloaded, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Title)
	assert.True(t, reloaded.CreatedAt.Equal(task.CreatedAt))

	require.NoError(t, repo.Delete(task.ID))
	_, err = repo.FindByID(task.ID)
	assert.Error(t, err)
}

func TestTaskRepository_UserDeletionCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	creator := testutil.CreateUser(t, db, "creator@example.com", models.RoleManager)
	assignee := testutil.CreateUser(t, db, "assignee@example.com", models.RoleDeveloper)

	owned := testutil.CreateTask(t, db, "Owned by creator", creator.ID)
	assigned := testutil.CreateTask(t, db, "Assigned", assignee.ID, testutil.AssignedTo(creator.ID))

	require.NoError(t, db.Delete(&models.User{}, creator.ID).Error)

	_, err := repo.FindByID(owned.ID)
	assert.Error(t, err)

	kept, err := repo.FindByID(assigned.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.AssignedToID)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "50!% off!_now!!", escapeLike("50% off_now!"))
	assert.Equal(t, "plain", escapeLike("plain"))
}
